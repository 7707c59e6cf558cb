package account

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ydaci/lillehelperplatform/internal/metrics"

	"github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Repository hides the three role partitions behind one interface.
type Repository interface {
	// FindByEmailAcrossPartitions returns the first account using email in
	// any partition, or ErrAccountNotFound.
	FindByEmailAcrossPartitions(ctx context.Context, email string) (*Account, error)
	// FindByEmail looks in role's partition only.
	FindByEmail(ctx context.Context, role Role, email string) (*Account, error)
	Create(ctx context.Context, acc *Account) (*Account, error)
	ListTeachers(ctx context.Context) ([]Teacher, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

func (r *repository) FindByEmailAcrossPartitions(ctx context.Context, email string) (*Account, error) {
	for _, role := range Partitions() {
		acc, err := r.FindByEmail(ctx, role, email)
		if errors.Is(err, ErrAccountNotFound) {
			continue
		}
		return acc, err
	}
	return nil, ErrAccountNotFound
}

func (r *repository) FindByEmail(ctx context.Context, role Role, email string) (*Account, error) {
	rec, err := newRecord(role)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	err = r.db.NewSelect().
		Model(rec).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)

	r.metrics.DB().RecordQuery(ctx, "select", role.Table(), time.Since(start), ignoreNoRows(err))

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, storageError("select "+role.Table(), err)
	}
	return rec.account(), nil
}

func (r *repository) Create(ctx context.Context, acc *Account) (*Account, error) {
	rec, err := recordFrom(acc)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	_, err = r.db.NewInsert().Model(rec).Returning("*").Exec(ctx)

	r.metrics.DB().RecordQuery(ctx, "insert", acc.Role.Table(), time.Since(start), err)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, storageError("insert "+acc.Role.Table(), err)
	}
	return rec.account(), nil
}

func (r *repository) ListTeachers(ctx context.Context) ([]Teacher, error) {
	start := time.Now()
	teachers := make([]Teacher, 0)
	err := r.db.NewSelect().Model(&teachers).OrderExpr("id ASC").Scan(ctx)

	r.metrics.DB().RecordQuery(ctx, "select", RoleTeacher.Table(), time.Since(start), err)

	if err != nil {
		return nil, storageError("select teachers", err)
	}
	return teachers, nil
}

func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

// isUniqueViolation recognizes duplicate-key errors from both drivers.
func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}
