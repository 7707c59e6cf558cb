package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"reflect"
	"time"

	"github.com/ydaci/lillehelperplatform/internal/config"

	"github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Text comparisons on MySQL are made binary so they match Postgres:
// "Foo@x.io" and "foo@x.io" are different values on both backends.
const mysqlCollation = "utf8mb4_bin"

// New opens the configured backend and verifies it answers a ping.
// The returned handle is meant to be created once and shared by every
// repository.
func New(ctx context.Context, cfg config.DatabaseConfig) (*bun.DB, error) {
	var (
		db  *bun.DB
		err error
	)

	switch cfg.Driver {
	case "", DriverPostgres:
		db = NewWithDSN(postgresDSN(cfg))
	case DriverMySQL:
		db, err = newMySQL(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	configurePool(db, cfg)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driverName(cfg), err)
	}

	slog.InfoContext(ctx, "database connected successfully", "driver", driverName(cfg))
	return db, nil
}

// NewWithDSN opens a Postgres handle for dsn without pinging it (useful for testing).
func NewWithDSN(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func postgresDSN(cfg config.DatabaseConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		sslMode,
	)
}

func newMySQL(cfg config.DatabaseConfig) (*bun.DB, error) {
	dsn := cfg.URL
	if dsn == "" {
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
		mc.DBName = cfg.DBName
		mc.ParseTime = true
		mc.Collation = mysqlCollation
		dsn = mc.FormatDSN()
	}

	sqldb, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql database: %w", err)
	}
	return bun.NewDB(sqldb, mysqldialect.New()), nil
}

func driverName(cfg config.DatabaseConfig) string {
	if cfg.Driver == "" {
		return DriverPostgres
	}
	return cfg.Driver
}

func configurePool(db *bun.DB, cfg config.DatabaseConfig) {
	sqlDB := db.DB

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 10
	}
	sqlDB.SetMaxOpenConns(maxOpen)

	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 5
	}
	sqlDB.SetMaxIdleConns(maxIdle)

	connMaxLifetime := cfg.ConnMaxLifetime
	if connMaxLifetime == 0 {
		connMaxLifetime = 300
	}
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	connMaxIdleTime := cfg.ConnMaxIdleTime
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 60
	}
	sqlDB.SetConnMaxIdleTime(time.Duration(connMaxIdleTime) * time.Second)

	slog.Info("database pool configured",
		"max_open_conns", maxOpen,
		"max_idle_conns", maxIdle,
		"conn_max_lifetime_seconds", connMaxLifetime,
		"conn_max_idle_time_seconds", connMaxIdleTime,
	)
}

func Close(db *bun.DB) {
	if db != nil {
		db.Close()
	}
}

// RunMigrations creates a table for every model that does not have one yet.
func RunMigrations(ctx context.Context, db *bun.DB, models ...interface{}) error {
	for _, model := range models {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table for model %T: %w", model, err)
		}

		if db.Dialect().Name() == dialect.MySQL {
			if err := binaryCollation(ctx, db, model); err != nil {
				return err
			}
		}
	}
	slog.InfoContext(ctx, "database migrations completed successfully", "tables", len(models))
	return nil
}

func binaryCollation(ctx context.Context, db *bun.DB, model interface{}) error {
	table := db.Table(reflect.TypeOf(model))
	_, err := db.ExecContext(ctx,
		"ALTER TABLE ? CONVERT TO CHARACTER SET utf8mb4 COLLATE "+mysqlCollation,
		bun.Ident(table.Name),
	)
	if err != nil {
		return fmt.Errorf("failed to set collation on %s: %w", table.Name, err)
	}
	return nil
}
