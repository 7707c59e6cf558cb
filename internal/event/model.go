package event

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

const dateLayout = "2006-01-02"

type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Title       string    `bun:"title,notnull" json:"title"`
	EventDate   time.Time `bun:"event_date,type:date,notnull" json:"eventDate"`
	Frequency   string    `bun:"frequency,notnull" json:"frequency"`
	Location    string    `bun:"location,notnull" json:"location"`
	Description string    `bun:"description,notnull" json:"description"`
	Type        string    `bun:"type,nullzero" json:"type,omitempty"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// MarshalJSON renders EventDate as a calendar date.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	return json.Marshal(struct {
		plain
		EventDate string `json:"eventDate"`
	}{
		plain:     plain(e),
		EventDate: e.EventDate.Format(dateLayout),
	})
}

func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	aux := struct {
		*plain
		EventDate string `json:"eventDate"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.EventDate == "" {
		return nil
	}
	date, err := time.Parse(dateLayout, aux.EventDate)
	if err != nil {
		return err
	}
	e.EventDate = date
	return nil
}

// Date returns the event date as YYYY-MM-DD.
func (e *Event) Date() string {
	return e.EventDate.Format(dateLayout)
}

type CreateEventRequest struct {
	Title       string `json:"title" validate:"required"`
	EventDate   string `json:"eventDate" validate:"required,datetime=2006-01-02"`
	Frequency   string `json:"frequency" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Description string `json:"description" validate:"required"`
	Type        string `json:"type" validate:"omitempty,eventtype"`
}
