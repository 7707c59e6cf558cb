package notification

const (
	KindAccountRegistered = "account.registered"
	KindEventCreated      = "event.created"
)

// Envelope is the wire shape of every published message.
type Envelope struct {
	Kind string      `json:"kind"`
	Data interface{} `json:"data"`
}

type AccountRegistered struct {
	ID    int64  `json:"id"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

type EventCreated struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	EventDate string `json:"eventDate"`
	Type      string `json:"type,omitempty"`
}
