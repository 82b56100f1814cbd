package core

// An Event is a scheduled card of an organization. Articles can reference
// an event for editorial context.
type Event struct {
	ID       int
	OrgID    int
	Name     string
	Venue    string
	City     string
	StartsAt int64 // unix timestamp
}

type EventDB interface {
	DeleteEvent(id int) error
	GetEvent(id int) (*Event, error)
	GetAllEvents(limit, offset int) ([]Event, error)
	GetUpcomingEvents(after int64, limit int) ([]Event, error)
	InsertEvent(e *Event) error // sets e.ID
	UpdateEvent(e *Event) error
}
