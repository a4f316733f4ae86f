package domain

import (
	"context"
	"time"
)

// DefaultEventImage is used when an event has no image or its image URL does
// not resolve to an image resource.
const DefaultEventImage = "/default-event.jpg"

// Event represents a campus event. DateTime is stored and compared in UTC;
// CreatedByID is immutable after creation.
// swagger:model Event
type Event struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  *string     `json:"description"`
	Location     string      `json:"location"`
	DateTime     time.Time   `json:"date_time"`
	ImageURL     string      `json:"image_url"`
	CreatedByID  int64       `json:"created_by_id"`
	Organization string      `json:"organization,omitempty"`
	Categories   []*Category `json:"categories"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is assigned on create.
func NewEvent(name string, description *string, location string, dateTime time.Time, imageURL string, createdByID int64, createdAt, updatedAt time.Time) *Event {
	if imageURL == "" {
		imageURL = DefaultEventImage
	}
	return &Event{
		Name:        name,
		Description: description,
		Location:    location,
		DateTime:    dateTime.UTC(),
		ImageURL:    imageURL,
		CreatedByID: createdByID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// Upcoming reports whether the event is upcoming relative to now. The boundary
// is inclusive: an event starting exactly at now is upcoming.
func (e *Event) Upcoming(now time.Time) bool {
	return !e.DateTime.Before(now)
}

// EventFilter narrows event listings. Zero values mean "no constraint".
type EventFilter struct {
	FutureOnly       bool
	Now              time.Time // reference instant for FutureOnly; zero means wall clock
	OwnerID          int64
	InterestedUserID int64
	Name             string // case-insensitive substring
	Location         string // case-insensitive substring
	Organization     string // case-insensitive substring on the owner's organization
	CategoryID       int64
	OnCivilDay       *time.Time // match events on the same Hawaii calendar day
	From             *time.Time // inclusive lower bound on DateTime
	To               *time.Time // exclusive upper bound on DateTime
}

// EventFields carries the mutable event attributes for create and update.
type EventFields struct {
	Name        string
	Description *string
	Location    string
	DateTime    time.Time
	ImageURL    string
}

// EventRepository defines the interface for event storage. Create and Update
// apply the category set in the same transaction as the field write: a
// rejected category id leaves every stored field untouched.
type EventRepository interface {
	Create(ctx context.Context, event *Event, categoryIDs []int64) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
	Update(ctx context.Context, id string, fields EventFields, categoryIDs []int64) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// InterestRepository stores the User↔Event interest relation. Toggle must be
// a single atomic flip at the persistence layer, not an application-level
// check-then-act.
type InterestRepository interface {
	Toggle(ctx context.Context, userID int64, eventID string) (interested bool, err error)
	IsInterested(ctx context.Context, userID int64, eventID string) (bool, error)
}

// EventService defines the event operations gated by the authorization
// predicate. Every method takes the acting identity explicitly.
type EventService interface {
	CreateEvent(ctx context.Context, actor Actor, fields EventFields, categoryIDs []int64) (*Event, error)
	GetEvent(ctx context.Context, actor Actor, id string) (*Event, error)
	ListEvents(ctx context.Context, actor Actor, filter EventFilter) ([]*Event, error)
	ListMyEvents(ctx context.Context, actor Actor) ([]*Event, error)
	UpdateEvent(ctx context.Context, actor Actor, id string, fields EventFields, categoryIDs []int64) (*Event, error)
	DeleteEvent(ctx context.Context, actor Actor, id string) error
	ToggleInterest(ctx context.Context, actor Actor, eventID string) (interested bool, err error)
	GetInterest(ctx context.Context, actor Actor, eventID string) (interested bool, err error)
	ListCategories(ctx context.Context) ([]*Category, error)
}
