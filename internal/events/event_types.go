package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/garage-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered    EventType = "account_registered"
	EventReviewSubmitted      EventType = "review_submitted"
	EventPreferredGarageAdded EventType = "preferred_garage_added"
	EventGarageUpdated        EventType = "garage_updated"
)

// Actor identifies who caused an event.
type Actor struct {
	AccountID string      `json:"account_id"`
	Role      domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	GarageID  string      `json:"garage_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with an id and the current time.
func New(eventType EventType, actor Actor, garageID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		GarageID:  garageID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	Email string `json:"email"`
}

// ReviewSubmittedPayload payload.
type ReviewSubmittedPayload struct {
	ReviewID string         `json:"review_id"`
	Rating   int            `json:"rating"`
	Ratings  domain.Ratings `json:"ratings"`
}

// PreferredGarageAddedPayload payload.
type PreferredGarageAddedPayload struct {
	PreferredCount int `json:"preferred_count"`
}

// GarageUpdatedPayload names the part of the garage that changed.
type GarageUpdatedPayload struct {
	Change string `json:"change"`
}

// Garage change kinds carried by GarageUpdatedPayload.
const (
	ChangeProfile     = "profile"
	ChangeServices    = "services"
	ChangeHours       = "operating_hours"
	ChangeSpecialties = "specialties"
	ChangeRegistered  = "registered"
)
