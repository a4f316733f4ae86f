package domain

// Actor is the identity performing an operation, resolved once per request
// from the session token and passed explicitly into every service call.
// The zero value is the anonymous actor.
type Actor struct {
	UserID int64
	Role   Role
}

// Anonymous is the unauthenticated actor.
var Anonymous = Actor{}

// Authenticated reports whether the actor carries a valid identity.
func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

// Operation is a requested action over an event or the event collection.
type Operation int

const (
	OpListEvents Operation = iota
	OpReadEvent
	OpCreateEvent
	OpUpdateEvent
	OpDeleteEvent
	OpToggleInterest
	OpListOwnEvents
)

func (op Operation) mutating() bool {
	switch op {
	case OpCreateEvent, OpUpdateEvent, OpDeleteEvent, OpToggleInterest:
		return true
	}
	return false
}

// Authorize decides whether the actor may perform op on the given event.
// It is a pure function of its arguments and returns nil, ErrUnauthorized,
// or ErrForbidden. Rules are evaluated in order; the first match wins:
//
//  1. Anonymous actors may only browse — every mutating operation, the
//     interest read, and the own-events listing require identity.
//  2. USER never authors events.
//  3. ORGANIZER and ADMIN may create; the caller becomes the owner.
//  4. Update/Delete: ADMIN unconditionally; ORGANIZER only on owned events.
//  5. ToggleInterest: USER only — organizers do not RSVP, including to
//     their own events.
//
// Existence is not decided here: callers resolve the event first (returning
// ErrNotFound) and invoke Authorize with the found snapshot, so identity is
// checked before existence and existence before ownership.
func Authorize(actor Actor, op Operation, event *Event) error {
	if !actor.Authenticated() {
		if op.mutating() || op == OpListOwnEvents {
			return ErrUnauthorized
		}
		return nil
	}

	switch op {
	case OpListEvents, OpReadEvent:
		return nil

	case OpCreateEvent, OpListOwnEvents:
		if !actor.Role.CanAuthorEvents() && op == OpCreateEvent {
			return ErrForbidden
		}
		return nil

	case OpUpdateEvent, OpDeleteEvent:
		switch actor.Role {
		case RoleAdmin:
			return nil
		case RoleOrganizer:
			if event != nil && event.CreatedByID == actor.UserID {
				return nil
			}
			return ErrForbidden
		default:
			return ErrForbidden
		}

	case OpToggleInterest:
		if actor.Role == RoleUser {
			return nil
		}
		return ErrForbidden
	}
	return ErrForbidden
}
