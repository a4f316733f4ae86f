package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"warriorhub/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	categoryRepo   domain.CategoryRepository
	interestRepo   domain.InterestRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	imageValidator domain.ImageValidator
	contextTimeout time.Duration
}

// NewEventService creates an EventService with the given collaborators.
// emailService and imageValidator may be nil; the service degrades gracefully
// without them.
func NewEventService(eventRepo domain.EventRepository,
	categoryRepo domain.CategoryRepository,
	interestRepo domain.InterestRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	imageValidator domain.ImageValidator,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		categoryRepo:   categoryRepo,
		interestRepo:   interestRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		imageValidator: imageValidator,
		contextTimeout: timeout,
	}
}

func validateEventFields(fields domain.EventFields) error {
	if strings.TrimSpace(fields.Name) == "" {
		return domain.ErrInvalidInput
	}
	if strings.TrimSpace(fields.Location) == "" {
		return domain.ErrInvalidInput
	}
	if fields.DateTime.IsZero() {
		return domain.ErrInvalidInput
	}
	return nil
}

// resolveImageURL returns the image URL to store: the requested one if it
// resolves to an image, otherwise the default placeholder.
func (s *eventService) resolveImageURL(ctx context.Context, url string) string {
	if url == "" {
		return domain.DefaultEventImage
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		// Relative paths are served by the frontend and not probed.
		return url
	}
	if s.imageValidator != nil && !s.imageValidator.IsImage(ctx, url) {
		return domain.DefaultEventImage
	}
	return url
}

func (s *eventService) CreateEvent(ctx context.Context, actor domain.Actor, fields domain.EventFields, categoryIDs []int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(actor, domain.OpCreateEvent, nil); err != nil {
		return nil, err
	}
	if err := validateEventFields(fields); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	event := domain.NewEvent(
		strings.TrimSpace(fields.Name),
		fields.Description,
		strings.TrimSpace(fields.Location),
		fields.DateTime,
		s.resolveImageURL(ctx, fields.ImageURL),
		actor.UserID,
		now, now,
	)

	ids := domain.DedupeCategoryIDs(categoryIDs)
	if err := s.eventRepo.Create(ctx, event, ids); err != nil {
		var invalid *domain.InvalidCategoryError
		if errors.As(err, &invalid) {
			return nil, err
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, actor domain.Actor, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, actor domain.Actor, filter domain.EventFilter) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

// ListMyEvents returns the role-dependent "my events" view: a USER sees
// events they marked interest in, an ORGANIZER sees events they own, and an
// ADMIN gets the full list.
func (s *eventService) ListMyEvents(ctx context.Context, actor domain.Actor) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.Authorize(actor, domain.OpListOwnEvents, nil); err != nil {
		return nil, err
	}

	var filter domain.EventFilter
	switch actor.Role {
	case domain.RoleUser:
		filter.InterestedUserID = actor.UserID
	case domain.RoleOrganizer:
		filter.OwnerID = actor.UserID
	case domain.RoleAdmin:
		// Admins land on the full listing.
	default:
		return nil, domain.ErrForbidden
	}

	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list my events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, actor domain.Actor, id string, fields domain.EventFields, categoryIDs []int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := domain.Authorize(actor, domain.OpUpdateEvent, event); err != nil {
		return nil, err
	}
	if err := validateEventFields(fields); err != nil {
		return nil, err
	}
	fields.Name = strings.TrimSpace(fields.Name)
	fields.Location = strings.TrimSpace(fields.Location)
	fields.DateTime = fields.DateTime.UTC()
	fields.ImageURL = s.resolveImageURL(ctx, fields.ImageURL)

	ids := domain.DedupeCategoryIDs(categoryIDs)
	updated, err := s.eventRepo.Update(ctx, id, fields, ids)
	if err != nil {
		var invalid *domain.InvalidCategoryError
		if errors.As(err, &invalid) {
			return nil, err
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}

	s.notifyOwnerOfAdminChange(ctx, actor, event, "updated")
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, actor domain.Actor, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !actor.Authenticated() {
		return domain.ErrUnauthorized
	}
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := domain.Authorize(actor, domain.OpDeleteEvent, event); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}

	s.notifyOwnerOfAdminChange(ctx, actor, event, "deleted")
	return nil
}

// notifyOwnerOfAdminChange emails the owning organizer when an admin touches
// their event. Best-effort: a mail failure never affects the write outcome.
func (s *eventService) notifyOwnerOfAdminChange(ctx context.Context, actor domain.Actor, event *domain.Event, action string) {
	if s.emailService == nil || actor.Role != domain.RoleAdmin || event.CreatedByID == actor.UserID {
		return
	}
	owner, err := s.userRepo.GetByID(ctx, event.CreatedByID)
	if err != nil || owner == nil {
		return
	}
	_ = s.emailService.SendEventChanged(ctx, &domain.EventChangedEmailData{
		Email:     owner.Email,
		EventName: event.Name,
		Action:    action,
	})
}

func (s *eventService) ToggleInterest(ctx context.Context, actor domain.Actor, eventID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !actor.Authenticated() {
		return false, domain.ErrUnauthorized
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("get event: %w", err)
	}
	if err := domain.Authorize(actor, domain.OpToggleInterest, event); err != nil {
		return false, err
	}
	interested, err := s.interestRepo.Toggle(ctx, actor.UserID, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("toggle interest: %w", err)
	}
	return interested, nil
}

func (s *eventService) GetInterest(ctx context.Context, actor domain.Actor, eventID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !actor.Authenticated() {
		return false, domain.ErrUnauthorized
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("get event: %w", err)
	}
	interested, err := s.interestRepo.IsInterested(ctx, actor.UserID, eventID)
	if err != nil {
		return false, fmt.Errorf("get interest: %w", err)
	}
	return interested, nil
}

func (s *eventService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	return categories, nil
}
