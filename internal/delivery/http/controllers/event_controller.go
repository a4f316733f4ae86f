package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"warriorhub/internal/delivery/http/helpers"
	"warriorhub/internal/delivery/http/middleware"
	"warriorhub/internal/domain"
)

// EventController handles event CRUD, browsing, and interest endpoints.
type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// writeEventError maps the service error taxonomy onto the response envelope.
// The ordering guarantees (401 before 404 before 403) are enforced in the
// service; this only translates.
func (c *EventController) writeEventError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *domain.InvalidCategoryError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.As(err, &invalid):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, invalid.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid input")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	}
}

// EventRequest is the request body for POST /events and PUT /events/{eventID}.
// DateTime is a civil Hawaii-time string, e.g. "2025-03-15T18:30".
type EventRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Location    string  `json:"location"`
	DateTime    string  `json:"date_time"`
	ImageURL    string  `json:"image_url"`
	CategoryIDs []int64 `json:"category_ids"`
}

// Validate implements Validator. Returns error messages for required fields.
func (e EventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(e.Location) == "" {
		errs = append(errs, "location is required")
	}
	if strings.TrimSpace(e.DateTime) == "" {
		errs = append(errs, "date_time is required")
	}
	for _, id := range e.CategoryIDs {
		if id <= 0 {
			errs = append(errs, "category_ids must be positive")
			break
		}
	}
	return errs
}

func (e EventRequest) fields() (domain.EventFields, error) {
	dt, err := domain.ParseCivil(strings.TrimSpace(e.DateTime))
	if err != nil {
		return domain.EventFields{}, err
	}
	return domain.EventFields{
		Name:        e.Name,
		Description: e.Description,
		Location:    e.Location,
		DateTime:    dt,
		ImageURL:    strings.TrimSpace(e.ImageURL),
	}, nil
}

// EventSuccessResponse is the success response envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success response envelope for event list endpoints.
type EventListSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create a campus event. Requires the ORGANIZER or ADMIN role; the caller becomes the owner. date_time is Hawaii civil time ("2006-01-02T15:04"). category_ids must reference existing catalog categories.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (missing field, bad date, unknown category id)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (USER role)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	fields, err := req.fields()
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date_time must be a valid civil datetime (2006-01-02T15:04)")
		return
	}
	actor := middleware.ActorFromContext(r.Context())
	event, err := c.Service.CreateEvent(r.Context(), actor, fields, req.CategoryIDs)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// parseListFilter builds an EventFilter from browse/search query parameters.
func parseListFilter(r *http.Request) (domain.EventFilter, error) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		FutureOnly:   q.Get("future_only") == "true",
		Name:         strings.TrimSpace(q.Get("name")),
		Location:     strings.TrimSpace(q.Get("location")),
		Organization: strings.TrimSpace(q.Get("organization")),
	}
	if s := q.Get("category_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return filter, domain.ErrInvalidInput
		}
		filter.CategoryID = id
	}
	if s := q.Get("date"); s != "" {
		day, err := domain.ParseCivilDate(s)
		if err != nil {
			return filter, domain.ErrInvalidInput
		}
		filter.OnCivilDay = &day
	}
	return filter, nil
}

// ListEvents godoc
// @Summary List events
// @Description Public event browse/search, ascending by date. Filters: future_only=true, name, location, organization (substring, case-insensitive), category_id, date (Hawaii calendar day, "2006-01-02").
// @Tags events
// @Produce json
// @Param future_only query bool false "Only events at or after now"
// @Param name query string false "Name substring"
// @Param location query string false "Location substring"
// @Param organization query string false "Organizer organization substring"
// @Param category_id query int false "Category id"
// @Param date query string false "Hawaii calendar day (2006-01-02)"
// @Success 200 {object} controllers.EventListSuccessResponse "data contains the matching events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid filter parameter")
		return
	}
	actor := middleware.ActorFromContext(r.Context())
	events, err := c.Service.ListEvents(r.Context(), actor, filter)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// ListCalendarMonth godoc
// @Summary List events in a Hawaii calendar month
// @Description Returns the events whose Hawaii civil date falls in the given month. Used by the calendar surface.
// @Tags events
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} controllers.EventListSuccessResponse "data contains the month's events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/calendar/{year}/{month} [get]
func (c *EventController) ListCalendarMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || month < 1 || month > 12 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid month")
		return
	}
	from, to := domain.CivilMonthBounds(year, time.Month(month))
	actor := middleware.ActorFromContext(r.Context())
	events, err := c.Service.ListEvents(r.Context(), actor, domain.EventFilter{From: &from, To: &to})
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event with its category set and organizer organization. Public.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	actor := middleware.ActorFromContext(r.Context())
	event, err := c.Service.GetEvent(r.Context(), actor, eventID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListMyEvents godoc
// @Summary List my events
// @Description Role-dependent "my events" view: USER gets events they marked interest in, ORGANIZER gets events they own, ADMIN gets the full list.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventListSuccessResponse "data contains the events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/me [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	events, err := c.Service.ListMyEvents(r.Context(), actor)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Full replace of the event's editable fields and its category set. Owner (ORGANIZER) or any ADMIN. The category relation becomes exactly category_ids; an unknown id rejects the whole update.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param event body EventRequest true "Event data"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	fields, err := req.fields()
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date_time must be a valid civil datetime (2006-01-02T15:04)")
		return
	}
	actor := middleware.ActorFromContext(r.Context())
	event, err := c.Service.UpdateEvent(r.Context(), actor, eventID, fields, req.CategoryIDs)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEventResponse is the data payload for DELETE /events/{eventID} (200).
type DeleteEventResponse struct {
	Status string `json:"status"`
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event. Owner (ORGANIZER) or any ADMIN.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	actor := middleware.ActorFromContext(r.Context())
	if err := c.Service.DeleteEvent(r.Context(), actor, eventID); err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Status: "deleted"})
}

// InterestResponse is the data payload for the interest endpoints.
type InterestResponse struct {
	Interested bool `json:"interested"`
}

// ToggleInterest godoc
// @Summary Toggle interest in an event
// @Description Flips the caller's interest in the event. USER role only; organizers and admins do not RSVP. Flip-only: calling twice restores the original state.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the new interested state"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (non-USER role)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/interest [post]
func (c *EventController) ToggleInterest(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	actor := middleware.ActorFromContext(r.Context())
	interested, err := c.Service.ToggleInterest(r.Context(), actor, eventID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, InterestResponse{Interested: interested})
}

// GetInterest godoc
// @Summary Get my interest in an event
// @Description Returns whether the caller has marked interest in the event.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the interested state"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/interest [get]
func (c *EventController) GetInterest(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	actor := middleware.ActorFromContext(r.Context())
	interested, err := c.Service.GetInterest(r.Context(), actor, eventID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, InterestResponse{Interested: interested})
}

// CategoryListSuccessResponse is the success response envelope for GET /categories (200).
type CategoryListSuccessResponse struct {
	Data  []*domain.Category `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListCategories godoc
// @Summary List the category catalog
// @Description Returns all categories, ordered by name. Public; the catalog is fixed administratively.
// @Tags categories
// @Produce json
// @Success 200 {object} controllers.CategoryListSuccessResponse "data contains the catalog"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [get]
func (c *EventController) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Service.ListCategories(r.Context())
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, categories)
}
