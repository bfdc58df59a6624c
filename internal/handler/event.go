package handler // handler package contains the HTTP handlers for booking events

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventspace/hall-booking/internal/booking"
	"github.com/eventspace/hall-booking/internal/model"
	"github.com/eventspace/hall-booking/internal/queue"
	"github.com/eventspace/hall-booking/internal/repository"
)

// EventStore is the persistence surface the event handlers need.  It is
// satisfied by *repository.EventRepo; tests substitute an in-memory
// implementation.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	Update(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id uint64) (*model.Event, error)
}

// PublishFunc forwards a booking activity event to the message broker.
// Publish failures must never fail the originating request.
type PublishFunc func(ctx context.Context, ev queue.BookingActivityEvent) error

// EventHandler serves the /api/events CRUD surface.  Create and Update
// run the hall/day conflict check before touching the store; the store
// itself holds the unique (hall_id, event_day) index as the final word,
// so a race between two concurrent writers still resolves to a 409 for
// the loser.
type EventHandler struct {
	Store     EventStore
	Validator *booking.Validator
	Publish   PublishFunc // optional; nil disables broker notifications
}

// NewEventHandler constructs an EventHandler.  store must be non-nil.
func NewEventHandler(store EventStore, publish PublishFunc) *EventHandler {
	if store == nil {
		panic("nil store passed to NewEventHandler")
	}
	return &EventHandler{
		Store:     store,
		Validator: booking.NewValidator(storeAsHallEvents(store)),
		Publish:   publish,
	}
}

// storeAsHallEvents narrows an EventStore to the validator's interface
// when the store also implements ListByHall (the repository and the test
// fake both do).
func storeAsHallEvents(store EventStore) booking.HallEvents {
	he, ok := store.(booking.HallEvents)
	if !ok {
		panic("event store does not implement ListByHall")
	}
	return he
}

// eventPayload is the request body for create and update.  The date is
// bound as a string and parsed explicitly so a malformed value becomes a
// 400 with a clear message instead of a generic bind error.
type eventPayload struct {
	Hall         model.HallRef `json:"hall"`
	Date         string        `json:"date"`
	Name         string        `json:"name"`
	Phone        string        `json:"phone"`
	PurohitName  string        `json:"purohitName"`
	PurohitPhone string        `json:"purohitPhone"`
	CatererName  string        `json:"catererName"`
	CatererPhone string        `json:"catererPhone"`
	Advance      string        `json:"advance"`
	Balance      string        `json:"balance"`
	Notes        string        `json:"notes"`
}

// parseDate accepts the ISO-8601 timestamps the app sends plus a bare
// calendar date.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// validate checks the payload and returns the parsed date.  The second
// return value is a client-facing message; empty means the payload is
// acceptable.
func (p *eventPayload) validate() (time.Time, string) {
	if p.Hall.ID == "" || strings.TrimSpace(p.Date) == "" {
		return time.Time{}, "Hall and date are required"
	}
	t, err := parseDate(p.Date)
	if err != nil {
		return time.Time{}, "Invalid date format"
	}
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Phone) == "" {
		return time.Time{}, "Name and phone are required"
	}
	return t, ""
}

// toEvent copies the payload into an Event.  When the app omits the hall
// display metadata, it is filled in from the fixed catalog.
func (p *eventPayload) toEvent(date time.Time) model.Event {
	hall := p.Hall
	if hall.Name == "" {
		if known, ok := model.HallByID(hall.ID); ok {
			hall = known
		}
	}
	return model.Event{
		Hall:         hall,
		Date:         date.UTC(),
		Name:         strings.TrimSpace(p.Name),
		Phone:        strings.TrimSpace(p.Phone),
		PurohitName:  p.PurohitName,
		PurohitPhone: p.PurohitPhone,
		CatererName:  p.CatererName,
		CatererPhone: p.CatererPhone,
		Advance:      p.Advance,
		Balance:      p.Balance,
		Notes:        p.Notes,
	}
}

// conflictMessage is the human-facing text shown when a hall is already
// booked on the requested day.
func conflictMessage(hallName string, date time.Time) string {
	return fmt.Sprintf("This hall (%s) is already booked on %s. Only one event per hall per day is allowed.",
		hallName, date.UTC().Format("2 January 2006"))
}

// notify publishes a booking activity message, ignoring failures.
func (h *EventHandler) notify(ctx context.Context, action string, e *model.Event) {
	if h.Publish == nil {
		return
	}
	_ = h.Publish(ctx, queue.BookingActivityEvent{
		Action:     action,
		EventID:    e.ID,
		HallID:     e.Hall.ID,
		HallName:   e.Hall.Name,
		Date:       booking.DayKey(e.Date),
		Name:       e.Name,
		Phone:      e.Phone,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// ListEvents handles GET /api/events and returns all events sorted by
// date ascending.
func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.Store.List(c.Request().Context())
	if err != nil {
		log.Printf("events: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	return c.JSON(http.StatusOK, events)
}

// GetEvent handles GET /api/events/:id.
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid event id"})
	}
	e, err := h.Store.GetByID(c.Request().Context(), id)
	if err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// CreateEvent handles POST /api/events.  The payload is validated, the
// hall/day conflict check runs, and only then is the record persisted.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var body eventPayload
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	date, msg := body.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": msg})
	}
	e := body.toEvent(date)

	ctx := c.Request().Context()
	res, err := h.Validator.CheckConflict(ctx, e.Hall.ID, e.Date, 0)
	if err != nil {
		if errors.Is(err, booking.ErrInvalidDate) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid date format"})
		}
		log.Printf("events: conflict check failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	if res.Conflict {
		return c.JSON(http.StatusConflict, echo.Map{
			"message":  conflictMessage(e.Hall.Name, e.Date),
			"conflict": true,
		})
	}

	if err := h.Store.Create(ctx, &e); err != nil {
		return h.writeError(c, err, &e)
	}
	h.notify(ctx, queue.ActionCreated, &e)
	return c.JSON(http.StatusCreated, e)
}

// UpdateEvent handles PUT /api/events/:id as a full-record replace.  The
// conflict scan excludes the record itself, so moving nothing (same
// hall, same day) is never falsely rejected.
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid event id"})
	}
	var body eventPayload
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	date, msg := body.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": msg})
	}

	ctx := c.Request().Context()
	if _, err := h.Store.GetByID(ctx, id); err != nil {
		return h.storeError(c, err)
	}

	e := body.toEvent(date)
	e.ID = id

	res, err := h.Validator.CheckConflict(ctx, e.Hall.ID, e.Date, id)
	if err != nil {
		if errors.Is(err, booking.ErrInvalidDate) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid date format"})
		}
		log.Printf("events: conflict check failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
	}
	if res.Conflict {
		return c.JSON(http.StatusConflict, echo.Map{
			"message":  conflictMessage(e.Hall.Name, e.Date),
			"conflict": true,
		})
	}

	if err := h.Store.Update(ctx, &e); err != nil {
		return h.writeError(c, err, &e)
	}
	h.notify(ctx, queue.ActionUpdated, &e)
	return c.JSON(http.StatusOK, e)
}

// DeleteEvent handles DELETE /api/events/:id and echoes the removed
// record back to the caller.
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid event id"})
	}
	ctx := c.Request().Context()
	e, err := h.Store.Delete(ctx, id)
	if err != nil {
		return h.storeError(c, err)
	}
	h.notify(ctx, queue.ActionDeleted, e)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Event deleted successfully",
		"event":   e,
	})
}

// storeError maps read-path store failures onto HTTP responses.
func (h *EventHandler) storeError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrEventNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Event not found"})
	}
	log.Printf("events: store error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
}

// writeError maps write-path store failures onto HTTP responses.  A
// unique-index rejection means a concurrent writer won the day between
// our pre-check and the write, so it gets the same 409 shape as the
// pre-check.
func (h *EventHandler) writeError(c echo.Context, err error, e *model.Event) error {
	if errors.Is(err, repository.ErrHallDayTaken) {
		return c.JSON(http.StatusConflict, echo.Map{
			"message":  conflictMessage(e.Hall.Name, e.Date),
			"conflict": true,
		})
	}
	if errors.Is(err, repository.ErrEventNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Event not found"})
	}
	log.Printf("events: store error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
}
