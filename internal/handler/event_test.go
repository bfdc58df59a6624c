package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventspace/hall-booking/internal/booking"
	"github.com/eventspace/hall-booking/internal/model"
	"github.com/eventspace/hall-booking/internal/queue"
	"github.com/eventspace/hall-booking/internal/repository"
)

// memStore is an in-memory EventStore that also enforces the
// (hall, day) uniqueness rule the MySQL index provides, so the handler's
// race-fallback path can be exercised without a database.
type memStore struct {
	mu     sync.Mutex
	nextID uint64
	events map[uint64]model.Event
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, events: make(map[uint64]model.Event)}
}

func (s *memStore) dayTaken(e *model.Event) bool {
	for _, other := range s.events {
		if other.ID == e.ID {
			continue
		}
		if other.Hall.ID == e.Hall.ID && booking.DayKey(other.Date) == booking.DayKey(e.Date) {
			return true
		}
	}
	return false
}

func (s *memStore) Create(_ context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dayTaken(e) {
		return repository.ErrHallDayTaken
	}
	e.ID = s.nextID
	s.nextID++
	s.events[e.ID] = *e
	return nil
}

func (s *memStore) GetByID(_ context.Context, id uint64) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	return &e, nil
}

func (s *memStore) List(_ context.Context) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *memStore) Update(_ context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.ID]; !ok {
		return repository.ErrEventNotFound
	}
	if s.dayTaken(e) {
		return repository.ErrHallDayTaken
	}
	s.events[e.ID] = *e
	return nil
}

func (s *memStore) Delete(_ context.Context, id uint64) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	delete(s.events, id)
	return &e, nil
}

func (s *memStore) ListByHall(_ context.Context, hallID string, excludeID uint64) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Event, 0)
	for _, e := range s.events {
		if e.Hall.ID != hallID {
			continue
		}
		if excludeID != 0 && e.ID == excludeID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func newTestHandler() (*EventHandler, *[]queue.BookingActivityEvent) {
	published := &[]queue.BookingActivityEvent{}
	h := NewEventHandler(newMemStore(), func(_ context.Context, ev queue.BookingActivityEvent) error {
		*published = append(*published, ev)
		return nil
	})
	return h, published
}

func doRequest(t *testing.T, fn echo.HandlerFunc, method, path, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	require.NoError(t, fn(c))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

const mainHallPayload = `{"hall":{"id":"BIG_1","name":"Vrindavana Main Hall","subname":"2nd Floor"},"date":"%s","name":"%s","phone":"%s"}`

func TestCreateEventRejectsSameHallSameDay(t *testing.T) {
	h, published := newTestHandler()

	rec := doRequest(t, h.CreateEvent, http.MethodPost, "/api/events",
		fmt.Sprintf(mainHallPayload, "2026-02-20T10:00:00Z", "A", "1"), nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Different time of day, same UTC calendar day: rejected.
	rec = doRequest(t, h.CreateEvent, http.MethodPost, "/api/events",
		fmt.Sprintf(mainHallPayload, "2026-02-20T18:00:00Z", "B", "2"), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["conflict"])
	assert.Contains(t, body["message"], "Vrindavana Main Hall")
	assert.Contains(t, body["message"], "20 February 2026")

	// Only the first booking made it to the broker.
	require.Len(t, *published, 1)
	assert.Equal(t, queue.ActionCreated, (*published)[0].Action)
}

func TestCreateEventDifferentHallsShareADay(t *testing.T) {
	h, _ := newTestHandler()

	rec := doRequest(t, h.CreateEvent, http.MethodPost, "/api/events",
		`{"hall":{"id":"BIG_1"},"date":"2026-02-21T10:00:00Z","name":"A","phone":"1"}`, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, h.CreateEvent, http.MethodPost, "/api/events",
		`{"hall":{"id":"BIG_2"},"date":"2026-02-21T10:00:00Z","name":"B","phone":"2"}`, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Hall metadata omitted by the client is filled from the catalog.
	body := decodeBody(t, rec)
	hall := body["hall"].(map[string]any)
	assert.Equal(t, "Vrindavana Mini Hall", hall["name"])
}

func TestCreateEventTimezoneIndependence(t *testing.T) {
	h, _ := newTestHandler()

	rec := doRequest(t, h.CreateEvent, http.MethodPost, "/api/events",
		fmt.Sprintf(mainHallPayload, "2026-02-20T00:05:00Z", "A", "1"), nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Nearly 24 hours later in instant-time but still 2026-02-20 UTC.
	rec = doRequest(t, h.CreateEvent, http.MethodPost, "/api/events",
		fmt.Sprintf(mainHallPayload, "2026-02-20T23:30:00Z", "B", "2"), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateEventValidation(t *testing.T) {
	h, published := newTestHandler()

	cases := []struct {
		name string
		body string
	}{
		{"missing hall", `{"date":"2026-02-20T10:00:00Z","name":"A","phone":"1"}`},
		{"missing hall id", `{"hall":{"name":"Main"},"date":"2026-02-20T10:00:00Z","name":"A","phone":"1"}`},
		{"missing date", `{"hall":{"id":"BIG_1"},"name":"A","phone":"1"}`},
		{"malformed date", `{"hall":{"id":"BIG_1"},"date":"not-a-date","name":"A","phone":"1"}`},
		{"missing name", `{"hall":{"id":"BIG_1"},"date":"2026-02-20T10:00:00Z","phone":"1"}`},
		{"missing phone", `{"hall":{"id":"BIG_1"},"date":"2026-02-20T10:00:00Z","name":"A"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, h.CreateEvent, http.MethodPost, "/api/events", tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	// Nothing was persisted or published.
	rec := doRequest(t, h.ListEvents, http.MethodGet, "/api/events", "", nil)
	var events []model.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.Empty(t, events)
	assert.Empty(t, *published)
}

func TestUpdateEventKeepsOwnSlot(t *testing.T) {
	h, _ := newTestHandler()

	rec := doRequest(t, h.CreateEvent, http.MethodPost, "/api/events",
		fmt.Sprintf(mainHallPayload, "2026-02-20T10:00:00Z", "A", "1"), nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	id := fmt.Sprintf("%v", created["id"])

	// Same hall, same day, only the notes change: must not conflict with
	// itself.
	update := `{"hall":{"id":"BIG_1","name":"Vrindavana Main Hall"},"date":"2026-02-20T10:00:00Z","name":"A","phone":"1","notes":"flowers at 9am"}`
	rec = doRequest(t, h.UpdateEvent, http.MethodPut, "/api/events/"+id, update, map[string]string{"id": id})
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "flowers at 9am", body["notes"])
}

func TestUpdateEventConflictsWithOtherBooking(t *testing.T) {
	h, _ := newTestHandler()

	rec := doRequest(t, h.CreateEvent, http.MethodPost, "/api/events",
		fmt.Sprintf(mainHallPayload, "2026-02-20T10:00:00Z", "A", "1"), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, h.CreateEvent, http.MethodPost, "/api/events",
		fmt.Sprintf(mainHallPayload, "2026-02-21T10:00:00Z", "B", "2"), nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decodeBody(t, rec)
	id := fmt.Sprintf("%v", second["id"])

	// Moving the second booking onto the first one's day is rejected.
	move := fmt.Sprintf(mainHallPayload, "2026-02-20T15:00:00Z", "B", "2")
	rec = doRequest(t, h.UpdateEvent, http.MethodPut, "/api/events/"+id, move, map[string]string{"id": id})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["conflict"])
}

func TestUpdateEventNotFound(t *testing.T) {
	h, _ := newTestHandler()

	rec := doRequest(t, h.UpdateEvent, http.MethodPut, "/api/events/99",
		fmt.Sprintf(mainHallPayload, "2026-02-20T10:00:00Z", "A", "1"), map[string]string{"id": "99"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteFreesTheSlot(t *testing.T) {
	h, published := newTestHandler()

	rec := doRequest(t, h.CreateEvent, http.MethodPost, "/api/events",
		fmt.Sprintf(mainHallPayload, "2026-02-20T10:00:00Z", "A", "1"), nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := fmt.Sprintf("%v", decodeBody(t, rec)["id"])

	rec = doRequest(t, h.DeleteEvent, http.MethodDelete, "/api/events/"+id, "", map[string]string{"id": id})
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Event deleted successfully", body["message"])
	require.NotNil(t, body["event"])

	// The day is free again.
	rec = doRequest(t, h.CreateEvent, http.MethodPost, "/api/events",
		fmt.Sprintf(mainHallPayload, "2026-02-20T12:00:00Z", "C", "3"), nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, *published, 3)
	assert.Equal(t, queue.ActionDeleted, (*published)[1].Action)
}

func TestDeleteEventNotFound(t *testing.T) {
	h, _ := newTestHandler()

	rec := doRequest(t, h.DeleteEvent, http.MethodDelete, "/api/events/5", "", map[string]string{"id": "5"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetEventNotFound(t *testing.T) {
	h, _ := newTestHandler()

	rec := doRequest(t, h.GetEvent, http.MethodGet, "/api/events/5", "", map[string]string{"id": "5"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEventsSortedByDate(t *testing.T) {
	h, _ := newTestHandler()

	for _, d := range []string{"2026-03-03T10:00:00Z", "2026-03-01T10:00:00Z", "2026-03-02T10:00:00Z"} {
		rec := doRequest(t, h.CreateEvent, http.MethodPost, "/api/events",
			fmt.Sprintf(mainHallPayload, d, "A", "1"), nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(t, h.ListEvents, http.MethodGet, "/api/events", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []model.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 3)
	assert.True(t, events[0].Date.Before(events[1].Date))
	assert.True(t, events[1].Date.Before(events[2].Date))
}

// blindStore hides existing events from the validator's pre-check while
// still enforcing uniqueness on write, simulating a concurrent writer
// that slips in between check and persist.
type blindStore struct{ *memStore }

func (b *blindStore) ListByHall(context.Context, string, uint64) ([]model.Event, error) {
	return nil, nil
}

func TestCreateEventStoreConflictFallback(t *testing.T) {
	store := &blindStore{newMemStore()}
	h := NewEventHandler(store, nil)

	rec := doRequest(t, h.CreateEvent, http.MethodPost, "/api/events",
		fmt.Sprintf(mainHallPayload, "2026-02-20T09:00:00Z", "A", "1"), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	// The pre-check saw nothing, so the write itself hits the uniqueness
	// guard; the caller still gets the 409 conflict shape, not a 500.
	rec = doRequest(t, h.CreateEvent, http.MethodPost, "/api/events",
		fmt.Sprintf(mainHallPayload, "2026-02-20T20:00:00Z", "B", "2"), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["conflict"])
	assert.Contains(t, body["message"], "Vrindavana Main Hall")
}
