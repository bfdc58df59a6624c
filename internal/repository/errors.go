// Package repository defines error types that are reused across
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver-specific errors. For example, ErrHallDayTaken
// signals that the unique (hall_id, event_day) index rejected a write,
// which handlers translate into the same 409 response the pre-check
// produces.
package repository

import "errors"

// ErrEventNotFound is returned when an event lookup, update or delete
// does not match any row. Handlers should translate this into an HTTP
// 404 response.
var ErrEventNotFound = errors.New("event not found")

// ErrHallDayTaken is returned when an insert or update violates the
// unique index on (hall_id, event_day), i.e. another event already
// occupies that hall on that calendar day. Handlers should translate
// this into an HTTP 409 response.
var ErrHallDayTaken = errors.New("hall already booked on that day")
