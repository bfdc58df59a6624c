package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/eventspace/hall-booking/internal/booking"
	"github.com/eventspace/hall-booking/internal/model"
)

// EventRepo provides CRUD operations for hall booking events.  All
// timestamp columns are stored in UTC (the DSN pins loc=UTC), and every
// write recomputes the derived event_day column from the event date so
// the unique (hall_id, event_day) index can arbitrate concurrent
// bookings for the same hall and calendar day.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle, e.g. for health checks.
func (r *EventRepo) DB() *sql.DB { return r.db }

const eventCols = `id, hall_id, hall_name, hall_subname, name, phone,
	purohit_name, purohit_phone, caterer_name, caterer_phone,
	advance, balance, notes, event_date, created_at, updated_at`

// scanEvent reads one row in eventCols order into a model.Event.
func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var e model.Event
	var subname, notes sql.NullString
	err := row.Scan(
		&e.ID, &e.Hall.ID, &e.Hall.Name, &subname, &e.Name, &e.Phone,
		&e.PurohitName, &e.PurohitPhone, &e.CatererName, &e.CatererPhone,
		&e.Advance, &e.Balance, &notes, &e.Date, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return model.Event{}, err
	}
	// hall_subname and notes are the nullable columns; a NULL written by
	// another client reads back as empty.
	if subname.Valid {
		e.Hall.Subname = subname.String
	}
	if notes.Valid {
		e.Notes = notes.String
	}
	return e, nil
}

// isDuplicate reports whether err is a MySQL unique-key violation (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// nullableSubname maps an empty subname to NULL.
func nullableSubname(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

// Create inserts a new event and populates the generated ID and the
// store-assigned timestamps on the provided record.  It returns
// ErrHallDayTaken when the (hall_id, event_day) index rejects the row.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events (hall_id, hall_name, hall_subname, name, phone,
	             purohit_name, purohit_phone, caterer_name, caterer_phone,
	             advance, balance, notes, event_date, event_day)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		e.Hall.ID, e.Hall.Name, nullableSubname(e.Hall.Subname), e.Name, e.Phone,
		e.PurohitName, e.PurohitPhone, e.CatererName, e.CatererPhone,
		e.Advance, e.Balance, e.Notes, e.Date.UTC(), booking.DayKey(e.Date))
	if err != nil {
		if isDuplicate(err) {
			return ErrHallDayTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	// Read the row back so created_at/updated_at defaults are filled in.
	stored, err := r.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	*e = *stored
	return nil
}

// GetByID fetches a single event.  It returns ErrEventNotFound when no
// row matches.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE id = ?`
	e, err := scanEvent(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

// List returns all events ordered by event date ascending.  The order is
// a display concern (the calendar screen renders the list as-is).
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events ORDER BY event_date ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// ListByHall returns every event booked into one hall, excluding the
// record with excludeID when it is non-zero.  The booking validator uses
// this to scan for calendar-day collisions; update passes the id of the
// record being modified so it never collides with itself.
func (r *EventRepo) ListByHall(ctx context.Context, hallID string, excludeID uint64) ([]model.Event, error) {
	q := `SELECT ` + eventCols + ` FROM events WHERE hall_id = ?`
	args := []any{hallID}
	if excludeID != 0 {
		q += ` AND id <> ?`
		args = append(args, excludeID)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Update replaces all caller-editable fields of an event.  It returns
// ErrEventNotFound when the id does not resolve to a row and
// ErrHallDayTaken when the move would violate the hall/day index.  On
// success the record is re-read so updated_at reflects the write.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	const q = `UPDATE events SET hall_id = ?, hall_name = ?, hall_subname = ?,
	             name = ?, phone = ?, purohit_name = ?, purohit_phone = ?,
	             caterer_name = ?, caterer_phone = ?, advance = ?, balance = ?,
	             notes = ?, event_date = ?, event_day = ?
	           WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q,
		e.Hall.ID, e.Hall.Name, nullableSubname(e.Hall.Subname),
		e.Name, e.Phone, e.PurohitName, e.PurohitPhone,
		e.CatererName, e.CatererPhone, e.Advance, e.Balance,
		e.Notes, e.Date.UTC(), booking.DayKey(e.Date), e.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrHallDayTaken
		}
		return err
	}
	// RowsAffected is 0 both for a missing row and for a no-op update, so
	// existence is determined by reading the row back.
	stored, err := r.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	*e = *stored
	return nil
}

// Delete removes an event and returns the deleted record, or
// ErrEventNotFound when the id does not exist.
func (r *EventRepo) Delete(ctx context.Context, id uint64) (*model.Event, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return e, nil
}
