package model

import "time"

// HallRef identifies the hall an event is booked into.  Halls are a
// fixed, externally known set of venues rather than a stored entity, so
// the display metadata is copied onto the event at write time instead of
// being joined from a halls table.
//
// Fields:
//  ID      – stable hall identifier (e.g. "BIG_1"); conflict scoping key.
//  Name    – display name of the hall (e.g. "Vrindavana Main Hall").
//  Subname – optional secondary label such as the floor.
type HallRef struct {
	ID      string `json:"id"`                // events.hall_id
	Name    string `json:"name"`              // events.hall_name
	Subname string `json:"subname,omitempty"` // events.hall_subname
}

// Event is a booking of a hall by a person for a single calendar day.
// At most one event may exist per hall per UTC calendar day; the
// repository enforces this with a unique index and the booking package
// pre-checks it to produce a friendly conflict message.
//
// Fields:
//  ID           – primary key identifier, assigned on creation.
//  Hall         – hall reference with display metadata.
//  Date         – the booked instant; only its UTC calendar day matters.
//  Name         – person responsible for the booking.
//  Phone        – contact number of that person.
//  PurohitName  – optional priest name.
//  PurohitPhone – optional priest contact.
//  CatererName  – optional caterer name.
//  CatererPhone – optional caterer contact.
//  Advance      – free-form advance payment note.
//  Balance      – free-form balance note.
//  Notes        – free-form remarks.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Event struct {
	ID           uint64    `json:"id"`           // events.id
	Hall         HallRef   `json:"hall"`         // flattened into hall_* columns
	Date         time.Time `json:"date"`         // events.event_date
	Name         string    `json:"name"`         // events.name
	Phone        string    `json:"phone"`        // events.phone
	PurohitName  string    `json:"purohitName"`  // events.purohit_name
	PurohitPhone string    `json:"purohitPhone"` // events.purohit_phone
	CatererName  string    `json:"catererName"`  // events.caterer_name
	CatererPhone string    `json:"catererPhone"` // events.caterer_phone
	Advance      string    `json:"advance"`      // events.advance
	Balance      string    `json:"balance"`      // events.balance
	Notes        string    `json:"notes"`        // events.notes
	CreatedAt    time.Time `json:"createdAt"`    // events.created_at
	UpdatedAt    time.Time `json:"updatedAt"`    // events.updated_at
}
