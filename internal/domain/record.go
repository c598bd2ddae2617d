// Package domain contains the core data types for the fleet mileage log.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import "time"

// Record represents a single logged vehicle trip.
// Distance is derived: it always equals OdometerEnd - OdometerStart and is
// recomputed by the service on every create and update — it is never accepted
// from a caller.
type Record struct {
	ID            int64      `json:"id"`
	Driver        string     `json:"driver"`
	Plate         string     `json:"plate"`
	Departure     string     `json:"departure"` // ISO-8601 text, no timezone enforcement
	Arrival       string     `json:"arrival"`
	OdometerStart float64    `json:"odometer_start"`
	OdometerEnd   float64    `json:"odometer_end"`
	Distance      float64    `json:"distance"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"` // nil until first update
}

// RecordDraft carries the fields of a create request.
// Odometer readings are pointers so the service can tell "omitted" apart from
// a legitimate zero reading.
type RecordDraft struct {
	Driver        string
	Plate         string
	Departure     string
	Arrival       string
	OdometerStart *float64
	OdometerEnd   *float64
	Notes         string
}

// RecordPatch carries the fields of an update request.
// Every field is a pointer: nil means "field omitted — keep the current
// value". This replaces the loose map payloads of earlier revisions, where an
// absent key and an empty value were indistinguishable.
type RecordPatch struct {
	Driver        *string
	Plate         *string
	Departure     *string
	Arrival       *string
	OdometerStart *float64
	OdometerEnd   *float64
	Notes         *string

	// Actor is the label recorded on audit entries produced by the update.
	// Defaults to DefaultActor when nil.
	Actor *string
}
