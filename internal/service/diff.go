package service

import (
	"strconv"
	"time"

	"github.com/pkordes/fleet-mileage/internal/domain"
)

// recordField describes one logical field of a record for diffing purposes:
// its display label (what audit entries carry — not the column name) and how
// to read its canonical string form off a record.
type recordField struct {
	label string
	value func(domain.Record) string
}

// recordFields is the fixed, ordered set of fields the diff inspects.
// Audit entries for one update are emitted in this order.
var recordFields = []recordField{
	{"Driver", func(r domain.Record) string { return r.Driver }},
	{"Plate", func(r domain.Record) string { return r.Plate }},
	{"Departure", func(r domain.Record) string { return r.Departure }},
	{"Arrival", func(r domain.Record) string { return r.Arrival }},
	{"Start Odometer", func(r domain.Record) string { return formatOdometer(r.OdometerStart) }},
	{"End Odometer", func(r domain.Record) string { return formatOdometer(r.OdometerEnd) }},
	{"Notes", func(r domain.Record) string { return r.Notes }},
}

// Diff compares the original record against its merged replacement and emits
// one audit entry per field whose canonical string form differs. It is a pure
// function: nothing is persisted here.
//
// Fields omitted from the update payload carry their old value into merged
// verbatim, so they can never produce an entry. Odometer readings compare via
// one canonical float format, so numerically equal values never produce a
// spurious entry regardless of how the caller formatted them.
func Diff(old, merged domain.Record, actor string, at time.Time) []domain.AuditEntry {
	if actor == "" {
		actor = domain.DefaultActor
	}

	var entries []domain.AuditEntry
	for _, f := range recordFields {
		oldVal, newVal := f.value(old), f.value(merged)
		if oldVal == newVal {
			continue
		}
		entries = append(entries, domain.AuditEntry{
			RecordID:  old.ID,
			Field:     f.label,
			OldValue:  oldVal,
			NewValue:  newVal,
			Actor:     actor,
			ChangedAt: at,
		})
	}
	return entries
}

// formatOdometer renders an odometer reading in its canonical text form:
// the shortest decimal representation that round-trips ("1150", "1150.5").
func formatOdometer(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
