package domain

import "time"

// DefaultActor is recorded on audit entries when the update payload does not
// name who made the change.
const DefaultActor = "system"

// AuditEntry is one recorded field-level change to a Record.
// Entries are append-only: they are never edited, and are deleted only when
// their owning record is deleted.
type AuditEntry struct {
	ID        int64     `json:"id"`
	RecordID  int64     `json:"record_id"`
	Field     string    `json:"field"` // display label, e.g. "End Odometer"
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	Actor     string    `json:"actor"`
	ChangedAt time.Time `json:"changed_at"`
}
