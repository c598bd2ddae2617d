package domain

// ListFilter carries the optional criteria for listing records.
// Empty fields are ignored; supplied fields are combined with logical AND.
//
// Driver and Plate match by case-insensitive substring containment.
// DepartureFrom and ArrivalTo are compared lexicographically against the
// stored departure/arrival text, which matches chronological order only when
// the inputs are in the same ISO-8601 form as the stored values. The bounds
// are not parsed or validated — malformed input silently mis-filters.
type ListFilter struct {
	Driver        string
	Plate         string
	DepartureFrom string
	ArrivalTo     string
}

// IsZero reports whether no criteria are set (list everything).
func (f ListFilter) IsZero() bool {
	return f == ListFilter{}
}
