package booking

// DateRange is a booked period. End is exclusive.
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// Overlaps reports whether the candidate range conflicts with an existing one.
//
// A conflict exists when the candidate start falls strictly inside the existing
// range, the candidate end falls strictly inside it, or the existing range lies
// strictly inside the candidate. Identical ranges and ranges sharing only a
// boundary do not conflict. The check is not symmetric: the argument order matters.
func Overlaps(existing, candidate DateRange) bool {
	a, b := existing.Start, existing.End
	s, e := candidate.Start, candidate.End

	return (a.Before(s) && b.After(s)) ||
		(a.Before(e) && b.After(e)) ||
		(a.After(s) && b.Before(e))
}

// FindConflict returns the first active booking of the given property whose
// range conflicts with candidate, skipping excludeID when it is non-nil.
// It returns nil when nothing conflicts.
func FindConflict(existing []*Booking, propertyID int64, candidate DateRange, excludeID *int64) *Booking {
	for _, bk := range existing {
		if bk.PropertyID() != propertyID || bk.Canceled() {
			continue
		}
		if excludeID != nil && bk.ID() == *excludeID {
			continue
		}
		if Overlaps(bk.Range(), candidate) {
			return bk
		}
	}
	return nil
}
