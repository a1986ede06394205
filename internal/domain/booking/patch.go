package booking

// Patch is a partial booking representation. Nil fields are left unchanged.
type Patch struct {
	PropertyID *int64
	PersonID   *int64
	Start      *Date
	End        *Date
	Canceled   *bool
}

// IsEmpty reports whether the patch carries no field at all.
func (p Patch) IsEmpty() bool {
	return p.PropertyID == nil &&
		p.PersonID == nil &&
		p.Start == nil &&
		p.End == nil &&
		p.Canceled == nil
}
