package model

// Goal is a user-owned objective stored as a keyed record in the remote
// store. Date fields hold ISO 8601 YYYY-MM-DD values; the format sorts
// lexicographically, so date ordering checks are plain string comparisons.
type Goal struct {
	// ID is the store-assigned key. Records are addressed by key rather
	// than carrying it in the value, so ID is excluded from serialization
	// and filled in by the repository on read.
	ID          string `json:"-"`
	OwnerID     string `json:"ownerId"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Status      string `json:"status"`
}

// IsZero reports whether the goal carries no data, the shape a single-record
// observation delivers while the key is absent from the store.
func (g Goal) IsZero() bool {
	return g == Goal{}
}
