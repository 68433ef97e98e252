package model

// Tag is a tag definition known to the order system.
type Tag struct {
	ID   int64  `json:"idtag"`
	Name string `json:"title"`
}

// AdviceFilter selects advice records for the advice log.
// Outcome "pending" selects records without feedback yet.
type AdviceFilter struct {
	Confidence string
	Outcome    string
	Limit      int
	Offset     int
}

// OutcomePending selects advice records without recorded feedback.
const OutcomePending = "pending"

const (
	// DefaultAdviceLogLimit is the page size when none is requested.
	DefaultAdviceLogLimit = 20
	// MaxAdviceLogLimit caps the page size.
	MaxAdviceLogLimit = 100
)

// Normalized returns the filter with the page size defaulted and capped and a
// non-negative offset.
func (f AdviceFilter) Normalized() AdviceFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultAdviceLogLimit
	}
	f.Limit = min(f.Limit, MaxAdviceLogLimit)
	f.Offset = max(f.Offset, 0)
	return f
}
