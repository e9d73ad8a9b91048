package validation

import (
	"strings"
	"unicode/utf8"

	"metas/internal/model"
)

const (
	MsgStartBeforeToday  = "start date cannot be before today"
	MsgEndBeforeStart    = "end date cannot be before start date"
	MsgTitleLength       = "title must be between 5 and 100 characters"
	MsgDescriptionLength = "description must be between 10 and 500 characters"
	MsgTitleRequired     = "title is required"
	MsgCategoryRequired  = "category is required"
	MsgStartRequired     = "start date is required"
	MsgEndRequired       = "end date is required"
	MsgDescRequired      = "description is required"
	MsgStatusRequired    = "status is required"
)

// Violations is the full ordered list of rule failures for one candidate
// goal. It doubles as an error so controllers can return it directly; an
// empty list means the candidate is acceptable.
type Violations []string

func (v Violations) Error() string {
	return strings.Join(v, "; ")
}

// ForCreate checks a candidate against the creation rules. Dates are ISO
// YYYY-MM-DD strings compared lexicographically; today is injected so the
// check stays deterministic. Every applicable violation is reported, never
// just the first.
func ForCreate(g model.Goal, today string) Violations {
	var list Violations

	if g.StartDate < today {
		list = append(list, MsgStartBeforeToday)
	}
	if g.EndDate < g.StartDate {
		list = append(list, MsgEndBeforeStart)
	}
	if n := utf8.RuneCountInString(g.Title); n < 5 || n > 100 {
		list = append(list, MsgTitleLength)
	}
	if n := utf8.RuneCountInString(g.Description); n < 10 || n > 500 {
		list = append(list, MsgDescriptionLength)
	}

	return list
}

// ForEdit checks a candidate against the editing rules: every text field
// must be non-empty and the dates present and ordered. Length bounds are
// deliberately not re-checked on edit; that asymmetry with ForCreate is
// long-standing behavior that callers and tests rely on.
func ForEdit(g model.Goal, today string) Violations {
	var list Violations

	if strings.TrimSpace(g.Title) == "" {
		list = append(list, MsgTitleRequired)
	}
	if strings.TrimSpace(g.Category) == "" {
		list = append(list, MsgCategoryRequired)
	}
	if g.StartDate == "" {
		list = append(list, MsgStartRequired)
	} else if g.StartDate < today {
		list = append(list, MsgStartBeforeToday)
	}
	if g.EndDate == "" {
		list = append(list, MsgEndRequired)
	} else if g.EndDate < g.StartDate {
		list = append(list, MsgEndBeforeStart)
	}
	if strings.TrimSpace(g.Description) == "" {
		list = append(list, MsgDescRequired)
	}
	if strings.TrimSpace(g.Status) == "" {
		list = append(list, MsgStatusRequired)
	}

	return list
}
