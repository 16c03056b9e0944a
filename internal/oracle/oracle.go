// Package oracle wraps the external vision extraction capability behind a
// narrow interface. The oracle receives a schedule PDF plus a focus
// directive and returns raw text; it is fallible and non-deterministic, so
// nothing in this package interprets or validates what it says. That all
// happens in the parsing and schedule packages.
package oracle

import (
	"github.com/jonathan/family-swim-sf/internal/schedule"
)

// FocusKind selects which extraction strategy the prompt asks for.
type FocusKind string

// Focus kinds, one per extraction tier.
const (
	// FocusSingleDay asks for every activity in one weekday's column only.
	FocusSingleDay FocusKind = "single_day"
	// FocusTableMarkdown asks for the whole schedule re-rendered as a
	// markdown table, one column per weekday.
	FocusTableMarkdown FocusKind = "table_markdown"
	// FocusWholeWeek asks for the whole week as a single JSON object.
	FocusWholeWeek FocusKind = "whole_week"
)

// Focus directs the oracle's attention for one call.
type Focus struct {
	Kind FocusKind
	// Day is set only for FocusSingleDay.
	Day schedule.Weekday
}

// SingleDay focuses one weekday column.
func SingleDay(day schedule.Weekday) Focus {
	return Focus{Kind: FocusSingleDay, Day: day}
}

// TableMarkdown asks for a markdown round-trip of the full table.
func TableMarkdown() Focus {
	return Focus{Kind: FocusTableMarkdown}
}

// WholeWeek asks for the entire week in one response.
func WholeWeek() Focus {
	return Focus{Kind: FocusWholeWeek}
}

// Shape hints what response shape the prompt requests, so the parser knows
// what to look for. The oracle is not guaranteed to honor it.
type Shape string

// Response shape hints.
const (
	ShapeJSONArray     Shape = "json_array"
	ShapeJSONObject    Shape = "json_object"
	ShapeMarkdownTable Shape = "markdown_table"
)

// ShapeForFocus returns the response shape each focus kind requests.
func ShapeForFocus(kind FocusKind) Shape {
	switch kind {
	case FocusSingleDay:
		return ShapeJSONArray
	case FocusTableMarkdown:
		return ShapeMarkdownTable
	default:
		return ShapeJSONObject
	}
}

// Request identifies one extraction attempt against a downloaded PDF.
type Request struct {
	PoolName string
	PDFPath  string
	Focus    Focus
	Shape    Shape
}
