package domain

import (
	"encoding/json"
	"fmt"
	"maps"
)

// ReportKind tags the variant held by a Report.
type ReportKind int

// Report variants. The zero value is ReportEmpty.
const (
	ReportEmpty ReportKind = iota
	ReportLeaf
	ReportComposite
)

// String returns the lowercase name used in JSON documents.
func (k ReportKind) String() string {
	switch k {
	case ReportEmpty:
		return "empty"
	case ReportLeaf:
		return "leaf"
	case ReportComposite:
		return "composite"
	default:
		return fmt.Sprintf("ReportKind(%d)", int(k))
	}
}

func parseReportKind(s string) (ReportKind, error) {
	switch s {
	case "", "empty":
		return ReportEmpty, nil
	case "leaf":
		return ReportLeaf, nil
	case "composite":
		return ReportComposite, nil
	default:
		return ReportEmpty, fmt.Errorf("unknown report kind %q", s)
	}
}

// Report is a diagnostic tree attached to a Verdict.
// It is one of Empty, Leaf (a named diagnostic payload) or Composite (an
// ordered list of sub-reports). Reports are values; Attach returns a new
// Report and never modifies the receiver's children in place.
type Report struct {
	kind     ReportKind
	name     string
	payload  map[string]any
	children []Report
}

// EmptyReport returns the canonical absence marker.
// It equals the zero value of Report.
func EmptyReport() Report { return Report{} }

// LeafReport creates a diagnostic leaf such as a static-analysis finding.
func LeafReport(name string, payload map[string]any) Report {
	return Report{kind: ReportLeaf, name: name, payload: maps.Clone(payload)}
}

// CompositeReport creates a composite holding children in the given order.
func CompositeReport(children ...Report) Report {
	return Report{kind: ReportComposite, children: append([]Report(nil), children...)}
}

// Kind returns the variant tag.
func (r Report) Kind() ReportKind { return r.kind }

// IsEmpty reports whether r is the Empty variant.
func (r Report) IsEmpty() bool { return r.kind == ReportEmpty }

// Name returns the leaf name, or "" for other variants.
func (r Report) Name() string { return r.name }

// Payload returns a copy of the leaf payload.
func (r Report) Payload() map[string]any { return maps.Clone(r.payload) }

// Children returns a copy of the composite's children.
func (r Report) Children() []Report { return append([]Report(nil), r.children...) }

// Attach appends child to r.
// An Empty report is promoted to a Composite holding only child; a
// Composite gets child appended after its existing children. Attaching to
// a Leaf fails with ErrAttachToLeaf. An Empty child is attached like any
// other report.
func (r Report) Attach(child Report) (Report, error) {
	switch r.kind {
	case ReportEmpty:
		return CompositeReport(child), nil
	case ReportComposite:
		children := make([]Report, 0, len(r.children)+1)
		children = append(children, r.children...)
		return Report{kind: ReportComposite, children: append(children, child)}, nil
	default:
		return r, fmt.Errorf("%w: %q", ErrAttachToLeaf, r.name)
	}
}

// Walk visits r and its descendants in pre-order, children in insertion
// order. Walking stops at the first error returned by fn.
func (r Report) Walk(fn func(depth int, r Report) error) error {
	return r.walk(0, fn)
}

func (r Report) walk(depth int, fn func(int, Report) error) error {
	if err := fn(depth, r); err != nil {
		return err
	}
	for _, c := range r.children {
		if err := c.walk(depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the first leaf named name in pre-order.
func (r Report) Find(name string) (Report, bool) {
	if r.kind == ReportLeaf && r.name == name {
		return r, true
	}
	for _, c := range r.children {
		if found, ok := c.Find(name); ok {
			return found, true
		}
	}
	return Report{}, false
}

type reportDocument struct {
	Kind     string         `json:"kind"`
	Name     string         `json:"name,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
	Children []Report       `json:"children,omitempty"`
}

// MarshalJSON encodes the report as a tagged document.
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(reportDocument{
		Kind:     r.kind.String(),
		Name:     r.name,
		Payload:  r.payload,
		Children: r.children,
	})
}

// UnmarshalJSON decodes a tagged report document.
func (r *Report) UnmarshalJSON(data []byte) error {
	var doc reportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	kind, err := parseReportKind(doc.Kind)
	if err != nil {
		return err
	}
	switch kind {
	case ReportLeaf:
		*r = Report{kind: ReportLeaf, name: doc.Name, payload: doc.Payload}
	case ReportComposite:
		*r = Report{kind: ReportComposite, children: doc.Children}
	default:
		*r = Report{}
	}
	return nil
}
