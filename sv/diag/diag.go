// Package diag collects located, recoverable translation diagnostics.
// One Reporter is scoped to one mapping run; mappers write during the run,
// the caller reads afterwards.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"
)

type (
	Kind int

	Severity int

	// Pos is a source position attached to every diagnostic.
	Pos struct {
		File string
		Line int
		Col  int
	}

	// Diagnostic is immutable once created.
	Diagnostic struct {
		Kind       Kind
		Severity   Severity
		Pos        Pos
		Message    string
		Suggestion string // "" if none

		seq  int
		from loc.PC
	}

	// Reporter accumulates diagnostics in discovery order.
	Reporter struct {
		// Limit caps how many diagnostics are retained, zero means
		// unlimited. Errors past the cap still count toward HasErrors.
		Limit int

		ds   []Diagnostic
		errs int
	}
)

const (
	SyntaxError Kind = iota
	FourStateUnsupported
	UnsupportedOperator
	UnsupportedStatement
	UnknownMember
	UnknownCallee
	NotIndexable
	InvalidRange
	BreakOutsideLoop
	ContinueOutsideLoop
	ModuleOrInterfaceUnsupported
	ParameterizedClassUnsupported
)

const (
	Error Severity = iota
	Warning
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case FourStateUnsupported:
		return "FourStateUnsupported"
	case UnsupportedOperator:
		return "UnsupportedOperator"
	case UnsupportedStatement:
		return "UnsupportedStatement"
	case UnknownMember:
		return "UnknownMember"
	case UnknownCallee:
		return "UnknownCallee"
	case NotIndexable:
		return "NotIndexable"
	case InvalidRange:
		return "InvalidRange"
	case BreakOutsideLoop:
		return "BreakOutsideLoop"
	case ContinueOutsideLoop:
		return "ContinueOutsideLoop"
	case ModuleOrInterfaceUnsupported:
		return "ModuleOrInterfaceUnsupported"
	case ParameterizedClassUnsupported:
		return "ParameterizedClassUnsupported"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}

	return "error"
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

func New() *Reporter {
	return &Reporter{}
}

// Error records a fatal diagnostic.
func (r *Reporter) Error(k Kind, p Pos, format string, args ...any) {
	r.add(Diagnostic{
		Kind:     k,
		Severity: Error,
		Pos:      p,
		Message:  fmt.Sprintf(format, args...),
		from:     loc.Caller(1),
	})
}

// ErrorSuggest is Error with a suggestion line appended to the report entry.
func (r *Reporter) ErrorSuggest(k Kind, p Pos, suggestion, format string, args ...any) {
	r.add(Diagnostic{
		Kind:       k,
		Severity:   Error,
		Pos:        p,
		Message:    fmt.Sprintf(format, args...),
		Suggestion: suggestion,
		from:       loc.Caller(1),
	})
}

// Warn records a non-fatal diagnostic. Warnings never fail a mapping run.
func (r *Reporter) Warn(k Kind, p Pos, format string, args ...any) {
	r.add(Diagnostic{
		Kind:     k,
		Severity: Warning,
		Pos:      p,
		Message:  fmt.Sprintf(format, args...),
		from:     loc.Caller(1),
	})
}

func (r *Reporter) add(d Diagnostic) {
	if d.Severity == Error {
		r.errs++
	}

	if r.Limit > 0 && len(r.ds) >= r.Limit {
		return
	}

	d.seq = len(r.ds)
	r.ds = append(r.ds, d)

	if l := tlog.V("diag"); l != nil {
		name, file, line := d.from.NameFileLine()
		l.Printw("diagnostic", "kind", d.Kind.String(), "pos", d.Pos.String(), "msg", d.Message, "raised", fmt.Sprintf("%s (%s:%d)", name, file, line))
	}
}

// HasErrors reports whether any Error-severity diagnostic was recorded.
func (r *Reporter) HasErrors() bool { return r.errs > 0 }

// Errors returns the number of Error-severity diagnostics.
func (r *Reporter) Errors() int { return r.errs }

// All returns every diagnostic in discovery order.
func (r *Reporter) All() []Diagnostic {
	ds := make([]Diagnostic, len(r.ds))
	copy(ds, r.ds)

	return ds
}

// Sorted returns diagnostics ordered by source position,
// ties broken by discovery order.
func (r *Reporter) Sorted() []Diagnostic {
	ds := r.All()

	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i].Pos, ds[j].Pos
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}

		return ds[i].seq < ds[j].seq
	})

	return ds
}

// Report renders one line per diagnostic:
//
//	<file>:<line>:<col>: error: <message>
//
// Suggestions, when present, follow on an indented line.
func (r *Reporter) Report() string {
	var b strings.Builder

	for _, d := range r.Sorted() {
		fmt.Fprintf(&b, "%s: %s: %s\n", d.Pos.String(), d.Severity.String(), d.Message)

		if d.Suggestion != "" {
			fmt.Fprintf(&b, "\tsuggestion: %s\n", d.Suggestion)
		}
	}

	return b.String()
}
