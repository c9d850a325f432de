package front

import (
	"github.com/zuspec/svir/sv/ast"
	"github.com/zuspec/svir/sv/diag"
	"github.com/zuspec/svir/sv/ir"
)

// typeMapper maps primitive type descriptors to two-state IR types.
// Mapping is pure: identical descriptors always yield identical types.
type typeMapper struct {
	d *diag.Reporter
}

// nearest two-state substitute per four-state kind
var fourState = map[string]string{
	"logic":   "bit",
	"reg":     "bit",
	"integer": "int",
	"time":    "longint",
}

// canonical widths of the fixed-width signed aliases
var fixedWidth = map[string]int{
	"byte":     8,
	"shortint": 16,
	"int":      32,
	"longint":  64,
}

// mapType maps one descriptor or raises a diagnostic. No IR type is ever
// produced for a four-state kind.
func (tm *typeMapper) mapType(ts *ast.TypeSpec) (ir.Type, bool) {
	if subst, ok := fourState[ts.Keyword]; ok {
		tm.d.ErrorSuggest(diag.FourStateUnsupported, pos(ts.P),
			"use 2-state type "+subst,
			"4-state type '%v' not supported", ts.Keyword)

		return ir.Type{}, false
	}

	if ts.Keyword == "bit" {
		bits := 1

		if ts.HasRange {
			if ts.Hi < ts.Lo {
				tm.d.Error(diag.InvalidRange, pos(ts.P), "invalid range [%d:%d], high bound must not be below low bound", ts.Hi, ts.Lo)
				return ir.Type{}, false
			}

			bits = ts.Hi - ts.Lo + 1
		}

		return ir.Type{Kind: ir.Vector, Bits: bits, Signed: ts.Signed}, true
	}

	if w, ok := fixedWidth[ts.Keyword]; ok {
		if ts.HasRange {
			tm.d.Error(diag.InvalidRange, pos(ts.P), "packed range not allowed on '%v'", ts.Keyword)
			return ir.Type{}, false
		}

		return ir.Type{Kind: ir.FixedInt, Bits: w, Signed: true}, true
	}

	tm.d.ErrorSuggest(diag.FourStateUnsupported, pos(ts.P),
		"use a 2-state type (bit, byte, shortint, int, longint)",
		"unsupported type '%v'", ts.Keyword)

	return ir.Type{}, false
}
