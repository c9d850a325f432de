package sv

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/zuspec/svir/sv/front"
	"github.com/zuspec/svir/sv/ir"
	"github.com/zuspec/svir/sv/parse"
)

// Result is one finished translation: the accepted classes plus the full
// diagnostic report, kept together so a caller never consumes one without
// being able to check the other.
type Result struct {
	OK      bool
	Classes []*ir.Class
	Report  string
}

func MapFile(ctx context.Context, name string) (*Result, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return MapText(ctx, name, text)
}

// MapText maps one source unit. A false Result.OK with a populated Report is
// the normal failure path; the error return is for infrastructure only.
func MapText(ctx context.Context, name string, text []byte) (*Result, error) {
	m := front.New(parse.New())

	ok := m.Map(ctx, name, text)

	return &Result{
		OK:      ok,
		Classes: m.Classes(),
		Report:  m.ErrorReport(),
	}, nil
}
