package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/zuspec/svir/sv"
	"github.com/zuspec/svir/sv/parse"
)

func main() {
	parseCmd := &cli.Command{
		Name:   "parse",
		Action: parseAct,
		Args:   cli.Args{},
	}

	mapCmd := &cli.Command{
		Name:   "map",
		Action: mapAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "svir",
		Description: "svir maps a SystemVerilog subset onto the verification IR",
		Commands: []*cli.Command{
			parseCmd,
			mapCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	p := parse.New()

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		u, err := p.Parse(ctx, a, text)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		fmt.Printf("ast: %+v\n", u)
	}

	return nil
}

func mapAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	failed := false

	for _, a := range c.Args {
		res, err := sv.MapFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "map %v", a)
		}

		if res.Report != "" {
			fmt.Fprint(os.Stderr, res.Report)
		}

		for _, cl := range res.Classes {
			fmt.Printf("class %v: %d fields, %d methods\n", cl.Name, len(cl.Fields), len(cl.Funcs))
		}

		if !res.OK {
			failed = true
		}
	}

	if failed {
		return errors.New("mapping failed")
	}

	return nil
}
