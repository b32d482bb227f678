package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/arloliu/tdms"
	"github.com/arloliu/tdms/format"
)

func (in *inspector) summaryCmd() *cli.Command {
	var showSegments bool

	return &cli.Command{
		Name:      "summary",
		Usage:     "Print an overview of a file: segments, groups and channels",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "segments", Usage: "list every segment", Destination: &showSegments},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return in.withFile(ctx, c, func(name string, f *tdms.File) error {
				return printSummary(c, name, f, showSegments)
			})
		},
	}
}

func printSummary(c *cli.Command, name string, f *tdms.File, showSegments bool) error {
	w := writer(c)
	bold := color.New(color.Bold)
	warn := color.New(color.FgYellow)

	segs := f.Segments()
	var raw uint64
	for _, s := range segs {
		raw += s.RawSize
	}

	bold.Fprintf(w, "File: %s\n", name)
	fmt.Fprintf(w, "\tsegments: %d, raw data: %v", len(segs), humanize.Bytes(raw))
	if ct := f.Compression(); ct != format.CompressionNone {
		fmt.Fprintf(w, ", compression: %s", ct)
	}
	fmt.Fprintln(w)
	if f.Truncated() {
		warn.Fprintln(w, "\twarning: final segment is truncated")
	}

	if showSegments {
		bold.Fprintln(w, "Segments:")
		for _, s := range segs {
			fmt.Fprintf(w, "\t#%d offset: %d, version: %d, objects: %d, chunks: %d, raw: %v",
				s.Ordinal, s.Offset, s.Version, s.Objects, s.Chunks, humanize.Bytes(s.RawSize))
			if s.Truncated {
				warn.Fprint(w, " (truncated)")
			}
			fmt.Fprintln(w)
		}
	}

	groups, err := f.Groups()
	if err != nil {
		return err
	}

	for _, g := range groups {
		channels, err := f.GroupChannels(g)
		if err != nil {
			return err
		}

		bold.Fprintf(w, "Group %q: %d channels\n", g, len(channels))
		for _, ch := range channels {
			fmt.Fprintf(w, "\t%s: %s, %s values\n",
				ch.Name(), ch.DataType().Name(), humanize.Comma(int64(ch.NumValues()))) //nolint:gosec
		}
	}

	return nil
}
