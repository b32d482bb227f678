package main

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/arloliu/tdms"
	"github.com/arloliu/tdms/encoding"
)

// dumpRecord is the JSON form of a dumped value range.
type dumpRecord struct {
	Path   string `json:"path"`
	Type   string `json:"type"`
	Start  uint64 `json:"start"`
	Total  uint64 `json:"total"`
	Values []any  `json:"values"`
}

func (in *inspector) dumpCmd() *cli.Command {
	var (
		path   string
		start  uint64
		count  uint64
		output string
	)

	return &cli.Command{
		Name:      "dump",
		Usage:     "Print the raw values of a channel",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "path",
				Aliases:     []string{"p"},
				Usage:       "channel path, e.g. /'Group'/'Channel'",
				Destination: &path,
				Required:    true,
			},
			&cli.Uint64Flag{Name: "start", Usage: "first value index", Destination: &start},
			&cli.Uint64Flag{Name: "count", Usage: "number of values (0 = up to the end)", Destination: &count},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &output,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if output != "text" && output != "json" {
				return cli.Exit(fmt.Sprintf("error: unknown output format %q", output), 1)
			}

			return in.withFile(ctx, c, func(_ string, f *tdms.File) error {
				o, err := f.Object(path)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}

				n := count
				if n == 0 && start < o.NumValues() {
					n = o.NumValues() - start
				}

				values, err := o.ReadValues(start, n)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: read %s: %v", path, err), 1)
				}

				if output == "json" {
					return dumpJSON(writer(c), o, start, values)
				}

				return dumpText(writer(c), start, values)
			})
		},
	}
}

func dumpText(w io.Writer, start uint64, values []encoding.Value) error {
	for i, v := range values {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", start+uint64(i), v); err != nil { //nolint:gosec
			return err
		}
	}

	return nil
}

func dumpJSON(w io.Writer, o *tdms.Object, start uint64, values []encoding.Value) error {
	rec := dumpRecord{
		Path:   o.Path(),
		Type:   o.DataType().Name(),
		Start:  start,
		Total:  o.NumValues(),
		Values: make([]any, len(values)),
	}
	for i, v := range values {
		rec.Values[i] = jsonValue(v)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(rec)
}

// jsonValue maps a value onto something JSON can carry. Complex numbers
// become [re, im] pairs; non-finite floats become strings.
func jsonValue(v encoding.Value) any {
	if c, ok := v.Complex128(); ok {
		return []any{jsonFloat(real(c)), jsonFloat(imag(c))}
	}

	switch x := v.Interface().(type) {
	case float32:
		return jsonFloat(float64(x))
	case float64:
		return jsonFloat(x)
	case encoding.Timestamp:
		return v.String()
	default:
		return x
	}
}

func jsonFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprint(f)
	}

	return f
}
