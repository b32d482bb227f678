package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/arloliu/tdms"
)

func (in *inspector) pathsCmd() *cli.Command {
	return &cli.Command{
		Name:      "paths",
		Usage:     "List object paths in the order they were first described",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, c *cli.Command) error {
			return in.withFile(ctx, c, func(_ string, f *tdms.File) error {
				paths, err := f.Paths()
				if err != nil {
					return err
				}

				w := writer(c)
				for _, p := range paths {
					fmt.Fprintln(w, p)
				}

				return nil
			})
		},
	}
}

func (in *inspector) countsCmd() *cli.Command {
	var channelsOnly bool

	return &cli.Command{
		Name:      "counts",
		Usage:     "List the data type and value count of every object",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "channels", Usage: "only list channels", Destination: &channelsOnly},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return in.withFile(ctx, c, func(_ string, f *tdms.File) error {
				objects, err := f.Objects()
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(writer(c), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "PATH\tTYPE\tCOUNT")
				for _, o := range objects {
					if channelsOnly && !o.IsChannel() {
						continue
					}
					fmt.Fprintf(tw, "%s\t%s\t%d\n", o.Path(), o.DataType().Name(), o.NumValues())
				}

				return tw.Flush()
			})
		},
	}
}

func (in *inspector) propertiesCmd() *cli.Command {
	var path string

	return &cli.Command{
		Name:      "properties",
		Usage:     "Print the properties of one object or of all objects",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "object path, e.g. /'Group'/'Channel'", Destination: &path},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return in.withFile(ctx, c, func(_ string, f *tdms.File) error {
				var objects []*tdms.Object
				if path != "" {
					o, err := f.Object(path)
					if err != nil {
						return cli.Exit(fmt.Sprintf("error: %v", err), 1)
					}
					objects = []*tdms.Object{o}
				} else {
					var err error
					if objects, err = f.Objects(); err != nil {
						return err
					}
				}

				return printProperties(c, objects)
			})
		},
	}
}

func printProperties(c *cli.Command, objects []*tdms.Object) error {
	w := writer(c)
	bold := color.New(color.Bold)

	for _, o := range objects {
		props, err := o.Properties()
		if err != nil {
			return err
		}
		if len(props) == 0 {
			continue
		}

		bold.Fprintln(w, o.Path())
		for _, p := range props {
			fmt.Fprintf(w, "\t%s (%s) = %s\n", p.Name, p.Value.Type().Name(), p.Value)
		}
	}

	return nil
}
