package main

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/urfave/cli/v3"
)

// inspector holds the global flag values shared by every subcommand.
type inspector struct {
	configPath      string
	logLevel        string
	bucketDir       string
	mmap            bool
	decompress      bool
	maxReadSize     int
	stringCacheSize int
	noColor         bool

	logger log.Logger
}

func newApp() *cli.Command {
	in := &inspector{}

	return &cli.Command{
		Name:  "tdmsinspect",
		Usage: "Inspect the contents of TDMS files",
		Flags: in.flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, in.setup(c)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return cli.ShowAppHelp(c)
		},
		Commands: []*cli.Command{
			in.summaryCmd(),
			in.pathsCmd(),
			in.propertiesCmd(),
			in.countsCmd(),
			in.dumpCmd(),
		},
	}
}

func (in *inspector) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to a yaml config file",
			Value:       defaultConfigPath(),
			Destination: &in.configPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "warn",
			Destination: &in.logLevel,
		},
		&cli.StringFlag{
			Name:        "bucket-dir",
			Usage:       "read files from a filesystem object store rooted at this directory",
			Destination: &in.bucketDir,
		},
		&cli.BoolFlag{
			Name:        "mmap",
			Usage:       "memory map local files",
			Destination: &in.mmap,
		},
		&cli.BoolFlag{
			Name:        "decompress",
			Usage:       "inflate zstd, lz4, s2 and gzip compressed files",
			Value:       true,
			Destination: &in.decompress,
		},
		&cli.IntFlag{
			Name:        "max-read-size",
			Usage:       "largest single read issued to the source, in bytes (0 = default)",
			Destination: &in.maxReadSize,
		},
		&cli.IntFlag{
			Name:        "string-cache-size",
			Usage:       "number of string chunk indexes kept in memory (-1 = default)",
			Value:       -1,
			Destination: &in.stringCacheSize,
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "disable colored output",
			Destination: &in.noColor,
		},
	}
}

// setup loads the config file, lets explicit flags override it and builds
// the logger.
func (in *inspector) setup(c *cli.Command) error {
	cfg, err := loadConfig(in.configPath, c.IsSet("config"))
	if err != nil {
		return err
	}

	in.apply(c, cfg)

	if in.noColor {
		color.NoColor = true
	}

	logger, err := newLogger(errWriter(c), in.logLevel)
	if err != nil {
		return err
	}
	in.logger = logger

	return nil
}

func writer(c *cli.Command) io.Writer {
	if w := c.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

func errWriter(c *cli.Command) io.Writer {
	if w := c.Root().ErrWriter; w != nil {
		return w
	}

	return os.Stderr
}
