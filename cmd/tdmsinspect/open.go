package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/thanos-io/objstore/providers/filesystem"
	"github.com/urfave/cli/v3"

	"github.com/arloliu/tdms"
)

func newLogger(w io.Writer, lvl string) (log.Logger, error) {
	var opt level.Option
	switch strings.ToLower(lvl) {
	case "debug":
		opt = level.AllowDebug()
	case "info":
		opt = level.AllowInfo()
	case "warn", "warning":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	case "none":
		opt = level.AllowNone()
	default:
		return nil, fmt.Errorf("unknown log level %q", lvl)
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	return level.NewFilter(logger, opt), nil
}

func (in *inspector) options() []tdms.Option {
	opts := []tdms.Option{
		tdms.WithLogger(in.logger),
		tdms.WithMmap(in.mmap),
		tdms.WithDecompression(in.decompress),
	}
	if in.maxReadSize > 0 {
		opts = append(opts, tdms.WithMaxReadSize(in.maxReadSize))
	}
	if in.stringCacheSize >= 0 {
		opts = append(opts, tdms.WithStringCacheSize(in.stringCacheSize))
	}

	return opts
}

// open opens name as a local path, or as an object name inside the
// configured bucket directory. The returned func releases the bucket and
// must be called after the file is closed.
func (in *inspector) open(ctx context.Context, name string) (*tdms.File, func(), error) {
	if in.bucketDir == "" {
		f, err := tdms.Open(name, in.options()...)
		return f, func() {}, err
	}

	bkt, err := filesystem.NewBucket(in.bucketDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open bucket %s: %w", in.bucketDir, err)
	}
	release := func() { _ = bkt.Close() }

	f, err := tdms.OpenBucket(ctx, bkt, name, in.options()...)
	if err != nil {
		release()
		return nil, nil, err
	}

	return f, release, nil
}

// fileArg returns the single file argument of c.
func fileArg(c *cli.Command) (string, error) {
	if c.Args().Len() != 1 {
		return "", cli.Exit(fmt.Sprintf("error: %s needs exactly one file argument", c.Name), 1)
	}

	return c.Args().First(), nil
}

// withFile opens the file argument of c and passes it to fn.
func (in *inspector) withFile(ctx context.Context, c *cli.Command, fn func(name string, f *tdms.File) error) error {
	name, err := fileArg(c)
	if err != nil {
		return err
	}

	f, release, err := in.open(ctx, name)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: open %s: %v", name, err), 1)
	}
	defer release()
	defer f.Close()

	return fn(name, f)
}
