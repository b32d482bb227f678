package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kit/log/level"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/internal/tdmstest"
)

func writeRun(t *testing.T, dir string) string {
	t.Helper()

	le := binary.LittleEndian
	img := tdmstest.New().
		Segment(tdmstest.Segment{
			Objects: []tdmstest.Object{
				{Path: "/", Index: tdmstest.NoData(), Props: []tdmstest.Prop{
					{Name: "name", Value: tdmstest.Str("run 7")},
				}},
				{Path: "/'Bench'", Index: tdmstest.NoData()},
				{Path: "/'Bench'/'Temp'", Index: tdmstest.Inline(format.TypeDoubleFloat, 3), Props: []tdmstest.Prop{
					{Name: "unit", Value: tdmstest.Str("C")},
				}},
				{Path: "/'Bench'/'Count'", Index: tdmstest.Inline(format.TypeI32, 3)},
			},
			Raw: append(tdmstest.Pack(le, []float64{20.5, 21, 21.5}), tdmstest.Pack(le, []int32{1, 2, 3})...),
		}).
		Bytes()

	path := filepath.Join(dir, "run.tdms")
	require.NoError(t, os.WriteFile(path, img, 0o600))

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	full := []string{"tdmsinspect", "--no-color"}
	if !hasFlag(args, "--config") {
		full = append(full, "--config", "")
	}

	err := app.Run(context.Background(), append(full, args...))

	return out.String(), err
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name || strings.HasPrefix(a, name+"=") {
			return true
		}
	}

	return false
}

func TestPaths(t *testing.T) {
	path := writeRun(t, t.TempDir())

	out, err := run(t, "paths", path)
	require.NoError(t, err)
	require.Equal(t, "/\n/'Bench'\n/'Bench'/'Temp'\n/'Bench'/'Count'\n", out)
}

func TestCounts(t *testing.T) {
	path := writeRun(t, t.TempDir())

	out, err := run(t, "counts", "--channels", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, []string{"/'Bench'/'Temp'", "tdsTypeDoubleFloat", "3"}, strings.Fields(lines[1]))
	require.Equal(t, []string{"/'Bench'/'Count'", "tdsTypeI32", "3"}, strings.Fields(lines[2]))
}

func TestProperties(t *testing.T) {
	path := writeRun(t, t.TempDir())

	out, err := run(t, "properties", path)
	require.NoError(t, err)
	require.Contains(t, out, "\tname (tdsTypeString) = run 7\n")
	require.Contains(t, out, "\tunit (tdsTypeString) = C\n")

	out, err = run(t, "properties", "--path", "/'Bench'/'Temp'", path)
	require.NoError(t, err)
	require.Equal(t, "/'Bench'/'Temp'\n\tunit (tdsTypeString) = C\n", out)

	_, err = run(t, "properties", "--path", "/'Nope'", path)
	require.Error(t, err)
}

func TestDump(t *testing.T) {
	path := writeRun(t, t.TempDir())

	t.Run("Text", func(t *testing.T) {
		out, err := run(t, "dump", "--path", "/'Bench'/'Temp'", "--start", "1", path)
		require.NoError(t, err)
		require.Equal(t, "1\t21\n2\t21.5\n", out)
	})

	t.Run("JSON", func(t *testing.T) {
		out, err := run(t, "dump", "-p", "/'Bench'/'Count'", "-o", "json", path)
		require.NoError(t, err)

		var rec dumpRecord
		require.NoError(t, json.Unmarshal([]byte(out), &rec))
		require.Equal(t, "/'Bench'/'Count'", rec.Path)
		require.Equal(t, "tdsTypeI32", rec.Type)
		require.Equal(t, uint64(3), rec.Total)
		require.Equal(t, []any{float64(1), float64(2), float64(3)}, rec.Values)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		_, err := run(t, "dump", "-p", "/'Bench'/'Count'", "--start", "2", "--count", "5", path)
		require.Error(t, err)
	})

	t.Run("BadFormat", func(t *testing.T) {
		_, err := run(t, "dump", "-p", "/'Bench'/'Count'", "-o", "xml", path)
		require.Error(t, err)
	})
}

func TestSummary(t *testing.T) {
	path := writeRun(t, t.TempDir())

	out, err := run(t, "summary", "--segments", path)
	require.NoError(t, err)
	require.Contains(t, out, "\tsegments: 1, raw data: 36 B\n")
	require.Contains(t, out, "#0 offset: 0")
	require.Contains(t, out, "Group \"Bench\": 2 channels\n")
	require.Contains(t, out, "\tTemp: tdsTypeDoubleFloat, 3 values\n")
	require.NotContains(t, out, "truncated")
}

func TestBucketDir(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir)

	out, err := run(t, "--bucket-dir", dir, "paths", "run.tdms")
	require.NoError(t, err)
	require.Contains(t, out, "/'Bench'/'Count'\n")

	_, err = run(t, "--bucket-dir", dir, "paths", "missing.tdms")
	require.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeRun(t, dir)

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level: bogus\nbucket_dir: "+dir+"\n"), 0o600))

	_, err := run(t, "--config", cfgPath, "paths", "run.tdms")
	require.ErrorContains(t, err, "unknown log level")

	// flags win over the file
	out, err := run(t, "--config", cfgPath, "--log-level", "error", "paths", "run.tdms")
	require.NoError(t, err)
	require.Contains(t, out, "/'Bench'\n")

	_, err = run(t, "--config", filepath.Join(dir, "missing.yaml"), "paths", path)
	require.ErrorContains(t, err, "read config")
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)
	require.Equal(t, Config{}, cfg)

	p := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(p, []byte("mmap: true\nmax_read_size: 4096\n"), 0o600))

	cfg, err = loadConfig(p, true)
	require.NoError(t, err)
	require.NotNil(t, cfg.Mmap)
	require.True(t, *cfg.Mmap)
	require.Equal(t, 4096, *cfg.MaxReadSize)
	require.Nil(t, cfg.Decompress)

	require.NoError(t, os.WriteFile(p, []byte("mmap: [\n"), 0o600))
	_, err = loadConfig(p, true)
	require.ErrorContains(t, err, "parse config")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger(&buf, "INFO")
	require.NoError(t, err)
	require.NoError(t, level.Debug(logger).Log("msg", "hidden"))
	require.Empty(t, buf.String())

	require.NoError(t, level.Info(logger).Log("msg", "shown"))
	require.Contains(t, buf.String(), "level=info")
	require.Contains(t, buf.String(), "msg=shown")

	_, err = newLogger(&buf, "loud")
	require.Error(t, err)
}
