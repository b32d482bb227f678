// Package testdata is a corpus of small TDMS images with the results a reader
// must produce for them.
//
// Every *.yaml file in this directory is one case. The image is written as
// lines of hex bytes, so cases can be reviewed and commented block by block:
//
//	hex:
//	  # lead-in
//	  - "54 44 53 6d 0a 00 00 00 69 12 00 00 ..."
//	expect:
//	  segments: 1
//	  objects:
//	    "/'G'/'C'":
//	      type: tdsTypeI32
//	      values: ["1", "2"]
//
// Values and properties are compared in their encoding.Value.String form.
package testdata

import (
	"bytes"
	"embed"
	"encoding/hex"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/tdms/errs"
)

//go:embed *.yaml
var corpus embed.FS

// Case is one test case of the corpus.
type Case struct {
	Name string `yaml:"-"`

	Hex    []string `yaml:"hex"`
	Expect Expect   `yaml:"expect"`

	Image []byte `yaml:"-"`
}

// Expect is what opening and reading the image must yield.
type Expect struct {
	// Error names the error category opening must fail with; see Err.
	Error     string                  `yaml:"error"`
	Segments  *int                    `yaml:"segments"`
	Truncated bool                    `yaml:"truncated"`
	Paths     []string                `yaml:"paths"`
	Groups    []string                `yaml:"groups"`
	Objects   map[string]ObjectExpect `yaml:"objects"`
}

// ObjectExpect describes one object of the image.
type ObjectExpect struct {
	Type       string            `yaml:"type"`
	Count      *uint64           `yaml:"count"`
	Values     []string          `yaml:"values"`
	Properties map[string]string `yaml:"properties"`
}

var errorNames = map[string]error{
	"io":                     errs.ErrIO,
	"invalid_segment_header": errs.ErrInvalidSegmentHeader,
	"corrupt_metadata":       errs.ErrCorruptMetadata,
	"truncated_file":         errs.ErrTruncatedFile,
	"type_mismatch":          errs.ErrTypeMismatch,
	"unsupported_type":       errs.ErrUnsupportedType,
}

// Err returns the sentinel named by Error, nil when opening must succeed.
func (e Expect) Err() error {
	return errorNames[e.Error]
}

// RunAll runs f as a parallel subtest for every case of the corpus.
func RunAll(t *testing.T, f func(*testing.T, *Case)) {
	t.Helper()

	err := fs.WalkDir(corpus, ".", func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err, "loading test %q", path)

		if d.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}

		t.Run(strings.TrimSuffix(path, ".yaml"), func(t *testing.T) {
			t.Parallel()

			data, err := fs.ReadFile(corpus, path)
			require.NoError(t, err, "loading test %q", path)

			f(t, parseCase(t, path, data))
		})

		return nil
	})
	require.NoError(t, err)
}

func parseCase(t *testing.T, path string, data []byte) *Case {
	t.Helper()

	require.True(t, bytes.HasSuffix(data, []byte("\n")), "missing trailing newline in %q", path)

	c := new(Case)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	require.NoError(t, dec.Decode(c), "loading test %q", path)

	if c.Expect.Error != "" {
		require.Contains(t, errorNames, c.Expect.Error, "unknown error name in %q", path)
	}

	c.Name = strings.TrimSuffix(path, ".yaml")
	for i, line := range c.Hex {
		b, err := hex.DecodeString(strings.ReplaceAll(line, " ", ""))
		require.NoError(t, err, "hex line %d of %q", i, path)
		c.Image = append(c.Image, b...)
	}

	return c
}
