package objpath

import (
	"testing"

	"github.com/arloliu/tdms/errs"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	require.Equal(t, "/", Build())
	require.Equal(t, "/'G'", Group("G"))
	require.Equal(t, "/'G'/'C'", Channel("G", "C"))
	require.Equal(t, "/'it''s'/'a ''b'''", Channel("it's", "a 'b'"))
}

func TestSplit(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/", nil},
		{"/'G'", []string{"G"}},
		{"/'G'/'C'", []string{"G", "C"}},
		{"/'it''s'/'x'", []string{"it's", "x"}},
		{"/''", []string{""}},
		{"/'a/b'/'c'", []string{"a/b", "c"}},
		{"/'日本'/'é'", []string{"日本", "é"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Split(tt.path)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)

			require.Equal(t, tt.path, Build(got...))
		})
	}
}

func TestSplitInvalid(t *testing.T) {
	for _, path := range []string{"", "G", "/G", "/'G", "/'G'x", "/'G'/", "//'G'"} {
		t.Run(path, func(t *testing.T) {
			_, err := Split(path)
			require.ErrorIs(t, err, errs.ErrInvalidPath)
		})
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("/'G'/'C'")
	require.NoError(t, err)
	require.Equal(t, KindChannel, p.Kind)
	require.Equal(t, "C", p.Name())
	require.Equal(t, "G", p.GroupName())

	p, err = Parse("/")
	require.NoError(t, err)
	require.Equal(t, KindRoot, p.Kind)
	require.Empty(t, p.Name())

	p, err = Parse("/'a'/'b'/'c'")
	require.NoError(t, err)
	require.Equal(t, KindOther, p.Kind)
}
