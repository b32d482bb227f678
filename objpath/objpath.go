// Package objpath builds and splits TDMS object paths.
//
// The root object is "/". A group is "/'name'" and a channel is
// "/'group'/'channel'". A single quote inside a name is written twice.
package objpath

import (
	"fmt"
	"strings"

	"github.com/arloliu/tdms/errs"
)

// Root is the path of the file object.
const Root = "/"

// Build joins components into a path. No components yields Root.
func Build(components ...string) string {
	if len(components) == 0 {
		return Root
	}

	var b strings.Builder
	for _, c := range components {
		b.WriteString("/'")
		b.WriteString(strings.ReplaceAll(c, "'", "''"))
		b.WriteByte('\'')
	}

	return b.String()
}

// Group returns the path of a group.
func Group(name string) string { return Build(name) }

// Channel returns the path of a channel.
func Channel(group, channel string) string { return Build(group, channel) }

// Split returns the unescaped components of path; Root has none.
//
// Returns:
//   - []string: the components in order
//   - error: ErrInvalidPath for anything that is not a well-formed path
func Split(path string) ([]string, error) {
	if path == Root {
		return nil, nil
	}

	var (
		parts []string
		i     int
	)

	for i < len(path) {
		if path[i] != '/' {
			return nil, fmt.Errorf("%w: expected '/' at %d in %q", errs.ErrInvalidPath, i, path)
		}

		if i+1 >= len(path) || path[i+1] != '\'' {
			return nil, fmt.Errorf("%w: expected quote at %d in %q", errs.ErrInvalidPath, i+1, path)
		}

		i += 2

		var b strings.Builder
		closed := false
		for i < len(path) {
			c := path[i]
			if c == '\'' {
				if i+1 < len(path) && path[i+1] == '\'' {
					b.WriteByte('\'')
					i += 2

					continue
				}

				i++
				closed = true

				break
			}

			b.WriteByte(c)
			i++
		}

		if !closed {
			return nil, fmt.Errorf("%w: unterminated name in %q", errs.ErrInvalidPath, path)
		}

		parts = append(parts, b.String())
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty path", errs.ErrInvalidPath)
	}

	return parts, nil
}

// Kind is the position of an object in the hierarchy.
type Kind uint8

const (
	KindRoot Kind = iota
	KindGroup
	KindChannel
	// KindOther is a path deeper than a channel; TDMS writers do not produce
	// them but they are kept as opaque objects.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindGroup:
		return "group"
	case KindChannel:
		return "channel"
	default:
		return "other"
	}
}

// Parsed is a split path.
type Parsed struct {
	Path       string
	Kind       Kind
	Components []string
}

// Parse splits path and classifies it.
func Parse(path string) (Parsed, error) {
	parts, err := Split(path)
	if err != nil {
		return Parsed{}, err
	}

	p := Parsed{Path: path, Components: parts}
	switch len(parts) {
	case 0:
		p.Kind = KindRoot
	case 1:
		p.Kind = KindGroup
	case 2:
		p.Kind = KindChannel
	default:
		p.Kind = KindOther
	}

	return p, nil
}

// Name returns the last component, "" for the root.
func (p Parsed) Name() string {
	if len(p.Components) == 0 {
		return ""
	}

	return p.Components[len(p.Components)-1]
}

// GroupName returns the group component of groups and channels.
func (p Parsed) GroupName() string {
	if len(p.Components) == 0 {
		return ""
	}

	return p.Components[0]
}
