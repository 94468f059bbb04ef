// Package jsonpath models the canonical address of a node inside a document.
//
// Grammar: the first key is bare, later keys are written `.key`, array indices
// are written `[i]`. Keys that are empty or contain any of . [ ] " \ are
// written in quoted bracket form `["key"]` with \" and \\ escapes, which keeps
// String and Parse exact inverses.
//
// Example: messages[1].content, meta["a.b"][0]
package jsonpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/oakwood-commons/kvlens/pkg/value"
)

// Segment is one step of a Path: an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key returns a key segment.
func Key(k string) Segment { return Segment{Key: k} }

// Index returns an index segment.
func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

// Label is how a segment is shown as a column entry: the key itself, or [i].
func (s Segment) Label() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// Path is an ordered list of segments relative to the document root.
type Path []Segment

// Child returns a new path extended by seg. The receiver is never aliased.
func (p Path) Child(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1:len(p)-1]
}

// Last returns the final segment.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Equal reports whether two paths address the same node.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders the canonical form.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		switch {
		case seg.IsIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
		case needsQuoting(seg.Key):
			b.WriteString(`["`)
			for _, r := range seg.Key {
				if r == '"' || r == '\\' {
					b.WriteByte('\\')
				}
				b.WriteRune(r)
			}
			b.WriteString(`"]`)
		default:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(seg.Key)
		}
	}
	return b.String()
}

func needsQuoting(key string) bool {
	return key == "" || strings.ContainsAny(key, `.[]"\`)
}

// ErrSyntax is wrapped by every Parse error.
var ErrSyntax = errors.New("invalid path")

// Parse is the inverse of Path.String.
func Parse(input string) (Path, error) {
	var path Path
	i := 0
	for i < len(input) {
		switch ch := input[i]; {
		case ch == '[':
			seg, next, err := parseBracket(input, i)
			if err != nil {
				return nil, err
			}
			path = append(path, seg)
			i = next
		case ch == '.':
			if len(path) == 0 {
				return nil, fmt.Errorf("%w: leading '.' at offset %d", ErrSyntax, i)
			}
			i++
			key, next := scanBare(input, i)
			if key == "" {
				return nil, fmt.Errorf("%w: empty key at offset %d", ErrSyntax, i)
			}
			path = append(path, Key(key))
			i = next
		default:
			if len(path) > 0 {
				return nil, fmt.Errorf("%w: expected '.' or '[' at offset %d", ErrSyntax, i)
			}
			key, next := scanBare(input, i)
			path = append(path, Key(key))
			i = next
		}
	}
	return path, nil
}

func scanBare(input string, start int) (string, int) {
	j := start
	for j < len(input) && input[j] != '.' && input[j] != '[' {
		j++
	}
	return input[start:j], j
}

// parseBracket reads `[n]` or `["key"]` starting at input[start] == '['.
func parseBracket(input string, start int) (Segment, int, error) {
	i := start + 1
	if i < len(input) && input[i] == '"' {
		var b strings.Builder
		i++
		for i < len(input) {
			ch := input[i]
			switch ch {
			case '\\':
				if i+1 >= len(input) {
					return Segment{}, 0, fmt.Errorf("%w: dangling escape at offset %d", ErrSyntax, i)
				}
				b.WriteByte(input[i+1])
				i += 2
				continue
			case '"':
				if i+1 >= len(input) || input[i+1] != ']' {
					return Segment{}, 0, fmt.Errorf("%w: expected '\"]' at offset %d", ErrSyntax, i)
				}
				return Key(b.String()), i + 2, nil
			}
			b.WriteByte(ch)
			i++
		}
		return Segment{}, 0, fmt.Errorf("%w: unterminated quoted key at offset %d", ErrSyntax, start)
	}
	end := strings.IndexByte(input[i:], ']')
	if end < 0 {
		return Segment{}, 0, fmt.Errorf("%w: unterminated index at offset %d", ErrSyntax, start)
	}
	digits := input[i : i+end]
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || strconv.Itoa(n) != digits {
		return Segment{}, 0, fmt.Errorf("%w: bad index %q at offset %d", ErrSyntax, digits, start)
	}
	return Index(n), i + end + 1, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(input string) Path {
	p, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return p
}

// ErrNotFound is wrapped by Lookup when a step cannot be resolved.
var ErrNotFound = errors.New("path not found")

// Lookup resolves p against root.
func Lookup(root *value.Value, p Path) (*value.Value, error) {
	cur := root
	for i, seg := range p {
		var ok bool
		if seg.IsIndex {
			if cur.Kind() != value.KindArray {
				return nil, fmt.Errorf("%w: %s is %s, not an array", ErrNotFound, p[:i].String(), cur.Kind())
			}
			cur, ok = cur.Index(seg.Index)
			if !ok {
				return nil, fmt.Errorf("%w: index %d out of range at %s", ErrNotFound, seg.Index, p[:i].String())
			}
			continue
		}
		if cur.Kind() != value.KindObject {
			return nil, fmt.Errorf("%w: %s is %s, not an object", ErrNotFound, p[:i].String(), cur.Kind())
		}
		cur, ok = cur.Get(seg.Key)
		if !ok {
			return nil, fmt.Errorf("%w: key %q", ErrNotFound, seg.Key)
		}
	}
	return cur, nil
}
