package analyzer

import (
	"github.com/oakwood-commons/kvlens/internal/classify"
	"github.com/oakwood-commons/kvlens/internal/jsonpath"
	"github.com/oakwood-commons/kvlens/internal/limiter"
)

// Summary is a read-only snapshot of field counts.
type Summary struct {
	Total     int
	ByType    map[classify.SemanticType]int
	Truncated bool
	Reason    limiter.Reason
}

// Summarize counts fields per SemanticType. Every type has an entry.
func Summarize(r Result) Summary {
	s := Summary{
		Total:     len(r.Fields),
		ByType:    make(map[classify.SemanticType]int, len(classify.AllTypes)),
		Truncated: r.Truncated,
		Reason:    r.Reason,
	}
	for _, t := range classify.AllTypes {
		s.ByType[t] = 0
	}
	for _, f := range r.Fields {
		s.ByType[f.Type]++
	}
	return s
}

// Clone returns a copy of s that shares no map with it.
func (s Summary) Clone() Summary {
	out := s
	out.ByType = make(map[classify.SemanticType]int, len(s.ByType))
	for t, n := range s.ByType {
		out.ByType[t] = n
	}
	return out
}

// Count returns the number of fields of type t.
func (s Summary) Count(t classify.SemanticType) int {
	return s.ByType[t]
}

// OfType returns the fields of the given types, in traversal order.
func (r Result) OfType(types ...classify.SemanticType) []TypedField {
	var out []TypedField
	for _, f := range r.Fields {
		for _, t := range types {
			if f.Type == t {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// Find returns the first field at path. Earlier fields win, matching the
// first-seen order consumers rely on.
func (r Result) Find(path jsonpath.Path) (TypedField, bool) {
	for _, f := range r.Fields {
		if f.Path.Equal(path) {
			return f, true
		}
	}
	return TypedField{}, false
}
