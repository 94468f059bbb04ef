// Package classify maps a (key, value) pair to the semantic kind of content it
// holds. Classification is a pure function of the pair: the same key and value
// always produce the same SemanticType, independent of where the node sits.
package classify

// SemanticType is the closed set of content kinds.
type SemanticType string

const (
	Primitive SemanticType = "primitive"
	Text      SemanticType = "text"
	Reasoning SemanticType = "reasoning"
	Code      SemanticType = "code"
	Math      SemanticType = "math"
	Image     SemanticType = "image"
	ToolCall  SemanticType = "tool_call"
	Array     SemanticType = "array"
	Object    SemanticType = "object"
	JSON      SemanticType = "json"
)

// AllTypes lists every SemanticType in a stable display order.
var AllTypes = []SemanticType{
	Primitive, Text, Reasoning, Code, Math, Image, ToolCall, Array, Object, JSON,
}

// IsBranch reports whether a node of this type can be drilled into.
func (t SemanticType) IsBranch() bool {
	return t == Array || t == Object
}

// Valid reports whether t is one of AllTypes.
func (t SemanticType) Valid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}
