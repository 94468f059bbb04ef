package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/oakwood-commons/kvlens/pkg/value"
)

// Format names an input encoding.
type Format int

const (
	// FormatAuto detects the encoding from the input itself.
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
	FormatTOML
	FormatNDJSON
	FormatJWT
)

var formatNames = map[Format]string{
	FormatAuto:   "auto",
	FormatJSON:   "json",
	FormatYAML:   "yaml",
	FormatTOML:   "toml",
	FormatNDJSON: "ndjson",
	FormatJWT:    "jwt",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a flag value such as "yaml" or "jsonl" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "ndjson", "jsonl":
		return FormatNDJSON, nil
	case "jwt":
		return FormatJWT, nil
	default:
		return FormatAuto, fmt.Errorf("unknown input format %q", s)
	}
}

// FormatForPath picks a Format from a file extension, or FormatAuto.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	case ".jwt":
		return FormatJWT
	default:
		return FormatAuto
	}
}

// ErrEmptyInput is returned for blank input.
var ErrEmptyInput = errors.New("empty input")

// Detect guesses the encoding of input. Checks run from the most to the
// least restrictive: JWT, multi-document YAML, NDJSON, TOML, JSON, YAML.
func Detect(input string) Format {
	input = strings.TrimSpace(input)
	switch {
	case IsJWT(input):
		return FormatJWT
	case strings.Contains(input, "\n---") || strings.HasPrefix(input, "---"):
		return FormatYAML
	case isLikelyNDJSON(strings.Split(input, "\n")):
		return FormatNDJSON
	case isLikelyTOML(input):
		return FormatTOML
	case strings.HasPrefix(input, "{") || strings.HasPrefix(input, "["):
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Load parses input into a single root, detecting its format. Inputs that
// hold several documents (multi-document YAML, NDJSON) become an array root.
func Load(input string) (*value.Value, error) {
	return LoadAs(input, FormatAuto)
}

// LoadAs parses input as the given format. With FormatAuto a failed parse
// of the detected format falls back to JSON and then YAML.
func LoadAs(input string, format Format) (*value.Value, error) {
	docs, err := LoadDocuments(input, format)
	if err != nil {
		return nil, err
	}
	if len(docs) == 1 {
		return docs[0], nil
	}
	return value.Array(docs...), nil
}

// LoadBytes parses data into a single root.
func LoadBytes(data []byte) (*value.Value, error) {
	return Load(string(data))
}

// LoadReader reads r to the end and parses it.
func LoadReader(r io.Reader, format Format) (*value.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return LoadAs(string(data), format)
}

// LoadFile reads path and parses it, trying the format its extension names
// before falling back to detection.
func LoadFile(path string) (*value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := FormatForPath(path)
	if format != FormatAuto {
		if root, err := LoadAs(string(data), format); err == nil {
			return root, nil
		}
	}
	return LoadAs(string(data), FormatAuto)
}

// LoadDocuments parses input and returns every document it holds.
func LoadDocuments(input string, format Format) ([]*value.Value, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}
	if format != FormatAuto {
		return decodeAs(input, format)
	}

	detected := Detect(input)
	docs, err := decodeAs(input, detected)
	if err == nil {
		return docs, nil
	}
	for _, fallback := range []Format{FormatJSON, FormatYAML} {
		if fallback == detected {
			continue
		}
		if docs, ferr := decodeAs(input, fallback); ferr == nil {
			return docs, nil
		}
	}
	return nil, err
}

func decodeAs(input string, format Format) ([]*value.Value, error) {
	switch format {
	case FormatJSON:
		return loadJSON(input)
	case FormatYAML:
		return loadYAML(input)
	case FormatTOML:
		return loadTOML(input)
	case FormatNDJSON:
		return loadNDJSON(input)
	case FormatJWT:
		return loadJWT(input)
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
}

// LoadObject accepts data that is already in memory. Strings and byte slices
// are parsed with format detection, *value.Value is returned as is, and
// anything else goes through a JSON round trip so struct tags and field
// order are respected.
func LoadObject(obj any) (*value.Value, error) {
	if obj == nil {
		return nil, fmt.Errorf("object input is nil")
	}
	rv := reflect.ValueOf(obj)
	switch rv.Kind() { //nolint:exhaustive // only nilable kinds matter here
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return nil, fmt.Errorf("object input is nil")
		}
	}

	switch t := obj.(type) {
	case *value.Value:
		return t, nil
	case string:
		return Load(t)
	case []byte:
		return LoadBytes(t)
	}
	data, err := j.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal %T to JSON: %w", obj, err)
	}
	return value.Decode(data)
}

func loadJSON(input string) ([]*value.Value, error) {
	v, err := value.Decode([]byte(input))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return []*value.Value{v}, nil
}

// loadNDJSON parses one JSON value per line. Lines that are not JSON are kept
// as plain strings.
func loadNDJSON(input string) ([]*value.Value, error) {
	lines := strings.Split(input, "\n")
	results := make([]*value.Value, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := value.Decode([]byte(line))
		if err != nil {
			results = append(results, value.String(line))
			continue
		}
		results = append(results, v)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("invalid NDJSON: %w", ErrEmptyInput)
	}
	return results, nil
}

// isLikelyNDJSON requires several non-empty lines, most of which start like
// a JSON object or array, so bare YAML list items are not misread.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmptyCount++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}
	return nonEmptyCount > 1 && jsonCount > nonEmptyCount/2
}

var (
	// [server], [[items]], ["table name"], [database.credentials]
	tomlSection = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// name = "value", database.host = "localhost"
	tomlKeyValue = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// isLikelyTOML reports section headers, or a majority of key = value lines.
func isLikelyTOML(input string) bool {
	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++
		if tomlSection.MatchString(line) {
			sectionCount++
		}
		if tomlKeyValue.MatchString(line) {
			keyValueCount++
		}
	}
	if sectionCount > 0 {
		return true
	}
	return nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2
}
