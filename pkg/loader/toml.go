package loader

import (
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/oakwood-commons/kvlens/pkg/value"
)

// loadTOML decodes a TOML document. TOML tables come back as Go maps, so
// keys are sorted rather than kept in source order.
func loadTOML(input string) ([]*value.Value, error) {
	var data map[string]any
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return []*value.Value{value.FromInterface(normalizeTOML(data))}, nil
}

// normalizeTOML rewrites date and time values as strings so they read as
// text instead of opaque raw values.
func normalizeTOML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalizeTOML(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = normalizeTOML(item)
		}
		return t
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case toml.LocalDate:
		return t.String()
	case toml.LocalTime:
		return t.String()
	case toml.LocalDateTime:
		return t.String()
	default:
		return v
	}
}
