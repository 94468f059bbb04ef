package loader

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/oakwood-commons/kvlens/pkg/value"
)

func jwtParts(input string) []string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "Bearer ")
	return strings.Split(strings.TrimSpace(input), ".")
}

// IsJWT reports whether input looks like a JWT: three non-empty base64url
// parts, the first two of which decode to JSON objects. A "Bearer " prefix
// is allowed.
func IsJWT(input string) bool {
	parts := jwtParts(input)
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := decodeJWTSegment(parts[i]); err != nil {
			return false
		}
	}
	_, err := base64.RawURLEncoding.DecodeString(parts[2])
	return err == nil
}

// DecodeJWT splits a token into an object with header, payload and
// signature members. Claims keep their encoded order. The signature stays
// as its base64url text.
func DecodeJWT(input string) (*value.Value, error) {
	parts := jwtParts(input)
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid JWT: expected 3 parts, got %d", len(parts))
	}
	header, err := decodeJWTSegment(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid JWT header: %w", err)
	}
	payload, err := decodeJWTSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid JWT payload: %w", err)
	}
	return value.Object(
		value.M("header", header),
		value.M("payload", payload),
		value.M("signature", value.String(parts[2])),
	), nil
}

func decodeJWTSegment(segment string) (*value.Value, error) {
	data, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return nil, err
	}
	v, err := value.Decode(data)
	if err != nil {
		return nil, err
	}
	if v.Kind() != value.KindObject {
		return nil, fmt.Errorf("expected a JSON object, got %s", v.Kind())
	}
	return v, nil
}

func loadJWT(input string) ([]*value.Value, error) {
	v, err := DecodeJWT(input)
	if err != nil {
		return nil, err
	}
	return []*value.Value{v}, nil
}
