package settings

import (
	"context"
	"testing"
)

func TestIntoContextFromContext(t *testing.T) {
	tests := []struct {
		name     string
		settings *Run
	}{
		{name: "empty_settings", settings: &Run{}},
		{name: "settings_with_values", settings: &Run{NoColor: true, Width: 80, Source: Source{Path: "x.json"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := IntoContext(context.Background(), tt.settings)
			got, ok := FromContext(ctx)
			if !ok {
				t.Fatal("FromContext() failed to retrieve settings")
			}
			if got != tt.settings {
				t.Error("FromContext() returned a different pointer than stored")
			}
		})
	}
}

func TestFromContextMissing(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
	}{
		{name: "background", ctx: context.Background()},
		{name: "wrong_type", ctx: context.WithValue(context.Background(), runContextKey{}, "wrong type")},
		{name: "nil_settings", ctx: IntoContext(context.Background(), nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := FromContext(tt.ctx); ok || got != nil {
				t.Errorf("FromContext() = %v, %v; want nil, false", got, ok)
			}
		})
	}
}
