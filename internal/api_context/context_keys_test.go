package api_context

import (
	"context"
	"testing"

	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
)

func TestConversionIDFromContext(t *testing.T) {
	if _, ok := ConversionIDFromContext(context.Background()); ok {
		t.Error("expected no id on empty context")
	}

	id := uuid.NewUUID()
	got, ok := ConversionIDFromContext(WithConversionID(context.Background(), id))
	if !ok || got != id {
		t.Errorf("got %v, %v; want %v, true", got, ok, id)
	}
}

func TestAuthUserIDFromContext(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
		ok    bool
	}{
		{"missing", nil, "", false},
		{"empty", "", "", false},
		{"wrong type", 42, "", false},
		{"subject", "user-1", "user-1", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			if tc.value != nil {
				ctx = context.WithValue(ctx, AuthUserIDKey, tc.value)
			}
			got, ok := AuthUserIDFromContext(ctx)
			if got != tc.want || ok != tc.ok {
				t.Errorf("got %q, %v; want %q, %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}
