package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateTestFile(t *testing.T) {
	tests := []struct {
		name    string
		doc     any
		wantErr bool
	}{
		{
			name: "minimal",
			doc: map[string]any{
				"tests": []any{map[string]any{"id": "abc-def-ghi"}},
			},
		},
		{
			name: "with overrides",
			doc: map[string]any{
				"tests": []any{map[string]any{
					"id": "abc-def-ghi",
					"testOverrides": map[string]any{
						"executionRule": "non_blocking",
						"variables":     map[string]any{"ENV": "staging"},
						"locations":     []any{"aws:eu-west-1"},
					},
				}},
			},
		},
		{
			name:    "missing tests",
			doc:     map[string]any{},
			wantErr: true,
		},
		{
			name: "malformed public id",
			doc: map[string]any{
				"tests": []any{map[string]any{"id": "not-a-public-id"}},
			},
			wantErr: true,
		},
		{
			name: "unknown execution rule",
			doc: map[string]any{
				"tests": []any{map[string]any{
					"id":            "abc-def-ghi",
					"testOverrides": map[string]any{"executionRule": "sometimes"},
				}},
			},
			wantErr: true,
		},
		{
			name: "unknown override",
			doc: map[string]any{
				"tests": []any{map[string]any{
					"id":            "abc-def-ghi",
					"testOverrides": map[string]any{"retries": 3.0},
				}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTestFile(tt.doc)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
		})
	}
}
