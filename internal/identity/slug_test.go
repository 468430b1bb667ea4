package identity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple name", "Acme", "acme"},
		{"spaces become hyphens", "Acme Rocket Supplies", "acme-rocket-supplies"},
		{"punctuation stripped", "Acme, Inc. (Global)", "acme-inc-global"},
		{"repeated separators collapse", "Acme  --  Labs", "acme-labs"},
		{"leading and trailing trimmed", "  Acme  ", "acme"},
		{"long names truncated", "A Very Long Organization Name Indeed", "a-very-long-organization-n"},
		{"unicode and symbols dropped", "Überstore £tech", "berstore-tech"},
		{"empty input falls back", "!!!", "org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Slugify(tt.in))
			require.LessOrEqual(t, len(Slugify(tt.in)), maxSlugBase)
		})
	}
}
