package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultDirFor(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"https://github.com/acme/widgets.git", filepath.Join("vendor", "widgets")},
		{"https://github.com/acme/widgets", filepath.Join("vendor", "widgets")},
		{"git@github.com:acme/widgets.git", filepath.Join("vendor", "widgets")},
		{"https://example.com/widgets/", filepath.Join("vendor", "widgets")},
		{"", "vendor"},
	}
	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			require.Equal(t, tt.want, defaultDirFor(tt.remote))
		})
	}
}
