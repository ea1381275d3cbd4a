package git_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aleclarson/subrepo-install/internal/git"
)

func TestIsCommitHash(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want bool
	}{
		{"full lowercase hash", strings.Repeat("0123456789abcdef", 2) + "01234567", true},
		{"branch name", "main", false},
		{"tag name", "v1.2.3", false},
		{"short hash", "a1b2c3d", false},
		{"uppercase hex", strings.Repeat("A", 40), false},
		{"too long", strings.Repeat("a", 41), false},
		{"empty", "", false},
		{"hex-looking branch", "deadbeef", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, git.IsCommitHash(tt.ref))
		})
	}
}
