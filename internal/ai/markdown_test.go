package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Reduced costs by 20%", "Reduced costs by 20%"},
		{"emphasis", "Led **five** engineers to _ship_ v2", "Led five engineers to ship v2"},
		{"heading", "# Title\n\nBody text", "Title\n\nBody text"},
		{"list", "- first item\n- second item", "first item\nsecond item"},
		{"paragraphs", "Hello Sam,\n\nI saw the role.", "Hello Sam,\n\nI saw the role."},
		{"code span", "Used `kubectl` daily", "Used kubectl daily"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, StripMarkdown(tt.in))
		})
	}
}
