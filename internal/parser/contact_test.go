package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractEmail(t *testing.T) {
	require.Equal(t, "jane.doe+cv@mail.example.org", ExtractEmail("contact: jane.doe+cv@mail.example.org | x"))
	require.Equal(t, "", ExtractEmail("no email here"))
}

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dashed", "call 555-123-4567 now", "555-123-4567"},
		{"plain", "5551234567", "5551234567"},
		{"parens", "(555) 123-4567", "(555) 123-4567"},
		{"none", "no digits", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExtractPhone(tt.in))
		})
	}
}

func TestExtractPhonePatternOrder(t *testing.T) {
	// The bare pattern is tried first and matches inside the international form.
	require.Equal(t, "555-123-4567", ExtractPhone("+1 555-123-4567"))
}

func TestExtractName(t *testing.T) {
	require.Equal(t, "Jane Ann Doe", ExtractName("\n  Jane Ann Doe  \njane@example.com"))
	require.Equal(t, "", ExtractName("jane doe\nsoftware engineer"))
	require.Equal(t, "", ExtractName("Madonna\nSinger"))
	require.Equal(t, "", ExtractName("a\nb\nc\nd\ne\nJane Doe"))
	require.Equal(t, "Jane Doe", ExtractName("\n\n  \n\n\nJane Doe\njane@example.com\n"))
	require.Equal(t, "", ExtractName("a\n\nb\n\nc\nd\n\ne\n\nJane Doe"))
}
