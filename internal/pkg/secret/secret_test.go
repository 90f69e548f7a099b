package secret

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	box, err := NewBox("passphrase")
	require.NoError(t, err)

	sealed, err := box.Seal("sk-abcdefghijkl")
	require.NoError(t, err)
	require.NotContains(t, sealed, "sk-abcdefghijkl")

	plain, err := box.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, "sk-abcdefghijkl", plain)
}

func TestOpenWithOtherKeyFails(t *testing.T) {
	a, _ := NewBox("one")
	b, _ := NewBox("two")
	sealed, err := a.Seal("value")
	require.NoError(t, err)
	_, err = b.Open(sealed)
	require.ErrorIs(t, err, ErrOpen)
}

func TestNewBoxRequiresPassphrase(t *testing.T) {
	_, err := NewBox(" ")
	require.Error(t, err)
}

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"short", "********"},
		{"12345678", "********"},
		{"sk-1234567890", "sk-1...7890"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Mask(tt.in))
		})
	}
}
