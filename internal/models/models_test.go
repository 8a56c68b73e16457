package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusKindRoundTrip(t *testing.T) {
	for k := StatusNone; k <= StatusUnversioned; k++ {
		parsed, err := ParseStatusKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := ParseStatusKind("bogus")
	assert.Error(t, err)
	assert.Equal(t, "StatusKind(99)", StatusKind(99).String())
}

func TestParseNodeKind(t *testing.T) {
	tests := []struct {
		in   string
		want NodeKind
	}{
		{"", NodeNone},
		{"file", NodeFile},
		{"dir", NodeDir},
		{" Directory ", NodeDir},
		{"unknown", NodeUnknown},
	}
	for _, tt := range tests {
		got, err := ParseNodeKind(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseNodeKind("symlink")
	assert.Error(t, err)
}
