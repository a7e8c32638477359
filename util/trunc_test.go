package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRightWithSuffix(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		len      int
		expected string
	}{
		{name: "short", text: "test.zip", len: 30, expected: "test.zip"},
		{name: "exact", text: "test.zip", len: 8, expected: "test.zip"},
		{name: "long", text: "test.zip", len: 4, expected: "test..."},
		{name: "runes", text: "héllo wörld", len: 7, expected: "héllo w..."},
		{name: "zero", text: "test.zip", len: 0, expected: "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateRightWithSuffix(tt.text, tt.len, "..."))
		})
	}

	assert.Equal(t, "test", TruncateRight("test.zip", 4))
}
