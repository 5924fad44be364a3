package engine

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		input     string
		sanitized string
		changed   bool
	}{
		{"test", "test", false},
		{"Test test", "test_test", true},
		{"TestName", "testname", true},
		{"test-name!", "test_name", true},
		{"test_name", "test_name", false},
		{"_test_", "test", true},
		{"test__name", "test_name", true},
		{"___", "", true},
		{"123", "123", false},
		{"  padded  ", "padded", false},
		{"Café Menu", "caf_menu", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sanitized, changed := Sanitize(tt.input)
			assert.Equal(t, tt.sanitized, sanitized)
			assert.Equal(t, tt.changed, changed)
		})
	}
}
