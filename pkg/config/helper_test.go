package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		prefix   string
		flag     string
		expected string
	}{
		{"scan", "bytes", "scan.bytes"},
		{"scan", "print-file-name", "scan.print_file_name"},
		{"scan", "include-all-whitespace", "scan.include_all_whitespace"},
		{"", "log-level", "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Key(tt.prefix, tt.flag))
		})
	}
}
