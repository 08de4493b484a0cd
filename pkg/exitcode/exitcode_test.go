/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package exitcode

import (
	"testing"
)

func TestExitCodesAreDistinct(t *testing.T) {
	codes := []int{Success, GeneralError, ConfigError, Mismatch, VCSError, FileSystemError}
	seen := map[int]bool{}
	for _, c := range codes {
		if seen[c] {
			t.Errorf("exit code %d defined twice", c)
		}
		seen[c] = true
	}
	if Success != 0 {
		t.Errorf("Success = %v, expected 0", Success)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{ConfigError, "Configuration error"},
		{Mismatch, "Reference files not accepted"},
		{VCSError, "Version control error"},
		{FileSystemError, "File system error"},
		{42, "Unknown error"},
	}

	for _, tt := range tests {
		if result := String(tt.code); result != tt.expected {
			t.Errorf("String(%d) = %q, expected %q", tt.code, result, tt.expected)
		}
	}
}
