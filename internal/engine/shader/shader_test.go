package shader

import "testing"

func TestTerminate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "\x00"},
		{"uTint", "uTint\x00"},
		{"uTint\x00", "uTint\x00"},
		{"#version 410 core\n", "#version 410 core\n\x00"},
	}
	for _, tt := range tests {
		if got := terminate(tt.in); got != tt.want {
			t.Errorf("terminate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
