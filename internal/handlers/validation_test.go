package handlers

import (
	"strings"
	"testing"
)

func TestValidateSTXAddress(t *testing.T) {
	tests := []struct {
		address string
		valid   bool
	}{
		{"SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7", true},
		{"ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM", true},
		{"", false},
		{"0x71C7656EC7ab88b098defB751B7401B5f6d8976F", false},
		{"SP123", false},
		{"SP" + strings.Repeat("Q", 60), false},
	}
	for _, tt := range tests {
		got := validateSTXAddress(tt.address)
		if tt.valid && got != "" {
			t.Errorf("validateSTXAddress(%q) = %q, want valid", tt.address, got)
		}
		if !tt.valid && got == "" {
			t.Errorf("validateSTXAddress(%q) accepted, want error", tt.address)
		}
	}
}

func TestValidateBTCAddress(t *testing.T) {
	tests := []struct {
		address string
		valid   bool
	}{
		{"", true}, // optional
		{"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", true},
		{"3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy", true},
		{"bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", true},
		{"tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx", true},
		{"mipcBbFg9gMiCh81Kj8tqqdgoZub1ZJRfn", true},
		{"xinvalidprefix", false},
		{"bc1short", false},
		{"1tooshort", false},
	}
	for _, tt := range tests {
		got := validateBTCAddress(tt.address)
		if tt.valid && got != "" {
			t.Errorf("validateBTCAddress(%q) = %q, want valid", tt.address, got)
		}
		if !tt.valid && got == "" {
			t.Errorf("validateBTCAddress(%q) accepted, want error", tt.address)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"", ""},
		{"john@example.com", ""},
		{"not-an-email", "invalid email format"},
		{"two@@example.com", "invalid email format"},
		{"john@gmial.com", "did you mean gmail.com?"},
		{"john@hotmal.com", "did you mean hotmail.com?"},
	}
	for _, tt := range tests {
		if got := validateEmail(tt.email); got != tt.want {
			t.Errorf("validateEmail(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}
