package errors

import (
	"strings"
	"testing"
)

func TestValidateComponentID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "chw-pump", false},
		{"dotted", "ahu.cooling_coil", false},
		{"empty", "", true},
		{"space", "supply fan", true},
		{"tab", "fan\t1", true},
		{"quote", `fan"1`, true},
		{"slash", "fan/1", true},
		{"too long", strings.Repeat("a", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComponentID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateComponentID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTopology) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidTopology)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "out/loop.svg", false},
		{"empty", "", true},
		{"nul", "a\x00b", true},
		{"too long", strings.Repeat("p", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePath(tt.path); (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
