package errors

import (
	"strings"
	"testing"
)

func TestValidateProviderID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "files", false},
		{"valid with dash", "home-files", false},
		{"valid with underscore", "my_apps", false},
		{"valid with dot", "apps.v2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"with space", "my files", true},
		{"with tab", "my\tfiles", true},
		{"with slash", "a/b", true},
		{"with backslash", "a\\b", true},
		{"with colon", "a:b", true},
		{"with control char", "a\x01b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProviderID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProviderID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidProvider) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidProvider)
			}
		})
	}
}

func TestValidateFolderRoot(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid absolute", "/home/user/docs", false},
		{"valid relative", "docs", false},
		{"valid with spaces", "/home/my docs", false},

		{"empty", "", true},
		{"null byte", "/home/\x00docs", true},
		{"control char", "/home/\x07docs", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFolderRoot(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFolderRoot(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}
