package utils

import (
	"testing"
)

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		username   string
		password   string
		wantFields []string
	}{
		{
			name:     "valid",
			email:    "alice@example.com",
			username: "alice_1",
			password: "correct horse",
		},
		{
			name:       "bad email",
			email:      "not-an-email",
			username:   "alice",
			password:   "correct horse",
			wantFields: []string{"email"},
		},
		{
			name:       "username too short",
			email:      "alice@example.com",
			username:   "a",
			password:   "correct horse",
			wantFields: []string{"username"},
		},
		{
			name:       "username with spaces",
			email:      "alice@example.com",
			username:   "al ice",
			password:   "correct horse",
			wantFields: []string{"username"},
		},
		{
			name:       "short password",
			email:      "alice@example.com",
			username:   "alice",
			password:   "short",
			wantFields: []string{"password"},
		},
		{
			name:       "everything wrong",
			email:      "",
			username:   "",
			password:   "",
			wantFields: []string{"email", "username", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := ValidateSignup(tt.email, tt.username, tt.password)
			if len(tt.wantFields) == 0 {
				if problems != nil {
					t.Fatalf("ValidateSignup() = %v, want nil", problems)
				}
				return
			}
			if len(problems) != len(tt.wantFields) {
				t.Fatalf("ValidateSignup() = %v, want problems for %v", problems, tt.wantFields)
			}
			for _, field := range tt.wantFields {
				if _, ok := problems[field]; !ok {
					t.Errorf("ValidateSignup() missing problem for %q", field)
				}
			}
		})
	}
}
