package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		password  string
		wantError bool
	}{
		{name: "valid", password: "StrongPass123", wantError: false},
		{name: "too short", password: "Ab1", wantError: true},
		{name: "letters only", password: "OnlyLettersHere", wantError: true},
		{name: "digits only", password: "123456789012", wantError: true},
		{name: "too long", password: strings.Repeat("a1", 70), wantError: true},
		{name: "minimum length", password: "abcdefg1", wantError: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tc.password)
			if tc.wantError && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantError && err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if tc.wantError && !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSessionExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s := Session{ExpiresAt: now}
	if !s.Expired(now) {
		t.Fatal("session expiring exactly now should be expired")
	}
	if s.Expired(now.Add(-1)) {
		t.Fatal("session should be live before its expiry")
	}
}
