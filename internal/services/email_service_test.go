package services

import (
	"strings"
	"testing"
)

func TestVerificationEmail_ContainsCode(t *testing.T) {
	t.Parallel()

	body := VerificationEmail("72305")
	if !strings.Contains(body, "72305") {
		t.Fatalf("body missing code: %s", body)
	}
	if !strings.Contains(body, "Verify Your Email") {
		t.Fatal("body missing heading")
	}
}

func TestResetEmail_ContainsLink(t *testing.T) {
	t.Parallel()

	url := "http://localhost:5173/password/reset/abc123"
	body := ResetEmail(url)
	if !strings.Contains(body, url) {
		t.Fatalf("body missing reset link: %s", body)
	}
}
