package recaptcha

import (
	"context"
	"errors"
	"testing"

	"go-medidiagnose/internal/config"
)

func TestVerifierDisabledInDevelopment(t *testing.T) {
	v := NewVerifier(&config.Config{Environment: "development", RecaptchaSecret: "secret"})
	if v.Enabled() {
		t.Fatal("verifier enabled in development")
	}
	if err := v.Verify(context.Background(), "", ""); err != nil {
		t.Errorf("disabled verifier returned %v", err)
	}
}

func TestVerifierDisabledWithoutSecret(t *testing.T) {
	v := NewVerifier(&config.Config{Environment: "production"})
	if v.Enabled() {
		t.Fatal("verifier enabled without a secret")
	}
	if err := v.Verify(context.Background(), "any-token", ""); err != nil {
		t.Errorf("disabled verifier returned %v", err)
	}
}

func TestVerifierRequiresToken(t *testing.T) {
	v := NewVerifier(&config.Config{Environment: "production", RecaptchaSecret: "secret"})
	if !v.Enabled() {
		t.Fatal("verifier should be enabled")
	}
	err := v.Verify(context.Background(), "", "203.0.113.9")
	if !errors.Is(err, ErrMissingToken) {
		t.Errorf("err = %v, want ErrMissingToken", err)
	}
}
