package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePasswordFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write password file: %v", err)
	}
}

func TestVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin_password.txt")
	writePasswordFile(t, path, "s3cret\n")

	ap := NewAdminPassword(path)

	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"exact match", "s3cret", true},
		{"trims candidate", "  s3cret  ", true},
		{"wrong password", "guess", false},
		{"empty candidate", "", false},
		{"prefix only", "s3cre", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ap.Verify(tt.candidate); got != tt.want {
				t.Errorf("Verify(%q) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestVerifyMissingFile(t *testing.T) {
	ap := NewAdminPassword(filepath.Join(t.TempDir(), "missing.txt"))
	if ap.Verify("anything") {
		t.Errorf("expected verification to fail with no password file")
	}
	if ap.Verify("") {
		t.Errorf("expected empty candidate to fail with no password file")
	}
}

func TestVerifyReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin_password.txt")
	writePasswordFile(t, path, "first")

	ap := NewAdminPassword(path)
	if !ap.Verify("first") {
		t.Fatalf("expected initial password to verify")
	}

	writePasswordFile(t, path, "second")
	// Force a distinct mtime; fast writes can land in the same tick.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("failed to bump mtime: %v", err)
	}

	if ap.Verify("first") {
		t.Errorf("expected old password to be rejected after rotation")
	}
	if !ap.Verify("second") {
		t.Errorf("expected new password to verify after rotation")
	}
}

func TestVerifyFailsAfterFileRemoved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin_password.txt")
	writePasswordFile(t, path, "s3cret")

	ap := NewAdminPassword(path)
	if !ap.Verify("s3cret") {
		t.Fatalf("expected password to verify")
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove password file: %v", err)
	}
	if ap.Verify("s3cret") {
		t.Errorf("expected verification to fail after file removal")
	}
}
