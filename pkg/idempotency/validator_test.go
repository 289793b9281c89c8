package idempotency

import (
	"strings"
	"testing"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{
			name:    "valid UUID",
			key:     "550e8400-e29b-41d4-a716-446655440000",
			wantErr: nil,
		},
		{
			name:    "valid alphanumeric with separators",
			key:     "abc123-def456_ghi789",
			wantErr: nil,
		},
		{
			name:    "empty key",
			key:     "",
			wantErr: ErrKeyRequired,
		},
		{
			name:    "too long",
			key:     strings.Repeat("a", 256),
			wantErr: ErrKeyTooLong,
		},
		{
			name:    "spaces rejected",
			key:     "abc 123",
			wantErr: ErrKeyInvalid,
		},
		{
			name:    "special characters rejected",
			key:     "abc@123",
			wantErr: ErrKeyInvalid,
		},
		{
			name:    "exactly at maximum length",
			key:     strings.Repeat("a", 255),
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if err != tt.wantErr {
				t.Errorf("ValidateKey() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestComputeFingerprint(t *testing.T) {
	empty := ComputeFingerprint(nil)
	if empty != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("ComputeFingerprint(nil) = %s", empty)
	}

	body := []byte(`{"roundId":"R-100","quantityToPack":3}`)
	got := ComputeFingerprint(body)
	if len(got) != 64 {
		t.Errorf("ComputeFingerprint() length = %d, want 64", len(got))
	}
	if got != ComputeFingerprint(body) {
		t.Errorf("ComputeFingerprint() not deterministic")
	}
	if got == ComputeFingerprint(append(body, '!')) {
		t.Errorf("ComputeFingerprint() same for different inputs")
	}
}

func TestNormalizeKey(t *testing.T) {
	if got := NormalizeKey("  abc123  "); got != "abc123" {
		t.Errorf("NormalizeKey() = %q, want %q", got, "abc123")
	}
	if got := NormalizeKey("abc123"); got != "abc123" {
		t.Errorf("NormalizeKey() = %q, want %q", got, "abc123")
	}
}
