package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
	"time"
)

func TestCanonicalQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params []Param
		want   string
	}{
		{
			name:   "empty",
			params: nil,
			want:   "?",
		},
		{
			name:   "scalar",
			params: []Param{Int("limit", 10)},
			want:   "?limit=10",
		},
		{
			name:   "sequence joins with key repeated",
			params: []Param{Seq("symbol", []string{"BUI", "BUS"})},
			want:   "?symbol=BUI?symbol=BUS",
		},
		{
			name:   "absent values are skipped",
			params: []Param{Str("account_id", ""), Int("limit", 5)},
			want:   "?limit=5",
		},
		{
			name:   "mixed scalar and sequence, spec.md §8 scenario 5",
			params: []Param{Seq("symbol", []string{"BUI", "BUS"}), Int("limit", 10)},
			want:   "?symbol=BUI?symbol=BUS?limit=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CanonicalQuery(tt.params); got != tt.want {
				t.Errorf("CanonicalQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestSignerScenario5 reproduces spec.md §8 scenario 5 exactly.
func TestSignerScenario5(t *testing.T) {
	t.Parallel()

	signer, err := NewSigner(42, "deadbeef")
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}

	timestamp, err := time.Parse(TimestampLayout, "2024-01-02T03:04:05.000Z")
	if err != nil {
		t.Fatalf("parse timestamp: %v", err)
	}

	params := []Param{
		Seq("symbol", []string{"BUI", "BUS"}),
		Int("limit", 10),
	}

	wantCanonical := "GET/prod/orders?symbol=BUI?symbol=BUS?limit=10" +
		"BTNL-AUTH-TIMESTAMP2024-01-02T03:04:05.000Z" +
		"BTNL-CONNECTION-ID42"

	gotCanonical := signer.Canonical("GET", "/prod/orders", params, timestamp)
	if gotCanonical != wantCanonical {
		t.Fatalf("Canonical() = %q, want %q", gotCanonical, wantCanonical)
	}

	mac := hmac.New(sha256.New, []byte("deadbeef"))
	mac.Write([]byte(wantCanonical))
	wantSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	gotSig, err := signer.Sign("GET", "/prod/orders", params, timestamp)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if gotSig != wantSig {
		t.Errorf("Sign() = %q, want %q", gotSig, wantSig)
	}
}

func TestSignerIdenticalInputsProduceIdenticalSignatures(t *testing.T) {
	t.Parallel()

	signer, _ := NewSigner(1, "some-token")
	timestamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	params := []Param{Int("limit", 5)}

	sig1, err := signer.Sign("GET", "/prod/fills", params, timestamp)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	sig2, err := signer.Sign("GET", "/prod/fills", params, timestamp)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if sig1 != sig2 {
		t.Errorf("signatures differ for identical inputs: %q vs %q", sig1, sig2)
	}
}

func TestSignerUsesTextualTokenNotDecodedBytes(t *testing.T) {
	t.Parallel()

	// "deadbeef" decodes to 4 raw bytes; the key must be the 8 ASCII
	// characters, not those decoded bytes (spec.md §9).
	signer, _ := NewSigner(1, "deadbeef")
	timestamp := time.Unix(0, 0).UTC()

	got, err := signer.Sign("GET", "/x", nil, timestamp)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	mac := hmac.New(sha256.New, []byte("deadbeef")) // textual, 8 bytes
	mac.Write([]byte(signer.Canonical("GET", "/x", nil, timestamp)))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if got != want {
		t.Errorf("Sign() used the wrong key form: got %q, want %q", got, want)
	}
}

func TestNewSignerRejectsEmptyToken(t *testing.T) {
	t.Parallel()

	if _, err := NewSigner(1, ""); err == nil {
		t.Fatal("expected error for empty auth token")
	}
}
