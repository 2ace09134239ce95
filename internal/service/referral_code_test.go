package service

import (
	"context"
	"strings"
	"testing"
)

func TestGenerateReferralCode_Format(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenerateReferralCode()
		if !strings.HasPrefix(code, codePrefix) {
			t.Fatalf("code %q missing prefix %q", code, codePrefix)
		}
		if len(code) != len(codePrefix)+codeLength {
			t.Fatalf("code %q has wrong length", code)
		}
		for _, c := range code[len(codePrefix):] {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("code %q contains %q outside alphabet", code, c)
			}
		}
		seen[code] = true
	}
	// 100 draws from a 32^6 space colliding would mean rand is broken
	if len(seen) < 90 {
		t.Fatalf("expected mostly unique codes, got %d distinct", len(seen))
	}
}

func TestEnsureUniqueCode_RetriesOnCollision(t *testing.T) {
	calls := 0
	exists := func(_ context.Context, code string) (bool, error) {
		calls++
		return calls <= 3, nil // first three codes are "taken"
	}

	code, err := ensureUniqueCode(context.Background(), exists)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 4 {
		t.Fatalf("expected 4 lookups, got %d", calls)
	}
	if !strings.HasPrefix(code, codePrefix) {
		t.Fatalf("code %q missing prefix", code)
	}
}

func TestEnsureUniqueCode_FallbackAfterExhaustion(t *testing.T) {
	exists := func(_ context.Context, code string) (bool, error) {
		return true, nil // every random code collides
	}

	code, err := ensureUniqueCode(context.Background(), exists)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) <= len(codePrefix)+codeLength {
		t.Fatalf("fallback code %q should carry a uniqueness suffix", code)
	}
}
