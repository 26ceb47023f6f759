package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHashAndVerify(t *testing.T) {
	hasher, err := NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}

	hash, err := hasher.Hash("Legacy-pass1!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !hasher.Identify(hash) {
		t.Fatalf("expected bcrypt hash to be identified: %s", hash)
	}

	ok, err := hasher.Verify("Legacy-pass1!", hash)
	if err != nil || !ok {
		t.Fatalf("Verify failed: ok=%v err=%v", ok, err)
	}
	ok, err = hasher.Verify("Legacy-pass1?", hash)
	if err != nil {
		t.Fatalf("Verify error on mismatch: %v", err)
	}
	if ok {
		t.Fatal("expected mismatch to return false")
	}
}

func TestBcryptRejectsInvalidCost(t *testing.T) {
	if _, err := NewBcrypt(bcrypt.MinCost - 1); err == nil {
		t.Fatal("expected cost below minimum to be rejected")
	}
	if _, err := NewBcrypt(bcrypt.MaxCost + 1); err == nil {
		t.Fatal("expected cost above maximum to be rejected")
	}
}

func TestBcryptVerifyMalformedHash(t *testing.T) {
	hasher, err := NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	if _, err := hasher.Verify("password", "$2b$broken"); err == nil {
		t.Fatal("expected malformed bcrypt hash to fail")
	}
}

func TestBcryptNeedsUpgrade(t *testing.T) {
	weak, err := NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	strong, err := NewBcrypt(bcrypt.MinCost + 1)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}

	hash, err := weak.Hash("Upgrade-me1!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if needs, err := strong.NeedsUpgrade(hash); err != nil || !needs {
		t.Fatalf("expected upgrade for lower cost: needs=%v err=%v", needs, err)
	}
	if needs, err := weak.NeedsUpgrade(hash); err != nil || needs {
		t.Fatalf("expected no upgrade for same cost: needs=%v err=%v", needs, err)
	}
}

func TestBcryptIdentifyPrefixes(t *testing.T) {
	hasher, err := NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if !hasher.Identify(prefix + "10$" + strings.Repeat("a", 53)) {
			t.Fatalf("expected prefix %s to be identified", prefix)
		}
	}
	if hasher.Identify("$argon2id$v=19$") {
		t.Fatal("expected argon2 hash not to be identified as bcrypt")
	}
}
