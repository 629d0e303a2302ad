package service

import "testing"

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher("pepper")

	for _, secret := range []string{"pw", "", "   ", "pässwörd", "a much longer secret with spaces"} {
		digest := h.Hash(secret)
		if digest != h.Hash(secret) {
			t.Fatalf("hash of %q is not deterministic", secret)
		}
		if !h.Verify(secret, digest) {
			t.Fatalf("verify(%q, hash(%q)) = false", secret, secret)
		}
		if h.Verify(secret, h.Hash(secret+"x")) {
			t.Fatalf("verify(%q, hash(%q+x)) = true", secret, secret)
		}
	}
}

func TestPasswordHasher_DigestHidesSecret(t *testing.T) {
	h := NewPasswordHasher("")
	digest := h.Hash("hunter2")
	if digest == "hunter2" || len(digest) != 2*hashKeyLen {
		t.Fatalf("unexpected digest %q", digest)
	}
	if NewPasswordHasher("other").Hash("hunter2") == digest {
		t.Fatalf("pepper must change the digest")
	}
}
