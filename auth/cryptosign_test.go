package auth

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"
)

func TestCryptosignHandlerSignsChallenge(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	challenge := []byte("01234567890123456789012345678901")
	challengeHex := hex.EncodeToString(challenge)

	handler := CryptosignHandler(priv)
	sigHex, err := handler("cryptosign", map[string]interface{}{"challenge": challengeHex})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		t.Fatalf("decoding returned signature: %v", err)
	}
	if !ed25519.Verify(pub, challenge, sig) {
		t.Fatal("signature did not verify against the challenge")
	}
}

func TestCryptosignHandlerRejectsWrongMethod(t *testing.T) {
	_, priv, _ := ed25519.GenerateKey(nil)
	handler := CryptosignHandler(priv)
	if _, err := handler("wampcra", map[string]interface{}{}); err == nil {
		t.Fatal("expected error for non-cryptosign method")
	}
}

func TestCryptosignHandlerRejectsMissingChallenge(t *testing.T) {
	_, priv, _ := ed25519.GenerateKey(nil)
	handler := CryptosignHandler(priv)
	if _, err := handler("cryptosign", map[string]interface{}{}); err == nil {
		t.Fatal("expected error for missing challenge field")
	}
}

func TestPublicKeyHex(t *testing.T) {
	pub, priv, _ := ed25519.GenerateKey(nil)
	got := PublicKeyHex(priv)
	want := hex.EncodeToString(pub)
	if got != want {
		t.Fatalf("PublicKeyHex() = %q, want %q", got, want)
	}
}
