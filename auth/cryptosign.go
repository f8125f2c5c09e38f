// Package auth implements the client side of the WAMP cryptosign
// authentication method: an Ed25519 signature over a hex-encoded
// challenge, using the standard library's crypto/ed25519.
package auth

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// ChallengeHandler is invoked once per CHALLENGE message received during
// session opening. It returns the hex-encoded signature to send back as
// the AUTHENTICATE message's signature field.
type ChallengeHandler func(authMethod string, extra map[string]interface{}) (signature string, err error)

// CryptosignHandler builds a ChallengeHandler that signs the "challenge"
// field of extra (a hex string) with secretKey and returns the signature
// as hex, as required by the cryptosign auth method.
func CryptosignHandler(secretKey ed25519.PrivateKey) ChallengeHandler {
	return func(authMethod string, extra map[string]interface{}) (string, error) {
		if authMethod != "cryptosign" {
			return "", fmt.Errorf("auth: cryptosign handler invoked for unexpected method %q", authMethod)
		}

		raw, ok := extra["challenge"]
		if !ok {
			return "", fmt.Errorf("auth: cryptosign CHALLENGE missing challenge field")
		}
		challengeHex, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("auth: cryptosign challenge field is not a string")
		}

		challenge, err := hex.DecodeString(challengeHex)
		if err != nil {
			return "", fmt.Errorf("auth: decoding hex challenge: %w", err)
		}

		sig := ed25519.Sign(secretKey, challenge)
		return hex.EncodeToString(sig), nil
	}
}

// PublicKeyHex hex-encodes the public half of secretKey for use as
// HELLO's authextra.pubkey field.
func PublicKeyHex(secretKey ed25519.PrivateKey) string {
	pub := secretKey.Public().(ed25519.PublicKey)
	return hex.EncodeToString(pub)
}
