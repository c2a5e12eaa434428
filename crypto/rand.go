package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"math/big"
)

// AlphanumericAlphabet contains the URL-safe characters used for state
// strings and generated secrets.
const AlphanumericAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Defined in RFC 7636 (PKCE). Allowed characters: A-Z, a-z, 0-9, and the symbols -, ., _, ~.
const pkceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

// The OAuth2 specification (RFC 6749) doesn't mandate a specific length. It
// recommends a random, unguessable string. At least 16 characters, though 32
// to 64 characters is common.
const Oauth2StateLength = 32

// Defined in RFC 7636 (PKCE). Its length must be between 43 and 128 characters.
const Oauth2CodeVerifierLength = 43

// RandomString returns a cryptographically secure random string of the given
// length built from the given alphabet. Panics on an empty alphabet or a
// failing entropy source, both unrecoverable conditions.
func RandomString(length int, alphabet string) string {
	if len(alphabet) == 0 {
		panic("alphabet cannot be empty")
	}

	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b)
}

// Oauth2State returns a state parameter linking an authorization request to
// its callback, preventing CSRF on the OAuth2 flow.
func Oauth2State() string {
	return RandomString(Oauth2StateLength, AlphanumericAlphabet)
}

// Oauth2CodeVerifier returns a PKCE code verifier.
func Oauth2CodeVerifier() string {
	return RandomString(Oauth2CodeVerifierLength, pkceAlphabet)
}

// PKCECodeChallengeMethod is the only challenge method supported, per RFC 7636.
const PKCECodeChallengeMethod = "S256"

// S256Challenge derives the PKCE code challenge from a code verifier.
func S256Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
