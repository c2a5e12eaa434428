package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// MinSecretLength is the minimum required length for JWT signing secrets.
	// 32 bytes (256 bits) is the minimum recommended length for HMAC-SHA256
	// keys to provide sufficient security against brute force attacks.
	MinSecretLength = 32

	// JWT claim keys
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
	ClaimUserID    = "user_id"
	ClaimEmail     = "email"
	ClaimType      = "type"

	// Values of the type claim. A token minted for one purpose must never
	// verify for another, even if the purpose secrets were identical.
	ClaimActivationValue    = "activation"
	ClaimPasswordResetValue = "password_reset"
	ClaimSessionValue       = "session"
)

var (
	// ErrJwtTokenExpired is returned when the token has expired
	ErrJwtTokenExpired = errors.New("token expired")
	// ErrJwtInvalidToken is returned when the token is invalid
	ErrJwtInvalidToken = errors.New("invalid token")
	// ErrJwtInvalidSigningMethod is returned when the signing method is not HS256
	ErrJwtInvalidSigningMethod = errors.New("unexpected signing method")
	// ErrJwtInvalidSecretLength is returned for invalid secret lengths
	ErrJwtInvalidSecretLength = errors.New("invalid secret length")
)

// ParseJwt verifies and parses a JWT and returns its claims.
// Returns a jwt.MapClaims that can be accessed like any other Go map:
//
//	userID := claims[ClaimUserID].(string)
func ParseJwt(token string, verificationKey []byte) (jwt.MapClaims, error) {
	parser := jwt.NewParser()

	parsedToken, err := parser.Parse(token, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrJwtInvalidSigningMethod
		}
		return verificationKey, nil
	})

	if err != nil {
		if errors.Is(err, ErrJwtInvalidSigningMethod) {
			return nil, ErrJwtInvalidSigningMethod
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrJwtTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrJwtInvalidToken
		}
		return nil, fmt.Errorf("%w: %w", ErrJwtInvalidToken, err)
	}

	if claims, ok := parsedToken.Claims.(jwt.MapClaims); ok && parsedToken.Valid {
		return claims, nil
	}

	return nil, ErrJwtInvalidToken
}

// ParseJwtUnverified extracts claims without verifying the signature.
// Used to discard malformed tokens fast and to learn which user the token
// claims to belong to, so the real verification key can be derived from
// that user's stored credentials. Nothing may be trusted until ParseJwt
// succeeds with the derived key.
func ParseJwtUnverified(token string) (jwt.MapClaims, error) {
	parser := jwt.NewParser()
	parsedToken, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJwtInvalidToken, err)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrJwtInvalidToken
	}
	return claims, nil
}

// NewJwt generates a new JWT token with the provided claims.
// payload is jwt.MapClaims which is just map[string]any:
//
//	payload := jwt.MapClaims{ClaimUserID: userID}
func NewJwt(payload jwt.MapClaims, signingKey []byte, duration time.Duration) (string, time.Time, error) {
	if len(signingKey) < MinSecretLength {
		return "", time.Time{}, ErrJwtInvalidSecretLength
	}

	now := time.Now()
	expirationTime := now.Add(duration)
	payload[ClaimIssuedAt] = now.Unix()
	payload[ClaimExpiresAt] = expirationTime.Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	tokenString, err := token.SignedString(signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expirationTime, nil
}

// NewJwtSigningKeyWithCredentials creates a JWT signing key using HMAC-SHA256.
//
// It derives a unique key by combining user-specific data (email,
// passwordHash) with a server secret. Tokens are invalidated when the user's
// email or password changes, or globally by rotating the secret. That is what
// makes reset tokens effectively single-use: a successful reset changes the
// password hash and every outstanding token stops verifying.
//
// Using HMAC prevents length-extension attacks, unlike simple hash
// concatenation. A null byte delimits email and passwordHash to prevent
// collisions between the two inputs.
func NewJwtSigningKeyWithCredentials(email, passwordHash string, secret string) ([]byte, error) {
	if email == "" || passwordHash == "" {
		return nil, ErrJwtInvalidSecretLength
	}

	if len(secret) < MinSecretLength {
		return nil, ErrJwtInvalidSecretLength
	}

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(email))
	h.Write([]byte{0})
	h.Write([]byte(passwordHash))

	return h.Sum(nil), nil
}

// NewJwtActivationToken mints an email activation token for the given user.
func NewJwtActivationToken(userID, email, passwordHash, secret string, duration time.Duration) (string, error) {
	signingKey, err := NewJwtSigningKeyWithCredentials(email, passwordHash, secret)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		ClaimUserID: userID,
		ClaimEmail:  email,
		ClaimType:   ClaimActivationValue,
	}

	token, _, err := NewJwt(claims, signingKey, duration)
	if err != nil {
		return "", fmt.Errorf("failed to create activation token: %w", err)
	}
	return token, nil
}

// NewJwtPasswordResetToken mints a password reset token for the given user.
// The signing key includes the current password hash, so the token stops
// verifying as soon as the password changes.
func NewJwtPasswordResetToken(userID, email, passwordHash, secret string, duration time.Duration) (string, error) {
	signingKey, err := NewJwtSigningKeyWithCredentials(email, passwordHash, secret)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		ClaimUserID: userID,
		ClaimEmail:  email,
		ClaimType:   ClaimPasswordResetValue,
	}

	token, _, err := NewJwt(claims, signingKey, duration)
	if err != nil {
		return "", fmt.Errorf("failed to create password reset token: %w", err)
	}
	return token, nil
}

// passwordlessCredential stands in for the password hash when deriving a
// session key for an account that has none (pure OAuth2 login). The value
// cannot collide with a real bcrypt hash, which always starts with "$2".
const passwordlessCredential = "oauth2:passwordless"

// NewJwtSessionToken mints a short-lived session token after a successful
// login or registration. Accounts without a password get a fixed credential
// placeholder; their sessions are invalidated by secret rotation only.
func NewJwtSessionToken(userID, email, passwordHash, secret string, duration time.Duration) (string, error) {
	if passwordHash == "" {
		passwordHash = passwordlessCredential
	}
	signingKey, err := NewJwtSigningKeyWithCredentials(email, passwordHash, secret)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		ClaimUserID: userID,
		ClaimType:   ClaimSessionValue,
	}

	token, _, err := NewJwt(claims, signingKey, duration)
	if err != nil {
		return "", fmt.Errorf("failed to create session token: %w", err)
	}
	return token, nil
}
