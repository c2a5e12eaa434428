package crypto

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidVerificationToken is returned when a lifecycle token carries
// missing or mismatched claims.
var ErrInvalidVerificationToken = errors.New("invalid verification token")

// IMPORTANT: Regarding claim presence and validation
//
// The jwt parser validates the values of standard claims like `exp` IF THEY
// ARE PRESENT, but it does not enforce their presence. A token missing the
// `exp` claim would otherwise pass. The functions below explicitly check
// presence of every claim a lifecycle token must carry, before any signature
// verification key is derived from them.

func validateLifecycleClaims(claims jwt.MapClaims, wantType string) error {
	if _, ok := claims[ClaimIssuedAt].(float64); !ok {
		return fmt.Errorf("%w: missing iat claim", ErrInvalidVerificationToken)
	}
	if _, ok := claims[ClaimExpiresAt].(float64); !ok {
		return fmt.Errorf("%w: missing exp claim", ErrInvalidVerificationToken)
	}
	if id, ok := claims[ClaimUserID].(string); !ok || id == "" {
		return fmt.Errorf("%w: missing user_id", ErrInvalidVerificationToken)
	}
	if email, ok := claims[ClaimEmail].(string); !ok || email == "" {
		return fmt.Errorf("%w: missing email", ErrInvalidVerificationToken)
	}
	if typ, ok := claims[ClaimType].(string); !ok || typ != wantType {
		return fmt.Errorf("%w: invalid type claim", ErrInvalidVerificationToken)
	}
	return nil
}

// ValidateActivationClaims checks that all claims an activation token must
// carry exist and have the correct values.
func ValidateActivationClaims(claims jwt.MapClaims) error {
	return validateLifecycleClaims(claims, ClaimActivationValue)
}

// ValidatePasswordResetClaims checks that all claims a password reset token
// must carry exist and have the correct values.
func ValidatePasswordResetClaims(claims jwt.MapClaims) error {
	return validateLifecycleClaims(claims, ClaimPasswordResetValue)
}
