package core

import (
	"encoding/json"
	"net/http"
)

// Standard response codes
const (
	// oks
	CodeOkAccountCreated         = "ok_account_created"
	CodeOkEmailVerified          = "ok_email_verified"
	CodeOkAlreadyVerified        = "ok_already_verified"
	CodeOkActivationRequested    = "ok_activation_requested"
	CodeOkPasswordResetRequested = "ok_password_reset_requested"
	CodeOkPasswordReset          = "ok_password_reset"
	CodeOkPasswordResetNotNeeded = "ok_password_reset_not_needed"

	// errors
	CodeErrorInvalidRequest             = "err_invalid_input"
	CodeErrorInvalidContentType         = "err_invalid_content_type"
	CodeErrorMissingFields              = "err_missing_fields"
	CodeErrorInvalidName                = "err_invalid_name"
	CodeErrorInvalidPhone               = "err_invalid_phone"
	CodeErrorTermsNotAccepted           = "err_terms_not_accepted"
	CodeErrorPasswordMismatch           = "err_password_mismatch"
	CodeErrorPasswordComplexity         = "err_password_complexity"
	CodeErrorEmailConflict              = "err_email_conflict"
	CodeErrorInvalidCredentials         = "err_invalid_credentials"
	CodeErrorAccountNotFound            = "err_account_not_found"
	CodeErrorAlreadyVerified            = "err_already_verified"
	CodeErrorInvalidVerificationToken   = "err_invalid_verification_token"
	CodeErrorActivationAlreadyRequested = "err_activation_already_requested"
	CodeErrorResetAlreadyRequested      = "err_password_reset_already_requested"
	CodeErrorTokenGeneration            = "err_token_generation"
	CodeErrorAuthDatabaseError          = "err_auth_database_error"
	CodeErrorServiceUnavailable         = "err_service_unavailable"
	CodeErrorInvalidOAuth2Provider      = "err_invalid_oauth2_provider"
	CodeErrorOAuth2TokenExchangeFailed  = "err_oauth2_token_exchange_failed"
	CodeErrorOAuth2UserInfoFailed       = "err_oauth2_user_info_failed"
	CodeErrorOAuth2DatabaseError        = "err_oauth2_database_error"
)

// precomputeBasicResponse runs during initialization (before main()) and
// stores the fully marshaled JSON body in the response variable. It avoids
// repeated JSON marshaling during request handling: writeJsonOk and
// writeJsonError simply copy the precomputed bytes to the response writer.
func precomputeBasicResponse(status int, code, message string) jsonResponse {
	basic := JsonBasic{
		Status:  status,
		Code:    code,
		Message: message,
	}
	body, _ := json.Marshal(basic)
	return jsonResponse{status: status, body: body}
}

// Precomputed error and ok responses with status codes
var (
	// errors
	errorInvalidRequest           = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidRequest, "The request contains invalid data")
	errorInvalidContentType       = precomputeBasicResponse(http.StatusUnsupportedMediaType, CodeErrorInvalidContentType, "Unsupported media type")
	errorMissingFields            = precomputeBasicResponse(http.StatusBadRequest, CodeErrorMissingFields, "Required fields are missing")
	errorInvalidName              = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidName, "First and last name must be between 2 and 32 characters")
	errorInvalidPhone             = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidPhone, "Phone number is not valid")
	errorTermsNotAccepted         = precomputeBasicResponse(http.StatusBadRequest, CodeErrorTermsNotAccepted, "You must accept the terms and conditions")
	errorPasswordMismatch         = precomputeBasicResponse(http.StatusBadRequest, CodeErrorPasswordMismatch, "Password and confirmation do not match")
	errorPasswordComplexity       = precomputeBasicResponse(http.StatusBadRequest, CodeErrorPasswordComplexity, "Password must be between 6 and 52 characters")
	errorEmailConflict            = precomputeBasicResponse(http.StatusBadRequest, CodeErrorEmailConflict, "Email address is already registered")
	errorInvalidCredentials       = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidCredentials, "Invalid credentials provided")
	errorAccountNotFound          = precomputeBasicResponse(http.StatusBadRequest, CodeErrorAccountNotFound, "This account no longer exist.")
	errorAlreadyVerified          = precomputeBasicResponse(http.StatusBadRequest, CodeErrorAlreadyVerified, "Email address already verified.")
	errorInvalidVerificationToken = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorInvalidVerificationToken, "Unable to verify token")
	errorActivationAlreadyRequested = precomputeBasicResponse(http.StatusConflict, CodeErrorActivationAlreadyRequested, "Activation email already requested. Check your mailbox")
	errorResetAlreadyRequested    = precomputeBasicResponse(http.StatusConflict, CodeErrorResetAlreadyRequested, "Password reset already requested")
	errorTokenGeneration          = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorTokenGeneration, "Failed to generate authentication token")
	errorAuthDatabaseError        = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorAuthDatabaseError, "Database error during authentication")
	errorServiceUnavailable       = precomputeBasicResponse(http.StatusServiceUnavailable, CodeErrorServiceUnavailable, "Service is temporarily unavailable")
	errorInvalidOAuth2Provider    = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidOAuth2Provider, "Invalid OAuth2 provider specified")
	errorOAuth2TokenExchangeFailed = precomputeBasicResponse(http.StatusBadRequest, CodeErrorOAuth2TokenExchangeFailed, "Failed to exchange OAuth2 token")
	errorOAuth2UserInfoFailed     = precomputeBasicResponse(http.StatusBadRequest, CodeErrorOAuth2UserInfoFailed, "Failed to get user info from OAuth2 provider")
	errorOAuth2DatabaseError      = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorOAuth2DatabaseError, "Database error during OAuth2 authentication")

	// oks
	okAccountCreated         = precomputeBasicResponse(http.StatusCreated, CodeOkAccountCreated, "Account created. Check your email to activate your account")
	okEmailVerified          = precomputeBasicResponse(http.StatusOK, CodeOkEmailVerified, "Your account has been successfully verified.")
	okAlreadyVerified        = precomputeBasicResponse(http.StatusAccepted, CodeOkAlreadyVerified, "Email already verified - no further action needed")
	okActivationRequested    = precomputeBasicResponse(http.StatusAccepted, CodeOkActivationRequested, "Activation email will be sent soon. Check your mailbox")
	okPasswordResetRequested = precomputeBasicResponse(http.StatusOK, CodeOkPasswordResetRequested, "Password reset instructions will be sent to your email if it exists in our system")
	okPasswordReset          = precomputeBasicResponse(http.StatusOK, CodeOkPasswordReset, "Password reset successfully")
	okPasswordResetNotNeeded = precomputeBasicResponse(http.StatusOK, CodeOkPasswordResetNotNeeded, "New password matches current password - no change needed")
)
