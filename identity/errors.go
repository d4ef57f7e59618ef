package identity

import "errors"

// Failure taxonomy surfaced by the session provider. Handlers map these to
// short user-facing labels; anything else collapses into ErrAuthFailed.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("malformed email")
	ErrWeakPassword       = errors.New("weak password")
	ErrTooManyAttempts    = errors.New("too many attempts")
	ErrOAuthCancelled     = errors.New("oauth sign-in cancelled")
	ErrAuthFailed         = errors.New("authentication failed")
)

// Label returns the user-facing message for a provider failure.
func Label(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "INVALID CREDENTIALS"
	case errors.Is(err, ErrEmailInUse):
		return "EMAIL ALREADY EXISTS"
	case errors.Is(err, ErrInvalidEmail):
		return "INVALID EMAIL FORMAT"
	case errors.Is(err, ErrWeakPassword):
		return "PASSWORD TOO WEAK (MIN 6 CHARS)"
	case errors.Is(err, ErrTooManyAttempts):
		return "TOO MANY ATTEMPTS - TRY LATER"
	case errors.Is(err, ErrOAuthCancelled):
		return "LOGIN CANCELLED"
	}
	return "AUTHENTICATION FAILED"
}

// mapProviderError converts an identity-provider error code into the fixed
// taxonomy. Codes sometimes arrive with a trailing explanation
// ("WEAK_PASSWORD : Password should be ..."), hence the prefix match.
func mapProviderError(code string) error {
	switch {
	case hasCode(code, "EMAIL_EXISTS"):
		return ErrEmailInUse
	case hasCode(code, "INVALID_EMAIL"), hasCode(code, "MISSING_EMAIL"):
		return ErrInvalidEmail
	case hasCode(code, "WEAK_PASSWORD"), hasCode(code, "MISSING_PASSWORD"):
		return ErrWeakPassword
	case hasCode(code, "INVALID_LOGIN_CREDENTIALS"),
		hasCode(code, "INVALID_PASSWORD"),
		hasCode(code, "EMAIL_NOT_FOUND"),
		hasCode(code, "USER_DISABLED"):
		return ErrInvalidCredentials
	case hasCode(code, "TOO_MANY_ATTEMPTS_TRY_LATER"):
		return ErrTooManyAttempts
	}
	return ErrAuthFailed
}

func hasCode(raw, code string) bool {
	if raw == code {
		return true
	}
	return len(raw) > len(code) && raw[:len(code)] == code && (raw[len(code)] == ' ' || raw[len(code)] == ':')
}
