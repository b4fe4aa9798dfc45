package auth

const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserName = "user_name"
	ContextKeyProfile  = "profile"

	jsonKeyError = "error"

	headerAuthorization = "Authorization"

	bearerScheme    = "bearer"
	authHeaderParts = 2
)

const (
	msgMissingAuthorization    = "missing authorization token"
	msgInvalidOrExpiredToken   = "invalid or expired token"
	msgUserNotAuthenticated    = "user not authenticated"
	msgProfileNotProvisioned   = "profile not provisioned, call POST /api/session first"
	msgProfileLookupFailed     = "failed to load profile"
	msgInvalidUserIDCtx        = "invalid user ID in context"
	msgInvalidProfileCtx       = "invalid profile in context"
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenParseFailed        = "failed to parse token: %w"
	msgInvalidTokenClaims      = "invalid token claims"
	msgMissingSubject          = "token has no user id"
)
