package constants

const (
	// ContextKeyUserID is used both as the session key and the gin context key
	// for the authenticated user's identity.
	ContextKeyUserID = "user_id"

	// SessionName is the cookie name of the authentication session.
	SessionName = "orgdir_session"

	MinPasswordLength = 8
)
