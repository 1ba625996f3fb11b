package constants

// ContextKeyUserID is the gin context key under which the authenticated
// user's ID is stored by the auth middleware.
const ContextKeyUserID = "user_id"

// Pagination bounds.
const (
	MinPage         = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// DefaultProfileImage is the sentinel meaning "no uploaded image".
const DefaultProfileImage = "default-profile.png"
