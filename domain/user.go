package domain

// User is the normalized identity record issued by the session provider. It
// is immutable for the lifetime of a session and replaced wholesale on
// sign-in and sign-out.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
}
