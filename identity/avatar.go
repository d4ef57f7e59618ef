package identity

import "net/url"

const fallbackName = "User"

// AvatarURL builds the generated placeholder avatar for users whose provider
// identity carries no photo.
func AvatarURL(name string) string {
	if name == "" {
		name = fallbackName
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=059669&color=fff"
}
