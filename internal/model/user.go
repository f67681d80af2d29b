package model

// User is an identity known to the user directory.
type User struct {
	Username  string     `json:"username"`
	Email     string     `json:"email,omitempty"`
	Bio       string     `json:"bio,omitempty"`
	Image     string     `json:"image,omitempty"`
	Followers *StringSet `json:"followers,omitempty"`
}

// Profile is the public face of a user, relative to a viewer.
type Profile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}
