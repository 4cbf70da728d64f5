package models

// SigninRequest carries the identity provider's bearer credential when
// the client prefers the body over the Authorization header.
type SigninRequest struct {
	Token string `json:"token" validate:"required"`
}

type SigninResponse struct {
	Token string              `json:"token"`
	User  UserProfileResponse `json:"user"`
}
