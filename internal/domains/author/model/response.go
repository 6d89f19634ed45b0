package model

import "encoding/json"

// AuthorResponse is the external representation of an Author.
// The password hash is never part of it.
type AuthorResponse struct {
	ID              string  `json:"authorId"`
	AvatarURL       *string `json:"authorAvatarUrl"`
	ActivationToken *string `json:"authorActivationToken"`
	Email           string  `json:"authorEmail"`
	Username        string  `json:"authorUsername"`
}

// ToResponse converts Author to AuthorResponse, rendering the id in its
// canonical text form.
func (a *Author) ToResponse() *AuthorResponse {
	return &AuthorResponse{
		ID:              a.id.String(),
		AvatarURL:       cloneString(a.avatarURL),
		ActivationToken: cloneString(a.activationToken),
		Email:           a.email,
		Username:        a.username,
	}
}

func (a *Author) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.ToResponse())
}
