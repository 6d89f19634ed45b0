package service

import (
	"github.com/google/uuid"

	"booksite-backend/internal/domains/author/model"
)

const authorCacheKeyPrefix = "author:"

func cacheKey(id uuid.UUID) string {
	return authorCacheKeyPrefix + id.String()
}

// cachedAuthor is the cache representation of an Author. Unlike the public
// JSON form it keeps the hash, so a hit can be rebuilt into a full Author.
type cachedAuthor struct {
	ID              string  `json:"id"`
	AvatarURL       *string `json:"avatarUrl"`
	ActivationToken *string `json:"activationToken"`
	Email           string  `json:"email"`
	Hash            string  `json:"hash"`
	Username        string  `json:"username"`
}

func toCached(a *model.Author) cachedAuthor {
	return cachedAuthor{
		ID:              a.ID().String(),
		AvatarURL:       a.AvatarURL(),
		ActivationToken: a.ActivationToken(),
		Email:           a.Email(),
		Hash:            a.Hash(),
		Username:        a.Username(),
	}
}

func (c cachedAuthor) author() (*model.Author, error) {
	return model.New(c.ID, c.AvatarURL, c.ActivationToken, c.Email, c.Hash, c.Username)
}
