package service

import (
	"context"

	"booksite-backend/internal/domains/author/model"
	"booksite-backend/internal/domains/author/repository"
	"booksite-backend/pkg/database"
)

// DB is what the service needs from the database: a store for single
// statements and transactions for read-modify-write. *sqlx.DB implements it.
type DB interface {
	repository.Store
	database.TxBeginner
}

// RegisterInput carries the fields of a new author. The id and the
// activation token are generated.
type RegisterInput struct {
	AvatarURL *string
	Email     string
	Hash      string
	Username  string
}

// UpdateProfileInput lists the fields to change; nil leaves a field as is.
type UpdateProfileInput struct {
	AvatarURL   *string
	ClearAvatar bool
	Email       *string
	Hash        *string
	Username    *string
}

// ServiceInterface defines all business operations for the Author domain
type ServiceInterface interface {
	// Register creates an author with a fresh id and activation token
	Register(ctx context.Context, in RegisterInput) (*model.Author, error)

	// GetByID reads through the cache; returns nil, nil when not found
	GetByID(ctx context.Context, id string) (*model.Author, error)

	// Activate clears the activation token of the author holding token
	// Errors: ErrAuthorNotFound, ErrActivationTokenAmbiguous
	Activate(ctx context.Context, token string) (*model.Author, error)

	// UpdateProfile applies in to the author and persists it
	UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*model.Author, error)

	// Delete removes the author
	Delete(ctx context.Context, id string) error

	SearchByAvatarURL(ctx context.Context, term string) ([]*model.Author, error)
	SearchByActivationToken(ctx context.Context, token string) ([]*model.Author, error)

	// Authenticate finds the author by username, or by email when login
	// contains '@', and checks password against the stored hash
	// Errors: ErrInvalidCredentials
	Authenticate(ctx context.Context, login, password string) (*model.Author, error)
}
