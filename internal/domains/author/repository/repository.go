package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"booksite-backend/internal/domains/author/model"
)

// Store is the relational store a call runs against. Both *sqlx.DB and
// *sqlx.Tx satisfy it, so the same repository works inside and outside a
// transaction.
type Store interface {
	sqlx.ExtContext
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// RepositoryInterface defines all data access operations for the Author domain.
// Every failure is a *model.Error of kind model.KindStore.
type RepositoryInterface interface {
	// Insert writes a new author row
	// Errors: ErrDuplicateEmail, ErrDuplicateUsername as causes
	Insert(ctx context.Context, store Store, a *model.Author) error

	// Update rewrites the mutable columns of an existing row
	// Errors: ErrAuthorNotFound if no row has the author's id
	Update(ctx context.Context, store Store, a *model.Author) error

	// Delete removes the author's row
	// Errors: ErrAuthorNotFound if no row has the author's id
	Delete(ctx context.Context, store Store, a *model.Author) error

	// FindByID returns nil, nil when nothing matches
	FindByID(ctx context.Context, store Store, id string) (*model.Author, error)

	// FindByAvatarURL returns every author whose avatar URL contains term
	FindByAvatarURL(ctx context.Context, store Store, term string) ([]*model.Author, error)

	// FindByActivationToken returns every author holding token
	FindByActivationToken(ctx context.Context, store Store, token string) ([]*model.Author, error)

	FindByEmail(ctx context.Context, store Store, email string) (*model.Author, error)
	FindByUsername(ctx context.Context, store Store, username string) (*model.Author, error)
}
