package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"booksite-backend/internal/domains/author/model"
)

const selectColumns = `SELECT authorId, authorAvatarUrl, authorActivationToken, authorEmail, authorHash, authorUsername FROM author`

const (
	insertQuery = `INSERT INTO author(authorId, authorAvatarUrl, authorActivationToken, authorEmail, authorHash, authorUsername)
        VALUES(:authorId, :authorAvatarUrl, :authorActivationToken, :authorEmail, :authorHash, :authorUsername)`

	updateQuery = `UPDATE author SET authorAvatarUrl = :authorAvatarUrl, authorActivationToken = :authorActivationToken,
        authorEmail = :authorEmail, authorHash = :authorHash, authorUsername = :authorUsername
        WHERE authorId = :authorId`

	deleteQuery = `DELETE FROM author WHERE authorId = :authorId`

	findByIDQuery              = selectColumns + ` WHERE authorId = :authorId`
	findByAvatarURLQuery       = selectColumns + ` WHERE authorAvatarUrl LIKE :authorAvatarUrl ESCAPE '\'`
	findByActivationTokenQuery = selectColumns + ` WHERE authorActivationToken = :authorActivationToken`
	findByEmailQuery           = selectColumns + ` WHERE authorEmail = :authorEmail`
	findByUsernameQuery        = selectColumns + ` WHERE authorUsername = :authorUsername`
)

// sqlRepository implements RepositoryInterface with named statements, so the
// same queries run on every driver sqlx knows how to bind.
type sqlRepository struct{}

// NewSQLRepository creates a new author repository instance
func NewSQLRepository() RepositoryInterface {
	return &sqlRepository{}
}

func (r *sqlRepository) Insert(ctx context.Context, store Store, a *model.Author) error {
	_, err := r.exec(ctx, store, "insert author", insertQuery, params(a))
	return err
}

func (r *sqlRepository) Update(ctx context.Context, store Store, a *model.Author) error {
	return r.execOne(ctx, store, "update author", updateQuery, params(a))
}

func (r *sqlRepository) Delete(ctx context.Context, store Store, a *model.Author) error {
	id := a.ID()
	return r.execOne(ctx, store, "delete author", deleteQuery, map[string]any{
		model.FieldID: id[:],
	})
}

func (r *sqlRepository) FindByID(ctx context.Context, store Store, id string) (*model.Author, error) {
	parsed, err := model.ParseID(id)
	if err != nil {
		return nil, model.StoreError("find author by id", err)
	}
	return r.queryOne(ctx, store, "find author by id", findByIDQuery, map[string]any{
		model.FieldID: parsed[:],
	})
}

func (r *sqlRepository) FindByAvatarURL(ctx context.Context, store Store, term string) ([]*model.Author, error) {
	term = model.Sanitize(term)
	if term == "" {
		return nil, model.StoreError("find authors by avatar url", errors.New("search term is empty"))
	}
	return r.query(ctx, store, "find authors by avatar url", findByAvatarURLQuery, map[string]any{
		model.FieldAvatarURL: "%" + escapeLike(term) + "%",
	})
}

func (r *sqlRepository) FindByActivationToken(ctx context.Context, store Store, token string) ([]*model.Author, error) {
	v, err := model.NormalizeActivationToken(token)
	if err != nil {
		return nil, model.StoreError("find authors by activation token", err)
	}
	return r.query(ctx, store, "find authors by activation token", findByActivationTokenQuery, map[string]any{
		model.FieldActivationToken: v,
	})
}

func (r *sqlRepository) FindByEmail(ctx context.Context, store Store, email string) (*model.Author, error) {
	email = model.Sanitize(email)
	if email == "" {
		return nil, model.StoreError("find author by email", errors.New("email is empty"))
	}
	return r.queryOne(ctx, store, "find author by email", findByEmailQuery, map[string]any{
		model.FieldEmail: email,
	})
}

func (r *sqlRepository) FindByUsername(ctx context.Context, store Store, username string) (*model.Author, error) {
	username = model.Sanitize(username)
	if username == "" {
		return nil, model.StoreError("find author by username", errors.New("username is empty"))
	}
	return r.queryOne(ctx, store, "find author by username", findByUsernameQuery, map[string]any{
		model.FieldUsername: username,
	})
}

func (r *sqlRepository) exec(ctx context.Context, store Store, op, query string, arg map[string]any) (sql.Result, error) {
	stmt, err := store.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, model.StoreError(op, err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, arg)
	if err != nil {
		return nil, model.StoreError(op, classify(err))
	}
	return res, nil
}

// execOne runs a statement that must touch exactly one row.
func (r *sqlRepository) execOne(ctx context.Context, store Store, op, query string, arg map[string]any) error {
	res, err := r.exec(ctx, store, op, query, arg)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.StoreError(op, err)
	}
	if n == 0 {
		return model.StoreError(op, model.ErrAuthorNotFound)
	}
	return nil
}

func (r *sqlRepository) query(ctx context.Context, store Store, op, query string, arg map[string]any) ([]*model.Author, error) {
	stmt, err := store.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, model.StoreError(op, err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryxContext(ctx, arg)
	if err != nil {
		return nil, model.StoreError(op, err)
	}
	defer rows.Close()

	authors := make([]*model.Author, 0)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, model.StoreError(op, err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, model.StoreError(op, err)
	}
	return authors, nil
}

func (r *sqlRepository) queryOne(ctx context.Context, store Store, op, query string, arg map[string]any) (*model.Author, error) {
	authors, err := r.query(ctx, store, op, query, arg)
	if err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return nil, nil
	}
	return authors[0], nil
}

func params(a *model.Author) map[string]any {
	id := a.ID()
	return map[string]any{
		model.FieldID:              id[:],
		model.FieldAvatarURL:       a.AvatarURL(),
		model.FieldActivationToken: a.ActivationToken(),
		model.FieldEmail:           a.Email(),
		model.FieldHash:            a.Hash(),
		model.FieldUsername:        a.Username(),
	}
}

// scanAuthor rebuilds an Author from one row, running every setter again.
func scanAuthor(rows *sqlx.Rows) (*model.Author, error) {
	var (
		id              []byte
		avatarURL       sql.NullString
		activationToken sql.NullString
		email           string
		hash            string
		username        string
	)
	if err := rows.Scan(&id, &avatarURL, &activationToken, &email, &hash, &username); err != nil {
		return nil, fmt.Errorf("scan author: %w", err)
	}

	parsed, err := model.IDFromBytes(id)
	if err != nil {
		return nil, err
	}
	return model.New(parsed.String(), nullable(avatarURL), nullable(activationToken), email, hash, username)
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes term match literally inside a LIKE pattern using '\' as
// the escape character.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
