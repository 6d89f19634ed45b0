package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"booksite-backend/internal/domains/author/model"
	"booksite-backend/internal/domains/author/repository"
	"booksite-backend/pkg/cache"
	"booksite-backend/pkg/database"
)

// authorService implements ServiceInterface
type authorService struct {
	db       DB
	repo     repository.RepositoryInterface
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewAuthorService creates a new author service instance. A nil cache
// disables caching.
func NewAuthorService(db DB, repo repository.RepositoryInterface, c cache.Cache, cacheTTL time.Duration) ServiceInterface {
	if c == nil {
		c = cache.Noop{}
	}
	return &authorService{
		db:       db,
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

func (s *authorService) Register(ctx context.Context, in RegisterInput) (*model.Author, error) {
	token, err := generateSecureToken(model.ActivationTokenLength / 2)
	if err != nil {
		return nil, fmt.Errorf("generate activation token: %w", err)
	}

	a, err := model.NewWithGeneratedID(in.AvatarURL, &token, in.Email, in.Hash, in.Username)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, s.db, a); err != nil {
		log.Warn().Err(err).Str("username", a.Username()).Msg("author registration failed")
		return nil, err
	}

	log.Info().
		Str("author_id", a.ID().String()).
		Str("username", a.Username()).
		Msg("author registered")
	return a, nil
}

func (s *authorService) GetByID(ctx context.Context, id string) (*model.Author, error) {
	parsed, err := model.ParseID(id)
	if err != nil {
		return nil, model.StoreError("get author", err)
	}

	// Try cache first
	key := cacheKey(parsed)
	var cached cachedAuthor
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("author cache read failed")
	}
	if err == nil && found {
		if a, err := cached.author(); err == nil {
			return a, nil
		}
		log.Warn().Str("key", key).Msg("discarding invalid cached author")
	}

	// Cache miss - query database
	a, err := s.repo.FindByID(ctx, s.db, parsed.String())
	if err != nil || a == nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, toCached(a), s.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("author cache write failed")
	}
	return a, nil
}

func (s *authorService) Activate(ctx context.Context, token string) (*model.Author, error) {
	a, err := database.WithTransactionResult(ctx, s.db, func(tx *sqlx.Tx) (*model.Author, error) {
		matches, err := s.repo.FindByActivationToken(ctx, tx, token)
		if err != nil {
			return nil, err
		}
		switch len(matches) {
		case 0:
			return nil, model.ErrAuthorNotFound
		case 1:
		default:
			return nil, ErrActivationTokenAmbiguous
		}

		a := matches[0]
		if err := a.SetActivationToken(nil); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, tx, a); err != nil {
			return nil, err
		}
		return a, nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, a)
	log.Info().Str("author_id", a.ID().String()).Msg("author activated")
	return a, nil
}

func (s *authorService) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*model.Author, error) {
	if in.AvatarURL == nil && !in.ClearAvatar && in.Email == nil && in.Hash == nil && in.Username == nil {
		return nil, ErrNothingToUpdate
	}

	a, err := database.WithTransactionResult(ctx, s.db, func(tx *sqlx.Tx) (*model.Author, error) {
		a, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, model.ErrAuthorNotFound
		}

		if err := apply(a, in); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, tx, a); err != nil {
			return nil, err
		}
		return a, nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, a)
	log.Info().Str("author_id", a.ID().String()).Msg("author profile updated")
	return a, nil
}

// apply runs the setters for every field present in in. The first failing
// setter aborts the update.
func apply(a *model.Author, in UpdateProfileInput) error {
	switch {
	case in.ClearAvatar:
		if err := a.SetAvatarURL(nil); err != nil {
			return err
		}
	case in.AvatarURL != nil:
		if err := a.SetAvatarURL(in.AvatarURL); err != nil {
			return err
		}
	}
	if in.Email != nil {
		if err := a.SetEmail(*in.Email); err != nil {
			return err
		}
	}
	if in.Hash != nil {
		if err := a.SetHash(*in.Hash); err != nil {
			return err
		}
	}
	if in.Username != nil {
		if err := a.SetUsername(*in.Username); err != nil {
			return err
		}
	}
	return nil
}

func (s *authorService) Delete(ctx context.Context, id string) error {
	a, err := database.WithTransactionResult(ctx, s.db, func(tx *sqlx.Tx) (*model.Author, error) {
		a, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, model.ErrAuthorNotFound
		}
		if err := s.repo.Delete(ctx, tx, a); err != nil {
			return nil, err
		}
		return a, nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, a)
	log.Info().Str("author_id", a.ID().String()).Msg("author deleted")
	return nil
}

func (s *authorService) SearchByAvatarURL(ctx context.Context, term string) ([]*model.Author, error) {
	return s.repo.FindByAvatarURL(ctx, s.db, term)
}

func (s *authorService) SearchByActivationToken(ctx context.Context, token string) ([]*model.Author, error) {
	return s.repo.FindByActivationToken(ctx, s.db, token)
}

func (s *authorService) Authenticate(ctx context.Context, login, password string) (*model.Author, error) {
	if strings.TrimSpace(login) == "" {
		return nil, ErrInvalidCredentials
	}

	var (
		a   *model.Author
		err error
	)
	if strings.Contains(login, "@") {
		a, err = s.repo.FindByEmail(ctx, s.db, login)
	} else {
		a, err = s.repo.FindByUsername(ctx, s.db, login)
	}
	if err != nil {
		return nil, err
	}

	if a == nil || !a.VerifyPassword(password) {
		log.Debug().Str("login", login).Msg("authentication failed")
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

func (s *authorService) invalidate(ctx context.Context, a *model.Author) {
	key := cacheKey(a.ID())
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("author cache invalidation failed")
	}
}

// generateSecureToken returns length random bytes, hex encoded
func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
