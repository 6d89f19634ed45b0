// Package authortest provides fixtures for tests that need valid authors.
package authortest

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"

	"booksite-backend/internal/domains/author/model"
)

// ValidHash is a well-formed argon2i encoded hash of model.HashLength characters.
var ValidHash = "$argon2i$v=19$m=1024,t=384,p=2$c2FsdHNhbHRzYWx0c2FsdA$" + strings.Repeat("A", 43)

// ValidToken is a well-formed activation token.
const ValidToken = "0123456789abcdef0123456789abcdef"

// HashPassword encodes password as an argon2i hash of model.HashLength
// characters. Parameters are kept small so tests stay fast.
func HashPassword(t *testing.T, password string) string {
	t.Helper()
	salt := []byte("0123456789abcdef")
	key := argon2.Key([]byte(password), salt, 100, 1024, 2, 32)
	h := fmt.Sprintf("$argon2i$v=%d$m=1024,t=100,p=2$%s$%s",
		argon2.Version,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	require.Len(t, h, model.HashLength)
	return h
}

// Ptr returns a pointer to s.
func Ptr(s string) *string {
	return &s
}

// NewAuthor builds a valid author with a generated id. The suffix keeps
// email and username unique across authors of one test.
func NewAuthor(t *testing.T, suffix string) *model.Author {
	t.Helper()
	a, err := model.NewWithGeneratedID(
		Ptr("https://res.cloudinary.com/booksite/avatar-"+suffix+".png"),
		Ptr(ValidToken),
		"author-"+suffix+"@example.com",
		ValidHash,
		"author_"+suffix,
	)
	require.NoError(t, err)
	return a
}
