package model

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// Constants for validation, matching the author table columns
const (
	MaxAvatarURLLength    = 255
	ActivationTokenLength = 32
	MaxEmailLength        = 128
	HashLength            = 97
	MaxUsernameLength     = 32
)

// Field names, also the column names of the author table
const (
	FieldID              = "authorId"
	FieldAvatarURL       = "authorAvatarUrl"
	FieldActivationToken = "authorActivationToken"
	FieldEmail           = "authorEmail"
	FieldHash            = "authorHash"
	FieldUsername        = "authorUsername"
)

var argon2iTag = regexp.MustCompile(`^\$argon2i\$`)

// Author is the profile a user keeps on the book site.
//
// Fields are reachable only through accessors and setters so that an
// Author value is always fully valid: every setter normalizes its input,
// validates it and keeps the previous value when validation fails.
type Author struct {
	id              uuid.UUID
	avatarURL       *string // optional
	activationToken *string // nil once the profile is activated
	email           string  // unique
	hash            string  // argon2i encoded password hash
	username        string  // unique
}

// New builds an Author from an existing identifier. Fields are validated in
// the order id, avatar URL, activation token, email, hash, username and the
// first failure is returned as is.
func New(id string, avatarURL, activationToken *string, email, hash, username string) (*Author, error) {
	a := &Author{}
	if err := a.SetID(id); err != nil {
		return nil, err
	}
	if err := a.fill(avatarURL, activationToken, email, hash, username); err != nil {
		return nil, err
	}
	return a, nil
}

// NewWithGeneratedID builds an Author with a freshly generated identifier.
func NewWithGeneratedID(avatarURL, activationToken *string, email, hash, username string) (*Author, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, newError(KindValidation, FieldID, "unable to generate author id", err)
	}
	return New(id.String(), avatarURL, activationToken, email, hash, username)
}

func (a *Author) fill(avatarURL, activationToken *string, email, hash, username string) error {
	if err := a.SetAvatarURL(avatarURL); err != nil {
		return err
	}
	if err := a.SetActivationToken(activationToken); err != nil {
		return err
	}
	if err := a.SetEmail(email); err != nil {
		return err
	}
	if err := a.SetHash(hash); err != nil {
		return err
	}
	return a.SetUsername(username)
}

// ID returns the author identifier.
func (a *Author) ID() uuid.UUID { return a.id }

// AvatarURL returns the avatar URL or nil.
func (a *Author) AvatarURL() *string { return cloneString(a.avatarURL) }

// ActivationToken returns the activation token or nil.
func (a *Author) ActivationToken() *string { return cloneString(a.activationToken) }

func (a *Author) Email() string    { return a.email }
func (a *Author) Hash() string     { return a.hash }
func (a *Author) Username() string { return a.username }

// IsActivated reports whether the activation token has been cleared.
func (a *Author) IsActivated() bool {
	return a.activationToken == nil
}

// SetID sets the identifier. The identifier is set-once: assigning a
// different value to an Author that already has one is rejected.
func (a *Author) SetID(id string) error {
	if strings.TrimSpace(id) == "" {
		return newError(KindValidation, FieldID, "author id is empty", nil)
	}
	parsed, err := ParseID(id)
	if err != nil {
		return err
	}
	if parsed == uuid.Nil {
		return newError(KindValidation, FieldID, "author id is empty", nil)
	}
	if a.id != uuid.Nil && a.id != parsed {
		return newError(KindValidation, FieldID, "author id cannot be changed once set", nil)
	}
	a.id = parsed
	return nil
}

// SetAvatarURL sets or clears the avatar URL.
func (a *Author) SetAvatarURL(avatarURL *string) error {
	if avatarURL == nil {
		a.avatarURL = nil
		return nil
	}

	v := Sanitize(*avatarURL)
	if err := check(FieldAvatarURL, v,
		fieldRule{KindRange, "image cloudinary content to large", validation.Length(0, MaxAvatarURLLength)},
	); err != nil {
		return err
	}

	a.avatarURL = &v
	return nil
}

// SetActivationToken sets the activation token; nil clears it.
func (a *Author) SetActivationToken(token *string) error {
	if token == nil {
		a.activationToken = nil
		return nil
	}

	v, err := NormalizeActivationToken(*token)
	if err != nil {
		return err
	}

	a.activationToken = &v
	return nil
}

// NormalizeActivationToken lower-cases and trims token and checks that it
// is a hex string of ActivationTokenLength characters.
func NormalizeActivationToken(token string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(token))
	if err := check(FieldActivationToken, v,
		fieldRule{KindFormat, "user activation is not valid", validation.Required},
		fieldRule{KindFormat, "user activation is not valid", is.Hexadecimal},
		fieldRule{KindRange, "user activation token has to be 32 characters", validation.Length(ActivationTokenLength, ActivationTokenLength)},
	); err != nil {
		return "", err
	}
	return v, nil
}

// SetEmail sets the email address. Only emptiness and length are checked.
func (a *Author) SetEmail(email string) error {
	v := Sanitize(email)
	if err := check(FieldEmail, v,
		fieldRule{KindValidation, "not a valid email address", validation.Required},
		fieldRule{KindRange, "author email is too large", validation.Length(0, MaxEmailLength)},
	); err != nil {
		return err
	}

	a.email = v
	return nil
}

// SetHash sets the password hash, which must be an argon2i encoded hash of
// exactly HashLength characters with usable cost parameters.
func (a *Author) SetHash(hash string) error {
	v := strings.TrimSpace(hash)
	if err := check(FieldHash, v,
		fieldRule{KindValidation, "password hash empty or insecure", validation.Required},
		fieldRule{KindFormat, "hash is not a valid hash", validation.Match(argon2iTag)},
		fieldRule{KindRange, "hash must be 97 characters", validation.Length(HashLength, HashLength)},
		fieldRule{KindFormat, "hash parameters are not valid", validArgon2i},
	); err != nil {
		return err
	}

	a.hash = v
	return nil
}

// SetUsername sets the username.
func (a *Author) SetUsername(username string) error {
	v := Sanitize(username)
	if err := check(FieldUsername, v,
		fieldRule{KindValidation, "author username is empty or insecure", validation.Required},
		fieldRule{KindRange, "author username is too large", validation.Length(0, MaxUsernameLength)},
	); err != nil {
		return err
	}

	a.username = v
	return nil
}

// fieldRule tags an ozzo rule with the error kind and message it produces.
type fieldRule struct {
	kind Kind
	msg  string
	rule validation.Rule
}

// check runs rules in order and stops at the first failure.
func check(field string, value string, rules ...fieldRule) error {
	for _, r := range rules {
		if err := validation.Validate(value, r.rule); err != nil {
			return newError(r.kind, field, r.msg, err)
		}
	}
	return nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
