package model_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booksite-backend/internal/domains/author/model"
	"booksite-backend/internal/domains/author/model/authortest"
)

func newValid(t *testing.T) *model.Author {
	t.Helper()
	return authortest.NewAuthor(t, "x")
}

func TestNew_NormalizesFields(t *testing.T) {
	id := uuid.New()
	a, err := model.New(
		"  "+id.String()+"  ",
		authortest.Ptr("  https://res.cloudinary.com/<b>me</b>.png \n"),
		authortest.Ptr("  0123456789ABCDEF0123456789ABCDEF "),
		" <i>ann@example.com</i> ",
		"  "+authortest.ValidHash+"  ",
		"\t<script>ann</script>  ",
	)
	require.NoError(t, err)

	assert.Equal(t, id, a.ID())
	require.NotNil(t, a.AvatarURL())
	assert.Equal(t, "https://res.cloudinary.com/me.png", *a.AvatarURL())
	require.NotNil(t, a.ActivationToken())
	assert.Equal(t, "0123456789abcdef0123456789abcdef", *a.ActivationToken())
	assert.Equal(t, "ann@example.com", a.Email())
	assert.Equal(t, authortest.ValidHash, a.Hash())
	assert.Equal(t, "ann", a.Username())
	assert.False(t, a.IsActivated())
}

func TestNew_FailsOnFirstInvalidField(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		avatar   *string
		email    string
		hash     string
		username string
		kind     model.Kind
		field    string
		msg      string
	}{
		{
			name: "bad id wins over everything", id: "not-a-uuid",
			avatar: authortest.Ptr(strings.Repeat("a", 256)), email: "", hash: "", username: "",
			kind: model.KindFormat, field: model.FieldID,
		},
		{
			name: "avatar too long", id: uuid.NewString(),
			avatar: authortest.Ptr(strings.Repeat("a", 256)), email: "a@b.c", hash: authortest.ValidHash, username: "ann",
			kind: model.KindRange, field: model.FieldAvatarURL, msg: "image cloudinary content to large",
		},
		{
			name: "empty username", id: uuid.NewString(),
			email: "a@b.c", hash: authortest.ValidHash, username: "",
			kind: model.KindValidation, field: model.FieldUsername, msg: "author username is empty or insecure",
		},
		{
			name: "email checked before hash", id: uuid.NewString(),
			email: "   ", hash: "", username: "",
			kind: model.KindValidation, field: model.FieldEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := model.New(tt.id, tt.avatar, nil, tt.email, tt.hash, tt.username)
			require.Error(t, err)
			assert.Nil(t, a)

			var e *model.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.field, e.Field)
			if tt.msg != "" {
				assert.EqualError(t, err, tt.msg)
			}
		})
	}
}

func TestNewWithGeneratedID(t *testing.T) {
	a := newValid(t)
	b := authortest.NewAuthor(t, "y")
	assert.NotEqual(t, uuid.Nil, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSetID(t *testing.T) {
	a := newValid(t)
	original := a.ID()

	t.Run("same id is accepted", func(t *testing.T) {
		require.NoError(t, a.SetID(original.String()))
		assert.Equal(t, original, a.ID())
	})

	t.Run("different id is rejected", func(t *testing.T) {
		err := a.SetID(uuid.NewString())
		require.ErrorIs(t, err, model.ErrValidation)
		assert.Equal(t, original, a.ID())
	})

	t.Run("nil uuid is rejected", func(t *testing.T) {
		_, err := model.New(uuid.Nil.String(), nil, nil, "a@b.c", authortest.ValidHash, "ann")
		require.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("16 character text is not a raw id", func(t *testing.T) {
		_, err := model.New("not-a-uuid-at-al", nil, nil, "a@b.c", authortest.ValidHash, "ann")
		require.ErrorIs(t, err, model.ErrFormat)

		id := uuid.New()
		_, err = model.New(string(id[:]), nil, nil, "a@b.c", authortest.ValidHash, "ann")
		require.ErrorIs(t, err, model.ErrFormat)
	})

	t.Run("raw bytes go through IDFromBytes", func(t *testing.T) {
		id := uuid.New()
		got, err := model.IDFromBytes(id[:])
		require.NoError(t, err)
		assert.Equal(t, id, got)

		_, err = model.IDFromBytes([]byte("short"))
		require.ErrorIs(t, err, model.ErrFormat)
	})
}

func TestSetAvatarURL(t *testing.T) {
	tests := []struct {
		name    string
		in      *string
		want    *string
		wantErr error
	}{
		{name: "255 characters", in: authortest.Ptr(strings.Repeat("a", 255)), want: authortest.Ptr(strings.Repeat("a", 255))},
		{name: "256 characters", in: authortest.Ptr(strings.Repeat("a", 256)), wantErr: model.ErrRange},
		{name: "nil clears", in: nil, want: nil},
		{name: "markup stripped before length check", in: authortest.Ptr("<p>" + strings.Repeat("a", 255) + "</p>"), want: authortest.Ptr(strings.Repeat("a", 255))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newValid(t)
			before := a.AvatarURL()

			err := a.SetAvatarURL(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, a.AvatarURL(), "previous value must be kept")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.AvatarURL())
		})
	}
}

func TestSetActivationToken(t *testing.T) {
	tests := []struct {
		name    string
		in      *string
		want    *string
		wantErr error
	}{
		{name: "nil clears", in: nil, want: nil},
		{name: "upper case is lowered", in: authortest.Ptr(strings.ToUpper(authortest.ValidToken)), want: authortest.Ptr(authortest.ValidToken)},
		{name: "non hex", in: authortest.Ptr(strings.Repeat("z", 32)), wantErr: model.ErrFormat},
		{name: "empty", in: authortest.Ptr("   "), wantErr: model.ErrFormat},
		{name: "31 characters", in: authortest.Ptr(authortest.ValidToken[:31]), wantErr: model.ErrRange},
		{name: "33 characters", in: authortest.Ptr(authortest.ValidToken + "a"), wantErr: model.ErrRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newValid(t)
			before := a.ActivationToken()

			err := a.SetActivationToken(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, a.ActivationToken())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.ActivationToken())
			assert.Equal(t, tt.want == nil, a.IsActivated())
		})
	}
}

func TestSetEmail(t *testing.T) {
	a := newValid(t)
	before := a.Email()

	require.ErrorIs(t, a.SetEmail("   "), model.ErrValidation)
	require.ErrorIs(t, a.SetEmail("<b></b>"), model.ErrValidation)
	require.ErrorIs(t, a.SetEmail(strings.Repeat("e", 129)), model.ErrRange)
	assert.Equal(t, before, a.Email())

	require.NoError(t, a.SetEmail(strings.Repeat("e", 128)))
	require.NoError(t, a.SetEmail(" new@example.com "))
	assert.Equal(t, "new@example.com", a.Email())
}

// phcHash builds an argon2i hash of model.HashLength characters around the
// given parameter segment.
func phcHash(params string) string {
	h := "$argon2i$v=19$" + params + "$c2FsdHNhbHRzYWx0c2FsdA$"
	return h + strings.Repeat("A", model.HashLength-len(h))
}

func TestSetHash(t *testing.T) {
	prefix := "$argon2i$v=19$m=1024,t=384,p=2$c2FsdHNhbHRzYWx0c2FsdA$"
	argon2id := "$argon2id$v=19$m=1024,t=384,p=2$c2FsdHNhbHRzYWx0c2FsdA$" + strings.Repeat("A", 42)
	require.Len(t, argon2id, model.HashLength)

	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{name: "valid", in: authortest.ValidHash},
		{name: "empty", in: "  ", wantErr: model.ErrValidation},
		{name: "96 characters", in: prefix + strings.Repeat("A", 42), wantErr: model.ErrRange},
		{name: "98 characters", in: prefix + strings.Repeat("A", 44), wantErr: model.ErrRange},
		{name: "argon2id tag", in: argon2id, wantErr: model.ErrFormat},
		{name: "bcrypt", in: "$2y$10$" + strings.Repeat("a", 90), wantErr: model.ErrFormat},
		{name: "zero time", in: phcHash("m=1024,t=000,p=2"), wantErr: model.ErrFormat},
		{name: "zero parallelism", in: phcHash("m=1024,t=384,p=0"), wantErr: model.ErrFormat},
		{name: "memory below 8 per lane", in: phcHash("m=0008,t=384,p=2"), wantErr: model.ErrFormat},
		{name: "oversized memory", in: phcHash("m=2000000,t=1,p=2"), wantErr: model.ErrFormat},
		{name: "oversized time", in: phcHash("m=1024,t=9999,p=2"), wantErr: model.ErrFormat},
		{name: "unparsable parameters", in: phcHash("m=1024;t=384;p=2"), wantErr: model.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newValid(t)
			err := a.SetHash(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, authortest.ValidHash, a.Hash())
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSetUsername(t *testing.T) {
	a := newValid(t)
	before := a.Username()

	err := a.SetUsername("   ")
	require.ErrorIs(t, err, model.ErrValidation)
	assert.EqualError(t, err, "author username is empty or insecure")

	require.ErrorIs(t, a.SetUsername(strings.Repeat("u", 33)), model.ErrRange)
	assert.Equal(t, before, a.Username())

	require.NoError(t, a.SetUsername(strings.Repeat("u", 32)))
	assert.Equal(t, strings.Repeat("u", 32), a.Username())
}

func TestAccessorsReturnCopies(t *testing.T) {
	a := newValid(t)
	p := a.AvatarURL()
	*p = "mutated"
	assert.NotEqual(t, "mutated", *a.AvatarURL())
}

func TestError_KindMatching(t *testing.T) {
	a := newValid(t)
	err := a.SetUsername("")

	assert.ErrorIs(t, err, model.ErrValidation)
	assert.NotErrorIs(t, err, model.ErrRange)
	assert.Equal(t, model.KindValidation, model.KindOf(err))
	assert.NotNil(t, errors.Unwrap(err), "ozzo cause must be preserved")

	storeErr := model.StoreError("find author", err)
	assert.ErrorIs(t, storeErr, model.ErrStore)
	assert.ErrorIs(t, storeErr, model.ErrValidation)
	assert.Equal(t, model.KindStore, model.KindOf(storeErr))
	assert.Same(t, storeErr, model.StoreError("again", storeErr))
	assert.Nil(t, model.StoreError("noop", nil))
}
