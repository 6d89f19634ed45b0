package model

import (
	"strings"

	"github.com/google/uuid"
)

// ParseID parses an author identifier from its canonical text form.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, newError(KindFormat, FieldID, "author id is not a valid uuid", err)
	}
	return id, nil
}

// IDFromBytes parses the 16 byte binary form stored in the authorId column.
func IDFromBytes(b []byte) (uuid.UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.Nil, newError(KindFormat, FieldID, "author id is not a valid uuid", err)
	}
	return id, nil
}
