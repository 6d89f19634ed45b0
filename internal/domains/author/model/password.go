package model

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/crypto/argon2"
)

// argon2iParams holds the parameters of a PHC encoded argon2i hash:
// $argon2i$v=19$m=<memory KiB>,t=<iterations>,p=<parallelism>$<salt>$<key>
// Cost bounds accepted from a stored hash. Anything outside them is
// rejected before argon2.Key runs.
const (
	maxArgon2Memory = 1 << 20 // KiB
	maxArgon2Time   = 1 << 10
)

type argon2iParams struct {
	version int
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func decodeArgon2i(encoded string) (*argon2iParams, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2i" {
		return nil, fmt.Errorf("not an argon2i encoded hash")
	}

	p := &argon2iParams{}
	if _, err := fmt.Sscanf(parts[2], "v=%d", &p.version); err != nil {
		return nil, fmt.Errorf("invalid argon2i version: %w", err)
	}
	if p.version != argon2.Version {
		return nil, fmt.Errorf("unsupported argon2i version %d", p.version)
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return nil, fmt.Errorf("invalid argon2i parameters: %w", err)
	}
	switch {
	case p.time < 1 || p.time > maxArgon2Time:
		return nil, fmt.Errorf("argon2i time %d out of range", p.time)
	case p.threads < 1:
		return nil, fmt.Errorf("argon2i parallelism must be at least 1")
	case p.memory < 8*uint32(p.threads) || p.memory > maxArgon2Memory:
		return nil, fmt.Errorf("argon2i memory %d KiB out of range", p.memory)
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("invalid argon2i salt: %w", err)
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("invalid argon2i key: %w", err)
	}
	if len(p.key) == 0 {
		return nil, fmt.Errorf("empty argon2i key")
	}
	return p, nil
}

// VerifyPassword reports whether password matches the stored hash.
func (a *Author) VerifyPassword(password string) bool {
	p, err := decodeArgon2i(a.hash)
	if err != nil {
		return false
	}
	candidate := argon2.Key([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	return subtle.ConstantTimeCompare(candidate, p.key) == 1
}

// validArgon2i is the ozzo rule form of decodeArgon2i.
var validArgon2i = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	_, err := decodeArgon2i(s)
	return err
})
