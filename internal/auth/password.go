// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides password hashing and verification plus the signed
// bearer tokens issued to CMS users.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// ErrUnknownHash is returned for stored values that are neither Argon2id nor
// bcrypt. Such values never authenticate.
var ErrUnknownHash = errors.New("unrecognised password hash format")

// argonParams are the Argon2id cost settings recorded in every hash.
type argonParams struct {
	memory  uint32 // KiB
	time    uint32
	threads uint8
}

// currentParams is the OWASP m=19456, t=2, p=1 profile. It stays small
// enough for the 256MB hosting plan.
var currentParams = argonParams{memory: 19 * 1024, time: 2, threads: 1}

const (
	saltLen = 16
	keyLen  = 32
)

var b64 = base64.RawStdEncoding

// argonHash is a decoded $argon2id$v=19$m=..,t=..,p=..$salt$key string.
type argonHash struct {
	argonParams
	salt, key []byte
}

func (h argonHash) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads, b64.EncodeToString(h.salt), b64.EncodeToString(h.key))
}

func derive(password string, p argonParams, salt []byte, n uint32) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, n)
}

func parseArgon(encoded string) (argonHash, error) {
	var h argonHash
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return h, ErrUnknownHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return h, fmt.Errorf("argon2id version %q: %w", fields[2], ErrUnknownHash)
	}
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &h.memory, &h.time, &h.threads); err != nil {
		return h, fmt.Errorf("argon2id parameters %q: %w", fields[3], err)
	}

	var err error
	if h.salt, err = b64.DecodeString(fields[4]); err != nil {
		return h, fmt.Errorf("argon2id salt: %w", err)
	}
	if h.key, err = b64.DecodeString(fields[5]); err != nil {
		return h, fmt.Errorf("argon2id key: %w", err)
	}
	if len(h.key) == 0 {
		return h, fmt.Errorf("argon2id key is empty: %w", ErrUnknownHash)
	}
	return h, nil
}

// HashPassword returns the Argon2id encoding of password under the current
// parameters.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	h := argonHash{argonParams: currentParams, salt: salt}
	h.key = derive(password, currentParams, salt, keyLen)
	return h.String(), nil
}

// CheckPassword verifies password against a stored Argon2id hash or a
// bcrypt hash imported from the old CMS.
func CheckPassword(password, stored string) (bool, error) {
	if isBcrypt(stored) {
		switch err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, fmt.Errorf("verifying bcrypt hash: %w", err)
		}
	}

	h, err := parseArgon(stored)
	if err != nil {
		return false, err
	}
	got := derive(password, h.argonParams, h.salt, uint32(len(h.key)))
	return subtle.ConstantTimeCompare(got, h.key) == 1, nil
}

// NeedsRehash reports whether stored should be replaced by a fresh hash
// after a successful login: bcrypt hashes, unreadable values and Argon2id
// hashes with other parameters.
func NeedsRehash(stored string) bool {
	h, err := parseArgon(stored)
	return err != nil || h.argonParams != currentParams
}

func isBcrypt(hash string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(hash, prefix) {
			return true
		}
	}
	return false
}
