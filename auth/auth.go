// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PoojithGuntaka/CivicConnect/models"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrInvalidEmail = errors.New("a valid email is required")
	ErrInvalidRole  = errors.New("role must be citizen or official")
)

// Mode selects how a sign-in resolves the user's role.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

// ResolveRole picks the role for a demo sign-in. Login grants official when
// the email contains "admin"; signup takes the requested role, defaulting to
// citizen.
func ResolveRole(mode Mode, email, requested string) (string, error) {
	if mode == ModeLogin {
		if strings.Contains(strings.ToLower(email), "admin") {
			return models.RoleOfficial, nil
		}
		return models.RoleCitizen, nil
	}

	switch requested {
	case "":
		return models.RoleCitizen, nil
	case models.RoleCitizen, models.RoleOfficial:
		return requested, nil
	default:
		return "", ErrInvalidRole
	}
}

// DisplayName returns name, or the local part of email when name is blank.
func DisplayName(email, name string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

// NewUser builds the demo user for a sign-in. No credentials are checked.
func NewUser(mode Mode, email, name, requestedRole string) (models.User, error) {
	email = strings.TrimSpace(email)
	if local, domain, ok := strings.Cut(email, "@"); !ok || local == "" || domain == "" {
		return models.User{}, ErrInvalidEmail
	}

	role, err := ResolveRole(mode, email, requestedRole)
	if err != nil {
		return models.User{}, err
	}

	id, err := GenerateID(8)
	if err != nil {
		return models.User{}, err
	}

	return models.User{
		ID:    id,
		Name:  DisplayName(email, name),
		Email: email,
		Role:  role,
	}, nil
}

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func sign(payload, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// IssueToken returns a stateless session token "<payload>.<signature>".
// The payload is the user as base64url JSON; the signature is HMAC-SHA256
// over the payload keyed by salt.
func IssueToken(u models.User, salt string) (string, error) {
	raw, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)
	return payload + "." + sign(payload, salt), nil
}

// ParseToken verifies token and returns the user it carries.
func ParseToken(token, salt string) (models.User, error) {
	payload, sig, ok := strings.Cut(token, ".")
	if !ok || payload == "" || sig == "" {
		return models.User{}, ErrInvalidToken
	}
	if !hmac.Equal([]byte(sig), []byte(sign(payload, salt))) {
		return models.User{}, ErrInvalidToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return models.User{}, ErrInvalidToken
	}
	if u.Role != models.RoleCitizen && u.Role != models.RoleOfficial {
		return models.User{}, ErrInvalidToken
	}
	return u, nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// First 16 hex chars are enough to correlate log lines
	return hex.EncodeToString(sum[:8])
}
