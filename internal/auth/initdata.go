package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strings"
)

var (
	// ErrInvalidInitData covers malformed payloads and bad signatures.
	ErrInvalidInitData = errors.New("invalid initData")
	// ErrNoUser is returned when a valid payload carries no user object.
	ErrNoUser = errors.New("no user in initData")
)

// webAppUser is the subset of the Telegram user object we need.
type webAppUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// Validator checks Telegram WebApp initData signatures. The secret is
// derived from the bot token once, at construction.
type Validator struct {
	secret []byte
}

// NewValidator derives the signing secret per the Telegram WebApp docs:
// secret = HMAC_SHA256(key="WebAppData", message=botToken).
func NewValidator(botToken string) *Validator {
	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(botToken))
	return &Validator{secret: mac.Sum(nil)}
}

// Validate verifies the signature of a raw initData query string and
// returns the authenticated Telegram user id and display name.
func (v *Validator) Validate(initData string) (int64, string, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return 0, "", ErrInvalidInitData
	}
	gotHash := values.Get("hash")
	if gotHash == "" {
		return 0, "", ErrInvalidInitData
	}

	// data-check-string: every field except hash, sorted, joined by \n.
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(strings.Join(pairs, "\n")))
	want := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(want), []byte(gotHash)) {
		return 0, "", ErrInvalidInitData
	}

	return extractUser(values.Get("user"))
}

func extractUser(raw string) (int64, string, error) {
	if raw == "" {
		return 0, "", ErrNoUser
	}
	var u webAppUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return 0, "", ErrNoUser
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return u.ID, name, nil
}
