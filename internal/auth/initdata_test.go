package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strings"
	"testing"
)

const testBotToken = "12345:TEST-TOKEN"

// sign produces a correctly signed initData query string the way the
// Telegram client would.
func sign(t *testing.T, fields map[string]string) string {
	t.Helper()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}

	secretMac := hmac.New(sha256.New, []byte("WebAppData"))
	secretMac.Write([]byte(testBotToken))
	mac := hmac.New(sha256.New, secretMac.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}

func TestValidateAcceptsSignedPayload(t *testing.T) {
	v := NewValidator(testBotToken)
	initData := sign(t, map[string]string{
		"auth_date": "1700000000",
		"user":      `{"id":777,"first_name":"Ada","last_name":"L"}`,
	})

	id, name, err := v.Validate(initData)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if id != 777 {
		t.Errorf("user id = %d, want 777", id)
	}
	if name != "Ada L" {
		t.Errorf("name = %q, want \"Ada L\"", name)
	}
}

func TestValidateRejectsTamperedPayload(t *testing.T) {
	v := NewValidator(testBotToken)
	initData := sign(t, map[string]string{
		"auth_date": "1700000000",
		"user":      `{"id":777,"first_name":"Ada"}`,
	})
	tampered := strings.Replace(initData, "777", "778", 1)

	if _, _, err := v.Validate(tampered); !errors.Is(err, ErrInvalidInitData) {
		t.Errorf("got %v, want ErrInvalidInitData", err)
	}
}

func TestValidateRejectsWrongToken(t *testing.T) {
	initData := sign(t, map[string]string{
		"auth_date": "1700000000",
		"user":      `{"id":777,"first_name":"Ada"}`,
	})

	other := NewValidator("99999:OTHER-TOKEN")
	if _, _, err := other.Validate(initData); !errors.Is(err, ErrInvalidInitData) {
		t.Errorf("got %v, want ErrInvalidInitData", err)
	}
}

func TestValidateRequiresUser(t *testing.T) {
	v := NewValidator(testBotToken)
	initData := sign(t, map[string]string{"auth_date": "1700000000"})

	if _, _, err := v.Validate(initData); !errors.Is(err, ErrNoUser) {
		t.Errorf("got %v, want ErrNoUser", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	v := NewValidator(testBotToken)
	for _, in := range []string{"", "no-hash-here=1", "%zz"} {
		if _, _, err := v.Validate(in); err == nil {
			t.Errorf("Validate(%q) succeeded, want error", in)
		}
	}
}
