package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestNewHMACStrategy_Defaults(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if string(strategy.secret) != "secret" {
		t.Fatalf("unexpected secret: %q", string(strategy.secret))
	}
	if strategy.ttl != 12*time.Hour {
		t.Fatalf("unexpected ttl: %s", strategy.ttl)
	}
	if strategy.prefix != "adm" {
		t.Fatalf("unexpected prefix: %s", strategy.prefix)
	}
}

func TestHMACStrategy_IssueAndParse(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if strings.ContainsAny(token, "+/=") {
		t.Fatalf("token must be url safe: %q", token)
	}
	adminID, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if adminID != 42 {
		t.Fatalf("unexpected admin id: %d", adminID)
	}
}

func TestHMACStrategy_IssueRejectsInvalidID(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if _, err := strategy.IssueToken(0); err == nil {
		t.Fatal("expected error for zero admin id")
	}
}

func TestHMACStrategy_ParseFailures(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	strategy := NewHMACStrategy("secret", Options{Now: fixedClock(now)})
	encode := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	signed := func(payload string) string { return encode(payload + ":" + strategy.sign(payload)) }
	future := now.Add(time.Minute).Unix()

	valid, err := strategy.IssueToken(7)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	raw, _ := base64.RawURLEncoding.DecodeString(valid)
	parts := strings.Split(string(raw), ":")
	parts[3] = "tampered"

	cases := map[string]string{
		"not base64":      "%%%",
		"too few parts":   encode("adm:1"),
		"wrong prefix":    signed(fmt.Sprintf("usr:1:%d", future)),
		"bad signature":   encode(strings.Join(parts, ":")),
		"other secret":    func() string { t, _ := NewHMACStrategy("other", Options{Now: fixedClock(now)}).IssueToken(7); return t }(),
		"non numeric id":  signed(fmt.Sprintf("adm:abc:%d", future)),
		"negative id":     signed(fmt.Sprintf("adm:-3:%d", future)),
		"bad expiry":      signed("adm:10:soon"),
		"expired":         signed(fmt.Sprintf("adm:10:%d", now.Add(-time.Minute).Unix())),
		"expires exactly": signed(fmt.Sprintf("adm:10:%d", now.Unix())),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestHMACStrategy_CustomPrefix(t *testing.T) {
	issuer := NewHMACStrategy("secret", Options{Prefix: "kitchen"})
	token, err := issuer.IssueToken(3)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := NewHMACStrategy("secret", Options{}).ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected prefix mismatch, got %v", err)
	}
	if id, err := issuer.ParseToken(token); err != nil || id != 3 {
		t.Fatalf("unexpected parse result: %d %v", id, err)
	}
}

func TestHMACStrategy_Name(t *testing.T) {
	if NewHMACStrategy("secret", Options{}).Name() != "hmac" {
		t.Fatal("unexpected name")
	}
}
