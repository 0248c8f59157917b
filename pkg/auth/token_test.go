package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParse(t *testing.T) {
	secret := []byte("s3cret")
	raw, err := IssueToken(secret, "clerk", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	claims, err := ParseToken(secret, raw)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "clerk" {
		t.Fatalf("subject = %q", claims.Subject)
	}
	if d := time.Until(claims.ExpiresAt.Time); d < 59*time.Minute || d > time.Hour {
		t.Fatalf("expires in %s", d)
	}
}

func TestParseRejects(t *testing.T) {
	secret := []byte("s3cret")
	wrongKey, _ := IssueToken([]byte("other"), "x", time.Minute)
	expired, _ := IssueToken(secret, "x", -time.Minute)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "x"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, raw := range map[string]string{"wrong key": wrongKey, "expired": expired, "alg none": none, "garbage": "abc"} {
		if _, err := ParseToken(secret, raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}
