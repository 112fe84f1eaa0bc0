package jwtauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestVerifier_AcceptsIssuedToken(t *testing.T) {
	tok, err := Issue("s3cret", "u1", "ana@example.com", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := NewVerifier("s3cret").Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "ana@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifier_SubjectOnly(t *testing.T) {
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u2",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("s3cret"))

	claims, err := NewVerifier("s3cret").Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if claims.UserID != "u2" {
		t.Fatalf("expected user from sub, got %+v", claims)
	}
}

func TestVerifier_Rejects(t *testing.T) {
	good, _ := Issue("s3cret", "u1", "", time.Hour)
	expired, _ := Issue("s3cret", "u1", "", -time.Minute)
	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("s3cret"))

	cases := []struct {
		name   string
		secret string
		token  string
		want   error
	}{
		{"wrong secret", "other", good, nil},
		{"expired", "s3cret", expired, nil},
		{"garbage", "s3cret", "not.a.jwt", nil},
		{"empty", "s3cret", "  ", ErrTokenEmpty},
		{"no user", "s3cret", noUser, ErrMissingUser},
		{"not configured", "", good, ErrNotConfigured},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewVerifier(tc.secret).Verify(context.Background(), tc.token)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
