package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid"

	"github.com/yayiti-52/tasksync-hub/internal/models"
)

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("password stored in the clear")
	}
	if err := CheckPassword(hash, "hunter22"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, models.ErrNotAuthenticated) {
		t.Fatalf("wrong password err = %v", err)
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("abc"); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	accountID := uuid.Must(uuid.NewV4())

	token, err := m.IssueToken(accountID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parsed, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != accountID {
		t.Fatalf("parsed = %s, want %s", parsed, accountID)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := issuer.IssueToken(uuid.Must(uuid.NewV4()))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.ParseToken(token); !errors.Is(err, models.ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)
	token, err := m.IssueToken(uuid.Must(uuid.NewV4()))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.ParseToken(token); !errors.Is(err, models.ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	if _, err := m.ParseToken("not-a-jwt"); !errors.Is(err, models.ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
}
