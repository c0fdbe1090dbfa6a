package auth

import (
	"testing"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestIssueAndVerify(t *testing.T) {
	m, err := NewTokenManager("secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	token, err := m.Issue(domain.Identity{UserID: "u1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("expected token got %v", err)
	}
	id, err := m.Verify(token)
	if err != nil {
		t.Fatalf("expected valid token got %v", err)
	}
	if id.UserID != "u1" || !id.IsAdmin() {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestVerifyRejects(t *testing.T) {
	m, _ := NewTokenManager("secret", time.Minute)
	other, _ := NewTokenManager("other", time.Minute)
	foreign, _ := other.Issue(domain.Identity{UserID: "u1", Role: domain.RoleUser})

	expiredMgr, _ := NewTokenManager("secret", time.Minute)
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredMgr.Issue(domain.Identity{UserID: "u1", Role: domain.RoleUser})

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "u1", "role": "user", "exp": time.Now().Add(time.Hour).Unix()})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"user_id": "u1", "role": "user", "exp": time.Now().Add(time.Hour).Unix()})
	wrongAlg, _ := hs512.SignedString([]byte("secret"))

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u1", "role": "root", "exp": time.Now().Add(time.Hour).Unix()})
	badRoleToken, _ := badRole.SignedString([]byte("secret"))

	cases := map[string]string{
		"garbage":     "not-a-token",
		"foreign key": foreign,
		"expired":     expired,
		"alg none":    unsigned,
		"wrong alg":   wrongAlg,
		"bad role":    badRoleToken,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := m.Verify(token); err == nil {
				t.Fatal("expected token to be rejected")
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "correct horse battery") {
		t.Fatal("expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("expected mismatch")
	}
}

func TestDummyHash(t *testing.T) {
	h := DummyHash()
	if h == "" || h != DummyHash() {
		t.Fatal("expected one stable dummy hash")
	}
	cost, err := bcrypt.Cost([]byte(h))
	if err != nil || cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost hash got %d %v", cost, err)
	}
	if CheckPassword(h, "correct horse battery") {
		t.Fatal("expected dummy hash to reject passwords")
	}
}
