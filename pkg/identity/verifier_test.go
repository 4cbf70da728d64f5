package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/snapgather/snapgather-backend/internal/models"
)

var testSecret = []byte("test-secret")

func signedToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return s
}

func newTestVerifier(t *testing.T, keys KeyProvider, issuer string) *Verifier {
	t.Helper()
	v := NewVerifier(keys, issuer, zap.NewNop())
	v.sleep = func(time.Duration) {}
	return v
}

func TestVerifyExtractsIdentity(t *testing.T) {
	v := newTestVerifier(t, StaticKeyProvider{Secret: testSecret}, "")

	credential := signedToken(t, testSecret, jwt.MapClaims{
		"sub":            "uid-123",
		"email":          "host@example.com",
		"email_verified": true,
		"name":           "Ada",
		"iat":            time.Now().Unix(),
		"exp":            time.Now().Add(time.Hour).Unix(),
	})

	identity, err := v.Verify(credential)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if identity.SubjectID != "uid-123" {
		t.Errorf("SubjectID = %q, want uid-123", identity.SubjectID)
	}
	if identity.Email != "host@example.com" {
		t.Errorf("Email = %q", identity.Email)
	}
	if !identity.EmailVerified {
		t.Error("EmailVerified should be true")
	}
}

func TestVerifyRejectsDefectiveCredentials(t *testing.T) {
	v := newTestVerifier(t, StaticKeyProvider{Secret: testSecret}, "snapgather")

	good := jwt.MapClaims{
		"sub":   "uid-123",
		"email": "host@example.com",
		"iss":   "snapgather",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}

	tests := []struct {
		name       string
		credential string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong signature", signedToken(t, []byte("other-secret"), good)},
		{"expired", signedToken(t, testSecret, jwt.MapClaims{
			"sub": "uid-123", "email": "host@example.com", "iss": "snapgather",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})},
		{"wrong issuer", signedToken(t, testSecret, jwt.MapClaims{
			"sub": "uid-123", "email": "host@example.com", "iss": "somewhere-else",
			"exp": time.Now().Add(time.Hour).Unix(),
		})},
		{"missing sub", signedToken(t, testSecret, jwt.MapClaims{
			"email": "host@example.com", "iss": "snapgather",
			"exp": time.Now().Add(time.Hour).Unix(),
		})},
		{"missing email", signedToken(t, testSecret, jwt.MapClaims{
			"sub": "uid-123", "iss": "snapgather",
			"exp": time.Now().Add(time.Hour).Unix(),
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(tt.credential); !errors.Is(err, models.ErrInvalidCredential) {
				t.Errorf("Verify() = %v, want ErrInvalidCredential", err)
			}
		})
	}
}

type flakyKeyProvider struct {
	calls    int
	failures int
	key      []byte
}

func (p *flakyKeyProvider) Key() (interface{}, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, errors.New("jwks endpoint unreachable")
	}
	return p.key, nil
}

func TestVerifyRetriesKeyFetchOnce(t *testing.T) {
	provider := &flakyKeyProvider{failures: 1, key: testSecret}
	v := newTestVerifier(t, provider, "")

	credential := signedToken(t, testSecret, jwt.MapClaims{
		"sub":   "uid-123",
		"email": "host@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	if _, err := v.Verify(credential); err != nil {
		t.Fatalf("Verify() after one transient failure = %v, want nil", err)
	}
	if provider.calls != 2 {
		t.Errorf("key fetch attempts = %d, want 2", provider.calls)
	}
}

func TestVerifyProviderOutageIsNotACredentialDefect(t *testing.T) {
	provider := &flakyKeyProvider{failures: 10, key: testSecret}
	v := newTestVerifier(t, provider, "")

	_, err := v.Verify("irrelevant")
	if !errors.Is(err, models.ErrIdentityProviderUnavailable) {
		t.Fatalf("Verify() = %v, want ErrIdentityProviderUnavailable", err)
	}
	if provider.calls != 2 {
		t.Errorf("key fetch attempts = %d, want bounded retry of 2", provider.calls)
	}
}
