package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/snapgather/snapgather-backend/internal/models"
)

// KeyProvider returns the current verification key material. Providers
// backed by a remote JWKS endpoint may fail transiently; Verify retries
// those failures, never signature or expiry failures.
type KeyProvider interface {
	Key() (interface{}, error)
}

// StaticKeyProvider serves a fixed HMAC secret.
type StaticKeyProvider struct {
	Secret []byte
}

func (p StaticKeyProvider) Key() (interface{}, error) {
	return p.Secret, nil
}

const (
	keyFetchAttempts = 2
	keyFetchBackoff  = 500 * time.Millisecond
)

// Verifier validates externally issued bearer credentials and extracts
// the claim set. It holds no per-request state.
type Verifier struct {
	keys   KeyProvider
	issuer string
	logger *zap.Logger
	sleep  func(time.Duration)
}

func NewVerifier(keys KeyProvider, issuer string, logger *zap.Logger) *Verifier {
	return &Verifier{
		keys:   keys,
		issuer: issuer,
		logger: logger,
		sleep:  time.Sleep,
	}
}

// Verify checks the credential and returns its claims. Any defect of the
// token itself maps to ErrInvalidCredential with the cause logged; only a
// failed key fetch, after a bounded linear-backoff retry, surfaces as
// ErrIdentityProviderUnavailable.
func (v *Verifier) Verify(credential string) (*models.VerifiedIdentity, error) {
	key, err := v.fetchKey()
	if err != nil {
		v.logger.Warn("identity provider key fetch failed", zap.Error(err))
		return nil, models.ErrIdentityProviderUnavailable
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "RS256"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.Parse(credential, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC, *jwt.SigningMethodRSA:
			return key, nil
		default:
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
	}, opts...)
	if err != nil {
		// Cause stays in the log; callers get the uniform credential error.
		v.logger.Info("credential rejected", zap.Error(err))
		return nil, models.ErrInvalidCredential
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, models.ErrInvalidCredential
	}

	identity, err := identityFromClaims(claims)
	if err != nil {
		v.logger.Info("credential claims incomplete", zap.Error(err))
		return nil, models.ErrInvalidCredential
	}
	return identity, nil
}

func (v *Verifier) fetchKey() (interface{}, error) {
	var lastErr error
	for attempt := 1; attempt <= keyFetchAttempts; attempt++ {
		key, err := v.keys.Key()
		if err == nil {
			return key, nil
		}
		lastErr = err
		if attempt < keyFetchAttempts {
			v.sleep(keyFetchBackoff * time.Duration(attempt))
		}
	}
	return nil, lastErr
}

func identityFromClaims(claims jwt.MapClaims) (*models.VerifiedIdentity, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("missing sub claim")
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, errors.New("missing email claim")
	}

	verified, _ := claims["email_verified"].(bool)
	name, _ := claims["name"].(string)

	identity := &models.VerifiedIdentity{
		SubjectID:     sub,
		Email:         email,
		EmailVerified: verified,
		Name:          name,
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		identity.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		identity.Expiry = exp.Time
	}
	return identity, nil
}
