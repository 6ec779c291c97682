package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oksasatya/classical-review/pkg/apperror"
)

// TokenPurpose restricts what a token may authorize. A token issued for one
// purpose is rejected everywhere another purpose is expected.
type TokenPurpose string

const (
	PurposeAccess            TokenPurpose = "access"
	PurposeRefresh           TokenPurpose = "refresh"
	PurposeEmailVerification TokenPurpose = "email_verification"
)

var ErrTokenPurpose = errors.New("token purpose mismatch")

// JWTManager handles generation and validation of JWT tokens
type JWTManager struct {
	secrets map[TokenPurpose][]byte
	ttls    map[TokenPurpose]time.Duration
}

func NewJWTManager(accessSecret, refreshSecret, emailSecret string, accessTTL, refreshTTL, emailTTL time.Duration) *JWTManager {
	return &JWTManager{
		secrets: map[TokenPurpose][]byte{
			PurposeAccess:            []byte(accessSecret),
			PurposeRefresh:           []byte(refreshSecret),
			PurposeEmailVerification: []byte(emailSecret),
		},
		ttls: map[TokenPurpose]time.Duration{
			PurposeAccess:            accessTTL,
			PurposeRefresh:           refreshTTL,
			PurposeEmailVerification: emailTTL,
		},
	}
}

type Claims struct {
	UserID    string       `json:"uid"`
	SessionID string       `json:"sid,omitempty"`
	Purpose   TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

func (m *JWTManager) generate(purpose TokenPurpose, userID, sessionID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.ttls[purpose])
	claims := &Claims{
		UserID:    userID,
		SessionID: sessionID,
		Purpose:   purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secrets[purpose])
	return s, exp, err
}

func (m *JWTManager) GenerateAccessToken(userID, sessionID string) (string, time.Time, error) {
	return m.generate(PurposeAccess, userID, sessionID)
}

func (m *JWTManager) GenerateRefreshToken(userID, sessionID string) (string, time.Time, error) {
	return m.generate(PurposeRefresh, userID, sessionID)
}

func (m *JWTManager) GenerateEmailVerificationToken(userID string) (string, time.Time, error) {
	return m.generate(PurposeEmailVerification, userID, "")
}

// Parse validates signature, expiry and purpose, in that order.
func (m *JWTManager) Parse(tokenStr string, purpose TokenPurpose) (*Claims, error) {
	secret, ok := m.secrets[purpose]
	if !ok {
		return nil, fmt.Errorf("unknown token purpose %q", purpose)
	}
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrTokenPurpose, claims.Purpose, purpose)
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return m.Parse(tokenStr, PurposeAccess)
}

func (m *JWTManager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return m.Parse(tokenStr, PurposeRefresh)
}

func (m *JWTManager) ParseEmailVerificationToken(tokenStr string) (*Claims, error) {
	return m.Parse(tokenStr, PurposeEmailVerification)
}

// Authenticate resolves the acting user from an access token. Every failure
// is reported as an apperror authentication error.
func (m *JWTManager) Authenticate(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, apperror.Authentication(errors.New("missing access token"))
	}
	claims, err := m.ParseAccessToken(tokenStr)
	if err != nil {
		return nil, apperror.Authentication(err)
	}
	return claims, nil
}
