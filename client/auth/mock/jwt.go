package mock

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"
	refreshTTL       = 24 * time.Hour
)

// createJWT creates a signed token for subject with the given type and expiry
func (b *Backend) createJWT(subject, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        subject,
		"token_type": tokenType,
		"exp":        now.Add(expiry).Unix(),
		"iat":        now.Unix(),
		"jti":        uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(b.secret)
}

// parseJWT validates token signature, expiry and type, returning its subject
func (b *Backend) parseJWT(value, tokenType string) (string, error) {
	token, err := jwt.Parse(value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return b.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["token_type"] != tokenType {
		return "", errors.New("wrong token type")
	}
	return claims.GetSubject()
}

func (b *Backend) issuePair(subject string) (access, refresh string, err error) {
	if access, err = b.createJWT(subject, accessTokenType, b.AccessTTL); err != nil {
		return "", "", err
	}
	refresh, err = b.createJWT(subject, refreshTokenType, refreshTTL)
	return access, refresh, err
}
