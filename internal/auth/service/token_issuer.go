package service

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/memorize-api/internal/common/jwtverify"
)

type TokenSigner interface {
	Issue(subjectID string) (string, error)
}

// TokenIssuer signs HS256 tokens whose only claim is the user id. Tokens
// carry neither exp nor iat and stay valid for as long as the secret does.
type TokenIssuer struct {
	jwtSecret []byte
}

func NewTokenIssuer(jwtSecret string) *TokenIssuer {
	return &TokenIssuer{jwtSecret: []byte(jwtSecret)}
}

func (ti *TokenIssuer) Issue(subjectID string) (string, error) {
	claims := jwt.MapClaims{
		jwtverify.SubjectClaim: subjectID,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.jwtSecret)
	if err != nil {
		return "", err
	}

	incrementAccessTokensIssued()
	return tokenString, nil
}

func (ti *TokenIssuer) Verify(tokenString string) (string, error) {
	return jwtverify.ParseToken(tokenString, ti.jwtSecret)
}
