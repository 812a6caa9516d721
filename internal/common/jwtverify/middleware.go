package jwtverify

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/AlibekovAA/memorize-api/internal/common/errors"
	commonhttp "github.com/AlibekovAA/memorize-api/internal/common/http"
	"github.com/AlibekovAA/memorize-api/internal/common/logger"
	"github.com/AlibekovAA/memorize-api/internal/observability/metrics"
)

// SubjectClaim is the only claim carried by issued tokens.
const SubjectClaim = "id"

var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidClaims    = errors.New("invalid token claims")
)

// Verifier checks a token and returns its subject id.
type Verifier interface {
	Verify(tokenString string) (string, error)
}

// Middleware only checks that the bearer token carries a valid signature.
// The verified subject is neither stored in the request context nor compared
// against the user id in the path: any valid token may act on any user.
func Middleware(verifier Verifier, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := ExtractToken(r.Header.Get("Authorization"))
			if tokenString == "" {
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"action": "jwt_missing",
				}).Warn("jwt auth failed: missing authorization token")
				commonhttp.WriteError(w, commonerrors.ErrAccessDenied.HTTPStatus(), commonerrors.ErrAccessDenied.Message())
				return
			}

			metrics.JWTValidationsTotal.Inc()
			subject, err := verifier.Verify(tokenString)
			if err != nil {
				metrics.JWTValidationsFailed.Inc()
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"action": "jwt_invalid",
				}).Warnf("jwt auth failed: %v", err)
				commonhttp.WriteError(w, commonerrors.ErrInvalidToken.HTTPStatus(), commonerrors.ErrInvalidToken.Message())
				return
			}

			if log.ShouldLog(logger.DEBUG) {
				log.WithFields(r.Context(), logger.Fields{
					"subject": subject,
					"path":    r.URL.Path,
				}).Debug("jwt auth ok")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken returns the second space-separated element of the header.
// The scheme name is not checked.
func ExtractToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// ParseToken verifies the HS256 signature and returns the subject id.
// Tokens carry no exp claim; none is required.
func ParseToken(tokenString string, secret []byte) (string, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", classifyParseError(err)
	}
	if !parsed.Valid {
		return "", ErrInvalidSignature
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidClaims
	}

	sub, _ := mapClaims[SubjectClaim].(string)
	if sub == "" {
		return "", ErrMalformedToken
	}

	return sub, nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return errors.Join(ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return errors.Join(ErrInvalidSignature, err)
	default:
		return errors.Join(ErrInvalidClaims, err)
	}
}
