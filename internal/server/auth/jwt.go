package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/blogmirror/internal/common"
)

// Claims carries the registered claims plus the numeric user id. Subject
// holds the same id as a string.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// IssueToken signs an HS256 token for subjectID that expires ttl from now.
func (m *Manager) IssueToken(subjectID int64, ttl time.Duration) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: subjectID,
	})

	return token.SignedString(m.secretKey)
}

// AccessToken issues a token with the configured access token lifetime.
func (m *Manager) AccessToken(subjectID int64) (string, error) {
	return m.IssueToken(subjectID, m.accessTokenTTL)
}

// VerifyToken returns the subject of a valid token. A bad signature, a
// foreign algorithm, an elapsed or missing expiry, malformed input and a
// missing subject all yield common.ErrInvalidCredentials, so callers cannot
// tell which check failed.
func (m *Manager) VerifyToken(tokenString string) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return m.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return 0, common.ErrInvalidCredentials
	}

	if claims.UserID <= 0 || claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return 0, common.ErrInvalidCredentials
	}

	return claims.UserID, nil
}
