package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeSession  = "session"
	TokenTypeDownload = "download"
)

var ErrWrongTokenType = errors.New("token type mismatch")

type Claims struct {
	Email string `json:"email,omitempty"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewManager(secret, issuer string) *Manager {
	return &Manager{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// GenerateSessionToken signs an admin session for userID.
func (m *Manager) GenerateSessionToken(userID, email string, ttl time.Duration) (string, *Claims, error) {
	return m.sign(Claims{Email: email, Type: TokenTypeSession}, userID, ttl)
}

// GenerateDownloadToken proves that orderID was unlocked and may be downloaded.
func (m *Manager) GenerateDownloadToken(orderID string, ttl time.Duration) (string, *Claims, error) {
	return m.sign(Claims{Type: TokenTypeDownload}, orderID, ttl)
}

func (m *Manager) sign(claims Claims, subject string, ttl time.Duration) (string, *Claims, error) {
	now := m.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, &claims, nil
}

// ValidateToken parses tokenString and checks its signature, expiry, issuer and type.
func (m *Manager) ValidateToken(tokenString, tokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Type != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
