package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/paydesk/payroll-console/internal/domain/user"
)

const (
	TypeAccess = "access"
	TypeSSE    = "sse"

	// sseTokenTTL bounds the window in which a stream URL carrying the token can be replayed.
	sseTokenTTL = 5 * time.Minute
)

var ErrWrongTokenType = errors.New("token type not accepted here")

// Claims are the console claims carried by every token. The backend token is
// never put in a JWT; it stays in the session row.
type Claims struct {
	SessionID string
	UserID    string
	Role      user.Role
	CompanyID *string
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt time.Time, err error)
	GenerateSSEToken(sessionID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (sessionID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTTL time.Duration
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTTL time.Duration) Service {
	return &JWTService{
		accessTTL: accessTTL,
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(c Claims) (string, time.Time, error) {
	expiresAt := time.Now().Add(j.accessTTL)

	claims := map[string]interface{}{
		"session_id": c.SessionID,
		"user_id":    c.UserID,
		"role":       string(c.Role),
		"company_id": valueOrNil(c.CompanyID),
		"type":       TypeAccess,
		"exp":        expiresAt.Unix(),
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// GenerateSSEToken issues a short-lived token for EventSource, which cannot send headers.
func (j *JWTService) GenerateSSEToken(sessionID string) (string, int, error) {
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"session_id": sessionID,
		"type":       TypeSSE,
		"exp":        time.Now().Add(sseTokenTTL).Unix(),
	})
	if err != nil {
		return "", 0, err
	}
	return tokenString, int(sseTokenTTL.Seconds()), nil
}

func (j *JWTService) ValidateSSEToken(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}
	if tokenType, _ := token.Get("type"); tokenType != TypeSSE {
		return "", ErrWrongTokenType
	}
	return SessionID(token.PrivateClaims())
}

// SessionID reads the session claim from decoded claims.
func SessionID(claims map[string]interface{}) (string, error) {
	id, ok := claims["session_id"].(string)
	if !ok || id == "" {
		return "", jwt.ErrInvalidJWT()
	}
	return id, nil
}

// TokenType reads the type claim from decoded claims.
func TokenType(claims map[string]interface{}) string {
	t, _ := claims["type"].(string)
	return t
}

func valueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
