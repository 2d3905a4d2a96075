package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Account types carried in the access token.
const (
	AccountTypeTutor = "tutor"
	AccountTypeAdmin = "admin"
)

// Service verifies and (for tests and tooling) issues access tokens.
// Token refresh, revocation and the login flow live outside this service.
type Service interface {
	GenerateAccessToken(accountID string, accountType string, tutorID *string, franchiseID string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(accountID string, accountType string, tutorID *string, franchiseID string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"account_id":   accountID,
		"account_type": accountType,
		"franchise_id": franchiseID,
		"type":         "access",
		"exp":          expiresAt,
	}
	if tutorID != nil {
		claims["tutor_id"] = *tutorID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}
