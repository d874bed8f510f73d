package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-medidiagnose/internal/common/models"
)

var jwtSecret = []byte("secret")

// UserClaimsKey is the fiber Locals / context key under which the auth
// middleware stores the decoded claims.
const UserClaimsKey = "user_claims"

// TokenTTL is the lifetime of an issued token. There is no refresh or
// revocation; a logged-out token stays valid until natural expiry.
const TokenTTL = 7 * 24 * time.Hour

// SetSecret allows injecting the secret from config
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

type UserClaims struct {
	UserID           string   `json:"user_id"`
	Email            string   `json:"email"`
	Roles            []string `json:"roles"`
	ExtraPermissions []string `json:"extra_permissions"`
	IsSuperuser      bool     `json:"is_superuser"`
	IsStaff          bool     `json:"is_staff"`
	jwt.RegisteredClaims
}

// GenerateToken issues an HS256 token for the user. Role flags are taken
// from the persisted user record at issuance time and are not re-checked
// until the next login.
func GenerateToken(user *models.User, roleNames []string) (string, error) {
	perms := make([]string, 0, len(user.ExtraPermissions))
	for _, p := range user.ExtraPermissions {
		perms = append(perms, p.Hex())
	}
	if roleNames == nil {
		roleNames = []string{}
	}

	claims := UserClaims{
		UserID:           user.ID.Hex(),
		Email:            user.Email,
		Roles:            roleNames,
		ExtraPermissions: perms,
		IsSuperuser:      user.IsSuperuser,
		IsStaff:          user.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenSignatureInvalid
}
