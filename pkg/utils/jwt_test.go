package utils

import (
	"errors"
	"testing"
	"time"

	common_models "go-medidiagnose/internal/common/models"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateAndValidateToken(t *testing.T) {
	SetSecret("test-secret")

	user := &common_models.User{
		ID:          primitive.NewObjectID(),
		Email:       "doc@example.com",
		IsStaff:     true,
		IsSuperuser: false,
		ExtraPermissions: []primitive.ObjectID{
			primitive.NewObjectID(),
		},
	}

	token, err := GenerateToken(user, []string{"Doctor"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if claims.UserID != user.ID.Hex() {
		t.Errorf("UserID = %q, want %q", claims.UserID, user.ID.Hex())
	}
	if claims.Email != "doc@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "Doctor" {
		t.Errorf("Roles = %v", claims.Roles)
	}
	if !claims.IsStaff || claims.IsSuperuser {
		t.Errorf("flags = staff:%v super:%v", claims.IsStaff, claims.IsSuperuser)
	}
	if len(claims.ExtraPermissions) != 1 || claims.ExtraPermissions[0] != user.ExtraPermissions[0].Hex() {
		t.Errorf("ExtraPermissions = %v", claims.ExtraPermissions)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	SetSecret("test-secret")

	claims := UserClaims{
		UserID: primitive.NewObjectID().Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = ValidateToken(signed)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	SetSecret("secret-a")
	user := &common_models.User{ID: primitive.NewObjectID(), Email: "x@example.com"}
	token, err := GenerateToken(user, nil)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	SetSecret("secret-b")
	if _, err := ValidateToken(token); err == nil {
		t.Error("expected validation failure after secret change")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	SetSecret("test-secret")
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
