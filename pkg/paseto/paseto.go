package paseto

import (
	"encoding/base64"
	"fmt"
	"time"

	paseto "github.com/o1egl/paseto/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"School-Administration-System/config"
	"School-Administration-System/models"
)

type Claims struct {
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email"`
	Role   string             `json:"role"`
}

var (
	pasetoInstance = paseto.NewV2()
	symmetricKey   []byte
)

func init() {
	cfg := config.LoadConfig()

	decodedKey, err := base64.URLEncoding.DecodeString(cfg.PASETO_SECRET)
	if err != nil {
		decodedKey, err = base64.StdEncoding.DecodeString(cfg.PASETO_SECRET)
		if err != nil {
			panic(fmt.Sprintf("Failed to decode PASETO_SECRET: %v", err))
		}
	}

	if len(decodedKey) != 32 {
		panic(fmt.Sprintf("PASETO_SECRET must be exactly 32 bytes after Base64 decoding, got %d bytes", len(decodedKey)))
	}

	symmetricKey = decodedKey
}

func GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	exp := now.Add(24 * time.Hour)

	token := paseto.JSONToken{
		IssuedAt:   now,
		Expiration: exp,
		NotBefore:  now,
	}

	// Custom claims are stored as strings
	token.Set("user_id", user.ID.Hex())
	token.Set("email", user.Email)
	token.Set("role", user.Role)

	return pasetoInstance.Encrypt(symmetricKey, token, "")
}

func ValidateToken(tokenString string) (*Claims, error) {
	var token paseto.JSONToken
	var footer string

	err := pasetoInstance.Decrypt(tokenString, symmetricKey, &token, &footer)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if err := token.Validate(); err != nil {
		return nil, fmt.Errorf("token expired or not yet valid: %w", err)
	}

	var userIDHex, email, role string
	if err := token.Get("user_id", &userIDHex); err != nil {
		return nil, fmt.Errorf("user_id claim missing: %w", err)
	}
	if err := token.Get("email", &email); err != nil {
		return nil, fmt.Errorf("email claim missing: %w", err)
	}
	if err := token.Get("role", &role); err != nil {
		return nil, fmt.Errorf("role claim missing: %w", err)
	}

	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, fmt.Errorf("user_id claim is not a valid ObjectID: %w", err)
	}

	return &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
	}, nil
}
