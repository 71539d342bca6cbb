package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"paygrow/internal/models"
)

// GenerateToken signs an access token carrying the user's id, phone and role.
func GenerateToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret not configured")
	}

	now := time.Now()
	claims := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "paygrow-api",
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
		},
		UserID: user.ID,
		Phone:  user.Phone,
		Role:   user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token string and returns its claims.
func ParseToken(tokenStr, secret string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
