package utils

import (
	"legendario-service/config"

	"github.com/golang-jwt/jwt/v5"
)

// TokenMetadata struct to describe metadata in JWT. Tokens are minted
// by the external account service; "otp" marks a login still waiting
// on its second factor.
type TokenMetadata struct {
	Id   string
	Role string
	Otp  bool
	Exp  int64
}

func CheckAndExtractTokenMetadata(token string, key string) (*TokenMetadata, error) {
	t, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.Config(key)), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := t.Claims.(jwt.MapClaims); ok && t.Valid {
		metadata := &TokenMetadata{
			Id:  claims["id"].(string),
			Exp: int64(claims["exp"].(float64)),
		}
		if role, ok := claims["role"].(string); ok {
			metadata.Role = role
		}
		if otp, ok := claims["otp"].(bool); ok {
			metadata.Otp = otp
		}
		return metadata, nil
	}

	return nil, err
}
