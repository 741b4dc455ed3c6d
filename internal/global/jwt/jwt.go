package jwt

import (
	"time"

	"student-data-system/config"
	"student-data-system/internal/model"

	jwtlib "github.com/golang-jwt/jwt"
)

// Payload is the session identity carried by a token.
type Payload struct {
	UserID uint       `json:"user_id"`
	NIS    string     `json:"nis"`
	Nama   string     `json:"nama"`
	Role   model.Role `json:"role"`
}

type Claims struct {
	Payload
	jwtlib.StandardClaims
}

// CreateToken signs a HS256 token for the given identity.
func CreateToken(payload Payload) string {
	cfg := config.Get().JWT
	now := time.Now()
	claims := Claims{
		Payload: payload,
		StandardClaims: jwtlib.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Duration(cfg.AccessExpire) * time.Second).Unix(),
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).
		SignedString([]byte(cfg.AccessSecret))
	if err != nil {
		// HS256 signing of a well-formed claim set cannot fail at runtime
		panic(err)
	}
	return token
}

// ParseToken verifies a token string and recovers the session identity.
func ParseToken(token string) (*Claims, bool) {
	claims := &Claims{}
	parsed, err := jwtlib.ParseWithClaims(token, claims, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, jwtlib.ErrSignatureInvalid
		}
		return []byte(config.Get().JWT.AccessSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, false
	}
	return claims, true
}
