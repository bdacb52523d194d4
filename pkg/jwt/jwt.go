// Package jwt emite y valida los tokens de sesión de los empleados (HS256).
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoSecret el servidor arrancó sin JWT_SECRET.
	ErrNoSecret = errors.New("jwt: secret vacío")
	// ErrExpired el token venció.
	ErrExpired = errors.New("jwt: token expirado")
	// ErrInvalid firma, algoritmo o claims incorrectos.
	ErrInvalid = errors.New("jwt: token inválido")
)

// Claims sesión del empleado. El rol viaja en el token para que los permisos
// se resuelvan sin consultar la base de datos.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	StoreID   string `json:"store_id,omitempty"`
	Role      string `json:"role"` // admin | gerente | cajero | bodeguero | contador
}

// Generate firma la sesión del empleado con vigencia de expMinutes.
func Generate(secret, userID, companyID, storeID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		CompanyID: companyID,
		StoreID:   storeID,
		Role:      role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("jwt: firmar: %w", err)
	}
	return signed, nil
}

// Parse valida firma, algoritmo y vigencia. Un token sin usuario o sin empresa
// se rechaza aunque la firma sea válida.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if claims.UserID == "" || claims.CompanyID == "" {
		return nil, fmt.Errorf("%w: faltan user_id o company_id", ErrInvalid)
	}
	return claims, nil
}
