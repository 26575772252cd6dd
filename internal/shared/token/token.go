package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	autherrors "github.com/shahadat-technovicinity/school-management-system/internal/auth/errors"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"

	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

// Subject is what a token asserts about its bearer.
type Subject struct {
	UserID     string
	EmployeeID string
	SchoolID   string
	Role       string
}

func Generate(secret string, sub Subject, tokenType string, expiry time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id":     sub.UserID,
		"employee_id": sub.EmployeeID,
		"school_id":   sub.SchoolID,
		"role":        sub.Role,
		"typ":         tokenType,
		"iat":         now.Unix(),
		"exp":         now.Add(expiry).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse verifies an HS256 token of the wanted type. Expired tokens map to
// ErrTokenExpired, everything else to ErrInvalidToken.
func Parse(secret, tokenString, wantType string) (Subject, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Subject{}, autherrors.ErrTokenExpired
		}
		return Subject{}, autherrors.ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return Subject{}, autherrors.ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != wantType {
		return Subject{}, autherrors.ErrInvalidToken
	}

	sub := Subject{}
	sub.UserID, _ = claims["user_id"].(string)
	sub.EmployeeID, _ = claims["employee_id"].(string)
	sub.SchoolID, _ = claims["school_id"].(string)
	sub.Role, _ = claims["role"].(string)

	if sub.UserID == "" {
		return Subject{}, autherrors.ErrInvalidToken
	}
	if sub.SchoolID == "" {
		return Subject{}, autherrors.ErrMissingSchool
	}
	return sub, nil
}
