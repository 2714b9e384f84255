package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

// Admin sessions expire after a fixed day, matching the login cookie
const AdminSessionTTL = 24 * time.Hour

// File grants live shorter. A viewer re-enters the password after that
const FileGrantTTL = 12 * time.Hour

var ErrTokenInvalid = errors.New("token invalid")

func secret() []byte {
	return []byte(viper.GetString("security.jwt_secret"))
}

// IssueAdminToken returns a signed session token for the admin panel
func IssueAdminToken() (string, error) {
	claims := jwt.MapClaims{
		"scope": "admin",
		"exp":   time.Now().Add(AdminSessionTTL).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidateAdminToken checks an admin session token
func ValidateAdminToken(token string) error {
	claims, err := parse(token)
	if err != nil {
		return err
	}

	if scope, _ := claims["scope"].(string); scope != "admin" {
		return ErrTokenInvalid
	}

	return nil
}

// IssueFileToken returns a token granting access to exactly one
// protected file. It replaces the old scheme of storing the raw
// password in a cookie.
func IssueFileToken(fileID string) (string, error) {
	claims := jwt.MapClaims{
		"scope":   "file",
		"file_id": fileID,
		"exp":     time.Now().Add(FileGrantTTL).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidateFileToken checks that a token grants access to fileID
func ValidateFileToken(token, fileID string) error {
	claims, err := parse(token)
	if err != nil {
		return err
	}

	if scope, _ := claims["scope"].(string); scope != "file" {
		return ErrTokenInvalid
	}

	if id, _ := claims["file_id"].(string); id != fileID {
		return ErrTokenInvalid
	}

	return nil
}

func parse(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return secret(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
