package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// AccessTokenPayload is the caller input for MintAccessToken. JTI doubles as
// the server side session key; an empty value gets a fresh uuid.
type AccessTokenPayload struct {
	UserID int64
	Role   enums.Role
	JTI    string
}

type AccessTokenClaims struct {
	UserID int64      `json:"user_id"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}

// Validate runs after the registered claims pass; jwt calls it during parsing.
func (c AccessTokenClaims) Validate() error {
	if c.UserID <= 0 {
		return errors.New("token carries no user")
	}
	if !c.Role.IsValid() {
		return errors.New("token carries an unknown role")
	}
	return nil
}
