package auth

import (
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.UserRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID      `json:"user_id"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Caller is the authenticated identity every engine operation receives explicitly.
type Caller struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

func (c Caller) IsAdmin() bool {
	return c.Role == enums.UserRoleAdmin
}

// Owns reports whether the caller is the given owner.
func (c Caller) Owns(ownerID uuid.UUID) bool {
	return c.UserID != uuid.Nil && c.UserID == ownerID
}

// CanAccess reports whether the caller owns the resource or is an admin.
func (c Caller) CanAccess(ownerID uuid.UUID) bool {
	return c.IsAdmin() || c.Owns(ownerID)
}

// CallerFromClaims converts verified claims into a Caller.
func CallerFromClaims(claims *AccessTokenClaims) Caller {
	if claims == nil {
		return Caller{}
	}
	return Caller{UserID: claims.UserID, Role: claims.Role}
}
