package models

import "github.com/golang-jwt/jwt/v5"

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}

// Actor converts validated claims into the identity shape the core takes.
func (c *UserClaims) Actor() Actor {
	return Actor{UserID: c.UserID, Role: c.Role}
}
