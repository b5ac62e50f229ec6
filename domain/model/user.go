package model

import (
	"time"

	"github.com/golang-jwt/jwt"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserName  string    `json:"user_name"`
	Password  string    `json:"-"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReqLogin struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type ReqRegister struct {
	Name     string `json:"name"`
	UserName string `json:"userName"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// UserClaims is the JWT payload; Issuer carries the user id.
type UserClaims struct {
	jwt.StandardClaims
	UserName string `json:"userName"`
}
