package dto

import (
	"tasktrack/infras/jwt"
	userDto "tasktrack/internal/domains/user/model/dto"
)

type SignupRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is a freshly authenticated user together with the token to hand back as a cookie.
type Session struct {
	User  userDto.UserResponse
	Token *jwt.Token
}

func (s *Session) Response() UserEnvelope {
	return UserEnvelope{User: s.User}
}

type UserEnvelope struct {
	User userDto.UserResponse `json:"user"`
}
