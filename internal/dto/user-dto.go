package dto

import "github.com/aarondl/null/v8"

type UserDTO struct {
	ID       uint64      `json:"id"`
	FullName string      `json:"full_name"`
	Email    string      `json:"email"`
	Role     string      `json:"role"`
	TeamID   null.Uint64 `json:"team_id"`
}

type CreateUserDTO struct {
	FullName string      `json:"full_name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     string      `json:"role" validate:"required,role"`
	TeamID   null.Uint64 `json:"team_id" validate:"omitempty,gt=0"`
}

type UpdateUserDTO struct {
	FullName null.String `json:"full_name" validate:"omitempty"`
	Email    null.String `json:"email" validate:"omitempty,email"`
	Role     null.String `json:"role" validate:"omitempty,role"`
	TeamID   null.Uint64 `json:"team_id" validate:"omitempty,gt=0"`
}
