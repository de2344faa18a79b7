package dto

import "github.com/baechuer/france-explorer/internal/domain"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=256"`
}

func (r *RegisterRequest) Validate() error { return validateStruct(r) }

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=256"`
}

func (r *LoginRequest) Validate() error { return validateStruct(r) }

type UserView struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func NewUserView(u domain.PublicUser) UserView {
	return UserView{UserID: u.ID, Username: u.Username, Email: u.Email}
}

type UserData struct {
	User UserView `json:"user"`
}

type VerifyData struct {
	Valid bool `json:"valid"`
}

type SuccessData struct {
	Success bool `json:"success"`
}
