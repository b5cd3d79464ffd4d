package handler

import "github.com/pingcraft/identity-system/internal/core/domain"

// ErrorResponse is the error envelope rendered for every 4xx/5xx response.
// The central error handler writes it; it lives here with the other wire
// schemas.
type ErrorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// Length rules live in the service so that every caller gets the same
// failure ordering; the schema only rejects structurally empty payloads.
type registerRequest struct {
	Account       string `json:"account"        validate:"required"`
	Password      string `json:"password"       validate:"required"`
	CheckPassword string `json:"check_password" validate:"required"`
}

type loginRequest struct {
	Account  string `json:"account"  validate:"required"`
	Password string `json:"password" validate:"required"`
}

type addUserRequest struct {
	Account string `json:"account" validate:"required,min=4"`
	Name    string `json:"name"`
	Profile string `json:"profile"`
	Role    string `json:"role"    validate:"omitempty,oneof=user admin"`
}

type updateUserRequest struct {
	ID      int64  `json:"id"      validate:"required,gt=0"`
	Name    string `json:"name"`
	Profile string `json:"profile"`
	Role    string `json:"role"    validate:"omitempty,oneof=user admin"`
}

type deleteUserRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type listUsersRequest struct {
	ID        int64  `json:"id"`
	Account   string `json:"account"`
	Name      string `json:"name"`
	Profile   string `json:"profile"`
	Role      string `json:"role"      validate:"omitempty,oneof=user admin"`
	Current   int64  `json:"current"`
	PageSize  int64  `json:"page_size"`
	SortField string `json:"sort_field"`
	SortOrder string `json:"sort_order" validate:"omitempty,oneof=ascend descend"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type userPageResponse struct {
	Records  []*domain.UserView `json:"records"`
	Total    int64              `json:"total"`
	Current  int64              `json:"current"`
	PageSize int64              `json:"page_size"`
}
