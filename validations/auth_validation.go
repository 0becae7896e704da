package validations

import (
	"context"

	pkgError "github.com/AzielCF/az-press/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RoleRequest struct {
	Role string `json:"role"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func ValidateLogin(request LoginRequest) error {
	err := validation.ValidateStruct(&request,
		validation.Field(&request.Username, validation.Required),
		validation.Field(&request.Password, validation.Required),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidateRegister(ctx context.Context, request RegisterRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Username, validation.Required, validation.Length(3, 32), is.Alphanumeric),
		validation.Field(&request.Email, validation.Required, is.EmailFormat),
		validation.Field(&request.Password, validation.Required, validation.Length(8, 72)),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidateRole(request RoleRequest) error {
	err := validation.ValidateStruct(&request,
		validation.Field(&request.Role, validation.Required, validation.In("admin", "author", "reader")),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}
