package rest

import (
	authInfra "github.com/AzielCF/az-press/auth/infrastructure"
	"github.com/AzielCF/az-press/pkg/utils"
	userApp "github.com/AzielCF/az-press/users/application"
	userDomain "github.com/AzielCF/az-press/users/domain"
	"github.com/AzielCF/az-press/validations"
	"github.com/gofiber/fiber/v2"
)

type User struct {
	Service *userApp.Service
}

func InitRestUser(app fiber.Router, guards Guards, service *userApp.Service) User {
	rest := User{Service: service}
	app.Post("/users", rest.Register)
	app.Put("/users/me", guards.Auth, rest.UpdateProfile)
	app.Get("/users/:id", rest.Get)
	app.Put("/users/:id/role", guards.Auth, guards.Role("admin"), rest.SetRole)

	return rest
}

// Register creates a reader account. Elevated roles are granted by an admin.
func (handler *User) Register(c *fiber.Ctx) error {
	var req validations.RegisterRequest
	if err := bodyParse(c, &req); err != nil {
		return err
	}
	if err := validations.ValidateRegister(c.UserContext(), req); err != nil {
		return err
	}

	user, err := handler.Service.Register(c.UserContext(), req.Username, req.Email, req.Password, userDomain.RoleReader)
	utils.PanicIfNeeded(err)

	return c.Status(fiber.StatusCreated).JSON(utils.ResponseData{
		Status:  fiber.StatusCreated,
		Code:    "SUCCESS",
		Message: "User registered",
		Results: user,
	})
}

func (handler *User) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := handler.Service.Get(c.UserContext(), id)
	utils.PanicIfNeeded(err)

	return utils.Success(c, "User retrieved", user)
}

func (handler *User) UpdateProfile(c *fiber.Ctx) error {
	var req userDomain.ProfileUpdate
	if err := bodyParse(c, &req); err != nil {
		return err
	}
	if err := validations.ValidateProfileUpdate(c.UserContext(), req); err != nil {
		return err
	}
	// Deactivation is an admin concern.
	req.Active = nil

	user, err := handler.Service.UpdateProfile(c.UserContext(), authInfra.UserID(c), req)
	utils.PanicIfNeeded(err)

	return utils.Success(c, "Profile updated", user)
}

func (handler *User) SetRole(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req validations.RoleRequest
	if err := bodyParse(c, &req); err != nil {
		return err
	}
	if err := validations.ValidateRole(req); err != nil {
		return err
	}

	user, err := handler.Service.SetRole(c.UserContext(), id, userDomain.Role(req.Role))
	utils.PanicIfNeeded(err)

	return utils.Success(c, "Role updated", user)
}
