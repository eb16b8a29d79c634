package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ritaorion/district5b-laravel-sub001/app/services"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/response"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

const userNotFound = "User not found"

// UserController manages accounts (admin) and the caller's own profile.
type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) HandleAdminIndex(c *fiber.Ctx) error {
	page, err := uc.users.List(c.UserContext(), listQuery(c, content.ScopeAdmin))
	if err != nil {
		return err
	}
	return response.Success(c, page)
}

func (uc *UserController) HandleAdminShow(c *fiber.Ctx) error {
	id, err := paramID(c, userNotFound)
	if err != nil {
		return err
	}
	user, err := uc.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.Success(c, user)
}

// HandleAdminStore creates the account and mails a password setup link.
func (uc *UserController) HandleAdminStore(c *fiber.Ctx) error {
	var in services.UserInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	user, err := uc.users.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return response.Created(c, user)
}

func (uc *UserController) HandleAdminUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, userNotFound)
	if err != nil {
		return err
	}
	var in services.UserInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	user, err := uc.users.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return response.SuccessWithMessage(c, "User updated", user)
}

func (uc *UserController) HandleAdminDelete(c *fiber.Ctx) error {
	id, err := paramID(c, userNotFound)
	if err != nil {
		return err
	}
	if err := uc.users.Delete(c.UserContext(), usercontext.GetUserID(c), id); err != nil {
		return err
	}
	return response.NoContent(c)
}

func (uc *UserController) HandleProfile(c *fiber.Ctx) error {
	user, err := uc.users.Get(c.UserContext(), usercontext.GetUserID(c))
	if err != nil {
		return err
	}
	return response.Success(c, user)
}

func (uc *UserController) HandleProfileUpdate(c *fiber.Ctx) error {
	var in services.ProfileInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	user, err := uc.users.UpdateProfile(c.UserContext(), usercontext.GetUserID(c), in)
	if err != nil {
		return err
	}
	return response.SuccessWithMessage(c, "Profile updated", user)
}

func (uc *UserController) HandlePasswordChange(c *fiber.Ctx) error {
	var in services.PasswordChangeInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	if err := uc.users.ChangePassword(c.UserContext(), usercontext.GetUserID(c), in); err != nil {
		return err
	}
	return response.SuccessWithMessage(c, "Password changed", nil)
}
