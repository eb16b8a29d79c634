package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ritaorion/district5b-laravel-sub001/app/services"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/response"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/session"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/usercontext"
)

// AuthController handles session login/logout and the password setup link.
type AuthController struct {
	users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// HandleLogin accepts a username or email address plus password.
func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := ac.users.Login(c.UserContext(), req.Login, req.Password)
	if err != nil {
		return err
	}
	if err := session.Login(c, user.ID, user.Username, user.IsAdmin); err != nil {
		return apperr.Internal("Could not start the session", err)
	}
	log.Infof("[Auth] user %d logged in", user.ID)
	return response.SuccessWithMessage(c, "Logged in", user)
}

func (ac *AuthController) HandleLogout(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if err := session.Logout(c); err != nil {
		return apperr.Internal("Could not end the session", err)
	}
	log.Infof("[Auth] user %d logged out", userID)
	return response.SuccessWithMessage(c, "Logged out", nil)
}

// HandleSession reports who the caller is.
func (ac *AuthController) HandleSession(c *fiber.Ctx) error {
	return response.Success(c, usercontext.GetUserContext(c))
}

// HandlePasswordSetupShow checks a setup token before the form is shown.
func (ac *AuthController) HandlePasswordSetupShow(c *fiber.Ctx) error {
	user, err := ac.users.PasswordSetupUser(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	return response.Success(c, fiber.Map{"username": user.Username, "email": user.Email})
}

func (ac *AuthController) HandlePasswordSetup(c *fiber.Ctx) error {
	var in services.PasswordSetupInput
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	user, err := ac.users.CompletePasswordSetup(c.UserContext(), c.Params("token"), in)
	if err != nil {
		return err
	}
	return response.SuccessWithMessage(c, "Your password has been set. You can log in now.", fiber.Map{"username": user.Username})
}
