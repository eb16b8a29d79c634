package services

import (
	"context"
	"strings"
	"time"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/app/repository"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/mail"
)

const (
	userNotFound       = "User not found"
	invalidCredentials = "Invalid credentials"
	invalidSetupLink   = "This password setup link is invalid or has expired"
)

// UserInput is what admins edit. New users receive a password setup link
// instead of a password.
type UserInput struct {
	Username  string `json:"username" validate:"required,min=3,max=150"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Email     string `json:"email" validate:"required,email,max=200"`
	IsAdmin   bool   `json:"is_admin"`
}

type ProfileInput struct {
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Email     string `json:"email" validate:"required,email,max=200"`
}

type PasswordChangeInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type PasswordSetupInput struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UserService struct {
	repo   repository.UserRepository
	cache  *content.Cache
	mailer mail.Mailer
	now    func() time.Time
	appURL string
}

func (s *UserService) List(ctx context.Context, q content.ListQuery) (content.Page[models.User], error) {
	q.Scope = content.ScopeAdmin
	q = q.Only(content.FilterSearch).Normalize(UsersPerPage)
	return listPaged(ctx, s.cache, content.EntityUser, q, s.repo.List)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return getOne(ctx, s.cache, content.EntityUser, id, userNotFound, func(ctx context.Context) (*models.User, error) {
		return s.repo.GetByID(ctx, id)
	})
}

// Create adds an account and mails its owner a password setup link.
func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	in = normalizeUserInput(in)
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, in.Username, in.Email, 0); err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		IsAdmin:   in.IsAdmin,
	}
	token := user.GeneratePasswordSetupToken(s.now())
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, storeErr(err, userNotFound)
	}
	s.invalidate(ctx, user.ID)

	mail.Deliver(ctx, s.mailer, mail.Message{
		To:       []string{user.Email},
		Subject:  "Your account has been created",
		Template: mail.TemplateUserWelcome,
		Data: map[string]interface{}{
			"Name":       user.FullName(),
			"Username":   user.Username,
			"SetupURL":   strings.TrimRight(s.appURL, "/") + "/password/setup/" + token,
			"ValidHours": int(models.PasswordSetupTTL.Hours()),
		},
	})
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UserInput) (*models.User, error) {
	in = normalizeUserInput(in)
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, userNotFound)
	}
	if err := s.checkUnique(ctx, in.Username, in.Email, user.ID); err != nil {
		return nil, err
	}
	user.Username = in.Username
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = in.Email
	user.IsAdmin = in.IsAdmin
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, storeErr(err, userNotFound)
	}
	s.invalidate(ctx, user.ID)
	return user, nil
}

// Delete removes an account. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return apperr.Conflict("You cannot delete your own account")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr(err, userNotFound)
	}
	s.invalidate(ctx, id)
	return nil
}

// Login checks a username or email and password and records the login time.
func (s *UserService) Login(ctx context.Context, login, password string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, apperr.Unauthorized(invalidCredentials)
	}
	user, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized(invalidCredentials)
		}
		return nil, apperr.Internal("", err)
	}
	if !user.CheckPassword(password) {
		return nil, apperr.Unauthorized(invalidCredentials)
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, storeErr(err, userNotFound)
	}
	s.invalidate(ctx, user.ID)
	return user, nil
}

// PasswordSetupUser resolves a setup token that is still valid.
func (s *UserService) PasswordSetupUser(ctx context.Context, token string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperr.NotFound(invalidSetupLink)
	}
	user, err := s.repo.GetByPasswordSetupToken(ctx, token)
	if err != nil {
		return nil, storeErr(err, invalidSetupLink)
	}
	if !user.IsPasswordSetupTokenValid(token, s.now()) {
		return nil, apperr.NotFound(invalidSetupLink)
	}
	return user, nil
}

// CompletePasswordSetup sets the first password and burns the token.
func (s *UserService) CompletePasswordSetup(ctx context.Context, token string, in PasswordSetupInput) (*models.User, error) {
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	user, err := s.PasswordSetupUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := user.CompletePasswordSetup(in.Password, s.now()); err != nil {
		return nil, apperr.Internal("", err)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, storeErr(err, userNotFound)
	}
	s.invalidate(ctx, user.ID)
	return user, nil
}

// UpdateProfile lets a user edit their own name and email.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*models.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, userNotFound)
	}
	if in.Email != user.Email {
		taken, err := s.repo.EmailExists(ctx, in.Email, user.ID)
		if err != nil {
			return nil, apperr.Internal("", err)
		}
		if taken {
			return nil, apperr.Field("email", "This email is already in use")
		}
		user.EmailVerifiedAt = nil
	}
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = in.Email
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, storeErr(err, userNotFound)
	}
	s.invalidate(ctx, user.ID)
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id uint, in PasswordChangeInput) error {
	if err := apperr.ValidateStruct(in); err != nil {
		return err
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return storeErr(err, userNotFound)
	}
	if !user.CheckPassword(in.CurrentPassword) {
		return apperr.Field("current_password", "Current password is incorrect")
	}
	if err := user.SetPassword(in.NewPassword); err != nil {
		return apperr.Internal("", err)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return storeErr(err, userNotFound)
	}
	s.invalidate(ctx, user.ID)
	return nil
}

func (s *UserService) checkUnique(ctx context.Context, username, email string, exceptID uint) error {
	fields := map[string]string{}
	taken, err := s.repo.UsernameExists(ctx, username, exceptID)
	if err != nil {
		return apperr.Internal("", err)
	}
	if taken {
		fields["username"] = "This username is already taken"
	}
	taken, err = s.repo.EmailExists(ctx, email, exceptID)
	if err != nil {
		return apperr.Internal("", err)
	}
	if taken {
		fields["email"] = "This email is already in use"
	}
	if len(fields) > 0 {
		return apperr.Validation(fields)
	}
	return nil
}

func (s *UserService) invalidate(ctx context.Context, id uint) {
	s.cache.Invalidate(ctx, content.Invalidation{
		Entity:  content.EntityUser,
		PerPage: UsersPerPage,
		Scopes:  []string{content.ScopeAdmin},
		Items:   []interface{}{id},
	})
}

func normalizeUserInput(in UserInput) UserInput {
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	return in
}
