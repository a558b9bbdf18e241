package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	dbmodels "github.com/packrat-app/packrat/database/models"
	"github.com/packrat-app/packrat/database/repositories"
	"github.com/packrat-app/packrat/models"
	"github.com/packrat-app/packrat/utils"
)

type signupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new user and opens a session for them.
func Signup(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signupRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}
		if problems := utils.ValidateSignup(req.Email, req.Username, req.Password); problems != nil {
			return utils.SendBadRequest(c, "Validation failed", problems)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return utils.SendInternalServerError(c, "Failed to process password")
		}

		user := &dbmodels.User{
			Email:        req.Email,
			Username:     req.Username,
			PasswordHash: string(hash),
			Role:         dbmodels.RoleUser,
		}
		if err := app.Repos.User.Create(c.UserContext(), user); err != nil {
			if errors.Is(err, repositories.ErrDuplicateEmail) {
				return utils.SendConflict(c, "Email already registered", nil)
			}
			slog.Error("Failed to create user", slog.String("error", err.Error()))
			return utils.SendInternalServerError(c, "Failed to create user")
		}

		session := &models.UserSession{
			UserID:   user.ID,
			Email:    user.Email,
			Username: user.Username,
			IsAdmin:  user.IsAdmin(),
		}
		if err := app.Sessions.CreateSession(c, session); err != nil {
			return utils.SendInternalServerError(c, "Failed to create session")
		}

		return utils.SendCreated(c, models.NewUserDTO(user, true), "Account created")
	}
}

// Login verifies credentials and opens a session.
func Login(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}

		user, err := app.Repos.User.GetByEmail(c.UserContext(), req.Email)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return utils.SendForbidden(c, "Invalid email or password")
			}
			slog.Error("Failed to load user", slog.String("error", err.Error()))
			return utils.SendInternalServerError(c, "Login failed")
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			return utils.SendForbidden(c, "Invalid email or password")
		}

		session := &models.UserSession{
			UserID:   user.ID,
			Email:    user.Email,
			Username: user.Username,
			IsAdmin:  user.IsAdmin(),
		}
		if err := app.Sessions.CreateSession(c, session); err != nil {
			return utils.SendInternalServerError(c, "Failed to create session")
		}

		return utils.SendSuccess(c, models.NewUserDTO(user, true), "Logged in")
	}
}

// Logout destroys the session cookie.
func Logout(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		app.Sessions.DestroySession(c)
		return utils.SendSuccess(c, nil, "Logged out")
	}
}

// Profile returns the authenticated user's own record.
func Profile(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		user, err := app.Repos.User.GetByID(c.UserContext(), session.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				app.Sessions.DestroySession(c)
				return utils.SendUnauthorized(c, "Account no longer exists")
			}
			return utils.SendInternalServerError(c, "Failed to load profile")
		}

		return utils.SendSuccess(c, models.NewUserDTO(user, true), "")
	}
}
