package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilm/fuzzy"

	dbmodels "github.com/packrat-app/packrat/database/models"
	"github.com/packrat-app/packrat/database/repositories"
	"github.com/packrat-app/packrat/models"
	"github.com/packrat-app/packrat/utils"
)

// ListUsers returns all users' public profiles.
func ListUsers(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := app.Repos.User.List(c.UserContext())
		if err != nil {
			return utils.SendInternalServerError(c, "Failed to list users")
		}
		return utils.SendSuccess(c, models.NewUserDTOs(users), "")
	}
}

// GetUser returns one user's profile. Coin data is only included when
// the user views themself; the card count is public.
func GetUser(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := utils.ParseID(c, "id")
		if !ok {
			return utils.SendBadRequest(c, "Invalid user id", nil)
		}

		user, err := app.Repos.User.GetByID(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return utils.SendNotFound(c, "User not found")
			}
			return utils.SendInternalServerError(c, "Failed to load user")
		}

		session, _ := utils.ExtractUserSession(c)
		dto := models.NewUserDTO(user, session != nil && session.UserID == id)

		count, err := app.Repos.Card.CountByOwner(c.UserContext(), id)
		if err != nil {
			return utils.SendInternalServerError(c, "Failed to load user")
		}
		dto.CardCount = &count

		return utils.SendSuccess(c, dto, "")
	}
}

// UserActivity returns a user's recent public activity, newest first.
func UserActivity(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := utils.ParseID(c, "id")
		if !ok {
			return utils.SendBadRequest(c, "Invalid user id", nil)
		}

		_, limit := utils.ParsePagination(c)
		activities, err := app.Repos.Activity.ListByUser(c.UserContext(), id, limit)
		if err != nil {
			return utils.SendInternalServerError(c, "Failed to load activity")
		}
		return utils.SendSuccess(c, activities, "")
	}
}

// userSource adapts a user list for fuzzy matching on username+email.
type userSource []*dbmodels.User

func (s userSource) String(i int) string {
	return s[i].Username + " " + s[i].Email
}

func (s userSource) Len() int { return len(s) }

// SearchUsers fuzzy-matches users by username or email, for finding
// trade partners.
func SearchUsers(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			return utils.SendBadRequest(c, "Missing query parameter q", nil)
		}

		users, err := app.Repos.User.List(c.UserContext())
		if err != nil {
			return utils.SendInternalServerError(c, "Failed to search users")
		}

		matches := fuzzy.FindFrom(query, userSource(users))
		results := make([]*dbmodels.User, 0, len(matches))
		for _, match := range matches {
			results = append(results, users[match.Index])
		}

		return utils.SendSuccess(c, models.NewUserDTOs(results), "")
	}
}
