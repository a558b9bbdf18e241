package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/packrat-app/packrat/database/repositories"
	"github.com/packrat-app/packrat/models"
	"github.com/packrat-app/packrat/utils"
)

// FollowUser subscribes the acting user to another user's activity.
func FollowUser(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		userID, ok := utils.ParseID(c, "userId")
		if !ok {
			return utils.SendBadRequest(c, "Invalid user id", nil)
		}
		if userID == session.UserID {
			return utils.SendBadRequest(c, "Cannot follow yourself", nil)
		}

		if _, err := app.Repos.User.GetByID(c.UserContext(), userID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return utils.SendNotFound(c, "User not found")
			}
			return utils.SendInternalServerError(c, "Failed to follow user")
		}

		if err := app.Repos.Follow.Follow(c.UserContext(), session.UserID, userID); err != nil {
			if errors.Is(err, repositories.ErrAlreadyFollowing) {
				return utils.SendConflict(c, "Already following this user", nil)
			}
			return utils.SendInternalServerError(c, "Failed to follow user")
		}
		return utils.SendSuccess(c, nil, "Following user")
	}
}

// UnfollowUser removes a follow relation.
func UnfollowUser(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}
		userID, ok := utils.ParseID(c, "userId")
		if !ok {
			return utils.SendBadRequest(c, "Invalid user id", nil)
		}

		if err := app.Repos.Follow.Unfollow(c.UserContext(), session.UserID, userID); err != nil {
			if errors.Is(err, repositories.ErrNotFollowing) {
				return utils.SendNotFound(c, "Not following this user")
			}
			return utils.SendInternalServerError(c, "Failed to unfollow user")
		}
		return utils.SendSuccess(c, nil, "Unfollowed user")
	}
}

// ListFollowers returns users following the acting user.
func ListFollowers(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		users, err := app.Repos.Follow.Followers(c.UserContext(), session.UserID)
		if err != nil {
			return utils.SendInternalServerError(c, "Failed to list followers")
		}
		return utils.SendSuccess(c, models.NewUserDTOs(users), "")
	}
}

// ListFollowing returns users the acting user follows.
func ListFollowing(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		users, err := app.Repos.Follow.Following(c.UserContext(), session.UserID)
		if err != nil {
			return utils.SendInternalServerError(c, "Failed to list following")
		}
		return utils.SendSuccess(c, models.NewUserDTOs(users), "")
	}
}

// Feed returns the newest activities of users the acting user follows.
func Feed(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		page, limit := utils.ParsePagination(c)
		activities, total, err := app.Repos.Activity.Feed(c.UserContext(), session.UserID, limit, (page-1)*limit)
		if err != nil {
			return utils.SendInternalServerError(c, "Failed to load feed")
		}

		pagination := models.NewPaginationInfo(page, limit, total)
		return utils.SendPaginated(c, activities, pagination, "")
	}
}
