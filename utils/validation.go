package utils

import (
	"regexp"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

var (
	// ValidEmailRegex is a pragmatic email shape check; real validation
	// happens when the address is used.
	ValidEmailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	// ValidUsernameRegex limits usernames to word characters and dashes.
	ValidUsernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{2,32}$`)
)

const (
	MinPasswordLength = 8
	MaxPageLimit      = 100
	DefaultPageLimit  = 20
)

// ValidateSignup checks a signup request and returns field->problem.
func ValidateSignup(email, username, password string) map[string]string {
	problems := make(map[string]string)
	if !ValidEmailRegex.MatchString(email) {
		problems["email"] = "invalid email address"
	}
	if !ValidUsernameRegex.MatchString(username) {
		problems["username"] = "2-32 letters, digits, dashes or underscores"
	}
	if len(password) < MinPasswordLength {
		problems["password"] = "must be at least 8 characters"
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// ParsePagination reads page/limit query params with sane bounds.
func ParsePagination(c *fiber.Ctx) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultPageLimit)))
	if limit < 1 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	return page, limit
}

// ParseID parses a positive int64 route parameter.
func ParseID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
