package server

import (
	"strconv"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// principal returns the authenticated principal. Routes behind AuthRequired
// always have one, so a missing value is a programming error surfaced as 401.
func principal(c *fiber.Ctx) (models.Principal, bool) {
	p, ok := c.Locals("principal").(models.Principal)
	return p, ok
}

// parseIDParam parses a numeric route parameter into a uint ID.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + name + " parameter")
	}
	return uint(id), nil
}

// parseListQuery reads page/limit/status/q. A page that is present but not a
// positive integer is rejected; limits are left for the service to clamp.
func parseListQuery(c *fiber.Ctx) (service.ListPostsInput, error) {
	in := service.ListPostsInput{
		Query: c.Query("q"),
		Page:  1,
		Limit: 0,
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return in, models.NewValidationError("Page must be a positive integer")
		}
		in.Page = page
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return in, models.NewValidationError("Limit must be an integer")
		}
		in.Limit = limit
	}

	if raw := c.Query("status"); raw != "" {
		status := models.PostStatus(raw)
		if !status.Valid() {
			return in, models.NewValidationError("Invalid status filter")
		}
		in.Status = &status
	}

	return in, nil
}

// fail maps a service error onto the standardized error response.
func fail(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}
