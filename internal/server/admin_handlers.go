package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AdminListUsers handles GET /api/admin/users
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	users, err := s.admin.ListUsers(c.UserContext())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(users)
}

// AdminUpdateUserRole handles PATCH /api/admin/users/:id/role
func (s *Server) AdminUpdateUserRole(c *fiber.Ctx) error {
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req struct {
		Role models.Role `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	profile, err := s.admin.UpdateUserRole(c.UserContext(), targetID, req.Role)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(profile)
}

// AdminDeleteUser handles DELETE /api/admin/users/:id
func (s *Server) AdminDeleteUser(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return fail(c, models.NewUnauthorizedError("Authorization required"))
	}

	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ack, err := s.admin.DeleteUser(c.UserContext(), p.ID, targetID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(ack)
}

// AdminListPosts handles GET /api/admin/posts
func (s *Server) AdminListPosts(c *fiber.Ctx) error {
	in, err := parseListQuery(c)
	if err != nil {
		return fail(c, err)
	}

	page, err := s.admin.ListPosts(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(page)
}

// AdminUpdatePostStatus handles PATCH /api/admin/posts/:id/status
func (s *Server) AdminUpdatePostStatus(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req struct {
		Status models.PostStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	moderated, err := s.admin.UpdatePostStatus(c.UserContext(), postID, req.Status)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(moderated)
}
