package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return fail(c, models.NewUnauthorizedError("Authorization required"))
	}

	var req struct {
		Title   string            `json:"title"`
		Content string            `json:"content"`
		Status  models.PostStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	created, err := s.posts.Create(c.UserContext(), p.ID, service.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListMyPosts handles GET /api/posts
func (s *Server) ListMyPosts(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return fail(c, models.NewUnauthorizedError("Authorization required"))
	}

	in, err := parseListQuery(c)
	if err != nil {
		return fail(c, err)
	}

	page, err := s.posts.List(c.UserContext(), p.ID, in)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(page)
}

// GetMyPost handles GET /api/posts/:idOrSlug
func (s *Server) GetMyPost(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return fail(c, models.NewUnauthorizedError("Authorization required"))
	}

	detail, err := s.posts.GetDetail(c.UserContext(), p.ID, c.Params("idOrSlug"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(detail)
}

// UpdateMyPost handles PATCH /api/posts/:idOrSlug
func (s *Server) UpdateMyPost(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return fail(c, models.NewUnauthorizedError("Authorization required"))
	}

	var req struct {
		Title   *string            `json:"title"`
		Content *string            `json:"content"`
		Status  *models.PostStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	detail, err := s.posts.Update(c.UserContext(), p.ID, c.Params("idOrSlug"), service.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(detail)
}

// DeleteMyPost handles DELETE /api/posts/:idOrSlug
func (s *Server) DeleteMyPost(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return fail(c, models.NewUnauthorizedError("Authorization required"))
	}

	ack, err := s.posts.Remove(c.UserContext(), p.ID, c.Params("idOrSlug"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(ack)
}

// ListPublicPosts handles GET /api/public/posts
func (s *Server) ListPublicPosts(c *fiber.Ctx) error {
	in, err := parseListQuery(c)
	if err != nil {
		return fail(c, err)
	}

	page, err := s.posts.ListPublic(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(page)
}

// GetPublicPost handles GET /api/public/posts/:slug
func (s *Server) GetPublicPost(c *fiber.Ctx) error {
	detail, err := s.posts.GetPublicDetail(c.UserContext(), c.Params("slug"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(detail)
}
