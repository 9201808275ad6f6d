package server

import (
	"fmt"
	"io"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// GetMe handles GET /api/me
func (s *Server) GetMe(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return fail(c, models.NewUnauthorizedError("Authorization required"))
	}

	profile, err := s.users.GetMe(c.UserContext(), p.ID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(profile)
}

// UpdateMe handles PATCH /api/me. Bio is a pointer so an explicit `"bio": ""`
// clears the field while an omitted bio leaves it untouched.
func (s *Server) UpdateMe(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return fail(c, models.NewUnauthorizedError("Authorization required"))
	}

	var req struct {
		Name     string  `json:"name"`
		Bio      *string `json:"bio"`
		ImageURL string  `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	profile, err := s.users.UpdateMe(c.UserContext(), p.ID, service.UpdateMeInput{
		Name:     req.Name,
		Bio:      req.Bio,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(profile)
}

// UploadAvatar handles POST /api/avatar. Accepts a multipart "file" part,
// png or jpeg up to 2MB; the profile is only updated after storage confirms
// the upload.
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return fail(c, models.NewUnauthorizedError("Authorization required"))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		middleware.AvatarUploads.WithLabelValues("rejected").Inc()
		return fail(c, models.NewValidationError("Avatar file is required"))
	}
	if fileHeader.Size > storage.MaxAvatarSize {
		middleware.AvatarUploads.WithLabelValues("rejected").Inc()
		return fail(c, models.NewValidationError("Avatar must be 2MB or smaller"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.AvatarUploads.WithLabelValues("failed").Inc()
		return fail(c, models.NewInternalError(err))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxAvatarSize+1))
	if err != nil {
		middleware.AvatarUploads.WithLabelValues("failed").Inc()
		return fail(c, models.NewInternalError(err))
	}
	if len(data) > storage.MaxAvatarSize {
		middleware.AvatarUploads.WithLabelValues("rejected").Inc()
		return fail(c, models.NewValidationError("Avatar must be 2MB or smaller"))
	}

	contentType, ext, ok := storage.SniffImage(data)
	if !ok {
		middleware.AvatarUploads.WithLabelValues("rejected").Inc()
		return fail(c, models.NewValidationError("Avatar must be a png or jpeg image"))
	}

	key := fmt.Sprintf("%d-%d.%s", p.ID, time.Now().UnixMilli(), ext)
	url, err := s.avatars.Upload(c.UserContext(), key, contentType, data)
	if err != nil {
		middleware.AvatarUploads.WithLabelValues("failed").Inc()
		return fail(c, models.NewInternalError(err))
	}

	profile, err := s.users.SetAvatar(c.UserContext(), p.ID, url)
	if err != nil {
		middleware.AvatarUploads.WithLabelValues("failed").Inc()
		return fail(c, err)
	}

	middleware.AvatarUploads.WithLabelValues("success").Inc()
	return c.JSON(profile)
}
