package server

import (
	"errors"
	"log/slog"
	"strings"

	"clubhouse/internal/middleware"
	"clubhouse/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// render writes a view document. Every view carries its title and, when a
// user is logged in, that user.
func (s *Server) render(c *fiber.Ctx, status int, title string, data fiber.Map) error {
	view := fiber.Map{"title": title}
	for k, v := range data {
		view[k] = v
	}
	if user := currentUser(c); user != nil {
		view["current_user"] = user
	}
	return c.Status(status).JSON(view)
}

// parseForm binds a urlencoded, multipart or JSON body. An empty body leaves
// dst zeroed.
func parseForm(c *fiber.Ctx, dst interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}

func validationFields(err error) ([]models.FieldError, bool) {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.ErrCodeValidation {
		return appErr.Fields, true
	}
	return nil, false
}

func statusForCode(code string) int {
	switch code {
	case models.ErrCodeValidation:
		return fiber.StatusUnprocessableEntity
	case models.ErrCodeAuthFailure:
		return fiber.StatusUnauthorized
	case models.ErrCodeAuthorization:
		return fiber.StatusForbidden
	case models.ErrCodeNotFound:
		return fiber.StatusNotFound
	case models.ErrCodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return models.ErrCodeNotFound
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return models.ErrCodeValidation
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusServiceUnavailable:
		return "UNAVAILABLE"
	}
	if status >= fiber.StatusInternalServerError {
		return models.ErrCodeInternal
	}
	return strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(status), " ", "_"))
}

// errorHandler turns errors that escaped a handler into the JSON error shape.
// Internal details are only exposed in development.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	resp := models.ErrorResponse{
		Error: "Internal server error",
		Code:  models.ErrCodeInternal,
	}

	var fe *fiber.Error
	var appErr *models.AppError
	switch {
	case errors.As(err, &fe):
		status = fe.Code
		resp.Error = fe.Message
		resp.Code = codeForStatus(status)
	case errors.As(err, &appErr):
		status = statusForCode(appErr.Code)
		resp.Error = appErr.Message
		resp.Code = appErr.Code
	}

	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		if s.config.IsDevelopment() {
			resp.Details = err.Error()
		}
	}

	return c.Status(status).JSON(resp)
}
