package server

import (
	"strconv"

	"clubhouse/internal/models"
	"clubhouse/internal/service"
	"clubhouse/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	titleIndex    = "members only"
	titleSignUp   = "sign up"
	titleLogIn    = "log in"
	titleJoinClub = "join the club"
)

type signUpForm struct {
	Name            string `form:"name" json:"name"`
	Username        string `form:"username" json:"username"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm-password" json:"confirm-password"`
}

type logInForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

type joinClubForm struct {
	Passphrase string `form:"secret-passphrase" json:"secret-passphrase"`
}

type messageForm struct {
	Text string `form:"text" json:"text"`
}

type deleteForm struct {
	MessageID string `form:"messageid" json:"messageid"`
}

// ListMessages handles GET /
func (s *Server) ListMessages(c *fiber.Ctx) error {
	views, err := s.messageService.ListFor(c.UserContext(), currentUser(c), s.now())
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, titleIndex, fiber.Map{"messages": views})
}

// SignUpForm handles GET /sign-up
func (s *Server) SignUpForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, titleSignUp, nil)
}

// SignUp handles POST /sign-up. It never logs the new user in.
func (s *Server) SignUp(c *fiber.Ctx) error {
	var form signUpForm
	if err := parseForm(c, &form); err != nil {
		return err
	}

	in := service.SignUpInput{
		Name:            validation.Sanitize(form.Name),
		Username:        validation.Sanitize(form.Username),
		Password:        validation.Sanitize(form.Password),
		ConfirmPassword: validation.Sanitize(form.ConfirmPassword),
	}

	if _, err := s.userService.SignUp(c.UserContext(), in); err != nil {
		if fields, ok := validationFields(err); ok {
			return s.render(c, fiber.StatusUnprocessableEntity, titleSignUp, fiber.Map{
				"user": fiber.Map{
					"name":     in.Name,
					"username": in.Username,
				},
				"errors": fields,
			})
		}
		return err
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// LogInForm handles GET /log-in
func (s *Server) LogInForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, titleLogIn, nil)
}

// LogIn handles POST /log-in
func (s *Server) LogIn(c *fiber.Ctx) error {
	var form logInForm
	if err := parseForm(c, &form); err != nil {
		return err
	}

	username := validation.Sanitize(form.Username)
	password := validation.Sanitize(form.Password)
	ctx := c.UserContext()

	user, err := s.authService.Authenticate(ctx, username, password)
	if err != nil {
		if fields, ok := validationFields(err); ok {
			return s.render(c, fiber.StatusUnprocessableEntity, titleLogIn, fiber.Map{
				"username": username,
				"errors":   fields,
			})
		}
		if models.HasCode(err, models.ErrCodeAuthFailure) {
			return s.render(c, fiber.StatusUnauthorized, titleLogIn, fiber.Map{
				"username": username,
				"errors":   []models.FieldError{{Msg: err.Error()}},
			})
		}
		return err
	}

	// Replace rather than stack sessions on repeated log-ins.
	if old := c.Cookies(sessionCookie); old != "" {
		if err := s.sessions.End(ctx, old); err != nil {
			return models.NewInternalError(err)
		}
	}

	token, err := s.sessions.Establish(ctx, user.ID)
	if err != nil {
		return models.NewInternalError(err)
	}
	s.setSessionCookie(c, token)

	return c.Redirect("/", fiber.StatusSeeOther)
}

// LogOut handles GET /log-out
func (s *Server) LogOut(c *fiber.Ctx) error {
	if token := c.Cookies(sessionCookie); token != "" {
		if err := s.sessions.End(c.UserContext(), token); err != nil {
			return models.NewInternalError(err)
		}
	}
	s.clearSessionCookie(c)
	return c.Redirect("/", fiber.StatusSeeOther)
}

// JoinClubForm handles GET /join-club
func (s *Server) JoinClubForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, titleJoinClub, nil)
}

// JoinClub handles POST /join-club. Anonymous submissions are ignored.
func (s *Server) JoinClub(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	var form joinClubForm
	if err := parseForm(c, &form); err != nil {
		return err
	}

	if _, err := s.userService.JoinClub(c.UserContext(), user.ID, validation.Sanitize(form.Passphrase)); err != nil {
		if fields, ok := validationFields(err); ok {
			return s.render(c, fiber.StatusUnprocessableEntity, titleJoinClub, fiber.Map{"errors": fields})
		}
		return err
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// PostMessage handles POST /message/new. Anonymous submissions are ignored.
func (s *Server) PostMessage(c *fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	var form messageForm
	if err := parseForm(c, &form); err != nil {
		return err
	}

	ctx := c.UserContext()
	text := validation.Sanitize(form.Text)
	if _, err := s.messageService.Post(ctx, user, text); err != nil {
		fields, ok := validationFields(err)
		if !ok {
			return err
		}
		views, listErr := s.messageService.ListFor(ctx, user, s.now())
		if listErr != nil {
			return listErr
		}
		return s.render(c, fiber.StatusUnprocessableEntity, titleIndex, fiber.Map{
			"messages": views,
			"text":     text,
			"errors":   fields,
		})
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// DeleteMessage handles POST /message/delete. Requests from anyone but an
// admin, or naming no valid id, change nothing.
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	user := currentUser(c)
	if !user.IsAdmin() {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	var form deleteForm
	if err := parseForm(c, &form); err != nil {
		return err
	}

	id, err := strconv.ParseUint(validation.Sanitize(form.MessageID), 10, 64)
	if err != nil || id == 0 {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	if err := s.messageService.Delete(c.UserContext(), user, uint(id)); err != nil {
		if models.HasCode(err, models.ErrCodeAuthorization) {
			return c.Redirect("/", fiber.StatusSeeOther)
		}
		return err
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}
