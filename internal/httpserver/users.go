package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/journohub/internal/domain"
	"github.com/Skotchmaster/journohub/internal/service"
	"github.com/Skotchmaster/journohub/internal/transport"
	"github.com/Skotchmaster/journohub/pkg/logging"
)

type UsersHTTP struct {
	Svc *service.UserService
}

var userNotFound = messages{domain.ErrNotFound: "User not found"}

func (h *UsersHTTP) Me(c echo.Context) error {
	u, err := h.Svc.Me(c.Request().Context(), actorFrom(c).ID)
	if err != nil {
		return fail(c, "users.me", err, userNotFound)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UsersHTTP) Profile(c echo.Context) error {
	p, err := h.Svc.PublicProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, "users.profile", err, userNotFound)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *UsersHTTP) ListStudents(c echo.Context) error {
	users, err := h.Svc.ListStudents(c.Request().Context())
	if err != nil {
		return fail(c, "users.list_students", err, nil)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UsersHTTP) CreateStudent(c echo.Context) error {
	var req transport.CreateStudentRequest
	if err := bindValid(c, "users.create_student", &req); err != nil {
		return err
	}

	u, err := h.Svc.CreateStudent(c.Request().Context(), req)
	if err != nil {
		return fail(c, "users.create_student", err, messages{
			domain.ErrConflict: "User with that email already exists",
		})
	}
	return c.JSON(http.StatusCreated, transport.NewPublicUser(u))
}

func (h *UsersHTTP) DeleteStudent(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if err := h.Svc.DeleteStudent(ctx, id); err != nil {
		return fail(c, "users.delete_student", err, messages{domain.ErrNotFound: "Student not found"})
	}

	logging.FromContext(ctx).Info("delete_student_success", "student_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Student deleted"})
}

func (h *UsersHTTP) ResetPassword(c echo.Context) error {
	var req transport.ResetPasswordRequest
	if err := bindValid(c, "users.reset_password", &req); err != nil {
		return err
	}

	if err := h.Svc.ResetPassword(c.Request().Context(), c.Param("id"), req.Password); err != nil {
		return fail(c, "users.reset_password", err, userNotFound)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Password reset"})
}

func (h *UsersHTTP) UpdateProfile(c echo.Context) error {
	var req transport.PatchProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "users.update_profile", "invalid body", err)
	}

	u, err := h.Svc.UpdateProfile(c.Request().Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		return fail(c, "users.update_profile", err, messages{
			domain.ErrNotFound:  "User not found",
			domain.ErrForbidden: "Not authorized",
		})
	}
	return c.JSON(http.StatusOK, u)
}
