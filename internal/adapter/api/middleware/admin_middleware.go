package middleware

import (
	"github.com/labstack/echo/v4"

	"reuseu/internal/usecase"
	"reuseu/pkg/errors"
	"reuseu/pkg/response"
)

type AdminMiddleware struct {
	admins usecase.AdminChecker
}

func NewAdminMiddleware(admins usecase.AdminChecker) *AdminMiddleware {
	return &AdminMiddleware{admins: admins}
}

// AdminOnly must run after Authenticate.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s := SessionFrom(c)
		if s.Anonymous() || m.admins == nil || !m.admins.IsAdmin(s.SubjectID) {
			return response.Error(c, errors.Forbidden("Admin privileges required", nil))
		}
		return next(c)
	}
}
