package middleware

import (
	"github.com/labstack/echo/v4"

	"reuseu/internal/domain/entity"
	"reuseu/internal/usecase"
	"reuseu/pkg/response"
)

const (
	sessionKey     = "session"
	uidKey         = "uid"
	marketplaceKey = "marketplace_id"
)

type AuthMiddleware struct {
	sessions *usecase.SessionUseCase
}

func NewAuthMiddleware(sessions *usecase.SessionUseCase) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate requires a verified token and an account with a resolvable
// marketplace.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return m.build(false, next)
}

// Onboarding requires a verified token only. It guards account creation.
func (m *AuthMiddleware) Onboarding(next echo.HandlerFunc) echo.HandlerFunc {
	return m.build(true, next)
}

func (m *AuthMiddleware) build(onboarding bool, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		s, err := m.sessions.Build(req.Context(), usecase.SessionRequest{
			Method:              req.Method,
			AuthorizationHeader: req.Header.Get(echo.HeaderAuthorization),
			Onboarding:          onboarding,
		})
		if err != nil {
			return response.Error(c, err)
		}
		SetSession(c, s)
		return next(c)
	}
}

func SetSession(c echo.Context, s entity.Session) {
	c.Set(sessionKey, s)
	c.Set(uidKey, s.SubjectID)
	c.Set(marketplaceKey, s.MarketplaceID)
}

// SessionFrom returns the session set by Authenticate, or the anonymous
// session.
func SessionFrom(c echo.Context) entity.Session {
	s, _ := c.Get(sessionKey).(entity.Session)
	return s
}
