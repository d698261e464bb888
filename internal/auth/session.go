package auth

import (
	"ims-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const CtxSessionKey = "session"

// Session is the authenticated principal for the current request. Built once
// by JWTMiddleware from the verified token and treated as read-only by
// handlers.
type Session struct {
	Token    string
	AuthID   uint
	Username string
	Role     models.UserRole
	UserID   int // business identity shared with policies and claims
}

func NewSession(token string, claims *JWTCustomClaims) *Session {
	return &Session{
		Token:    token,
		AuthID:   claims.AuthID,
		Username: claims.Username,
		Role:     claims.Role,
		UserID:   claims.UserID,
	}
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != ""
}

func (s *Session) HasRole(role models.UserRole) bool {
	return s.IsAuthenticated() && s.Role == role
}

func (s *Session) IsAdmin() bool {
	return s.HasRole(models.RoleAdmin)
}

// Clear wipes all session fields (logout). With stateless JWT auth the
// client discards the token; clearing here guarantees nothing downstream of
// a logout can still see a principal.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	*s = Session{}
}

// FromCtx returns the session stored by JWTMiddleware, or nil when the
// request never passed authentication.
func FromCtx(c *fiber.Ctx) *Session {
	if s, ok := c.Locals(CtxSessionKey).(*Session); ok {
		return s
	}
	return nil
}
