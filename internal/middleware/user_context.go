package middleware

import (
	"context"

	"hipaa-audit/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const currentUserKey = "CurrentUser"

type UserLoader interface {
	GetUser(ctx context.Context, id uint) (models.User, error)
}

// InjectUser кладёт в контекст пользователя из сессии. Удалённый пользователь
// просто не попадает в контекст, RequireAuth тогда смотрит только на сессию.
func InjectUser(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uid, ok := sess.Get(SessionUserID).(uint); ok && uid > 0 {
			if user, err := users.GetUser(c.Request.Context(), uid); err == nil {
				c.Set(currentUserKey, user)
			}
		}

		c.Next()
	}
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}

// Actor — имя для assessed_by / uploaded_by / created_by.
func Actor(c *gin.Context) string {
	if u, ok := CurrentUser(c); ok {
		return u.Username
	}
	if name, ok := sessions.Default(c).Get(SessionUsername).(string); ok {
		return name
	}
	return ""
}
