package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// ключи cookie-сессии
const (
	SessionUserID   = "user_id"
	SessionUsername = "username"
)

// RequireAuth пускает дальше только при user_id в сессии, иначе на /login.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		if uid, ok := sess.Get(SessionUserID).(uint); !ok || uid == 0 {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
