package middleware

import (
	"strings"

	"github.com/collabhub/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AuditLog records write operations (POST/PUT/DELETE) to the audit_logs
// table after the handler has run.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != "POST" && method != "PUT" && method != "DELETE" {
			c.Next()
			return
		}

		c.Next()

		actor := GetActor(c)
		status := c.Writer.Status()
		module, action := parseRouteInfo(c.FullPath(), method)

		var uid *uint
		if actor.UserID > 0 {
			uid = &actor.UserID
		}

		level := "info"
		if status >= 400 {
			level = "warning"
		}

		services.WriteAudit(level, module, action,
			formatAuditMessage(actor.Username, method, c.Request.URL.Path, status),
			uid, c.ClientIP(), c.Request.UserAgent())
	}
}

// parseRouteInfo extracts module and action from a Gin route pattern,
// e.g. "/api/posts/:id" + "PUT" → module="posts", action="update".
func parseRouteInfo(fullPath, method string) (module, action string) {
	path := strings.TrimPrefix(fullPath, "/api/")
	parts := strings.SplitN(path, "/", 2)
	module = parts[0]
	if module == "" {
		module = "unknown"
	}

	switch method {
	case "POST":
		action = "create"
	case "PUT":
		action = "update"
	case "DELETE":
		action = "delete"
	default:
		action = strings.ToLower(method)
	}
	return module, action
}

func formatAuditMessage(username, method, path string, status int) string {
	var b strings.Builder
	b.WriteString(username)
	b.WriteString(" ")
	b.WriteString(method)
	b.WriteString(" ")
	b.WriteString(path)
	if status >= 200 && status < 300 {
		b.WriteString(" ok")
	} else {
		b.WriteString(" failed")
	}
	return b.String()
}
