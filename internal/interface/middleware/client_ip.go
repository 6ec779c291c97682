package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxRealIPKey = "real_ip"

// RealIP sets the real client IP into Gin context (key: "real_ip").
// Priority:
// 1) CF-Connecting-IP (Cloudflare)
// 2) X-Forwarded-For (left-most valid entry)
// 3) X-Real-IP
// 4) fallback to c.ClientIP()
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxRealIPKey, resolveIP(c))
		c.Next()
	}
}

func resolveIP(c *gin.Context) string {
	if ip := parseIP(c.GetHeader("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := parseIP(first); ip != "" {
			return ip
		}
	}
	if ip := parseIP(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func parseIP(s string) string {
	if ip := net.ParseIP(strings.TrimSpace(s)); ip != nil {
		return ip.String()
	}
	return ""
}

// ipFromCtx extracts the client IP from Gin context, falling back to "unknown"
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(ctxRealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// AllowPrivateIP reports whether the caller is on loopback or a private range
// (10/8, 172.16/12, 192.168/16, fc00::/7).
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		return parsed != nil && (parsed.IsLoopback() || parsed.IsPrivate())
	}
}

// RequireAllowed aborts with 403 unless allow accepts the request.
func RequireAllowed(allow AllowFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow(c) {
			abortForbidden(c)
			return
		}
		c.Next()
	}
}
