package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/bitmall/storefront/config"
	"github.com/bitmall/storefront/internal/auth"
	"github.com/bitmall/storefront/pkg/metrics"
)

// WebServer hosts the REST API. Routes register into three tiers: public,
// authenticated, and staff (capability-gated).
type WebServer struct {
	root   *echo.Echo
	cfg    *config.AppConfig
	pub    *echo.Group
	authed *echo.Group
	staff  *echo.Group
}

func New(cfg *config.AppConfig) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger())

	jwtmw := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.JwtSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	})

	s := &WebServer{root: e, cfg: cfg}
	s.pub = e.Group("/api")
	s.authed = e.Group("/api", jwtmw)
	s.staff = e.Group("/api/staff", jwtmw, requireStaff)
	return s
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			metrics.IncrCounter("http_requests", 1)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("elapsed", time.Since(start)))
			return err
		}
	}
}

func requireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := CurrentClaims(c)
		if claims == nil || claims.Capability != auth.CapStaff {
			return echo.NewHTTPError(http.StatusForbidden, "staff capability required")
		}
		return next(c)
	}
}

// CurrentClaims returns the session claims, or nil on a public route.
func CurrentClaims(c echo.Context) *auth.Claims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// CurrentUserID returns the authenticated user identifier, 0 when absent.
func CurrentUserID(c echo.Context) int64 {
	if claims := CurrentClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

// Public routes require no session.
func (s *WebServer) PubGET(path string, h echo.HandlerFunc)  { s.pub.GET(path, h) }
func (s *WebServer) PubPOST(path string, h echo.HandlerFunc) { s.pub.POST(path, h) }

// Api routes require an authenticated session.
func (s *WebServer) ApiGET(path string, h echo.HandlerFunc)    { s.authed.GET(path, h) }
func (s *WebServer) ApiPOST(path string, h echo.HandlerFunc)   { s.authed.POST(path, h) }
func (s *WebServer) ApiPUT(path string, h echo.HandlerFunc)    { s.authed.PUT(path, h) }
func (s *WebServer) ApiDELETE(path string, h echo.HandlerFunc) { s.authed.DELETE(path, h) }

// Staff routes additionally require the staff capability.
func (s *WebServer) StaffGET(path string, h echo.HandlerFunc)    { s.staff.GET(path, h) }
func (s *WebServer) StaffPOST(path string, h echo.HandlerFunc)   { s.staff.POST(path, h) }
func (s *WebServer) StaffPUT(path string, h echo.HandlerFunc)    { s.staff.PUT(path, h) }
func (s *WebServer) StaffDELETE(path string, h echo.HandlerFunc) { s.staff.DELETE(path, h) }

// Start blocks serving HTTP until Stop or failure.
func (s *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.L().Info("web server listening", zap.String("addr", addr))
	err := s.root.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *WebServer) Stop(ctx context.Context) error {
	return s.root.Shutdown(ctx)
}
