package webserver

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/labstack/gommon/random"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/lymstore/storefront/internal/app"
)

const (
	ApiPrefix     = "/api/v1"
	appCtxKey     = "appCtx"
	SessionName   = "storefront"
	OperatorKey   = "operator"
	jwtContextKey = "user"
)

type AdminServer struct {
	root      *echo.Echo
	api       *echo.Group
	adminAuth echo.MiddlewareFunc
	appCtx    app.AppContext
}

var server *AdminServer

// Init builds the echo instance with the shared middleware chain. Route
// registration functions must run after Init and before Start.
func Init(appCtx app.AppContext) *AdminServer {
	cfg := appCtx.Config()
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)
	if cfg.System.Debug {
		e.Logger.SetLevel(log.INFO)
	}
	e.JSONSerializer = &JSONSerializer{}
	e.Validator = NewValidator()
	e.HTTPErrorHandler = httpErrorHandler

	sessionSecret := cfg.Web.SessionSecret
	if sessionSecret == "" {
		sessionSecret = random.String(32)
		zap.L().Warn("web.session_secret not set, carts will not survive restarts",
			zap.String("namespace", "webserver"))
	}
	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Shop.CartTTLHours * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Web.AllowOrigins,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: !containsWildcard(cfg.Web.AllowOrigins),
	}))
	e.Use(requestLogger())
	e.Use(session.Middleware(store))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appCtxKey, appCtx)
			return next(c)
		}
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	server = &AdminServer{
		root:      e,
		api:       e.Group(ApiPrefix),
		adminAuth: JWTMiddleware(cfg.Web.Secret),
		appCtx:    appCtx,
	}
	return server
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("remote_ip", v.RemoteIP),
				zap.String("namespace", "webserver"),
			}
			if v.Error != nil {
				zap.L().Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			zap.L().Debug("request", fields...)
			return nil
		},
	})
}

// Echo exposes the root instance, mostly for tests.
func Echo() *echo.Echo {
	return server.root
}

func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(appCtxKey).(app.AppContext)
}

func Start(ctx context.Context) error {
	cfg := server.appCtx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("Prepare to start web server %s", addr)

	errc := make(chan error, 1)
	go func() {
		errc <- server.root.Start(addr)
	}()
	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.root.Shutdown(shutdownCtx)
	}
}

func path(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Public routes

func PubGET(p string, h echo.HandlerFunc) {
	server.api.GET(path(p), h)
}

func PubPOST(p string, h echo.HandlerFunc) {
	server.api.POST(path(p), h)
}

func PubPUT(p string, h echo.HandlerFunc) {
	server.api.PUT(path(p), h)
}

func PubDELETE(p string, h echo.HandlerFunc) {
	server.api.DELETE(path(p), h)
}

// Admin routes, bearer token required

func ApiGET(p string, h echo.HandlerFunc) {
	server.api.GET(path(p), h, server.adminAuth)
}

func ApiPOST(p string, h echo.HandlerFunc) {
	server.api.POST(path(p), h, server.adminAuth)
}

func ApiPUT(p string, h echo.HandlerFunc) {
	server.api.PUT(path(p), h, server.adminAuth)
}

func ApiPATCH(p string, h echo.HandlerFunc) {
	server.api.PATCH(path(p), h, server.adminAuth)
}

func ApiDELETE(p string, h echo.HandlerFunc) {
	server.api.DELETE(path(p), h, server.adminAuth)
}

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports field errors by their json names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
