// Package apitest boots the HTTP stack against throwaway stores for handler tests.
package apitest

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lymstore/storefront/config"
	"github.com/lymstore/storefront/internal/app"
	"github.com/lymstore/storefront/internal/cart"
	"github.com/lymstore/storefront/internal/dbtest"
	"github.com/lymstore/storefront/internal/domain"
	"github.com/lymstore/storefront/internal/webserver"
	"github.com/lymstore/storefront/pkg/common"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const Secret = "test-secret"

type Env struct {
	App  *app.Application
	Echo *echo.Echo
	DB   *gorm.DB
}

// New builds an application on in-memory sqlite and a temp bbolt file, then
// runs the given route registration functions.
func New(t testing.TB, register ...func()) *Env {
	t.Helper()
	cfg := *config.DefaultAppConfig
	cfg.System.Debug = false
	cfg.Web.Secret = Secret
	cfg.Web.SessionSecret = "test-session-secret"
	cfg.Shop.ExportLanguage = "en"

	a := app.NewApplication(&cfg)
	store, err := cart.OpenBoltStore(filepath.Join(t.TempDir(), "cart.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	a.Attach(dbtest.Open(t), store)

	webserver.Init(a)
	for _, r := range register {
		r()
	}
	return &Env{App: a, Echo: webserver.Echo(), DB: a.DB()}
}

// AdminToken creates an operator and returns a bearer token for it.
func (e *Env) AdminToken(t testing.TB) string {
	t.Helper()
	hashed, err := app.HashPassword("secret")
	require.NoError(t, err)
	opr := domain.SysOpr{
		ID:       common.UUIDint64(),
		Username: "tester",
		Password: hashed,
		Level:    "super",
		Status:   domain.ENABLED,
	}
	require.NoError(t, e.DB.Create(&opr).Error)
	token, err := webserver.IssueToken(Secret, &opr, time.Hour)
	require.NoError(t, err)
	return token
}

type Option func(*http.Request)

func Bearer(token string) Option {
	return func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
}

func WithCookies(cookies []*http.Cookie) Option {
	return func(r *http.Request) {
		for _, c := range cookies {
			r.AddCookie(c)
		}
	}
}

// Do serves one request. A non-nil body is sent as JSON.
func (e *Env) Do(method, target string, body interface{}, opts ...Option) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	e.Echo.ServeHTTP(rec, req)
	return rec
}

// Decode parses a JSON response body into v.
func Decode(t testing.TB, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}
