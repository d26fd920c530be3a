package webserver

import (
	"net/http"
	"time"

	jwtv4 "github.com/golang-jwt/jwt/v4"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/lymstore/storefront/internal/domain"
)

// IssueToken signs an HS256 bearer token for an operator.
func IssueToken(secret string, opr *domain.SysOpr, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwtv4.MapClaims{
		"sub":   opr.Username,
		"uid":   cast.ToString(opr.ID),
		"level": opr.Level,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	return jwtv4.NewWithClaims(jwtv4.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func JWTMiddleware(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(secret),
		ContextKey:  jwtContextKey,
		TokenLookup: "header:Authorization:Bearer ",
		ErrorHandler: func(c echo.Context, err error) error {
			return Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid bearer token", nil)
		},
	})
}

// CurrentOperator returns the username carried by the request token, or "".
func CurrentOperator(c echo.Context) string {
	token, ok := c.Get(jwtContextKey).(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	return cast.ToString(claims["sub"])
}
