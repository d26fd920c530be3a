package webserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lymstore/storefront/internal/domain"
)

type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type PageResult struct {
	Data     interface{} `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func Ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func Message(c echo.Context, status int, msg string) error {
	return c.JSON(status, MessageResponse{Message: msg})
}

func Paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, PageResult{Data: data, Total: total, Page: page, PageSize: pageSize})
}

func Fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, ErrorResponse{Code: code, Message: message, Details: details})
}

// FailError maps domain error kinds to status codes. Anything that is not a
// domain error is reported as an opaque database failure.
func FailError(c echo.Context, err error) error {
	var de *domain.Error
	if !errors.As(err, &de) {
		zap.L().Error("unexpected handler error", zap.Error(err), zap.String("namespace", "webserver"))
		return Fail(c, http.StatusInternalServerError, string(domain.KindDatabase), "Internal error", nil)
	}
	switch de.Kind {
	case domain.KindInvalidInput, domain.KindInsufficientStock:
		return Fail(c, http.StatusBadRequest, string(de.Kind), de.Message, de.Details)
	case domain.KindNotFound:
		return Fail(c, http.StatusNotFound, string(de.Kind), de.Message, de.Details)
	default:
		zap.L().Error("database error", zap.Error(err), zap.String("namespace", "webserver"))
		return Fail(c, http.StatusInternalServerError, string(de.Kind), de.Message, nil)
	}
}

// HandleValidationError turns validator output into a 400 listing the failing fields.
func HandleValidationError(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		names := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields[fe.Namespace()] = fe.Tag()
			names = append(names, fe.Field())
		}
		return Fail(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"Invalid fields: "+strings.Join(names, ", "), fields)
	}
	return Fail(c, http.StatusBadRequest, string(domain.KindInvalidInput), err.Error(), nil)
}

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := "HTTP_ERROR"
		switch he.Code {
		case http.StatusBadRequest:
			code = "INVALID_REQUEST"
		case http.StatusUnauthorized:
			code = "UNAUTHORIZED"
		case http.StatusNotFound:
			code = "NOT_FOUND"
		}
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		_ = Fail(c, he.Code, code, msg, nil)
		return
	}
	_ = FailError(c, err)
}
