package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lymstore/storefront/internal/domain"
	"github.com/lymstore/storefront/internal/webserver"
)

type loginPayload struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func registerAuthRoutes() {
	webserver.PubPOST("/auth/login", login)
}

// login godoc
// @Summary  Operator login
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body loginPayload true "credentials"
// @Success  200 {object} loginResponse
// @Failure  401 {object} webserver.ErrorResponse
// @Router   /auth/login [post]
func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var opr domain.SysOpr
	err := GetDB(c).Where("username = ?", strings.TrimSpace(payload.Username)).First(&opr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator", err.Error())
	}
	if bcrypt.CompareHashAndPassword([]byte(opr.Password), []byte(payload.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password", nil)
	}
	if opr.Status != domain.ENABLED {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Operator is disabled", nil)
	}

	cfg := GetAppContext(c).Config()
	hours := cfg.Auth.TokenHours
	if hours <= 0 {
		hours = 8
	}
	token, err := webserver.IssueToken(cfg.Web.Secret, &opr, time.Duration(hours)*time.Hour)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", nil)
	}

	GetDB(c).Model(&domain.SysOpr{}).Where("id = ?", opr.ID).Update("last_login", time.Now())
	zap.L().Info("operator login", zap.String("username", opr.Username), zap.String("namespace", "auth"))
	return ok(c, loginResponse{Message: "Login successful", Token: token})
}
