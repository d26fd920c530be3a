package webserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lymstore/storefront/internal/domain"
	"github.com/lymstore/storefront/pkg/common"
)

// AddOprLog records an admin action in sys_opr_log. Failures are logged and
// never fail the request.
func AddOprLog(c echo.Context, action, desc string) {
	entry := domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   common.IfEmptyStr(CurrentOperator(c), "anonymous"),
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}
	if err := GetAppContext(c).DB().Create(&entry).Error; err != nil {
		zap.L().Warn("failed to write operator log", zap.Error(err), zap.String("namespace", "webserver"))
	}
}
