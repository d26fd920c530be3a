package app

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lymstore/storefront/internal/domain"
	"github.com/lymstore/storefront/pkg/common"
)

const superLevel = "super"

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (a *Application) checkSuper() {
	username := common.IfEmptyStr(a.appConfig.Auth.AdminUser, "admin")

	var operator domain.SysOpr
	err := a.gormDB.Where("username = ?", username).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashedPassword, err := HashPassword(a.appConfig.Auth.AdminPassword)
		if err != nil {
			zap.L().Error("failed to hash admin password", zap.Error(err))
			return
		}
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Email:     "N/A",
			Username:  username,
			Password:  hashedPassword,
			Level:     superLevel,
			Status:    domain.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", username))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetLevel := !strings.EqualFold(operator.Level, superLevel)
	resetStatus := !strings.EqualFold(operator.Status, domain.ENABLED)
	if !resetLevel && !resetStatus && strings.TrimSpace(operator.Password) != "" {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
		"level":      superLevel,
		"status":     domain.ENABLED,
	}
	if strings.TrimSpace(operator.Password) == "" {
		hashedPassword, err := HashPassword(a.appConfig.Auth.AdminPassword)
		if err != nil {
			zap.L().Error("failed to hash admin password", zap.Error(err))
			return
		}
		updates["password"] = hashedPassword
	}
	if err := a.gormDB.Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}
	zap.L().Warn("repaired default super admin account",
		zap.String("username", username),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

var defaultZones = []map[string]interface{}{
	{"zone_name": "CABA", "postal_code_start": 1000, "postal_code_end": 1499, "province": "Ciudad de Buenos Aires",
		"base_cost": "1500", "cost_per_kg": "0", "estimated_days": 2, "carrier": "Moto"},
	{"zone_name": "GBA", "postal_code_start": 1600, "postal_code_end": 1999, "province": "Buenos Aires",
		"base_cost": "2500", "cost_per_kg": "0", "estimated_days": 3, "carrier": "Correo"},
	{"zone_name": "Interior", "postal_code_start": 2000, "postal_code_end": 9499, "province": "Interior",
		"base_cost": "4500", "cost_per_kg": "0", "estimated_days": 6, "carrier": "Correo"},
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func decimalHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != decimalType {
		return data, nil
	}
	return decimal.NewFromString(cast.ToString(data))
}

// DecodeZone builds a zone from a loosely typed config map with snake_case keys.
func DecodeZone(raw map[string]interface{}) (*domain.ShippingZone, error) {
	zone := &domain.ShippingZone{Active: true}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decimalHook,
		WeaklyTypedInput: true,
		Result:           zone,
		MatchName: func(mapKey, fieldName string) bool {
			return strings.EqualFold(strings.ReplaceAll(mapKey, "_", ""), fieldName)
		},
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}
	return zone, nil
}

func (a *Application) checkZones() {
	var count int64
	a.gormDB.Model(&domain.ShippingZone{}).Count(&count)
	if count > 0 {
		return
	}
	zones := a.appConfig.Shop.DefaultZones
	if len(zones) == 0 {
		zones = defaultZones
	}
	for _, raw := range zones {
		zone, err := DecodeZone(raw)
		if err != nil {
			zap.L().Error("invalid default zone", zap.Any("zone", raw), zap.Error(err))
			continue
		}
		zone.CreatedAt = time.Now()
		zone.UpdatedAt = time.Now()
		if err := a.gormDB.Create(zone).Error; err != nil {
			zap.L().Error("failed to create default zone", zap.String("name", zone.ZoneName), zap.Error(err))
		} else {
			zap.L().Info("initialized default zone", zap.String("name", zone.ZoneName))
		}
	}
}

func (a *Application) checkDemoProducts() {
	var count int64
	a.gormDB.Model(&domain.Product{}).Count(&count)
	if count > 0 {
		return
	}
	demo := []domain.Product{
		{
			Name:             "Taza personalizada",
			ShortDescription: "Taza de cerámica con tu diseño",
			Images:           datatypes.JSONSlice[string]{"/img/taza.jpg"},
			Category:         datatypes.JSONSlice[string]{"Tazas", "Personalizados"},
			Status:           domain.ProductActive,
			Enabled:          true,
			Stock:            20,
			BasePrice:        decimal.NewFromInt(4500),
			SalePrice:        decimal.NewNullDecimal(decimal.NewFromInt(3990)),
			Taxes:            decimal.NewFromInt(domain.DefaultTaxRate),
			Customizable:     true,
			Featured:         true,
		},
		{
			Name:                "Vela aromática",
			ShortDescription:    "Vela de soja hecha a mano",
			Images:              datatypes.JSONSlice[string]{"/img/vela.jpg"},
			Category:            datatypes.JSONSlice[string]{"Velas"},
			Status:              domain.ProductActive,
			Enabled:             true,
			Stock:               5,
			BasePrice:           decimal.NewFromInt(2800),
			Taxes:               decimal.NewFromInt(domain.DefaultTaxRate),
			HasProductionTime:   true,
			ProductionTimeHours: 48,
		},
	}
	for _, p := range demo {
		p.ApplyDefaults()
		p.CreatedAt = time.Now()
		p.UpdatedAt = time.Now()
		if err := a.gormDB.Create(&p).Error; err != nil {
			zap.L().Error("failed to create demo product", zap.String("name", p.Name), zap.Error(err))
		} else {
			zap.L().Info("initialized demo product", zap.String("name", p.Name))
		}
	}
}
