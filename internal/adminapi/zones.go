package adminapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/lymstore/storefront/internal/domain"
	"github.com/lymstore/storefront/internal/shipping"
	"github.com/lymstore/storefront/internal/webserver"
)

type zonePayload struct {
	ZoneName        string          `json:"zone_name" validate:"required,max=128"`
	PostalCodeStart int             `json:"postal_code_start" validate:"gte=0"`
	PostalCodeEnd   int             `json:"postal_code_end" validate:"gtefield=PostalCodeStart"`
	Province        string          `json:"province" validate:"omitempty,max=128"`
	BaseCost        decimal.Decimal `json:"base_cost"`
	CostPerKg       decimal.Decimal `json:"cost_per_kg"`
	EstimatedDays   int             `json:"estimated_days" validate:"gte=0"`
	Carrier         string          `json:"carrier" validate:"omitempty,max=128"`
	Active          *bool           `json:"active"`
}

func (p zonePayload) toZone() domain.ShippingZone {
	active := true
	if p.Active != nil {
		active = *p.Active
	}
	return domain.ShippingZone{
		ZoneName:        strings.TrimSpace(p.ZoneName),
		PostalCodeStart: p.PostalCodeStart,
		PostalCodeEnd:   p.PostalCodeEnd,
		Province:        strings.TrimSpace(p.Province),
		BaseCost:        p.BaseCost,
		CostPerKg:       p.CostPerKg,
		EstimatedDays:   p.EstimatedDays,
		Carrier:         strings.TrimSpace(p.Carrier),
		Active:          active,
	}
}

func registerZoneRoutes() {
	webserver.ApiGET("/shipping", listZones)
	webserver.ApiGET("/shipping/:id", getZone)
	webserver.ApiPOST("/shipping", createZone)
	webserver.ApiPUT("/shipping/:id", updateZone)
	webserver.ApiDELETE("/shipping/:id", deleteZone)
}

func zoneRepo(c echo.Context) *shipping.GormZoneRepository {
	return shipping.NewGormZoneRepository(GetDB(c))
}

func listZones(c echo.Context) error {
	zones, err := zoneRepo(c).List(c.Request().Context())
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, zones)
}

func getZone(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid zone ID", nil)
	}
	zone, err := zoneRepo(c).GetByID(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, zone)
}

func bindZone(c echo.Context) (*domain.ShippingZone, error) {
	var payload zonePayload
	if err := c.Bind(&payload); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse zone", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return nil, handleValidationError(c, err)
	}
	zone := payload.toZone()
	return &zone, nil
}

func createZone(c echo.Context) error {
	zone, err := bindZone(c)
	if zone == nil {
		return err
	}
	if err := zoneRepo(c).Create(c.Request().Context(), zone); err != nil {
		return failErr(c, err)
	}
	webserver.AddOprLog(c, "zone_create", fmt.Sprintf("zone %d %s", zone.ID, zone.ZoneName))
	return c.JSON(http.StatusCreated, zone)
}

func updateZone(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid zone ID", nil)
	}
	zone, err := bindZone(c)
	if zone == nil {
		return err
	}
	zone.ID = id
	repo := zoneRepo(c)
	if err := repo.Update(c.Request().Context(), zone); err != nil {
		return failErr(c, err)
	}
	updated, err := repo.GetByID(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}
	webserver.AddOprLog(c, "zone_update", fmt.Sprintf("zone %d %s", id, updated.ZoneName))
	return ok(c, updated)
}

func deleteZone(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid zone ID", nil)
	}
	if err := zoneRepo(c).Delete(c.Request().Context(), id); err != nil {
		return failErr(c, err)
	}
	webserver.AddOprLog(c, "zone_delete", fmt.Sprintf("zone %d", id))
	return webserver.Message(c, http.StatusOK, "Zone deleted")
}
