package adminapi

import (
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/lymstore/storefront/internal/domain"
	"github.com/lymstore/storefront/internal/webserver"
)

// DBMSTableInfo represents table metadata
type DBMSTableInfo struct {
	Name     string `json:"name"`
	RowCount int64  `json:"row_count"`
	Managed  bool   `json:"managed"`
}

// DBMSServerInfo database server overview
type DBMSServerInfo struct {
	DatabaseType    string `json:"database_type"`
	DatabaseVersion string `json:"database_version"`
	TableCount      int    `json:"table_count"`
	ServerTime      string `json:"server_time"`
}

func registerDbmsRoutes() {
	webserver.ApiGET("/admin/dbms/tables", dbmsListTables)
	webserver.ApiGET("/admin/dbms/serverinfo", dbmsGetServerInfo)
}

// managedTables returns the table names owned by the application models.
func managedTables(db *gorm.DB) map[string]bool {
	names := make(map[string]bool, len(domain.Tables))
	for _, model := range domain.Tables {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err == nil {
			names[stmt.Schema.Table] = true
		}
	}
	return names
}

// dbmsListTables lists every table with its row count. Rows are only
// counted for tables that belong to the application.
func dbmsListTables(c echo.Context) error {
	db := GetDB(c).WithContext(c.Request().Context())
	names, err := db.Migrator().GetTables()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list tables", err.Error())
	}
	sort.Strings(names)

	managed := managedTables(db)
	tables := make([]DBMSTableInfo, 0, len(names))
	for _, name := range names {
		info := DBMSTableInfo{Name: name, Managed: managed[name]}
		if info.Managed {
			if err := db.Table(name).Count(&info.RowCount).Error; err != nil {
				return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count rows", err.Error())
			}
		}
		tables = append(tables, info)
	}
	return ok(c, tables)
}

func dbmsGetServerInfo(c echo.Context) error {
	db := GetDB(c).WithContext(c.Request().Context())
	dbType := db.Dialector.Name()
	info := DBMSServerInfo{
		DatabaseType: dbType,
		ServerTime:   time.Now().Format("2006-01-02 15:04:05"),
	}

	if names, err := db.Migrator().GetTables(); err == nil {
		info.TableCount = len(names)
	}

	switch dbType {
	case "postgres":
		db.Raw("SELECT version()").Scan(&info.DatabaseVersion)
	case "sqlite":
		var version string
		db.Raw("SELECT sqlite_version()").Scan(&version)
		info.DatabaseVersion = "SQLite " + version
	}
	return ok(c, info)
}
