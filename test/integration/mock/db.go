package mock

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/authsecure/backend/config"
	"github.com/authsecure/backend/internal/infra/db"
)

var once sync.Once
var database *Db

// Db is an in-memory SQLite database shared by all scenarios.
type Db struct {
	Database *db.Database
	DbConn   *gorm.DB
	models   []any
}

// NewDb opens the shared database and migrates models on first use.
func NewDb(models ...any) *Db {
	once.Do(func() {
		database = open(models)
	})
	return database
}

func open(models []any) *Db {
	conn, err := db.Open(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		URL:    "file::memory:?cache=shared",
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	if err := conn.AutoMigrate(models...); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	return &Db{
		Database: conn,
		DbConn:   conn.DB(),
		models:   models,
	}
}

// ClearDB deletes every row of every migrated table.
func (d *Db) ClearDB() error {
	for _, model := range d.models {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
		if err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}

// Count returns the number of rows in table.
func (d *Db) Count(table string) (int64, error) {
	var count int64
	err := d.DbConn.Table(table).Count(&count).Error
	return count, err
}

// Rows returns the rows of table matching the given column values.
func (d *Db) Rows(table string, where map[string]any) ([]map[string]any, error) {
	var rows []map[string]any
	err := d.DbConn.Table(table).Where(where).Find(&rows).Error
	return rows, err
}
