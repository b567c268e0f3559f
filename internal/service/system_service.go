package service

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/database"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/model"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the build version and the applied schema migration.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	dbVersion, err := database.SchemaVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to read schema version: %w", err)
	}
	return model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  strconv.FormatInt(dbVersion, 10),
	}, nil
}
