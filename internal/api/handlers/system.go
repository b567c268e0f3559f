package handlers

import (
	"net/http"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Tracker-Backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity
//
// Endpoint: GET /api/v1/system/health
// Response: 200 OK when the database answers, 503 Service Unavailable otherwise
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		response.RespondJSON(w, r, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	response.RespondJSON(w, r, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}

// Version handles GET requests to retrieve the build and schema versions.
//
// Endpoint: GET /api/v1/system/version
// Response: 200 OK with model.VersionInfo
// Error: 500 Internal Server Error if the schema version cannot be read
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	version, err := h.systemService.CheckVersion()
	if err != nil {
		respondServiceError(w, r, err, "failed to get version information")
		return
	}

	response.RespondJSON(w, r, http.StatusOK, version)
}
