// internal/handlers/sync.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
	"github.com/mkarlin/stocksync-be/internal/handlers/middleware"
)

// SyncHandler handles the sync API surface
type SyncHandler struct {
	upload   ports.UploadService
	download ports.DownloadService
	devices  ports.DeviceService
	logger   *slog.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(
	upload ports.UploadService,
	download ports.DownloadService,
	devices ports.DeviceService,
	logger *slog.Logger,
) *SyncHandler {
	return &SyncHandler{
		upload:   upload,
		download: download,
		devices:  devices,
		logger:   logger.With(slog.String("handler", "sync")),
	}
}

// Upload handles POST /api/v1/sync/upload
func (h *SyncHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Identity not resolved")
		return
	}

	var req ports.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.upload.Upload(ctx, identity.TenantID, identity.UserID, req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusAccepted, result)
}

// jobResponse is the job status DTO
type jobResponse struct {
	ID          string             `json:"id"`
	Status      domain.JobStatus   `json:"status"`
	Error       string             `json:"error,omitempty"`
	CreatedAt   string             `json:"created_at"`
	StartedAt   *string            `json:"started_at,omitempty"`
	CompletedAt *string            `json:"completed_at,omitempty"`
	Result      *domain.JobSummary `json:"result,omitempty"`
}

// JobStatus handles GET /api/v1/sync/jobs/{id}
func (h *SyncHandler) JobStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Identity not resolved")
		return
	}

	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	job, err := h.upload.Job(ctx, identity.TenantID, jobID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	resp := jobResponse{
		ID:        job.ID.String(),
		Status:    job.Status,
		Error:     job.Error,
		CreatedAt: job.CreatedAt.Format(timeFormat),
		Result:    job.Result,
	}
	if job.StartedAt != nil {
		s := job.StartedAt.Format(timeFormat)
		resp.StartedAt = &s
	}
	if job.CompletedAt != nil {
		s := job.CompletedAt.Format(timeFormat)
		resp.CompletedAt = &s
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// Download handles GET /api/v1/sync/download
func (h *SyncHandler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Identity not resolved")
		return
	}

	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" {
		h.respondError(w, http.StatusBadRequest, "device_id is required")
		return
	}

	var since int64
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			h.respondError(w, http.StatusBadRequest, "since must be a non-negative integer")
			return
		}
		since = parsed
	}

	result, err := h.download.Download(ctx, identity.TenantID, deviceID, since)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// registerDeviceRequest is the device registration DTO
type registerDeviceRequest struct {
	DeviceID string                 `json:"device_id"`
	Name     string                 `json:"name,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// RegisterDevice handles POST /api/v1/sync/devices
func (h *SyncHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Identity not resolved")
		return
	}

	var req registerDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	device, err := h.devices.Register(ctx, identity.TenantID, identity.UserID, req.DeviceID, req.Name, req.Metadata)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, device)
}

// ListDevices handles GET /api/v1/sync/devices
func (h *SyncHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Identity not resolved")
		return
	}

	devices, err := h.devices.List(ctx, identity.TenantID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if devices == nil {
		devices = []domain.Device{}
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"devices": devices,
		"count":   len(devices),
	})
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

// respondServiceError maps service errors onto HTTP statuses
func (h *SyncHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var validation *domain.ValidationError
	var unknownType *domain.UnknownEntityTypeError
	var pending *domain.PendingDependencyError

	switch {
	case errors.As(err, &validation), errors.As(err, &unknownType), errors.As(err, &pending):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrJobNotFound):
		h.respondError(w, http.StatusNotFound, "Sync job not found")
	case errors.Is(err, domain.ErrDeviceNotFound):
		h.respondError(w, http.StatusNotFound, "Device not found")
	case domain.IsInfrastructure(err):
		h.logger.ErrorContext(ctx, "sync request failed on infrastructure",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		h.logger.ErrorContext(ctx, "sync request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *SyncHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *SyncHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
