package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/machinech97-sudo/fleetrms/internal/device"
)

// handleDeviceRegister processes a device check-in. The upsert is
// idempotent, so the response is success whether the device is new or
// already known.
func (s *Server) handleDeviceRegister(w http.ResponseWriter, r *http.Request) {
	var c device.CheckIn
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if c.DeviceID == "" {
		writeBadRequest(w, "device_id is required")
		return
	}

	d, err := s.registry.CheckIn(r.Context(), c)
	if err != nil {
		s.logger.Error("check-in failed", "device_id", c.DeviceID, "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{
		"message":   "device registered",
		"last_seen": d.LastSeen,
	})
}

// handleListDevices returns every device with its presence, oldest
// registration first.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.registry.ListStatuses(r.Context())
	if err != nil {
		s.logger.Error("listing devices failed", "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{"devices": statuses})
}

// handleDeleteDevice removes a device and all data recorded for it.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	err := s.registry.Delete(r.Context(), deviceID)
	if errors.Is(err, device.ErrNotFound) {
		writeNotFound(w, "device not found")
		return
	}
	if err != nil {
		s.logger.Error("deleting device failed", "device_id", deviceID, "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{"message": "device deleted"})
}
