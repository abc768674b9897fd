package api

import (
	"encoding/json"
	"net/http"

	"github.com/machinech97-sudo/fleetrms/internal/settings"
)

// handleGetForwarding returns the configured forwarding number, or an
// empty string if none is set.
func (s *Server) handleGetForwarding(w http.ResponseWriter, r *http.Request) {
	number, err := s.settings.Get(r.Context(), settings.KeyForwardingNumber)
	if err != nil {
		s.logger.Error("reading forwarding setting failed", "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{"forward_number": number})
}

// handleSetForwarding stores the forwarding number. An empty value
// clears it.
func (s *Server) handleSetForwarding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ForwardNumber string `json:"forward_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.settings.Set(r.Context(), settings.KeyForwardingNumber, req.ForwardNumber); err != nil {
		s.logger.Error("saving forwarding setting failed", "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{"message": "forwarding updated"})
}

// handleGetTelegram returns the Telegram notification settings. Unset
// keys come back as empty strings.
func (s *Server) handleGetTelegram(w http.ResponseWriter, r *http.Request) {
	token, err := s.settings.Get(r.Context(), settings.KeyTelegramBotToken)
	if err != nil {
		s.logger.Error("reading telegram settings failed", "error", err)
		writeInternalError(w)
		return
	}
	chatID, err := s.settings.Get(r.Context(), settings.KeyTelegramChatID)
	if err != nil {
		s.logger.Error("reading telegram settings failed", "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{
		"telegram_bot_token": token,
		"telegram_chat_id":   chatID,
	})
}

// handleSetTelegram stores the Telegram notification settings.
func (s *Server) handleSetTelegram(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TelegramBotToken string `json:"telegram_bot_token"`
		TelegramChatID   string `json:"telegram_chat_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.settings.Set(r.Context(), settings.KeyTelegramBotToken, req.TelegramBotToken); err != nil {
		s.logger.Error("saving telegram settings failed", "error", err)
		writeInternalError(w)
		return
	}
	if err := s.settings.Set(r.Context(), settings.KeyTelegramChatID, req.TelegramChatID); err != nil {
		s.logger.Error("saving telegram settings failed", "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, map[string]any{"message": "telegram settings updated"})
}
