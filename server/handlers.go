package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	contractx "github.com/calendon/schedpilot/agent/contract"
)

const defaultSessionID = "default"

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": s.auth.IsAuthenticated()})
}

func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.auth.AuthURL("schedpilot"), http.StatusFound)
}

func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		writeError(w, http.StatusBadRequest, "authorization denied: "+errParam)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	if err := s.auth.Exchange(r.Context(), code); err != nil {
		s.logger.Error().Err(err).Msg("oauth code exchange failed")
		writeError(w, http.StatusBadGateway, "token exchange failed")
		return
	}

	s.logger.Info().Msg("google account connected")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<html><body><p>Authentication successful. You can close this tab.</p></body></html>"))
}

func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(); err != nil {
		s.logger.Error().Err(err).Msg("logout failed")
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	if s.onLogout != nil {
		s.onLogout()
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		req.SessionID = defaultSessionID
	}

	sess, err := s.store.Get(req.SessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", req.SessionID).Msg("session lookup failed")
		writeError(w, http.StatusInternalServerError, "could not open session")
		return
	}

	reply, err := sess.SendMessage(r.Context(), req.Message)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, chatResponse{SessionID: req.SessionID, Reply: reply})
	case errors.Is(err, contractx.ErrSessionBusy):
		writeError(w, http.StatusConflict, "session is processing another message")
	case errors.Is(err, contractx.ErrValidation):
		writeError(w, http.StatusBadRequest, "message must not be empty")
	default:
		s.logger.Error().Err(err).Str("session_id", req.SessionID).Msg("chat turn failed")
		writeError(w, http.StatusBadGateway, "assistant is unavailable, try again")
	}
}

func (s *Server) handleChatReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		req.SessionID = defaultSessionID
	}

	s.store.Reset(req.SessionID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "session_id": req.SessionID})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sessions": s.store.IDs()})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.models(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("model catalog fetch failed")
		writeError(w, http.StatusBadGateway, "model catalog unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models, "count": len(models)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
