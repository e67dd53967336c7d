package api

import (
	"crypto/subtle"
	"encoding/xml"
	"net/http"

	"callminder/internal/model"
	"callminder/internal/notify"
)

// handleVoice serves TwiML instructions when Twilio fetches the callback
// URL for an answered call. Accepts parameters from the query string or a
// POST form. Marking the task completed is best effort: the spoken response
// is returned even when the status update fails.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request")
		return
	}

	secret := r.FormValue("secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.cfg.VoiceWebhookSecret)) != 1 {
		s.writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	title := r.FormValue("title")
	name := r.FormValue("name")
	taskID := r.FormValue("task_id")

	if taskID != "" {
		if err := s.store.UpdateStatus(r.Context(), taskID, model.StatusCompleted, nil); err != nil {
			s.log.WithError(err).WithField("task_id", taskID).Warn("mark task completed")
		}
	}

	w.Header().Set("Content-Type", "text/xml")
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		s.log.WithError(err).Error("write voice response")
		return
	}
	if err := xml.NewEncoder(w).Encode(notify.NewVoiceResponse(title, name)); err != nil {
		s.log.WithError(err).Error("encode voice response")
	}
}
