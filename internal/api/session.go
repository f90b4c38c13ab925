package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Topsis/internal/events"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
)

const (
	sessionNotFoundMsg = "session not found, upload your dataset again"
	noResultMsg        = "no result for this session, run the computation first"
)

// loadSession resolves the {token} path parameter. Unknown, malformed and
// expired tokens all answer 404.
func loadSession(w http.ResponseWriter, r *http.Request, s store.Store) (*store.Session, bool) {
	token, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, http.StatusNotFound, sessionNotFoundMsg)
		return nil, false
	}
	sess, err := s.GetSession(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if sess == nil {
		writeError(w, http.StatusNotFound, sessionNotFoundMsg)
		return nil, false
	}
	return sess, true
}

func loadRun(w http.ResponseWriter, r *http.Request, s store.Store) (*store.Session, *store.Run, bool) {
	sess, ok := loadSession(w, r, s)
	if !ok {
		return nil, nil, false
	}
	if sess.Run == nil || sess.Run.Result == nil {
		writeError(w, http.StatusNotFound, noResultMsg)
		return nil, nil, false
	}
	return sess, sess.Run, true
}

// publish is best effort; a nil client means events are disabled.
func publish(ev events.Client, logger *slog.Logger, subject string, data interface{}) {
	if ev == nil {
		return
	}
	if err := ev.Publish(subject, data); err != nil {
		logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
