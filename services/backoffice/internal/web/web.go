// Package web holds the request helpers every backoffice handler shares.
package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/appetiteclub/staffops/pkg/auth"
)

const MaxBodyBytes = 1 << 20

func RequestLogger(logger aqm.Logger, r *http.Request) aqm.Logger {
	return logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

func ParseIDParam(w http.ResponseWriter, r *http.Request, log aqm.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		log.Debug("missing id parameter")
		aqm.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr, "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}

	return id, true
}

// DecodeJSON reads a bounded, non-empty JSON body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, log aqm.Logger, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		aqm.RespondError(w, http.StatusBadRequest, "Request body is empty")
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		log.Debug("error decoding JSON", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}

	return true
}

// Audit records an owner relevant mutation together with who made it.
func Audit(ctx context.Context, log aqm.Logger, action string, keyvals ...interface{}) {
	args := append([]interface{}{"action", action, "actor", auth.ActorFrom(ctx, "anonymous")}, keyvals...)
	log.Info("audit", args...)
}

// Publish marshals evt onto topic. Failures are logged, never returned;
// the mutation that produced the event has already been stored.
func Publish(ctx context.Context, publisher events.Publisher, log aqm.Logger, topic string, evt interface{}) {
	if publisher == nil {
		return
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		log.Error("cannot marshal event", "error", err, "topic", topic)
		return
	}

	if err := publisher.Publish(ctx, topic, payload); err != nil {
		log.Error("cannot publish event", "error", err, "topic", topic)
	}
}
