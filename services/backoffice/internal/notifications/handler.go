package notifications

import (
	"errors"
	"net/http"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/staffops/pkg/auth"
	"github.com/appetiteclub/staffops/services/backoffice/internal/web"
)

type Handler struct {
	repo   NotificationRepo
	guard  *auth.Guard
	logger aqm.Logger
	config *aqm.Config
	tlm    *telemetry.HTTP
}

func NewHandler(repo NotificationRepo, guard *auth.Guard, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if guard == nil {
		guard = auth.NewPermissiveGuard()
	}
	return &Handler{
		repo:   repo,
		guard:  guard,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := h.guard.Require(auth.RoleOwner, auth.RoleManager)

	r.Route("/notifications", func(r chi.Router) {
		r.Use(staff)

		r.Get("/", h.ListNotifications)
		r.Post("/read-all", h.MarkAllRead)
		r.Patch("/{id}/read", h.MarkRead)
		r.Delete("/{id}", h.DeleteNotification)
	})
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListNotifications")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	q := r.URL.Query()
	filter := Filter{UnreadOnly: q.Get("unread") == "true", Type: q.Get("type")}

	list, err := h.repo.List(ctx, filter)
	if err != nil {
		log.Error("error retrieving notifications", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve notifications")
		return
	}

	unread, err := h.repo.CountUnread(ctx)
	if err != nil {
		log.Error("error counting unread notifications", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve notifications")
		return
	}

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"notifications": list,
		"unread":        unread,
	}, nil)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MarkRead")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	id, ok := web.ParseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.repo.MarkRead(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			aqm.RespondError(w, http.StatusNotFound, "Notification not found")
			return
		}
		log.Error("cannot mark notification read", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not update notification")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MarkAllRead")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	updated, err := h.repo.MarkAllRead(r.Context())
	if err != nil {
		log.Error("cannot mark notifications read", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not update notifications")
		return
	}

	aqm.Respond(w, http.StatusOK, map[string]int{"updated": updated}, nil)
}

func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteNotification")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	id, ok := web.ParseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			aqm.RespondError(w, http.StatusNotFound, "Notification not found")
			return
		}
		log.Error("cannot delete notification", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not delete notification")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
