package requests

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/staffops/pkg/auth"
	"github.com/appetiteclub/staffops/pkg/enums/reviewstatus"
	"github.com/appetiteclub/staffops/pkg/event"
	"github.com/appetiteclub/staffops/services/backoffice/internal/web"
)

type Handler struct {
	repo      RequestRepo
	publisher events.Publisher
	guard     *auth.Guard
	now       func() time.Time
	logger    aqm.Logger
	config    *aqm.Config
	tlm       *telemetry.HTTP
}

func NewHandler(repo RequestRepo, publisher events.Publisher, guard *auth.Guard, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if guard == nil {
		guard = auth.NewPermissiveGuard()
	}
	return &Handler{
		repo:      repo,
		publisher: publisher,
		guard:     guard,
		now:       time.Now,
		logger:    logger,
		config:    config,
		tlm:       telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := h.guard.Require(auth.RoleOwner, auth.RoleManager)
	owner := h.guard.Require(auth.RoleOwner)

	r.Route("/requests", func(r chi.Router) {
		r.Use(staff)

		r.Post("/", h.CreateRequest)
		r.Get("/", h.ListRequests)
		r.Get("/{id}", h.GetRequest)
		r.With(owner).Post("/{id}/approve", h.ApproveRequest)
		r.With(owner).Post("/{id}/reject", h.RejectRequest)
	})
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateRequest")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req CreateRequest
	if !web.DecodeJSON(w, r, log, &req) {
		return
	}

	validationErrors := ValidateCreate(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		aqm.RespondError(w, http.StatusBadRequest, validationErrors[0])
		return
	}

	item := NewItemRequest(strings.TrimSpace(req.ItemName), *req.Quantity, h.now())
	item.Unit = strings.TrimSpace(req.Unit)
	item.Remarks = strings.TrimSpace(req.Remarks)
	if req.Priority != "" {
		item.Priority = req.Priority
	}
	item.ManagerName = auth.ActorFrom(ctx, strings.TrimSpace(req.ManagerName))
	if claims, ok := auth.ClaimsFrom(ctx); ok {
		item.ManagerID = claims.Subject
	}

	if err := h.repo.Create(ctx, item); err != nil {
		log.Error("cannot save item request", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not submit request")
		return
	}

	h.publish(ctx, event.EventRequestCreated, item)

	links := aqm.RESTfulLinksFor(item)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, item, links...)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetRequest")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	item, ok := h.load(w, r, log)
	if !ok {
		return
	}

	links := aqm.RESTfulLinksFor(item)
	aqm.RespondSuccess(w, item, links...)
}

// ListRequests returns the newest requests first with pending and
// high priority counts for the owner's summary cards.
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListRequests")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	q := r.URL.Query()
	filter := Filter{Status: q.Get("status"), Priority: q.Get("priority")}
	if errs := ValidateFilter(ctx, filter); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	items, err := h.repo.List(ctx, filter)
	if err != nil {
		log.Error("error retrieving item requests", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve requests")
		return
	}

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"requests": items,
		"counts":   Count(items),
	}, nil)
}

func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, true)
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, false)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, approve bool) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ReviewRequest")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req ReviewRequest
	if r.ContentLength != 0 {
		if !web.DecodeJSON(w, r, log, &req) {
			return
		}
	}
	if errs := ValidateReview(ctx, req); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	item, ok := h.load(w, r, log)
	if !ok {
		return
	}

	if err := item.Review(approve, auth.ActorFrom(ctx, "anonymous"), strings.TrimSpace(req.Note), h.now()); err != nil {
		aqm.RespondError(w, http.StatusConflict, "Request has already been reviewed")
		return
	}

	if err := h.repo.SaveReview(ctx, item); err != nil {
		switch {
		case errors.Is(err, reviewstatus.ErrNotPending):
			aqm.RespondError(w, http.StatusConflict, "Request has already been reviewed")
		case errors.Is(err, ErrRequestNotFound):
			aqm.RespondError(w, http.StatusNotFound, "Request not found")
		default:
			log.Error("cannot save request review", "error", err, "id", item.ID.String())
			aqm.RespondError(w, http.StatusInternalServerError, "Could not review request")
		}
		return
	}

	web.Audit(ctx, log, "request."+item.Status, "id", item.ID.String(), "item", item.ItemName, "quantity", item.Quantity)
	h.publish(ctx, event.EventRequestReview, item)

	links := aqm.RESTfulLinksFor(item)
	aqm.RespondSuccess(w, item, links...)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request, log aqm.Logger) (*ItemRequest, bool) {
	id, ok := web.ParseIDParam(w, r, log)
	if !ok {
		return nil, false
	}

	item, err := h.repo.Get(r.Context(), id)
	if err != nil {
		log.Error("error loading item request", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load request")
		return nil, false
	}
	if item == nil {
		aqm.RespondError(w, http.StatusNotFound, "Request not found")
		return nil, false
	}
	return item, true
}

func (h *Handler) publish(ctx context.Context, eventType string, item *ItemRequest) {
	evt := event.RequestEvent{
		EventType:   eventType,
		OccurredAt:  h.now().UTC(),
		RequestID:   item.ID.String(),
		ItemName:    item.ItemName,
		Quantity:    item.Quantity,
		Priority:    item.Priority,
		Status:      item.Status,
		ManagerName: item.ManagerName,
		ReviewedBy:  item.ReviewedBy,
	}
	web.Publish(ctx, h.publisher, h.logger, event.StaffRequestsTopic, evt)
}
