package inventory

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
	"github.com/google/uuid"

	"github.com/appetiteclub/staffops/pkg/auth"
	"github.com/appetiteclub/staffops/pkg/enums/unit"
	"github.com/appetiteclub/staffops/pkg/event"
	"github.com/appetiteclub/staffops/services/backoffice/internal/web"
)

type HandlerDeps struct {
	Repos     Repos
	Policy    ThresholdPolicy
	Publisher events.Publisher
	Guard     *auth.Guard
	Clock     func() time.Time
}

type Handler struct {
	items     ItemRepo
	snapshots SnapshotRepo
	waste     WasteRepo
	policy    ThresholdPolicy
	publisher events.Publisher
	guard     *auth.Guard
	now       func() time.Time
	logger    aqm.Logger
	config    *aqm.Config
	tlm       *telemetry.HTTP
}

func NewHandler(deps HandlerDeps, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	guard := deps.Guard
	if guard == nil {
		guard = auth.NewPermissiveGuard()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	policy := deps.Policy
	if policy.Default == (Thresholds{}) {
		policy = PolicyFromConfig(config)
	}
	return &Handler{
		items:     deps.Repos.ItemRepo,
		snapshots: deps.Repos.SnapshotRepo,
		waste:     deps.Repos.WasteRepo,
		policy:    policy,
		publisher: deps.Publisher,
		guard:     guard,
		now:       now,
		logger:    logger,
		config:    config,
		tlm:       telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := h.guard.Require(auth.RoleOwner, auth.RoleManager)
	owner := h.guard.Require(auth.RoleOwner)

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", h.ListItems)
		r.With(staff).Post("/", h.AddItem)
		r.With(staff).Post("/delete", h.DeleteItems)

		r.With(staff).Post("/submissions", h.SubmitSnapshot)
		r.With(staff).Get("/submissions", h.ListSnapshots)

		r.Post("/waste", h.ReportWaste)
		r.With(staff).Get("/waste", h.ListWaste)

		r.Get("/{id}", h.GetItem)
		r.With(staff).Patch("/{id}/fields", h.UpdateField)
		r.With(staff).Patch("/{id}/adjust", h.AdjustItem)
		r.With(owner).Patch("/{id}/owner-delivery", h.RecordOwnerDelivery)
		r.With(staff).Delete("/{id}", h.DeleteItem)
	})
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddItem")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req ItemCreateRequest
	if !web.DecodeJSON(w, r, log, &req) {
		return
	}

	validationErrors := ValidateItemCreate(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		aqm.RespondError(w, http.StatusBadRequest, validationErrors[0])
		return
	}

	now := h.now()
	item := NewItem()
	item.ProductName = strings.TrimSpace(req.ProductName)
	item.Unit = req.Unit
	if item.Unit == "" {
		item.Unit = unit.Units.Kilogram.Code()
	}
	item.Station = req.Station
	item.Sealed = *req.Sealed
	item.Loose = *req.Loose
	item.Thresholds = req.Thresholds
	item.Derive()
	item.DateDelivered = DateOf(now)
	item.Status = h.policy.Classify(item)
	item.CreatedBy = auth.ActorFrom(ctx, "system")
	item.UpdatedBy = item.CreatedBy
	item.BeforeCreate()

	if err := h.items.Create(ctx, item); err != nil {
		log.Error("cannot create inventory item", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not add product")
		return
	}

	if item.Status != StatusGood {
		h.publishLevelChanged(ctx, item, "")
	}

	links := aqm.RESTfulLinksFor(item)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, item, links...)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetItem")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	item, ok := h.loadItem(w, r, log)
	if !ok {
		return
	}

	links := aqm.RESTfulLinksFor(item)
	aqm.RespondSuccess(w, item, links...)
}

// ListItems returns the items with their status counts.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListItems")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	q := r.URL.Query()
	filter := ItemFilter{
		Station: q.Get("station"),
		Status:  q.Get("status"),
	}
	if errs := ValidateItemFilter(ctx, filter); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	items, err := h.items.List(ctx, filter)
	if err != nil {
		log.Error("error retrieving inventory", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve inventory")
		return
	}

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"counts": CountByStatus(items),
	}, nil)
}

// UpdateField is the form style edit: the value is read with ParseCount.
func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateField")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req FieldUpdateRequest
	if !web.DecodeJSON(w, r, log, &req) {
		return
	}
	if errs := ValidateFieldUpdate(ctx, req); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	item, ok := h.loadItem(w, r, log)
	if !ok {
		return
	}

	updated, err := Recompute(item, req.Field, formValue(req.Value), h.now())
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.save(w, r, log, item, updated)
}

func (h *Handler) AdjustItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdjustItem")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req AdjustRequest
	if !web.DecodeJSON(w, r, log, &req) {
		return
	}
	if errs := ValidateAdjust(ctx, req); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	item, ok := h.loadItem(w, r, log)
	if !ok {
		return
	}

	updated, err := Adjust(item, req.Field, req.Delta, h.now())
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.save(w, r, log, item, updated)
}

func (h *Handler) RecordOwnerDelivery(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RecordOwnerDelivery")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req OwnerDeliveryRequest
	if !web.DecodeJSON(w, r, log, &req) {
		return
	}
	if errs := ValidateOwnerDelivery(ctx, req); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	item, ok := h.loadItem(w, r, log)
	if !ok {
		return
	}

	updated, err := RecordOwnerDelivery(item, *req.Quantity, req.Date, h.now())
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	web.Audit(ctx, log, "inventory.owner_delivery", "id", item.ID.String(), "quantity", *req.Quantity)
	h.save(w, r, log, item, updated)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteItem")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	id, ok := web.ParseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.items.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			aqm.RespondError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Error("cannot delete inventory item", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not remove product")
		return
	}

	web.Audit(ctx, log, "inventory.delete", "id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

// DeleteItems removes every listed item and reports how many existed.
func (h *Handler) DeleteItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteItems")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req BulkDeleteRequest
	if !web.DecodeJSON(w, r, log, &req) {
		return
	}

	ids, err := parseIDs(req.IDs)
	if err != nil {
		if errors.Is(err, ErrNoItemsSelected) {
			aqm.RespondError(w, http.StatusBadRequest, "No items selected")
			return
		}
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.items.DeleteMany(ctx, ids)
	if err != nil {
		log.Error("cannot delete inventory items", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not remove products")
		return
	}

	web.Audit(ctx, log, "inventory.bulk_delete", "requested", len(ids), "deleted", deleted)
	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"deleted": deleted,
	}, nil)
}

// SubmitSnapshot hands the current count of a station, or of every
// station, to the owner.
func (h *Handler) SubmitSnapshot(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SubmitSnapshot")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req SnapshotRequest
	if r.ContentLength != 0 {
		if !web.DecodeJSON(w, r, log, &req) {
			return
		}
	}
	if errs := ValidateSnapshot(ctx, req); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	items, err := h.items.List(ctx, ItemFilter{Station: req.Station})
	if err != nil {
		log.Error("error retrieving inventory", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve inventory")
		return
	}

	snapshot := NewSnapshot(req.Station, strings.TrimSpace(req.Note), auth.ActorFrom(ctx, "anonymous"), items, h.now())
	if err := h.snapshots.Create(ctx, snapshot); err != nil {
		log.Error("cannot save inventory submission", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not submit inventory")
		return
	}

	log.Info("inventory submitted", "id", snapshot.ID.String(), "station", req.Station, "lines", len(snapshot.Lines))

	links := aqm.RESTfulLinksFor(snapshot)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, snapshot, links...)
}

func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListSnapshots")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	stationName := r.URL.Query().Get("station")
	if errs := ValidateItemFilter(ctx, ItemFilter{Station: stationName}); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	snapshots, err := h.snapshots.List(ctx, stationName)
	if err != nil {
		log.Error("error retrieving inventory submissions", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve inventory submissions")
		return
	}

	aqm.RespondCollection(w, snapshots, "inventory-submission")
}

func (h *Handler) ReportWaste(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ReportWaste")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req WasteCreateRequest
	if !web.DecodeJSON(w, r, log, &req) {
		return
	}
	if errs := ValidateWasteCreate(ctx, req); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	report := &WasteReport{
		ID:          aqm.GenerateNewID(),
		ProductName: strings.TrimSpace(req.ProductName),
		Station:     req.Station,
		Quantity:    *req.Quantity,
		Unit:        req.Unit,
		Reason:      strings.TrimSpace(req.Reason),
		PhotoRef:    strings.TrimSpace(req.PhotoRef),
		ReportedBy:  auth.ActorFrom(ctx, "anonymous"),
		ReportedAt:  h.now(),
	}

	if req.ItemID != "" {
		itemID, _ := uuid.Parse(req.ItemID)
		item, err := h.items.Get(ctx, itemID)
		if err != nil {
			log.Error("error loading inventory item", "error", err)
			aqm.RespondError(w, http.StatusInternalServerError, "Could not load product")
			return
		}
		if item == nil {
			aqm.RespondError(w, http.StatusNotFound, "Product not found")
			return
		}
		report.ItemID = &itemID
		if report.Unit == "" {
			report.Unit = item.Unit
		}
	}

	if err := h.waste.Create(ctx, report); err != nil {
		log.Error("cannot save waste report", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not report waste")
		return
	}

	links := aqm.RESTfulLinksFor(report)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, report, links...)
}

func (h *Handler) ListWaste(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListWaste")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	stationName := r.URL.Query().Get("station")
	if errs := ValidateItemFilter(ctx, ItemFilter{Station: stationName}); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	reports, err := h.waste.List(ctx, stationName)
	if err != nil {
		log.Error("error retrieving waste reports", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve waste reports")
		return
	}

	aqm.RespondCollection(w, reports, "inventory-waste")
}

// Helper methods

func (h *Handler) loadItem(w http.ResponseWriter, r *http.Request, log aqm.Logger) (*Item, bool) {
	id, ok := web.ParseIDParam(w, r, log)
	if !ok {
		return nil, false
	}

	item, err := h.items.Get(r.Context(), id)
	if err != nil {
		log.Error("error loading inventory item", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load product")
		return nil, false
	}
	if item == nil {
		aqm.RespondError(w, http.StatusNotFound, "Product not found")
		return nil, false
	}
	return item, true
}

// save reclassifies updated, stores it and announces a status move.
func (h *Handler) save(w http.ResponseWriter, r *http.Request, log aqm.Logger, before, updated *Item) {
	ctx := r.Context()

	updated.Status = h.policy.Classify(updated)
	updated.UpdatedBy = auth.ActorFrom(ctx, "system")

	if err := h.items.Update(ctx, updated); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			aqm.RespondError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Error("cannot update inventory item", "error", err, "id", updated.ID.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not update product")
		return
	}

	if updated.Status != before.Status {
		h.publishLevelChanged(ctx, updated, before.Status)
	}

	links := aqm.RESTfulLinksFor(updated)
	aqm.RespondSuccess(w, updated, links...)
}

func (h *Handler) publishLevelChanged(ctx context.Context, item *Item, previous string) {
	evt := event.InventoryLevelChangedEvent{
		EventType:      event.EventInventoryLevelChanged,
		OccurredAt:     h.now().UTC(),
		ItemID:         item.ID.String(),
		ProductName:    item.ProductName,
		Station:        item.Station,
		Delivered:      item.Delivered,
		Unit:           item.Unit,
		Status:         item.Status,
		PreviousStatus: previous,
	}
	web.Publish(ctx, h.publisher, h.logger, event.StaffInventoryTopic, evt)
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, ErrNoItemsSelected
	}
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, errors.New("invalid id: " + s)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
