package payroll

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/staffops/pkg/auth"
	"github.com/appetiteclub/staffops/services/backoffice/internal/web"
)

const defaultCurrency = "PHP"

type Handler struct {
	repo     EntryRepo
	guard    *auth.Guard
	currency string
	now      func() time.Time
	logger   aqm.Logger
	config   *aqm.Config
	tlm      *telemetry.HTTP
}

func NewHandler(repo EntryRepo, guard *auth.Guard, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if guard == nil {
		guard = auth.NewPermissiveGuard()
	}
	currency := defaultCurrency
	if config != nil {
		currency = config.GetStringOrDef("payroll.currency", defaultCurrency)
	}
	return &Handler{
		repo:     repo,
		guard:    guard,
		currency: currency,
		now:      time.Now,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := h.guard.Require(auth.RoleOwner, auth.RoleManager)

	r.Route("/payroll", func(r chi.Router) {
		r.Use(staff)

		r.Post("/", h.CreateEntry)
		r.Get("/", h.ListEntries)
		r.Get("/summary", h.GetSummary)
		r.Get("/export", h.ExportEntries)
		r.Get("/{id}", h.GetEntry)
	})
}

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateEntry")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req EntryCreateRequest
	if !web.DecodeJSON(w, r, log, &req) {
		return
	}

	validationErrors := ValidateEntryCreate(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		aqm.RespondError(w, http.StatusBadRequest, validationErrors[0])
		return
	}

	entry, err := NewEntry(strings.TrimSpace(req.EmployeeName), *req.DaysWorked, *req.PayRate,
		strings.TrimSpace(req.Period), h.currency, auth.ActorFrom(ctx, "anonymous"), h.now())
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry.EmployeeID = req.EmployeeID

	if err := h.repo.Create(ctx, entry); err != nil {
		log.Error("cannot save payroll entry", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not submit payroll")
		return
	}

	web.Audit(ctx, log, "payroll.entry.created",
		"id", entry.ID.String(),
		"employee", entry.EmployeeName,
		"period", entry.Period,
		"total_pay", entry.TotalPay.String())

	links := aqm.RESTfulLinksFor(entry)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, entry, links...)
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetEntry")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	id, ok := web.ParseIDParam(w, r, log)
	if !ok {
		return
	}

	entry, err := h.repo.Get(r.Context(), id)
	if err != nil {
		log.Error("error loading payroll entry", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load payroll entry")
		return
	}
	if entry == nil {
		aqm.RespondError(w, http.StatusNotFound, "Payroll entry not found")
		return
	}

	links := aqm.RESTfulLinksFor(entry)
	aqm.RespondSuccess(w, entry, links...)
}

// ListEntries answers the entries of one period, or all of them, with the
// period total alongside.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListEntries")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	period := strings.TrimSpace(r.URL.Query().Get("period"))

	entries, err := h.repo.List(r.Context(), period)
	if err != nil {
		log.Error("error retrieving payroll entries", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve payroll")
		return
	}

	summary := Summarize(entries, h.currency)
	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"period":   period,
		"entries":  entries,
		"count":    summary.Entries,
		"total":    summary.TotalPayroll,
		"currency": h.currency,
	}, nil)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSummary")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	entries, err := h.repo.List(r.Context(), "")
	if err != nil {
		log.Error("error retrieving payroll entries", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve payroll summary")
		return
	}

	aqm.Respond(w, http.StatusOK, Summarize(entries, h.currency), nil)
}

func (h *Handler) ExportEntries(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ExportEntries")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	period := strings.TrimSpace(r.URL.Query().Get("period"))

	entries, err := h.repo.List(r.Context(), period)
	if err != nil {
		log.Error("error retrieving payroll entries", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not export payroll")
		return
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, entries, h.currency); err != nil {
		log.Error("cannot render payroll workbook", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not export payroll")
		return
	}

	log.Info("payroll exported", "period", period, "entries", len(entries))

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename(period)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
