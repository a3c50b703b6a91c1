package finance

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

type HandlerDeps struct {
	Repos     Repos
	Publisher events.Publisher
	Guard     *auth.Guard
	Clock     func() time.Time
}

type Handler struct {
	reports   ReportRepo
	funds     FundRepo
	expenses  ExpenseRepo
	apepo     ApepoRepo
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
	return &Handler{
		reports:   deps.Repos.ReportRepo,
		funds:     deps.Repos.FundRepo,
		expenses:  deps.Repos.ExpenseRepo,
		apepo:     deps.Repos.ApepoRepo,
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

	r.Route("/finance", func(r chi.Router) {
		r.Use(staff)

		r.Get("/daily", h.GetDaily)

		r.Post("/reports", h.SubmitReport)
		r.Get("/reports", h.ListReports)
		r.Get("/reports/{id}", h.GetReport)
		r.With(owner).Post("/reports/{id}/approve", h.ApproveReport)
		r.With(owner).Post("/reports/{id}/reject", h.RejectReport)

		r.Post("/funds", h.SubmitFund)
		r.Get("/funds", h.ListFunds)

		r.Post("/expenses", h.SubmitExpense)
		r.Get("/expenses", h.ListExpenses)

		r.Post("/apepo", h.SubmitApepo)
		r.Get("/apepo", h.ListApepo)
		r.Get("/apepo/{id}", h.GetApepo)
	})
}

func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SubmitReport")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req ReportSubmitRequest
	if !web.DecodeJSON(w, r, log, &req) {
		return
	}

	validationErrors := ValidateReportSubmit(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		aqm.RespondError(w, http.StatusBadRequest, validationErrors[0])
		return
	}

	now := h.now()
	report := NewReport(dateOr(req.ShiftDate, now), req.Opening.triad(), req.Closing.triad(), auth.ActorFrom(ctx, "anonymous"), now)
	if req.OpeningTurnover != nil {
		t := req.OpeningTurnover.triad()
		report.OpeningTurnover = &t
	}
	if req.ClosingTurnover != nil {
		t := req.ClosingTurnover.triad()
		report.ClosingTurnover = &t
	}
	report.OpeningPhotoRef = strings.TrimSpace(req.OpeningPhotoRef)
	report.ClosingPhotoRef = strings.TrimSpace(req.ClosingPhotoRef)

	if err := h.reports.Create(ctx, report); err != nil {
		log.Error("cannot save financial report", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not submit financial report")
		return
	}

	h.publishReport(ctx, event.EventFinanceReportSubmitted, report)

	links := aqm.RESTfulLinksFor(report)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, report, links...)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetReport")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	report, ok := h.loadReport(w, r, log)
	if !ok {
		return
	}

	links := aqm.RESTfulLinksFor(report)
	aqm.RespondSuccess(w, report, links...)
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListReports")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	q := r.URL.Query()
	filter := ReportFilter{Date: q.Get("date"), Status: q.Get("status")}
	if errs := ValidateReportFilter(ctx, filter); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	reports, err := h.reports.List(ctx, filter)
	if err != nil {
		log.Error("error retrieving financial reports", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve financial reports")
		return
	}

	aqm.RespondCollection(w, reports, "financial-report")
}

func (h *Handler) ApproveReport(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, true)
}

func (h *Handler) RejectReport(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, false)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, approve bool) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ReviewReport")
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

	report, ok := h.loadReport(w, r, log)
	if !ok {
		return
	}

	if err := report.Review(approve, auth.ActorFrom(ctx, "anonymous"), strings.TrimSpace(req.Note), h.now()); err != nil {
		aqm.RespondError(w, http.StatusConflict, "Report has already been reviewed")
		return
	}

	if err := h.reports.SaveReview(ctx, report); err != nil {
		switch {
		case errors.Is(err, reviewstatus.ErrNotPending):
			aqm.RespondError(w, http.StatusConflict, "Report has already been reviewed")
		case errors.Is(err, ErrReportNotFound):
			aqm.RespondError(w, http.StatusNotFound, "Financial report not found")
		default:
			log.Error("cannot save report review", "error", err, "id", report.ID.String())
			aqm.RespondError(w, http.StatusInternalServerError, "Could not review financial report")
		}
		return
	}

	web.Audit(ctx, log, "finance.report."+report.Status, "id", report.ID.String(), "shift_date", report.ShiftDate)
	h.publishReport(ctx, event.EventFinanceReportReviewed, report)

	links := aqm.RESTfulLinksFor(report)
	aqm.RespondSuccess(w, report, links...)
}

func (h *Handler) SubmitFund(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SubmitFund")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req FundSubmitRequest
	if !web.DecodeJSON(w, r, log, &req) {
		return
	}
	if errs := ValidateFundSubmit(ctx, req); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	now := h.now()
	fund := &ManagerFund{
		ID:          aqm.GenerateNewID(),
		Date:        dateOr(req.Date, now),
		Amount:      *req.Amount,
		ReceiptRef:  strings.TrimSpace(req.ReceiptRef),
		SubmittedBy: auth.ActorFrom(ctx, "anonymous"),
		SubmittedAt: now,
	}

	if err := h.funds.Create(ctx, fund); err != nil {
		log.Error("cannot save manager fund", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not submit manager fund")
		return
	}

	links := aqm.RESTfulLinksFor(fund)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, fund, links...)
}

func (h *Handler) ListFunds(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListFunds")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	date, ok := dateQuery(w, r)
	if !ok {
		return
	}

	funds, err := h.funds.List(r.Context(), date)
	if err != nil {
		log.Error("error retrieving manager funds", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve manager funds")
		return
	}

	aqm.RespondCollection(w, funds, "manager-fund")
}

func (h *Handler) SubmitExpense(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SubmitExpense")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req ExpenseSubmitRequest
	if !web.DecodeJSON(w, r, log, &req) {
		return
	}
	if errs := ValidateExpenseSubmit(ctx, req); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	now := h.now()
	expense := &Expense{
		ID:          aqm.GenerateNewID(),
		Date:        dateOr(req.Date, now),
		Details:     strings.TrimSpace(req.Details),
		Amount:      req.Amount,
		SubmittedBy: auth.ActorFrom(ctx, "anonymous"),
		SubmittedAt: now,
	}

	if err := h.expenses.Create(ctx, expense); err != nil {
		log.Error("cannot save expense", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not submit expenses")
		return
	}

	links := aqm.RESTfulLinksFor(expense)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, expense, links...)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListExpenses")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	date, ok := dateQuery(w, r)
	if !ok {
		return
	}

	expenses, err := h.expenses.List(r.Context(), date)
	if err != nil {
		log.Error("error retrieving expenses", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve expenses")
		return
	}

	aqm.RespondCollection(w, expenses, "expense")
}

func (h *Handler) SubmitApepo(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SubmitApepo")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req ApepoSubmitRequest
	if !web.DecodeJSON(w, r, log, &req) {
		return
	}
	if errs := ValidateApepoSubmit(ctx, req); len(errs) > 0 {
		log.Debug("validation failed", "errors", errs)
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	now := h.now()
	report := &ApepoReport{
		ID:          aqm.GenerateNewID(),
		Date:        dateOr(req.Date, now),
		Audit:       strings.TrimSpace(req.Audit),
		People:      strings.TrimSpace(req.People),
		Equipment:   strings.TrimSpace(req.Equipment),
		Product:     strings.TrimSpace(req.Product),
		Others:      strings.TrimSpace(req.Others),
		SubmittedBy: auth.ActorFrom(ctx, "anonymous"),
		SubmittedAt: now,
	}

	if err := h.apepo.Create(ctx, report); err != nil {
		log.Error("cannot save apepo report", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not submit APEPO report")
		return
	}

	links := aqm.RESTfulLinksFor(report)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, report, links...)
}

func (h *Handler) GetApepo(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetApepo")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	id, ok := web.ParseIDParam(w, r, log)
	if !ok {
		return
	}

	report, err := h.apepo.Get(r.Context(), id)
	if err != nil {
		log.Error("error loading apepo report", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load APEPO report")
		return
	}
	if report == nil {
		aqm.RespondError(w, http.StatusNotFound, "APEPO report not found")
		return
	}

	links := aqm.RESTfulLinksFor(report)
	aqm.RespondSuccess(w, report, links...)
}

func (h *Handler) ListApepo(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListApepo")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	date, ok := dateQuery(w, r)
	if !ok {
		return
	}

	reports, err := h.apepo.List(r.Context(), date)
	if err != nil {
		log.Error("error retrieving apepo reports", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve APEPO reports")
		return
	}

	aqm.RespondCollection(w, reports, "apepo-report")
}

// GetDaily gathers everything submitted for one date, today by default.
func (h *Handler) GetDaily(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetDaily")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	date, ok := dateQuery(w, r)
	if !ok {
		return
	}
	date = dateOr(date, h.now())

	reports, err := h.reports.List(ctx, ReportFilter{Date: date})
	if err != nil {
		log.Error("error retrieving financial reports", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve daily report")
		return
	}
	apepo, err := h.apepo.List(ctx, date)
	if err != nil {
		log.Error("error retrieving apepo reports", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve daily report")
		return
	}
	funds, err := h.funds.List(ctx, date)
	if err != nil {
		log.Error("error retrieving manager funds", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve daily report")
		return
	}
	expenses, err := h.expenses.List(ctx, date)
	if err != nil {
		log.Error("error retrieving expenses", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve daily report")
		return
	}

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"date":     date,
		"reports":  reports,
		"apepo":    apepo,
		"funds":    funds,
		"expenses": expenses,
	}, nil)
}

// Helper methods

func (h *Handler) loadReport(w http.ResponseWriter, r *http.Request, log aqm.Logger) (*Report, bool) {
	id, ok := web.ParseIDParam(w, r, log)
	if !ok {
		return nil, false
	}

	report, err := h.reports.Get(r.Context(), id)
	if err != nil {
		log.Error("error loading financial report", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load financial report")
		return nil, false
	}
	if report == nil {
		aqm.RespondError(w, http.StatusNotFound, "Financial report not found")
		return nil, false
	}
	return report, true
}

func (h *Handler) publishReport(ctx context.Context, eventType string, report *Report) {
	evt := event.FinanceReportEvent{
		EventType:     eventType,
		OccurredAt:    h.now().UTC(),
		ReportID:      report.ID.String(),
		ShiftDate:     report.ShiftDate,
		DailyEarnings: report.DailyEarnings.String(),
		Status:        report.Status,
		SubmittedBy:   report.SubmittedBy,
		ReviewedBy:    report.ReviewedBy,
	}
	web.Publish(ctx, h.publisher, h.logger, event.StaffFinanceTopic, evt)
}

func dateQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date != "" && !validDate(date) {
		aqm.RespondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return "", false
	}
	return date, true
}

func validDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

func dateOr(s string, now time.Time) string {
	if s == "" {
		return now.Format(time.DateOnly)
	}
	return s
}
