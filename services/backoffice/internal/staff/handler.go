package staff

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/staffops/pkg/auth"
	"github.com/appetiteclub/staffops/services/backoffice/internal/web"
)

type Handler struct {
	repo   EmployeeRepo
	guard  *auth.Guard
	logger aqm.Logger
	config *aqm.Config
	tlm    *telemetry.HTTP
}

func NewHandler(repo EmployeeRepo, guard *auth.Guard, config *aqm.Config, logger aqm.Logger) *Handler {
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
	owner := h.guard.Require(auth.RoleOwner)

	r.Route("/employees", func(r chi.Router) {
		r.Use(staff)

		r.Get("/", h.ListEmployees)
		r.Get("/{id}", h.GetEmployee)
		r.With(owner).Post("/", h.CreateEmployee)
		r.With(owner).Put("/{id}", h.UpdateEmployee)
		r.With(owner).Delete("/{id}", h.DeleteEmployee)
	})
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateEmployee")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req EmployeeRequest
	if !web.DecodeJSON(w, r, log, &req) {
		return
	}

	validationErrors := ValidateEmployee(ctx, &req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		aqm.RespondError(w, http.StatusBadRequest, validationErrors[0])
		return
	}

	employee := NewEmployee(req.Name, req.Status)
	req.apply(employee)
	employee.BeforeCreate()

	if err := h.repo.Create(ctx, employee); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			aqm.RespondError(w, http.StatusConflict, "Email already registered")
			return
		}
		log.Error("cannot create employee", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not create employee")
		return
	}

	web.Audit(ctx, log, "employee.created", "id", employee.ID.String(), "name", employee.Name)

	links := aqm.RESTfulLinksFor(employee)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, employee, links...)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetEmployee")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	id, ok := web.ParseIDParam(w, r, log)
	if !ok {
		return
	}

	employee, err := h.repo.Get(r.Context(), id)
	if err != nil {
		log.Error("error loading employee", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load employee")
		return
	}
	if employee == nil {
		aqm.RespondError(w, http.StatusNotFound, "Employee not found")
		return
	}

	links := aqm.RESTfulLinksFor(employee)
	aqm.RespondSuccess(w, employee, links...)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListEmployees")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if errs := ValidateStatusFilter(ctx, status); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	employees, err := h.repo.List(ctx, status)
	if err != nil {
		log.Error("error retrieving employees", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve employees")
		return
	}

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"employees": employees,
		"counts":    Count(employees),
	}, nil)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateEmployee")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	id, ok := web.ParseIDParam(w, r, log)
	if !ok {
		return
	}

	var req EmployeeRequest
	if !web.DecodeJSON(w, r, log, &req) {
		return
	}

	validationErrors := ValidateEmployee(ctx, &req)
	if len(validationErrors) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, validationErrors[0])
		return
	}

	employee, err := h.repo.Get(ctx, id)
	if err != nil {
		log.Error("error loading employee", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not update employee")
		return
	}
	if employee == nil {
		aqm.RespondError(w, http.StatusNotFound, "Employee not found")
		return
	}

	req.apply(employee)
	employee.BeforeUpdate()

	if err := h.repo.Update(ctx, employee); err != nil {
		switch {
		case errors.Is(err, ErrEmployeeNotFound):
			aqm.RespondError(w, http.StatusNotFound, "Employee not found")
		case errors.Is(err, ErrDuplicateEmail):
			aqm.RespondError(w, http.StatusConflict, "Email already registered")
		default:
			log.Error("cannot update employee", "error", err, "id", id.String())
			aqm.RespondError(w, http.StatusInternalServerError, "Could not update employee")
		}
		return
	}

	web.Audit(ctx, log, "employee.updated", "id", employee.ID.String())

	links := aqm.RESTfulLinksFor(employee)
	aqm.RespondSuccess(w, employee, links...)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteEmployee")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	id, ok := web.ParseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			aqm.RespondError(w, http.StatusNotFound, "Employee not found")
			return
		}
		log.Error("cannot delete employee", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not delete employee")
		return
	}

	web.Audit(ctx, log, "employee.deleted", "id", id.String())
	w.WriteHeader(http.StatusNoContent)
}
