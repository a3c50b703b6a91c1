package managertask

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/staffops/pkg/auth"
	"github.com/appetiteclub/staffops/services/backoffice/internal/web"
)

type Handler struct {
	repo   TaskRepo
	guard  *auth.Guard
	now    func() time.Time
	logger aqm.Logger
	config *aqm.Config
	tlm    *telemetry.HTTP
}

func NewHandler(repo TaskRepo, guard *auth.Guard, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if guard == nil {
		guard = auth.NewPermissiveGuard()
	}
	return &Handler{
		repo:   repo,
		guard:  guard,
		now:    time.Now,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := h.guard.Require(auth.RoleOwner, auth.RoleManager)
	owner := h.guard.Require(auth.RoleOwner)

	r.Route("/manager-tasks", func(r chi.Router) {
		r.Use(staff)

		r.Get("/", h.ListTasks)
		r.Get("/{id}", h.GetTask)
		r.Patch("/{id}/toggle", h.ToggleTask)
		r.With(owner).Post("/", h.AssignTask)
		r.With(owner).Delete("/{id}", h.DeleteTask)
	})
}

func (h *Handler) AssignTask(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AssignTask")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req AssignRequest
	if !web.DecodeJSON(w, r, log, &req) {
		return
	}

	validationErrors := ValidateAssign(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		aqm.RespondError(w, http.StatusBadRequest, validationErrors[0])
		return
	}

	task := NewTask(strings.TrimSpace(req.Name), strings.TrimSpace(req.Description), req.TaskType, h.now())
	task.Day = req.Day
	task.AssignedBy = auth.ActorFrom(ctx, "")

	if err := h.repo.Create(ctx, task); err != nil {
		log.Error("cannot assign manager task", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not assign task")
		return
	}

	web.Audit(ctx, log, "manager_task.assigned", "id", task.ID.String(), "name", task.Name, "task_type", task.TaskType)

	links := aqm.RESTfulLinksFor(task)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, task, links...)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTask")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	task, ok := h.load(w, r, log)
	if !ok {
		return
	}

	links := aqm.RESTfulLinksFor(task)
	aqm.RespondSuccess(w, task, links...)
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTasks")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	q := r.URL.Query()
	filter := Filter{TaskType: q.Get("task_type"), Status: q.Get("status")}
	if errs := ValidateFilter(ctx, filter); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	tasks, err := h.repo.List(ctx, filter)
	if err != nil {
		log.Error("error retrieving manager tasks", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve manager tasks")
		return
	}

	pending, completed := Split(tasks)
	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"pending":   pending,
		"completed": completed,
		"counts": map[string]int{
			"pending":   len(pending),
			"completed": len(completed),
		},
	}, nil)
}

func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ToggleTask")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	task, ok := h.load(w, r, log)
	if !ok {
		return
	}

	task.Toggle(auth.ActorFrom(ctx, "anonymous"), h.now())

	if err := h.repo.Update(ctx, task); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			aqm.RespondError(w, http.StatusNotFound, "Manager task not found")
			return
		}
		log.Error("cannot update manager task", "error", err, "id", task.ID.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not update task")
		return
	}

	log.Info("manager task toggled", "id", task.ID.String(), "status", task.Status)

	links := aqm.RESTfulLinksFor(task)
	aqm.RespondSuccess(w, task, links...)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteTask")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	id, ok := web.ParseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			aqm.RespondError(w, http.StatusNotFound, "Manager task not found")
			return
		}
		log.Error("cannot delete manager task", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not delete task")
		return
	}

	web.Audit(ctx, log, "manager_task.deleted", "id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request, log aqm.Logger) (*Task, bool) {
	id, ok := web.ParseIDParam(w, r, log)
	if !ok {
		return nil, false
	}

	task, err := h.repo.Get(r.Context(), id)
	if err != nil {
		log.Error("error loading manager task", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load manager task")
		return nil, false
	}
	if task == nil {
		aqm.RespondError(w, http.StatusNotFound, "Manager task not found")
		return nil, false
	}
	return task, true
}
