package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/appetiteclub/staffops/pkg/auth"
	"github.com/appetiteclub/staffops/pkg/event"
	"github.com/appetiteclub/staffops/services/tasks/internal/storage"
)

const (
	MaxBodyBytes  = 1 << 20
	MaxPhotoBytes = 16 << 20
)

type HandlerDeps struct {
	Repos     Repos
	Submitter *Submitter
	Photos    storage.PhotoStorage
	Publisher events.Publisher
	Guard     *auth.Guard
}

type Handler struct {
	taskRepo       TaskRepo
	submissionRepo SubmissionRepo
	submitter      *Submitter
	photos         storage.PhotoStorage
	publisher      events.Publisher
	guard          *auth.Guard
	logger         aqm.Logger
	config         *aqm.Config
	tlm            *telemetry.HTTP
}

func NewHandler(deps HandlerDeps, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	guard := deps.Guard
	if guard == nil {
		guard = auth.NewPermissiveGuard()
	}
	return &Handler{
		taskRepo:       deps.Repos.TaskRepo,
		submissionRepo: deps.Repos.SubmissionRepo,
		submitter:      deps.Submitter,
		photos:         deps.Photos,
		publisher:      deps.Publisher,
		guard:          guard,
		logger:         logger,
		config:         config,
		tlm:            telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := h.guard.Require(auth.RoleOwner, auth.RoleManager)

	r.Route("/tasks", func(r chi.Router) {
		r.With(staff).Post("/", h.CreateTask)
		r.Get("/", h.ListTasks)
		r.Get("/progress", h.GetProgress)
		r.Get("/board", h.GetBoard)
		r.Get("/qr/{code}", h.GetTaskByQRCode)
		r.Get("/{id}", h.GetTask)
		r.With(staff).Delete("/{id}", h.DeleteTask)

		r.Post("/{id}/sessions", h.StartSession)
		r.Post("/{id}/submissions", h.SubmitTask)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/{id}", h.GetSession)
		r.Put("/{id}/photo", h.CapturePhoto)
		r.Delete("/{id}/photo", h.RetakePhoto)
		r.Post("/{id}/submit", h.SubmitSession)
		r.Delete("/{id}", h.CancelSession)
	})

	r.Route("/submissions", func(r chi.Router) {
		r.Get("/", h.ListSubmissions)
		r.Get("/history", h.GetHistory)
		r.Get("/{id}", h.GetSubmission)
		r.Get("/{id}/photo", h.GetSubmissionPhoto)
	})
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateTask")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req TaskCreateRequest
	if !h.decodeJSON(w, r, log, &req) {
		return
	}

	validationErrors := ValidateTaskCreate(ctx, req)
	if len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		aqm.RespondError(w, http.StatusBadRequest, validationErrors[0])
		return
	}

	task := NewTask()
	task.Name = strings.TrimSpace(req.Name)
	task.QRCodeID = strings.TrimSpace(req.QRCodeID)
	task.Station = req.Station
	task.Category = req.Category
	task.Description = strings.TrimSpace(req.Description)
	task.AssignedTo = strings.TrimSpace(req.AssignedTo)
	task.Repetition = req.Repetition
	task.Position = req.Position
	task.AssignedBy = auth.ActorFrom(ctx, "")
	task.CreatedBy = auth.ActorFrom(ctx, "system")
	task.UpdatedBy = task.CreatedBy
	if task.QRCodeID == "" {
		task.QRCodeID = GenerateQRCodeID(task)
	}
	task.BeforeCreate()

	if err := h.taskRepo.Create(ctx, task); err != nil {
		if errors.Is(err, ErrDuplicateQRCode) {
			aqm.RespondError(w, http.StatusConflict, "QR code already assigned to another task")
			return
		}
		log.Error("cannot create task", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not create task")
		return
	}

	h.publishTaskCreated(ctx, task)

	links := aqm.RESTfulLinksFor(task)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, task, links...)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTask")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	task, err := h.taskRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading task", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load task")
		return
	}
	if task == nil {
		aqm.RespondError(w, http.StatusNotFound, "Task not found")
		return
	}

	links := aqm.RESTfulLinksFor(task)
	aqm.RespondSuccess(w, task, links...)
}

func (h *Handler) GetTaskByQRCode(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTaskByQRCode")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		aqm.RespondError(w, http.StatusBadRequest, "Missing QR code")
		return
	}

	task, err := h.taskRepo.GetByQRCode(ctx, code)
	if err != nil {
		log.Error("error loading task by qr code", "error", err, "code", code)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load task")
		return
	}
	if task == nil {
		aqm.RespondError(w, http.StatusNotFound, "Task not found")
		return
	}

	links := aqm.RESTfulLinksFor(task)
	aqm.RespondSuccess(w, task, links...)
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTasks")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	filter, ok := h.parseTaskFilter(w, r, log)
	if !ok {
		return
	}

	tasks, err := h.taskRepo.List(ctx, filter)
	if err != nil {
		log.Error("error retrieving tasks", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve tasks")
		return
	}

	aqm.RespondCollection(w, tasks, "task")
}

// GetProgress reports "n of m completed" for one station and category.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetProgress")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	filter, ok := h.parseTaskFilter(w, r, log)
	if !ok {
		return
	}
	if filter.Station == "" || filter.Category == "" {
		aqm.RespondError(w, http.StatusBadRequest, "station and category are required")
		return
	}

	all, err := h.taskRepo.List(ctx, TaskFilter{Station: filter.Station})
	if err != nil {
		log.Error("error retrieving tasks", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve tasks")
		return
	}

	group := FilterTasks(all, filter.Station, filter.Category)
	progress := Summarize(group)
	progress.Station = filter.Station
	progress.Category = filter.Category

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"progress": progress,
		"tasks":    group,
	}, nil)
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetBoard")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	all, err := h.taskRepo.List(ctx, TaskFilter{})
	if err != nil {
		log.Error("error retrieving tasks", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve tasks")
		return
	}

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"board":   Board(all),
		"overall": Summarize(all),
	}, nil)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteTask")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.taskRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			aqm.RespondError(w, http.StatusNotFound, "Task not found")
			return
		}
		log.Error("cannot delete task", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not delete task")
		return
	}

	log.Info("task deleted", "id", id.String(), "actor", auth.ActorFrom(ctx, "anonymous"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) publishTaskCreated(ctx context.Context, task *Task) {
	if h.publisher == nil || task == nil {
		return
	}

	evt := event.TaskCreatedEvent{
		TaskEventMetadata: event.TaskEventMetadata{
			EventType:  event.EventTaskCreated,
			OccurredAt: time.Now().UTC(),
			TaskID:     task.ID.String(),
			TaskName:   task.Name,
			Station:    task.Station,
			Category:   task.Category,
		},
		QRCodeID:   task.QRCodeID,
		AssignedBy: task.AssignedBy,
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("cannot marshal task created event", "error", err, "task_id", task.ID.String())
		return
	}

	if err := h.publisher.Publish(ctx, event.StaffTasksTopic, payload); err != nil {
		h.logger.Error("cannot publish task created event", "error", err, "task_id", task.ID.String())
	}
}

// GenerateQRCodeID derives a printable code such as "KIT-OPN-1a2b3c4d".
func GenerateQRCodeID(task *Task) string {
	prefix := "GEN"
	switch task.Station {
	case "kitchen":
		prefix = "KIT"
	case "coffee-bar":
		prefix = "CBR"
	}
	shift := "OPN"
	if task.Category == "closing" {
		shift = "CLS"
	}
	return fmt.Sprintf("%s-%s-%s", prefix, shift, strings.ToUpper(task.ID.String()[:8]))
}

// Helper methods

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log aqm.Logger) (uuid.UUID, bool) {
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

func (h *Handler) parseTaskFilter(w http.ResponseWriter, r *http.Request, log aqm.Logger) (TaskFilter, bool) {
	q := r.URL.Query()
	filter := TaskFilter{
		Station:  q.Get("station"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
	}

	if errs := ValidateTaskFilter(r.Context(), filter); len(errs) > 0 {
		log.Debug("invalid task filter", "errors", errs)
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return TaskFilter{}, false
	}
	return filter, true
}

// decodeJSON reads a bounded JSON body into dst. An empty body is allowed
// only when dst tolerates zero values; callers validate afterwards.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, log aqm.Logger, dst interface{}) bool {
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

func respondWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		aqm.RespondError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionExpired):
		aqm.RespondError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, ErrTaskAlreadyCompleted):
		aqm.RespondError(w, http.StatusConflict, "Task already completed")
	case errors.Is(err, ErrSubmissionInFlight):
		aqm.RespondError(w, http.StatusConflict, "Submission already in progress")
	case errors.Is(err, ErrInvalidTransition):
		aqm.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNameRequired):
		aqm.RespondError(w, http.StatusBadRequest, "Please enter your name to confirm")
	case errors.Is(err, ErrPhotoRequired):
		aqm.RespondError(w, http.StatusBadRequest, "Photo is required")
	case errors.Is(err, ErrUploadFailed):
		aqm.RespondError(w, http.StatusBadGateway, "Photo upload failed, please retry")
	default:
		aqm.RespondError(w, http.StatusInternalServerError, "Could not process submission")
	}
}
