package tasks

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"

	"github.com/appetiteclub/staffops/pkg/auth"
	"github.com/appetiteclub/staffops/services/tasks/internal/storage"
)

const dateLayout = "2006-01-02"

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.StartSession")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req SessionStartRequest
	if r.ContentLength > 0 && !h.decodeJSON(w, r, log, &req) {
		return
	}
	employeeID, employeeName := h.employee(r, req.EmployeeID, req.EmployeeName)

	session, err := h.submitter.StartSession(ctx, id, employeeID, employeeName)
	if err != nil {
		if !isWorkflowError(err) {
			log.Error("cannot start session", "error", err, "task_id", id.String())
		}
		respondWorkflowError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, session, aqm.RESTfulLinksFor(session)...)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSession")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	session, err := h.submitter.Session(id)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}

	aqm.RespondSuccess(w, session)
}

// CapturePhoto accepts either a multipart "photo" file or a raw image body.
func (h *Handler) CapturePhoto(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CapturePhoto")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	photo, ok := h.readPhoto(w, r, log)
	if !ok {
		return
	}

	session, err := h.submitter.Capture(id, photo)
	if err != nil {
		log.Debug("capture rejected", "error", err, "session_id", id.String())
		respondWorkflowError(w, err)
		return
	}

	aqm.RespondSuccess(w, session)
}

func (h *Handler) RetakePhoto(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RetakePhoto")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	session, err := h.submitter.Retake(id)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}

	aqm.RespondSuccess(w, session)
}

func (h *Handler) SubmitSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SubmitSession")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	var req SubmitRequest
	if !h.decodeJSON(w, r, log, &req) {
		return
	}

	session, submission, err := h.submitter.Submit(ctx, id, req.ConfirmedName)
	if err != nil {
		log.Info("submission rejected", "error", err, "session_id", id.String())
		respondWorkflowError(w, err)
		return
	}

	aqm.Respond(w, http.StatusCreated, map[string]interface{}{
		"session":    session,
		"submission": submission,
		"message":    submission.Confirmation(),
	}, nil)
}

func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelSession")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if _, err := h.submitter.Cancel(id); err != nil {
		respondWorkflowError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SubmitTask is the one-shot form of the session flow:
// multipart employee_id, employee_name, confirmed_name and photo.
func (h *Handler) SubmitTask(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SubmitTask")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxPhotoBytes+MaxBodyBytes)
	if err := r.ParseMultipartForm(MaxPhotoBytes); err != nil {
		log.Debug("invalid multipart form", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Photo is required")
		return
	}
	defer file.Close()

	photo, err := photoFromPart(file, header)
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Could not read photo")
		return
	}

	employeeID, employeeName := h.employee(r, r.FormValue("employee_id"), r.FormValue("employee_name"))

	_, submission, err := h.submitter.SubmitOnce(ctx, id, employeeID, employeeName, r.FormValue("confirmed_name"), photo)
	if err != nil {
		log.Info("submission rejected", "error", err, "task_id", id.String())
		respondWorkflowError(w, err)
		return
	}

	links := aqm.RESTfulLinksFor(submission)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, submission, links...)
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListSubmissions")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	filter, ok := h.parseSubmissionFilter(w, r, log)
	if !ok {
		return
	}

	submissions, err := h.submissionRepo.List(ctx, filter)
	if err != nil {
		log.Error("error retrieving submissions", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve submissions")
		return
	}

	aqm.RespondCollection(w, submissions, "submission")
}

// GetHistory returns an employee's submissions grouped by day, newest first.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetHistory")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	employeeID := h.historyOwner(r, r.URL.Query().Get("employee_id"))
	if employeeID == "" {
		aqm.RespondError(w, http.StatusBadRequest, "employee_id is required")
		return
	}

	submissions, err := h.submissionRepo.List(ctx, SubmissionFilter{EmployeeID: employeeID})
	if err != nil {
		log.Error("error retrieving history", "error", err, "employee_id", employeeID)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve history")
		return
	}

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"employee_id": employeeID,
		"days":        GroupByDay(submissions, time.Local),
	}, nil)
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSubmission")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	submission, err := h.submissionRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading submission", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load submission")
		return
	}
	if submission == nil {
		aqm.RespondError(w, http.StatusNotFound, "Submission not found")
		return
	}

	aqm.RespondSuccess(w, submission, aqm.RESTfulLinksFor(submission)...)
}

func (h *Handler) GetSubmissionPhoto(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSubmissionPhoto")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	submission, err := h.submissionRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading submission", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load submission")
		return
	}
	if submission == nil {
		aqm.RespondError(w, http.StatusNotFound, "Submission not found")
		return
	}

	rc, obj, err := h.photos.Open(ctx, submission.PhotoKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			aqm.RespondError(w, http.StatusNotFound, "Photo not found")
			return
		}
		log.Error("cannot open photo", "error", err, "key", submission.PhotoKey)
		aqm.RespondError(w, http.StatusBadGateway, "Could not load photo")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		log.Debug("photo stream interrupted", "error", err)
	}
}

func (h *Handler) parseSubmissionFilter(w http.ResponseWriter, r *http.Request, log aqm.Logger) (SubmissionFilter, bool) {
	q := r.URL.Query()
	filter := SubmissionFilter{
		EmployeeID: q.Get("employee_id"),
		Station:    q.Get("station"),
		Category:   q.Get("category"),
	}

	if errs := ValidateTaskFilter(r.Context(), TaskFilter{Station: filter.Station, Category: filter.Category}); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return SubmissionFilter{}, false
	}

	if taskID := q.Get("task_id"); taskID != "" {
		id, err := uuid.Parse(taskID)
		if err != nil {
			aqm.RespondError(w, http.StatusBadRequest, "Invalid task_id")
			return SubmissionFilter{}, false
		}
		filter.TaskID = &id
	}

	if date := q.Get("date"); date != "" {
		day, err := time.ParseInLocation(dateLayout, date, time.Local)
		if err != nil {
			log.Debug("invalid date filter", "date", date)
			aqm.RespondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return SubmissionFilter{}, false
		}
		next := day.AddDate(0, 0, 1)
		filter.From = &day
		filter.To = &next
	}

	return filter, true
}

// employee prefers the verified claim over client supplied identity.
func (h *Handler) employee(r *http.Request, id, name string) (string, string) {
	if claims, ok := auth.ClaimsFrom(r.Context()); ok {
		if claims.Subject != "" {
			id = claims.Subject
		}
		if claims.Name != "" {
			name = claims.Name
		}
	}
	return strings.TrimSpace(id), strings.TrimSpace(name)
}

// historyOwner pins employees to their own history. Owners and managers
// may look up anyone and default to themselves.
func (h *Handler) historyOwner(r *http.Request, requested string) string {
	requested = strings.TrimSpace(requested)
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok || claims.Subject == "" {
		return requested
	}
	if claims.HasRole(auth.RoleEmployee) || requested == "" {
		return claims.Subject
	}
	return requested
}

func (h *Handler) readPhoto(w http.ResponseWriter, r *http.Request, log aqm.Logger) (Photo, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxPhotoBytes+MaxBodyBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(MaxPhotoBytes); err != nil {
			log.Debug("invalid multipart form", "error", err)
			aqm.RespondError(w, http.StatusBadRequest, "Invalid multipart form")
			return Photo{}, false
		}
		file, header, err := r.FormFile("photo")
		if err != nil {
			aqm.RespondError(w, http.StatusBadRequest, "Photo is required")
			return Photo{}, false
		}
		defer file.Close()

		photo, err := photoFromPart(file, header)
		if err != nil {
			aqm.RespondError(w, http.StatusBadRequest, "Could not read photo")
			return Photo{}, false
		}
		return photo, true
	}

	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading photo body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Could not read photo")
		return Photo{}, false
	}
	if len(data) == 0 {
		aqm.RespondError(w, http.StatusBadRequest, "Photo is required")
		return Photo{}, false
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return Photo{Data: data, ContentType: contentType, CapturedAt: time.Now()}, true
}

func photoFromPart(file multipart.File, header *multipart.FileHeader) (Photo, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return Photo{}, err
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return Photo{Data: data, ContentType: contentType, CapturedAt: time.Now()}, nil
}

func isWorkflowError(err error) bool {
	for _, target := range []error{
		ErrTaskNotFound, ErrTaskAlreadyCompleted, ErrSessionNotFound, ErrSessionExpired,
		ErrInvalidTransition, ErrSubmissionInFlight, ErrNameRequired, ErrPhotoRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
