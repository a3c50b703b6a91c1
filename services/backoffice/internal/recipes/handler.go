package recipes

import (
	"net/http"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/staffops/pkg/auth"
	"github.com/appetiteclub/staffops/pkg/validation"
	"github.com/appetiteclub/staffops/services/backoffice/internal/web"
)

type Handler struct {
	recipes RecipeRepo
	views   ViewRepo
	guard   *auth.Guard
	now     func() time.Time
	logger  aqm.Logger
	config  *aqm.Config
	tlm     *telemetry.HTTP
}

func NewHandler(recipes RecipeRepo, views ViewRepo, guard *auth.Guard, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if guard == nil {
		guard = auth.NewPermissiveGuard()
	}
	return &Handler{
		recipes: recipes,
		views:   views,
		guard:   guard,
		now:     time.Now,
		logger:  logger,
		config:  config,
		tlm:     telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	staff := h.guard.Require(auth.RoleOwner, auth.RoleManager)

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.ListRecipes)
		r.Get("/categories", h.ListCategories)
		r.Get("/watched", h.ListWatched)
		r.Get("/{id}", h.GetRecipe)
		r.Post("/{id}/watched", h.MarkWatched)
		r.With(staff).Get("/{id}/views", h.ListViews)
	})
}

// ListRecipes filters by ?q= over name, category and description, and by
// an exact ?category=.
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListRecipes")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	q := r.URL.Query()
	all, err := h.recipes.List(r.Context(), strings.TrimSpace(q.Get("category")))
	if err != nil {
		log.Error("error retrieving recipes", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve recipes")
		return
	}

	aqm.RespondCollection(w, Search(all, q.Get("q")), "recipe")
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListCategories")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	all, err := h.recipes.List(r.Context(), "")
	if err != nil {
		log.Error("error retrieving recipes", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve categories")
		return
	}

	aqm.Respond(w, http.StatusOK, map[string]interface{}{
		"categories": Categories(all),
	}, nil)
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetRecipe")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	recipe, ok := h.load(w, r, log)
	if !ok {
		return
	}

	links := aqm.RESTfulLinksFor(recipe)
	aqm.RespondSuccess(w, recipe, links...)
}

func (h *Handler) MarkWatched(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MarkWatched")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	var req WatchedRequest
	if r.ContentLength != 0 {
		if !web.DecodeJSON(w, r, log, &req) {
			return
		}
	}
	if errs := validation.Struct(req); len(errs) > 0 {
		aqm.RespondError(w, http.StatusBadRequest, errs[0])
		return
	}

	employeeID, employeeName := strings.TrimSpace(req.EmployeeID), strings.TrimSpace(req.EmployeeName)
	if claims, ok := auth.ClaimsFrom(ctx); ok {
		employeeID, employeeName = claims.Subject, claims.Name
	}
	if employeeID == "" {
		aqm.RespondError(w, http.StatusBadRequest, "employee_id is required")
		return
	}

	recipe, ok := h.load(w, r, log)
	if !ok {
		return
	}

	view, err := h.views.Record(ctx, NewView(recipe, employeeID, employeeName, h.now()))
	if err != nil {
		log.Error("cannot record recipe view", "error", err, "recipe", recipe.ID.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not mark recipe as watched")
		return
	}

	log.Info("recipe watched", "recipe", recipe.Name, "employee_id", employeeID)

	links := aqm.RESTfulLinksFor(view)
	aqm.RespondSuccess(w, view, links...)
}

func (h *Handler) ListWatched(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListWatched")
	defer finish()

	log := web.RequestLogger(h.logger, r)
	ctx := r.Context()

	employeeID := strings.TrimSpace(r.URL.Query().Get("employee_id"))
	if claims, ok := auth.ClaimsFrom(ctx); ok && employeeID == "" {
		employeeID = claims.Subject
	}
	if employeeID == "" {
		aqm.RespondError(w, http.StatusBadRequest, "employee_id is required")
		return
	}

	views, err := h.views.ListByEmployee(ctx, employeeID)
	if err != nil {
		log.Error("error retrieving recipe views", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve watched recipes")
		return
	}

	aqm.RespondCollection(w, views, "recipe-view")
}

func (h *Handler) ListViews(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListViews")
	defer finish()

	log := web.RequestLogger(h.logger, r)

	recipe, ok := h.load(w, r, log)
	if !ok {
		return
	}

	views, err := h.views.ListByRecipe(r.Context(), recipe.ID)
	if err != nil {
		log.Error("error retrieving recipe views", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve recipe views")
		return
	}

	aqm.RespondCollection(w, views, "recipe-view")
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request, log aqm.Logger) (*Recipe, bool) {
	id, ok := web.ParseIDParam(w, r, log)
	if !ok {
		return nil, false
	}

	recipe, err := h.recipes.Get(r.Context(), id)
	if err != nil {
		log.Error("error loading recipe", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load recipe")
		return nil, false
	}
	if recipe == nil {
		aqm.RespondError(w, http.StatusNotFound, "Recipe not found")
		return nil, false
	}
	return recipe, true
}
