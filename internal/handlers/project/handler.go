package project

import (
	"net/http"
	"vprime/infras/otel"
	"vprime/internal/domains/project/model/dto"
	"vprime/internal/domains/project/service"
	"vprime/shared"
	"vprime/shared/constant"
	gDto "vprime/shared/dto"
	"vprime/shared/validator"
	"vprime/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Project
	otel    otel.Otel
}

func New(service service.Project, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router mounts the gallery routes. {key} is the slug on reads and the numeric id on writes.
func (handler *Handler) Router(router chi.Router) {
	router.Route("/gallery", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.ListProjects)
		routerGroup.Post("/", handler.CreateProject)
		routerGroup.Get("/{key}", handler.GetProject)
		routerGroup.Put("/{key}", handler.UpdateProject)
		routerGroup.Delete("/{key}", handler.DeleteProject)
		routerGroup.Post("/{key}/like", handler.LikeProject)
	})
}

// ListProjects lists gallery projects.
// @Summary List gallery projects
// @Description Paginated projects, newest first unless sort=asc. search matches car model or description.
// @Tags Gallery
// @Produce json
// @Param page query int false "Page number, 1-indexed"
// @Param limit query int false "Page size"
// @Param search query string false "Case-insensitive search on car model and description"
// @Param sort query string false "asc or desc by creation time"
// @Success 200 {object} dto.ListProjectsResponse
// @Failure 500 {object} response.Error
// @Router /api/gallery [get]
func (handler *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListProjects")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, 0)

	res, err := handler.service.List(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list projects")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetProject returns one project by slug.
// @Summary Get a project
// @Tags Gallery
// @Produce json
// @Param key path string true "Project slug"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/gallery/{key} [get]
func (handler *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProject")
	defer scope.End()

	slug := chi.URLParam(r, constant.RequestParamKey)

	res, err := handler.service.GetBySlug(ctx, slug)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("slug", slug).Msg("failed to get project")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreateProject adds a project to the gallery.
// @Summary Create a project
// @Tags Gallery
// @Accept json
// @Produce json
// @Param request body dto.CreateProjectRequest true "Create Project Request"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/gallery [post]
// @Security BearerAuth
func (handler *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateProject")
	defer scope.End()

	req := dto.CreateProjectRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create project")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Project " + res.Slug + " created by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// UpdateProject replaces the supplied fields of a project.
// @Summary Update a project
// @Tags Gallery
// @Accept json
// @Produce json
// @Param key path int true "Project ID"
// @Param request body dto.UpdateProjectRequest true "Update Project Request"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/gallery/{key} [put]
// @Security BearerAuth
func (handler *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProject")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamKey))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.UpdateProjectRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to update project")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteProject removes a project. Stored images are left in place.
// @Summary Delete a project
// @Tags Gallery
// @Produce json
// @Param key path int true "Project ID"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/gallery/{key} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteProject")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamKey))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Delete(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to delete project")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Project " + res.Slug + " deleted by user " + user)

	response.WithMessage(w, http.StatusOK, "Project deleted successfully")
}

// LikeProject bumps the like counter.
// @Summary Like a project
// @Tags Gallery
// @Produce json
// @Param key path int true "Project ID"
// @Success 200 {object} dto.LikeResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/gallery/{key}/like [post]
func (handler *Handler) LikeProject(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".LikeProject")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamKey))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Like(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to like project")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
