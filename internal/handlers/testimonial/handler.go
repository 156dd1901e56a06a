package testimonial

import (
	"net/http"
	"vprime/infras/otel"
	"vprime/internal/domains/testimonial/model/dto"
	"vprime/internal/domains/testimonial/service"
	"vprime/shared"
	"vprime/shared/constant"
	gDto "vprime/shared/dto"
	"vprime/shared/validator"
	"vprime/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Testimonial
	otel    otel.Otel
}

func New(service service.Testimonial, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/testimonials", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.ListTestimonials)
		routerGroup.Post("/", handler.CreateTestimonial)
		routerGroup.Delete("/{key}", handler.DeleteTestimonial)
	})
}

// ListTestimonials lists testimonials, newest first.
// @Summary List testimonials
// @Tags Testimonial
// @Produce json
// @Param page query int false "Page number, 1-indexed"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.ListTestimonialsResponse
// @Failure 500 {object} response.Error
// @Router /api/testimonials [get]
func (handler *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListTestimonials")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, 0)

	res, err := handler.service.List(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list testimonials")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreateTestimonial stores a client review.
// @Summary Create a testimonial
// @Tags Testimonial
// @Accept json
// @Produce json
// @Param request body dto.CreateTestimonialRequest true "Create Testimonial Request"
// @Success 201 {object} dto.TestimonialResponse
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/testimonials [post]
// @Security BearerAuth
func (handler *Handler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTestimonial")
	defer scope.End()

	req := dto.CreateTestimonialRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create testimonial")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// DeleteTestimonial removes a testimonial.
// @Summary Delete a testimonial
// @Tags Testimonial
// @Produce json
// @Param key path int true "Testimonial ID"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/testimonials/{key} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTestimonial")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamKey))
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if _, err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to delete testimonial")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Testimonial deleted by user " + user)

	response.WithMessage(w, http.StatusOK, "Testimonial deleted successfully")
}
