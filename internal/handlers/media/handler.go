package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"vprime/config"
	"vprime/infras/otel"
	"vprime/internal/domains/media/model"
	"vprime/internal/domains/media/model/dto"
	"vprime/internal/domains/media/processor"
	"vprime/internal/domains/media/service"
	"vprime/shared/constant"
	"vprime/shared/failure"
	"vprime/shared/validator"
	"vprime/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const bytesPerMB = 1 << 20

type Handler struct {
	service service.Media
	cfg     *config.Config
	otel    otel.Otel
}

func New(service service.Media, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service: service,
		cfg:     cfg,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/uploads", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.UploadImage)
		routerGroup.Post("/batch", handler.UploadImages)
	})
}

// UploadImage watermarks, compresses and stores one image.
// @Summary Upload an image
// @Description Runs the image through watermarking and WebP compression, then stores it.
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Param bucket query string false "Target bucket"
// @Success 200 {object} dto.UploadImageResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/uploads [post]
// @Security BearerAuth
func (handler *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImage")
	defer scope.End()

	req, err := handler.parseForm(w, r, constant.FormFile, 1)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse upload form")

		response.WithError(w, err)

		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	files, err := handler.readFiles(req.Images[:1])
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	url, err := handler.service.Process(ctx, req.Bucket, files[0])
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload image")

		response.WithError(w, err)

		return
	}

	res := dto.UploadImageResponse{}
	res.FromModel(url, req.Images[0].Filename)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Image uploaded successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// UploadImages runs the pipeline for several images concurrently.
// @Summary Upload images in batch
// @Description URLs are returned in the same order as the submitted files. Any failure fails the batch.
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Image files"
// @Param bucket query string false "Target bucket"
// @Success 200 {object} dto.UploadImagesResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/uploads/batch [post]
// @Security BearerAuth
func (handler *Handler) UploadImages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImages")
	defer scope.End()

	req, err := handler.parseForm(w, r, constant.FormFiles, handler.cfg.Media.MaxBatchFiles)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse upload form")

		response.WithError(w, err)

		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	files, err := handler.readFiles(req.Images)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	urls, err := handler.service.ProcessAll(ctx, req.Bucket, files)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int("files", len(files)).Msg("failed to upload images")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dto.UploadImagesResponse{URLs: urls})
}

// parseForm caps the body at maxFiles uploads of the configured size plus one megabyte of form overhead.
func (handler *Handler) parseForm(w http.ResponseWriter, r *http.Request, field string, maxFiles int) (dto.UploadImagesRequest, error) {
	req := dto.UploadImagesRequest{}

	if limit := handler.maxFileBytes(); limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit*int64(max(maxFiles, 1))+bytesPerMB)
	}

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, failure.New(http.StatusRequestEntityTooLarge, "upload exceeds the request size limit")
		}

		return req, failure.BadRequest(fmt.Errorf("failed to parse multipart form: %w", err))
	}

	req.Bucket = r.URL.Query().Get(constant.RequestParamBucket)
	req.Images = r.MultipartForm.File[field]

	if err := validator.ValidateStruct(&req); err != nil {
		return req, err
	}

	if maxFiles > 0 && len(req.Images) > maxFiles {
		return req, failure.BadRequestFromString(fmt.Sprintf("at most %d files can be uploaded at once", maxFiles))
	}

	return req, nil
}

func (handler *Handler) maxFileBytes() int64 {
	return handler.cfg.Media.MaxUploadMB * bytesPerMB
}

func (handler *Handler) readFiles(headers []*multipart.FileHeader) ([]model.File, error) {
	sizeRule := fmt.Sprintf("maxfilesize=%d", handler.cfg.Media.MaxUploadMB)
	limit := handler.maxFileBytes()
	files := make([]model.File, 0, len(headers))

	for _, header := range headers {
		if limit > 0 && header.Size > limit {
			return nil, failure.BadRequestFromString(header.Filename + " exceeds the upload size limit")
		}

		file, err := readFile(header, limit)
		if err != nil {
			return nil, err
		}

		if limit > 0 {
			if err := validator.ValidateVar(file.Data, sizeRule); err != nil {
				return nil, failure.BadRequestFromString(header.Filename + " exceeds the upload size limit")
			}
		}

		if err := validator.ValidateVar(file.ContentType, "mimetypes="+dto.AllowedContentTypes); err != nil {
			return nil, failure.BadRequestFromString(header.Filename + " is not a supported image")
		}

		files = append(files, file)
	}

	return files, nil
}

// readFile reads at most limit+1 bytes so an oversized part is caught without buffering all of it.
// A non-positive limit reads everything.
func readFile(header *multipart.FileHeader, limit int64) (model.File, error) {
	f, err := header.Open()
	if err != nil {
		return model.File{}, failure.BadRequest(fmt.Errorf("failed to open %s: %w", header.Filename, err))
	}
	defer f.Close()

	var src io.Reader = f
	if limit > 0 {
		src = io.LimitReader(f, limit+1)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return model.File{}, failure.BadRequest(fmt.Errorf("failed to read %s: %w", header.Filename, err))
	}

	return model.File{
		Name:        header.Filename,
		ContentType: processor.SniffContentType(data),
		Data:        data,
	}, nil
}
