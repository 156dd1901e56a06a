package dto

import (
	"vprime/internal/domains/testimonial/model"
	"vprime/shared"
	gDto "vprime/shared/dto"
	gModel "vprime/shared/model"
	"vprime/shared/timezone"
)

type CreateTestimonialRequest struct {
	ClientName     string `json:"client_name"`
	CarModel       string `json:"car_model"`
	ReviewImageURL string `json:"review_image_url" validate:"notblank"`
}

func (c *CreateTestimonialRequest) ToModel(user string) model.Testimonial {
	now := timezone.Now()

	return model.Testimonial{
		ClientName:     c.ClientName,
		CarModel:       c.CarModel,
		ReviewImageURL: c.ReviewImageURL,
		Metadata:       gModel.NewMetadata(user, now),
	}
}

type TestimonialResponse struct {
	ID             int64  `json:"id"`
	ClientName     string `json:"client_name"`
	CarModel       string `json:"car_model"`
	ReviewImageURL string `json:"review_image_url"`
	gDto.Metadata
}

func (r *TestimonialResponse) FromModel(model model.Testimonial) {
	r.ID = model.ID
	r.ClientName = model.ClientName
	r.CarModel = model.CarModel
	r.ReviewImageURL = model.ReviewImageURL
	r.Metadata.FromModel(model.Metadata)
}

type ListTestimonialsResponse struct {
	Testimonials []TestimonialResponse `json:"testimonials"`
	Total        int                   `json:"total"`
	Page         int                   `json:"page"`
	TotalPages   int                   `json:"totalPages"`
}

func (r *ListTestimonialsResponse) FromModels(models []model.Testimonial, total int, params gDto.QueryParams) {
	r.Total = total
	r.Page = params.Page
	r.TotalPages = shared.CalculateTotalPage(total, params.Limit)

	r.Testimonials = make([]TestimonialResponse, len(models))
	for i, m := range models {
		r.Testimonials[i].FromModel(m)
	}
}

// DeletedEvent carries the review image left behind in the object store.
type DeletedEvent struct {
	ID             int64  `json:"id"`
	ReviewImageURL string `json:"review_image_url"`
	DeletedBy      string `json:"deleted_by"`
}
