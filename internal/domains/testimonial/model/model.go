package model

import "vprime/shared/model"

const (
	TableName  = "testimonials"
	EntityName = "testimonial"

	FieldID             = "id"
	FieldClientName     = "client_name"
	FieldCarModel       = "car_model"
	FieldReviewImageURL = "review_image_url"
)

type Testimonial struct {
	ID             int64  `db:"id"               insert:"-"`
	ClientName     string `db:"client_name"`
	CarModel       string `db:"car_model"`
	ReviewImageURL string `db:"review_image_url"`
	model.Metadata
}
