package model

import (
	"vprime/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "projects"
	EntityName = "project"

	FieldID             = "id"
	FieldSlug           = "slug"
	FieldCarModel       = "car_model"
	FieldDescription    = "description"
	FieldBeforeImageURL = "before_image_url"
	FieldAfterImageURL  = "after_image_url"
	FieldProductionYear = "production_year"
	FieldExtraImages    = "extra_images"
	FieldLikes          = "likes"
)

// Project is a single before/after restoration published in the gallery.
type Project struct {
	ID             int64          `db:"id"               insert:"-"`
	Slug           string         `db:"slug"`
	CarModel       string         `db:"car_model"`
	Description    string         `db:"description"`
	BeforeImageURL string         `db:"before_image_url"`
	AfterImageURL  string         `db:"after_image_url"`
	ProductionYear string         `db:"production_year"`
	ExtraImages    pq.StringArray `db:"extra_images"`
	Likes          int64          `db:"likes"`
	model.Metadata
}

// ImageURLs lists every blob the project references, before and after first.
func (p *Project) ImageURLs() []string {
	urls := make([]string, 0, len(p.ExtraImages)+2)

	for _, u := range append([]string{p.BeforeImageURL, p.AfterImageURL}, p.ExtraImages...) {
		if u != "" {
			urls = append(urls, u)
		}
	}

	return urls
}
