package dto

import (
	"regexp"
	"strconv"
	"strings"
	"vprime/internal/domains/project/model"
	"vprime/shared"
	gDto "vprime/shared/dto"
	gModel "vprime/shared/model"
	"vprime/shared/timezone"

	"github.com/lib/pq"
)

var (
	whitespaceRun = regexp.MustCompile(`[\s\p{Zs}\x{FEFF}]+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9_-]+`)
	dashRun       = regexp.MustCompile(`-{2,}`)
)

// fallbackSlug stands in for a car model with nothing slug-safe in it.
const fallbackSlug = "project"

// Slugify lowercases and trims s, turns whitespace runs (unicode spaces included) into "-",
// drops anything outside [a-z0-9_-], collapses repeated dashes and trims them from both ends.
// The result may be empty.
func Slugify(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = dashRun.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}

// projectSlug is slugify(carModel)-millis, with a fixed stem when the car model slugifies to nothing.
func projectSlug(carModel string, millis int64) string {
	stem := Slugify(carModel)
	if stem == "" {
		stem = fallbackSlug
	}

	return stem + "-" + strconv.FormatInt(millis, 10)
}

type CreateProjectRequest struct {
	CarModel       string   `json:"car_model"        validate:"notblank"`
	Description    string   `json:"description"`
	BeforeImageURL string   `json:"before_image_url" validate:"notblank"`
	AfterImageURL  string   `json:"after_image_url"  validate:"notblank"`
	ProductionYear string   `json:"production_year"`
	ExtraImages    []string `json:"extra_images"     validate:"omitempty,dive,notblank"`
}

// ToModel builds the row to insert. The slug suffix is the creation instant in unix millis.
func (c *CreateProjectRequest) ToModel(user string) model.Project {
	now := timezone.Now()

	extraImages := pq.StringArray{}
	if len(c.ExtraImages) > 0 {
		extraImages = append(extraImages, c.ExtraImages...)
	}

	return model.Project{
		Slug:           projectSlug(c.CarModel, now.UnixMilli()),
		CarModel:       c.CarModel,
		Description:    c.Description,
		BeforeImageURL: c.BeforeImageURL,
		AfterImageURL:  c.AfterImageURL,
		ProductionYear: c.ProductionYear,
		ExtraImages:    extraImages,
		Metadata:       gModel.NewMetadata(user, now),
	}
}

// UpdateProjectRequest carries a partial update. Nil fields are left untouched.
// Slug, id, likes and created_at have no field here and can't be changed.
type UpdateProjectRequest struct {
	CarModel       *string         `db:"car_model"        json:"car_model"        validate:"omitempty,notblank"`
	Description    *string         `db:"description"      json:"description"`
	BeforeImageURL *string         `db:"before_image_url" json:"before_image_url" validate:"omitempty,notblank"`
	AfterImageURL  *string         `db:"after_image_url"  json:"after_image_url"  validate:"omitempty,notblank"`
	ProductionYear *string         `db:"production_year"  json:"production_year"`
	ExtraImages    *pq.StringArray `db:"extra_images"     json:"extra_images"     swaggertype:"array,string"`
}

type ProjectResponse struct {
	ID             int64    `json:"id"`
	Slug           string   `json:"slug"`
	CarModel       string   `json:"car_model"`
	Description    string   `json:"description"`
	BeforeImageURL string   `json:"before_image_url"`
	AfterImageURL  string   `json:"after_image_url"`
	ProductionYear string   `json:"production_year"`
	ExtraImages    []string `json:"extra_images"`
	Likes          int64    `json:"likes"`
	gDto.Metadata
}

func (r *ProjectResponse) FromModel(model model.Project) {
	r.ID = model.ID
	r.Slug = model.Slug
	r.CarModel = model.CarModel
	r.Description = model.Description
	r.BeforeImageURL = model.BeforeImageURL
	r.AfterImageURL = model.AfterImageURL
	r.ProductionYear = model.ProductionYear
	r.Likes = model.Likes
	r.Metadata.FromModel(model.Metadata)

	r.ExtraImages = []string{}
	if len(model.ExtraImages) > 0 {
		r.ExtraImages = append(r.ExtraImages, model.ExtraImages...)
	}
}

type ListProjectsResponse struct {
	Projects   []ProjectResponse `json:"projects"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}

func (r *ListProjectsResponse) FromModels(models []model.Project, total int, params gDto.QueryParams) {
	r.Total = total
	r.Page = params.Page
	r.TotalPages = shared.CalculateTotalPage(total, params.Limit)

	r.Projects = make([]ProjectResponse, len(models))
	for i, m := range models {
		r.Projects[i].FromModel(m)
	}
}

type LikeResponse struct {
	Likes int64 `json:"likes"`
}

// DeletedEvent is published after a project row is removed. Its blobs are left in the store.
type DeletedEvent struct {
	ID        int64    `json:"id"`
	Slug      string   `json:"slug"`
	ImageURLs []string `json:"image_urls"`
	DeletedBy string   `json:"deleted_by"`
}

type CreatedEvent struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	CarModel  string `json:"car_model"`
	CreatedAt string `json:"created_at"`
}
