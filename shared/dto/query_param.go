package dto

import (
	"net/http"
	"strconv"
	"strings"
	"vprime/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	Search  string `json:"search"   validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest populates QueryParams from the HTTP request.
//
//	q := &dto.QueryParams{}
//	q.FromRequest(req, cfg.App.Gallery.DefaultLimit)
//
// Page falls back to 1 and Limit to defaultLimit when they are missing or not positive.
// A defaultLimit of zero leaves missing values unset. The `sort` parameter accepts
// asc or desc in any case and is stored upper-cased in SortDir.
func (q *QueryParams) FromRequest(r *http.Request, defaultLimit int) {
	queryParams := r.URL.Query()

	if page := queryParams.Get(constant.RequestParamPage); page != "" {
		if pageInt, err := strconv.Atoi(page); err == nil && pageInt > 0 {
			q.Page = pageInt
		}
	}

	if limit := queryParams.Get(constant.RequestParamLimit); limit != "" {
		if limitInt, err := strconv.Atoi(limit); err == nil && limitInt > 0 {
			q.Limit = limitInt
		}
	}

	q.Search = strings.TrimSpace(queryParams.Get(constant.RequestParamSearch))

	if sortDir := strings.ToUpper(queryParams.Get(constant.RequestParamSort)); sortDir == SortDirAsc || sortDir == SortDirDesc {
		q.SortDir = sortDir
	}

	if defaultLimit > 0 {
		if q.Page == 0 {
			q.Page = constant.DefaultValuePage
		}

		if q.Limit == 0 {
			q.Limit = defaultLimit
		}
	}
}

// Offset returns the zero-based row offset of the requested page.
func (q QueryParams) Offset() int {
	if q.Page < 1 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}
