package dto

import (
	"net/url"
	"strings"

	"github.com/baechuer/france-explorer/internal/application/location"
	"github.com/baechuer/france-explorer/internal/domain"
)

type LocationQuery struct {
	Name string `query:"name" validate:"required,max=200"`
	Lang string `query:"lang" validate:"max=35"`
	Code string `query:"code" validate:"max=8"`
}

// LocationQueryFrom reads the query string. The department code is
// unescaped once more since some clients send it double-encoded.
func LocationQueryFrom(q url.Values) LocationQuery {
	code := strings.TrimSpace(q.Get("code"))
	if unescaped, err := url.PathUnescape(code); err == nil {
		code = unescaped
	}
	return LocationQuery{
		Name: q.Get("name"),
		Lang: strings.TrimSpace(q.Get("lang")),
		Code: code,
	}
}

func (q *LocationQuery) Validate() error {
	if strings.TrimSpace(q.Name) == "" {
		return domain.ErrMissingField("name")
	}
	return validateStruct(q)
}

type InvalidateQuery struct {
	TownCode   string `query:"town_code" validate:"required,max=16"`
	Department string `query:"department" validate:"required,max=8"`
}

func InvalidateQueryFrom(q url.Values) InvalidateQuery {
	return InvalidateQuery{
		TownCode:   strings.TrimSpace(q.Get("town_code")),
		Department: strings.TrimSpace(q.Get("department")),
	}
}

func (q *InvalidateQuery) Validate() error { return validateStruct(q) }

type Metadata struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Department     string `json:"department"`
	DepartmentName string `json:"department_name"`
	DepartmentCode string `json:"department_code"`
	RegionCode     string `json:"region_code"`
	RegionName     string `json:"region_name"`
}

type ImageView struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	PageURL      string `json:"page_url,omitempty"`
}

type LocationData struct {
	Description string      `json:"description"`
	Metadata    Metadata    `json:"metadata"`
	Images      []ImageView `json:"images"`
}

func NewLocationData(res location.LookupResult) LocationData {
	images := make([]ImageView, 0, len(res.Images))
	for _, img := range res.Images {
		images = append(images, ImageView{
			Title:        img.Title,
			URL:          img.URL,
			ThumbnailURL: img.ThumbnailURL,
			PageURL:      img.PageURL,
		})
	}

	return LocationData{
		Description: res.Description,
		Metadata: Metadata{
			Code:           res.Town.Code,
			Name:           res.Town.Name,
			Department:     res.Town.Department,
			DepartmentName: res.Town.DepartmentName,
			DepartmentCode: res.DepartmentCode,
			RegionCode:     res.Town.RegionCode,
			RegionName:     res.Town.RegionName,
		},
		Images: images,
	}
}

type InvalidateData struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}
