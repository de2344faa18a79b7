package domain

// DefaultLanguage is used when a location request carries no lang parameter.
const DefaultLanguage = "en"

type Region struct {
	Code string
	Name string
}

type Department struct {
	Code   string
	Name   string
	Region string
}

type Town struct {
	Code       string
	Name       string
	Department string
}

// TownInfo is a town joined with its department and region.
type TownInfo struct {
	Town
	DepartmentName string
	RegionCode     string
	RegionName     string
}

// DescriptionKey identifies one cached description.
type DescriptionKey struct {
	TownCode   string
	Department string
	Language   string
}

type Image struct {
	Title        string
	URL          string
	ThumbnailURL string
	PageURL      string
}
