package models

// SearchQuery binds the ?search= parameter shared by the search endpoints.
type SearchQuery struct {
	Search string `form:"search"`
}

// ReportQuery binds the year and month of the report endpoints.
type ReportQuery struct {
	Year  int `form:"anio"`
	Month int `form:"mes"`
}
