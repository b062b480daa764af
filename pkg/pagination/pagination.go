package pagination

import "math"

const (
	DefaultRecordsPerPage = 10
	MaxRecordsPerPage     = 50

	// HeaderTotalSizeRecords carries the row count before page slicing.
	HeaderTotalSizeRecords = "totalSizeRecords"
)

// Params is the client supplied page request, bound from the query string.
type Params struct {
	Page           int `form:"page" json:"page"`
	RecordsPerPage int `form:"recordsPerPage" json:"recordsPerPage"`
}

// New returns normalized params.
func New(page, recordsPerPage int) Params {
	p := Params{Page: page, RecordsPerPage: recordsPerPage}
	p.Normalize()
	return p
}

// Normalize applies the default page size, the max page size clamp and
// the 1-based page floor. Page is capped so the offset fits in an int.
func (p *Params) Normalize() {
	if p.RecordsPerPage <= 0 {
		p.RecordsPerPage = DefaultRecordsPerPage
	}
	if p.RecordsPerPage > MaxRecordsPerPage {
		p.RecordsPerPage = MaxRecordsPerPage
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	if maxPage := math.MaxInt / p.RecordsPerPage; p.Page > maxPage {
		p.Page = maxPage
	}
}

// Limit is the effective page size.
func (p Params) Limit() uint {
	p.Normalize()
	return uint(p.RecordsPerPage)
}

// Offset is the number of rows skipped before the page starts.
func (p Params) Offset() uint {
	p.Normalize()
	return uint((p.Page - 1) * p.RecordsPerPage)
}
