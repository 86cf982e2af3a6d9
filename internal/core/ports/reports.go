package ports

import "context"

// SummaryReport aggregates per-resource status counts into one back-office
// dashboard payload.
type SummaryReport struct {
	Contacts    *StatusCounts `json:"contacts"`
	Volunteers  *StatusCounts `json:"volunteers"`
	Members     *StatusCounts `json:"members"`
	Events      *StatusCounts `json:"events"`
	Subscribers *StatusCounts `json:"subscribers"`
}

// ReportService produces cross-resource aggregates.
type ReportService interface {
	Summary(ctx context.Context) (*SummaryReport, error)
}
