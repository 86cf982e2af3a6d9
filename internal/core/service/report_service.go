package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/civicvoice/platform/internal/core/ports"
)

type reportService struct {
	contacts    ports.ContactRepository
	volunteers  ports.VolunteerRepository
	members     ports.MemberRepository
	events      ports.EventRepository
	subscribers ports.SubscriberRepository
}

// NewReportService returns a ReportService aggregating across all resources.
func NewReportService(
	contacts ports.ContactRepository,
	volunteers ports.VolunteerRepository,
	members ports.MemberRepository,
	events ports.EventRepository,
	subscribers ports.SubscriberRepository,
) ports.ReportService {
	return &reportService{
		contacts:    contacts,
		volunteers:  volunteers,
		members:     members,
		events:      events,
		subscribers: subscribers,
	}
}

// Summary gathers every resource's status counts concurrently; the five
// queries are independent.
func (s *reportService) Summary(ctx context.Context) (*ports.SummaryReport, error) {
	var report ports.SummaryReport
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		report.Contacts, err = s.contacts.CountByStatus(ctx)
		return err
	})
	g.Go(func() (err error) {
		report.Volunteers, err = s.volunteers.CountByStatus(ctx)
		return err
	})
	g.Go(func() (err error) {
		report.Members, err = s.members.CountByStatus(ctx)
		return err
	})
	g.Go(func() (err error) {
		report.Events, err = s.events.CountByStatus(ctx)
		return err
	})
	g.Go(func() (err error) {
		report.Subscribers, err = s.subscribers.CountByStatus(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &report, nil
}
