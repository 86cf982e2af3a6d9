package main

import (
	"context"
	"fmt"

	"github.com/civicvoice/platform/pkg/client"
)

// resourceDescriptor parameterizes the shared list/get/set-status/delete
// screens so every resource reuses one implementation.
type resourceDescriptor struct {
	name     string
	statuses []string
	headers  []string

	list      func(ctx context.Context, p client.ListParams) ([][]string, client.PageInfo, error)
	get       func(ctx context.Context, id string) (interface{}, error)
	setStatus func(ctx context.Context, id, status, notes string) (interface{}, error)
	delete    func(ctx context.Context, id string) error
	stats     func(ctx context.Context) (*client.StatusCounts, error)
}

// describe adapts a typed resource module into a descriptor. row projects one
// record onto the table columns.
func describe[T any](name string, res client.Resource[T], statuses, headers []string, row func(*T) []string) resourceDescriptor {
	return resourceDescriptor{
		name:     name,
		statuses: statuses,
		headers:  headers,
		list: func(ctx context.Context, p client.ListParams) ([][]string, client.PageInfo, error) {
			page, err := res.List(ctx, p)
			if err != nil {
				return nil, client.PageInfo{}, err
			}
			rows := make([][]string, 0, len(page.Data))
			for i := range page.Data {
				rows = append(rows, row(&page.Data[i]))
			}
			return rows, page.Pagination, nil
		},
		get: func(ctx context.Context, id string) (interface{}, error) {
			return res.Get(ctx, id)
		},
		setStatus: func(ctx context.Context, id, status, notes string) (interface{}, error) {
			return res.Update(ctx, id, client.StatusUpdate{Status: status, Notes: notes})
		},
		delete: res.Delete,
		stats:  res.Stats,
	}
}

// descriptors builds the full resource table for one API instance.
func descriptors(api *client.API) map[string]resourceDescriptor {
	contacts := describe("contacts", api.Contacts,
		[]string{"new", "read", "replied", "archived"},
		[]string{"ID", "NAME", "EMAIL", "SUBJECT", "STATUS"},
		func(c *client.Contact) []string {
			return []string{c.ID, c.Name, c.Email, c.Subject, c.Status}
		})

	volunteers := describe("volunteers", api.Volunteers,
		[]string{"pending", "approved", "active", "inactive"},
		[]string{"ID", "NAME", "EMAIL", "CITY", "STATUS"},
		func(v *client.Volunteer) []string {
			return []string{v.ID, v.Name, v.Email, v.City, v.Status}
		})

	members := describe("members", api.Members,
		[]string{"pending", "active", "inactive"},
		[]string{"ID", "NAME", "EMAIL", "CITY", "STATUS"},
		func(m *client.Member) []string {
			return []string{m.ID, m.Name, m.Email, m.City, m.Status}
		})

	events := describe("events", api.Events.Resource,
		[]string{"draft", "published", "cancelled", "completed"},
		[]string{"ID", "TITLE", "STARTS", "LOCATION", "STATUS"},
		func(e *client.Event) []string {
			return []string{e.ID, e.Title, e.StartsAt.Format("2006-01-02 15:04"), e.Location, e.Status}
		})
	// Events transition through a dedicated endpoint, not the update body.
	events.setStatus = func(ctx context.Context, id, status, notes string) (interface{}, error) {
		if notes != "" {
			return nil, fmt.Errorf("events do not accept notes on status changes")
		}
		return api.Events.ChangeStatus(ctx, id, status)
	}

	subscribers := describe("subscribers", api.Newsletter.Subscribers,
		[]string{"subscribed", "unsubscribed"},
		[]string{"ID", "EMAIL", "NAME", "STATUS"},
		func(s *client.Subscriber) []string {
			return []string{s.ID, s.Email, s.Name, s.Status}
		})
	// Subscribers change status only through the public unsubscribe link.
	subscribers.setStatus = nil

	return map[string]resourceDescriptor{
		contacts.name:    contacts,
		volunteers.name:  volunteers,
		members.name:     members,
		events.name:      events,
		subscribers.name: subscribers,
	}
}
