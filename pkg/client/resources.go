package client

import (
	"context"
	"net/url"
	"strconv"
)

// ListParams are the shared list-endpoint parameters. Zero-valued fields are
// omitted from the query string entirely.
type ListParams struct {
	Page    int
	Limit   int
	Status  string
	Search  string
	SortBy  string
	SortDir string
}

// Values serializes the set parameters.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Status != "" {
		v.Set("status", p.Status)
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.SortBy != "" {
		v.Set("sortBy", p.SortBy)
	}
	if p.SortDir != "" {
		v.Set("sortDir", p.SortDir)
	}
	return v
}

// StatusUpdate is the body of the shared status-transition endpoint.
type StatusUpdate struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// Resource is the generic typed façade over one CRUD resource. It adds no
// error handling: the wrapper's APIError passes straight through.
type Resource[T any] struct {
	c    *Client
	base string
}

func NewResource[T any](c *Client, base string) Resource[T] {
	return Resource[T]{c: c, base: base}
}

func (r Resource[T]) List(ctx context.Context, p ListParams) (*Page[T], error) {
	var out Page[T]
	if err := r.c.Get(ctx, r.base, p.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := r.c.Get(ctx, r.base+"/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Resource[T]) Create(ctx context.Context, body interface{}) (*T, error) {
	var out T
	if err := r.c.Post(ctx, r.base, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Resource[T]) Update(ctx context.Context, id string, body interface{}) (*T, error) {
	var out T
	if err := r.c.Put(ctx, r.base+"/"+id, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.Delete(ctx, r.base+"/"+id)
}

func (r Resource[T]) Stats(ctx context.Context) (*StatusCounts, error) {
	var out StatusCounts
	if err := r.c.Get(ctx, r.base+"/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EventsAPI extends the generic resource with the event lifecycle and the
// public published-events endpoints.
type EventsAPI struct {
	Resource[Event]
}

func NewEventsAPI(c *Client) *EventsAPI {
	return &EventsAPI{Resource: NewResource[Event](c, "/api/events")}
}

func (a *EventsAPI) ChangeStatus(ctx context.Context, id, status string) (*Event, error) {
	var out Event
	if err := a.c.Put(ctx, a.base+"/"+id+"/status", map[string]string{"status": status}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *EventsAPI) ListPublished(ctx context.Context, p ListParams) (*Page[Event], error) {
	var out Page[Event]
	if err := a.c.Get(ctx, a.base+"/published", p.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *EventsAPI) GetPublished(ctx context.Context, slug string) (*Event, error) {
	var out Event
	if err := a.c.Get(ctx, a.base+"/published/"+slug, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewsletterAPI covers subscriptions and campaigns.
type NewsletterAPI struct {
	c *Client

	// Subscribers is the back-office subscriber list; subscribers are
	// created through Subscribe, never through Create.
	Subscribers Resource[Subscriber]
}

func NewNewsletterAPI(c *Client) *NewsletterAPI {
	return &NewsletterAPI{
		c:           c,
		Subscribers: NewResource[Subscriber](c, "/api/newsletter/subscribers"),
	}
}

func (a *NewsletterAPI) Subscribe(ctx context.Context, email, name string) (*Subscriber, error) {
	body := map[string]string{"email": email, "name": name}
	var out Subscriber
	if err := a.c.Post(ctx, "/api/newsletter/subscribe", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *NewsletterAPI) Unsubscribe(ctx context.Context, token string) error {
	return a.c.Get(ctx, "/api/newsletter/unsubscribe/"+token, nil, nil)
}

func (a *NewsletterAPI) CreateCampaign(ctx context.Context, subject, bodyMarkdown string) (*Campaign, error) {
	body := map[string]string{"subject": subject, "body": bodyMarkdown}
	var out Campaign
	if err := a.c.Post(ctx, "/api/newsletter/campaigns", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *NewsletterAPI) ListCampaigns(ctx context.Context, p ListParams) (*Page[Campaign], error) {
	var out Page[Campaign]
	if err := a.c.Get(ctx, "/api/newsletter/campaigns", p.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *NewsletterAPI) GetCampaign(ctx context.Context, id string) (*Campaign, error) {
	var out Campaign
	if err := a.c.Get(ctx, "/api/newsletter/campaigns/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *NewsletterAPI) SendCampaign(ctx context.Context, id string) (*Campaign, error) {
	var out Campaign
	if err := a.c.Post(ctx, "/api/newsletter/campaigns/"+id+"/send", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SettingsAPI covers the admin-only site settings.
type SettingsAPI struct {
	c *Client
}

func NewSettingsAPI(c *Client) *SettingsAPI {
	return &SettingsAPI{c: c}
}

func (a *SettingsAPI) GetAll(ctx context.Context) ([]Setting, error) {
	var out []Setting
	if err := a.c.Get(ctx, "/api/settings", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *SettingsAPI) Get(ctx context.Context, key string) (*Setting, error) {
	var out Setting
	if err := a.c.Get(ctx, "/api/settings/"+key, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *SettingsAPI) Set(ctx context.Context, key, value string) (*Setting, error) {
	var out Setting
	if err := a.c.Put(ctx, "/api/settings/"+key, map[string]string{"value": value}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *SettingsAPI) Delete(ctx context.Context, key string) error {
	return a.c.Delete(ctx, "/api/settings/"+key)
}

// ReportsAPI covers the dashboard aggregates.
type ReportsAPI struct {
	c *Client
}

func NewReportsAPI(c *Client) *ReportsAPI {
	return &ReportsAPI{c: c}
}

func (a *ReportsAPI) Summary(ctx context.Context) (*SummaryReport, error) {
	var out SummaryReport
	if err := a.c.Get(ctx, "/api/reports/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// API groups every resource module over one Client.
type API struct {
	Auth       *AuthAPI
	Contacts   Resource[Contact]
	Volunteers Resource[Volunteer]
	Members    Resource[Member]
	Events     *EventsAPI
	Newsletter *NewsletterAPI
	Settings   *SettingsAPI
	Reports    *ReportsAPI
}

func NewAPI(c *Client) *API {
	return &API{
		Auth:       NewAuthAPI(c),
		Contacts:   NewResource[Contact](c, "/api/contacts"),
		Volunteers: NewResource[Volunteer](c, "/api/volunteers"),
		Members:    NewResource[Member](c, "/api/members"),
		Events:     NewEventsAPI(c),
		Newsletter: NewNewsletterAPI(c),
		Settings:   NewSettingsAPI(c),
		Reports:    NewReportsAPI(c),
	}
}
