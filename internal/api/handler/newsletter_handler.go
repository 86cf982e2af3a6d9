package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/platform/internal/api/metrics"
	"github.com/civicvoice/platform/internal/core/ports"
)

// CacheInvalidator drops the cached list/stats projections of a resource.
// Mutations behind non-GET routes invalidate through the cache middleware;
// the handler needs this for the one mutation reached by GET, the
// unsubscribe link.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, resource string) error
}

// NewsletterHandler handles newsletter subscriptions and campaigns.
type NewsletterHandler struct {
	service ports.NewsletterService
	cache   CacheInvalidator
}

func NewNewsletterHandler(service ports.NewsletterService, cache CacheInvalidator) *NewsletterHandler {
	return &NewsletterHandler{service: service, cache: cache}
}

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

type campaignRequest struct {
	Subject      string `json:"subject" validate:"required"`
	BodyMarkdown string `json:"body"    validate:"required"`
}

// Subscribe handles POST /api/newsletter/subscribe, the public signup form.
// Resubscribing an unsubscribed address succeeds; an address that is already
// subscribed comes back as 409.
//
// @Summary      Subscribe to the newsletter
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Param        body  body      subscribeRequest  true  "Subscriber details"
// @Success      201   {object}  response
// @Failure      409   {object}  response
// @Router       /api/newsletter/subscribe [post]
func (h *NewsletterHandler) Subscribe(c echo.Context) error {
	var req subscribeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sub, err := h.service.Subscribe(c.Request().Context(), req.Email, req.Name)
	if err != nil {
		return err
	}
	metrics.SubmissionsTotal.WithLabelValues("subscribers").Inc()

	return respond(c, http.StatusCreated, sub)
}

// Unsubscribe handles GET /api/newsletter/unsubscribe/:token. A GET so the
// footer link in delivered mail works without a form.
//
// @Summary      Unsubscribe via emailed token
// @Tags         newsletter
// @Produce      json
// @Param        token  path      string  true  "Unsubscribe token"
// @Success      200    {object}  response
// @Failure      404    {object}  response
// @Router       /api/newsletter/unsubscribe/{token} [get]
func (h *NewsletterHandler) Unsubscribe(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.service.Unsubscribe(ctx, c.Param("token")); err != nil {
		return err
	}
	// A mutation behind a GET: the cache middleware's mutation branch never
	// sees it, so the subscriber projections are dropped here.
	_ = h.cache.Invalidate(ctx, "subscribers")
	return respondMessage(c, http.StatusOK, "you have been unsubscribed")
}

// ListSubscribers handles GET /api/newsletter/subscribers.
//
// @Summary      List subscribers
// @Tags         newsletter
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /api/newsletter/subscribers [get]
func (h *NewsletterHandler) ListSubscribers(c echo.Context) error {
	page, err := h.service.ListSubscribers(c.Request().Context(), bindListFilter(c))
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, page.Items, page.Pagination)
}

// GetSubscriber handles GET /api/newsletter/subscribers/:id.
//
// @Summary      Get a subscriber
// @Tags         newsletter
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Subscriber ID"
// @Success      200  {object}  response
// @Failure      404  {object}  response
// @Router       /api/newsletter/subscribers/{id} [get]
func (h *NewsletterHandler) GetSubscriber(c echo.Context) error {
	sub, err := h.service.GetSubscriber(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, sub)
}

// DeleteSubscriber handles DELETE /api/newsletter/subscribers/:id.
//
// @Summary      Delete a subscriber
// @Tags         newsletter
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Subscriber ID"
// @Success      200  {object}  response
// @Failure      404  {object}  response
// @Router       /api/newsletter/subscribers/{id} [delete]
func (h *NewsletterHandler) DeleteSubscriber(c echo.Context) error {
	if err := h.service.DeleteSubscriber(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "subscriber deleted")
}

// SubscriberStats handles GET /api/newsletter/subscribers/stats.
//
// @Summary      Subscriber status counts
// @Tags         newsletter
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /api/newsletter/subscribers/stats [get]
func (h *NewsletterHandler) SubscriberStats(c echo.Context) error {
	stats, err := h.service.SubscriberStats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats)
}

// CreateCampaign handles POST /api/newsletter/campaigns.
//
// @Summary      Create a campaign draft
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      campaignRequest  true  "Campaign subject and markdown body"
// @Success      201   {object}  response
// @Router       /api/newsletter/campaigns [post]
func (h *NewsletterHandler) CreateCampaign(c echo.Context) error {
	var req campaignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	campaign, err := h.service.CreateCampaign(c.Request().Context(), ports.CampaignInput{
		Subject:      req.Subject,
		BodyMarkdown: req.BodyMarkdown,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, campaign)
}

// ListCampaigns handles GET /api/newsletter/campaigns.
//
// @Summary      List campaigns
// @Tags         newsletter
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /api/newsletter/campaigns [get]
func (h *NewsletterHandler) ListCampaigns(c echo.Context) error {
	page, err := h.service.ListCampaigns(c.Request().Context(), bindListFilter(c))
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, page.Items, page.Pagination)
}

// GetCampaign handles GET /api/newsletter/campaigns/:id.
//
// @Summary      Get a campaign
// @Tags         newsletter
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Campaign ID"
// @Success      200  {object}  response
// @Failure      404  {object}  response
// @Router       /api/newsletter/campaigns/{id} [get]
func (h *NewsletterHandler) GetCampaign(c echo.Context) error {
	campaign, err := h.service.GetCampaign(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, campaign)
}

// SendCampaign handles POST /api/newsletter/campaigns/:id/send. Only draft
// campaigns can be sent; anything else comes back as 422.
//
// @Summary      Send a campaign to all subscribers
// @Tags         newsletter
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Campaign ID"
// @Success      200  {object}  response
// @Failure      404  {object}  response
// @Failure      422  {object}  response
// @Router       /api/newsletter/campaigns/{id}/send [post]
func (h *NewsletterHandler) SendCampaign(c echo.Context) error {
	campaign, err := h.service.SendCampaign(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, campaign)
}
