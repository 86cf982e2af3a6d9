package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

// EventHandler handles HTTP requests for events, both the back office and the
// public published-events endpoints.
type EventHandler struct {
	service ports.EventService
}

func NewEventHandler(service ports.EventService) *EventHandler {
	return &EventHandler{service: service}
}

type eventRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
	Location    string `json:"location"    validate:"required"`
	StartsAt    string `json:"startsAt"    validate:"required"`
	EndsAt      string `json:"endsAt"      validate:"required"`
	Capacity    int    `json:"capacity"    validate:"gte=0"`
}

type changeEventStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published cancelled completed"`
}

func (r eventRequest) toInput() ports.EventInput {
	return ports.EventInput{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		Capacity:    r.Capacity,
	}
}

// Create handles POST /api/events.
//
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      eventRequest  true  "Event details"
// @Success      201   {object}  response
// @Failure      400   {object}  response
// @Router       /api/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, event)
}

// List handles GET /api/events.
//
// @Summary      List events
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /api/events [get]
func (h *EventHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), bindListFilter(c))
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, page.Items, page.Pagination)
}

// Get handles GET /api/events/:id.
//
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  response
// @Failure      404  {object}  response
// @Router       /api/events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	event, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, event)
}

// Update handles PUT /api/events/:id.
//
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Event ID"
// @Param        body  body      eventRequest  true  "Event details"
// @Success      200   {object}  response
// @Failure      404   {object}  response
// @Router       /api/events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, event)
}

// ChangeStatus handles PUT /api/events/:id/status. Illegal transitions come
// back as 422.
//
// @Summary      Change an event's lifecycle status
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Event ID"
// @Param        body  body      changeEventStatusRequest  true  "Target status"
// @Success      200   {object}  response
// @Failure      404   {object}  response
// @Failure      422   {object}  response
// @Router       /api/events/{id}/status [put]
func (h *EventHandler) ChangeStatus(c echo.Context) error {
	var req changeEventStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.service.ChangeStatus(c.Request().Context(), c.Param("id"), domain.EventStatus(req.Status))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, event)
}

// Delete handles DELETE /api/events/:id.
//
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  response
// @Failure      404  {object}  response
// @Router       /api/events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "event deleted")
}

// Stats handles GET /api/events/stats.
//
// @Summary      Event status counts
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /api/events/stats [get]
func (h *EventHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats)
}

// PublicList handles GET /api/events/published: published events only, no
// authentication.
//
// @Summary      List published events
// @Tags         events
// @Produce      json
// @Success      200  {object}  response
// @Router       /api/events/published [get]
func (h *EventHandler) PublicList(c echo.Context) error {
	page, err := h.service.ListPublished(c.Request().Context(), bindListFilter(c))
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, page.Items, page.Pagination)
}

// PublicGet handles GET /api/events/published/:slug.
//
// @Summary      Get a published event by slug
// @Tags         events
// @Produce      json
// @Param        slug  path      string  true  "Event slug"
// @Success      200   {object}  response
// @Failure      404   {object}  response
// @Router       /api/events/published/{slug} [get]
func (h *EventHandler) PublicGet(c echo.Context) error {
	event, err := h.service.GetPublished(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, event)
}
