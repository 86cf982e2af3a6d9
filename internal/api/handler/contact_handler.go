package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/platform/internal/api/metrics"
	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

// ContactHandler handles HTTP requests for contact submissions.
type ContactHandler struct {
	service ports.ContactService
}

func NewContactHandler(service ports.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

type submitContactRequest struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type updateContactRequest struct {
	Status string `json:"status" validate:"required,oneof=new read replied archived"`
	Notes  string `json:"notes"`
}

// Submit handles POST /api/contacts, the public contact form.
//
// @Summary      Submit a contact message
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        body  body      submitContactRequest  true  "Contact message"
// @Success      201   {object}  response
// @Failure      400   {object}  response
// @Router       /api/contacts [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var req submitContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	contact, err := h.service.Submit(c.Request().Context(), ports.SubmitContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	metrics.SubmissionsTotal.WithLabelValues("contacts").Inc()

	return respond(c, http.StatusCreated, contact)
}

// List handles GET /api/contacts.
//
// @Summary      List contacts
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Param        status  query     string  false  "Status filter"
// @Param        search  query     string  false  "Free-text search"
// @Success      200     {object}  response
// @Router       /api/contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), bindListFilter(c))
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, page.Items, page.Pagination)
}

// Get handles GET /api/contacts/:id.
//
// @Summary      Get a contact
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  response
// @Failure      404  {object}  response
// @Router       /api/contacts/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	contact, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, contact)
}

// Update handles PUT /api/contacts/:id: status transitions plus notes.
//
// @Summary      Update a contact's status
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Contact ID"
// @Param        body  body      updateContactRequest  true  "New status and notes"
// @Success      200   {object}  response
// @Failure      404   {object}  response
// @Failure      422   {object}  response
// @Router       /api/contacts/{id} [put]
func (h *ContactHandler) Update(c echo.Context) error {
	var req updateContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	contact, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), domain.ContactStatus(req.Status), req.Notes)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, contact)
}

// Delete handles DELETE /api/contacts/:id.
//
// @Summary      Delete a contact
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  response
// @Failure      404  {object}  response
// @Router       /api/contacts/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "contact deleted")
}

// Stats handles GET /api/contacts/stats.
//
// @Summary      Contact status counts
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /api/contacts/stats [get]
func (h *ContactHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats)
}
