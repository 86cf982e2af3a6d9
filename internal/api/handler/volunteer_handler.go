package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/platform/internal/api/metrics"
	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

// VolunteerHandler handles HTTP requests for volunteer applications.
type VolunteerHandler struct {
	service ports.VolunteerService
}

func NewVolunteerHandler(service ports.VolunteerService) *VolunteerHandler {
	return &VolunteerHandler{service: service}
}

type volunteerSignupRequest struct {
	Name         string   `json:"name"  validate:"required"`
	Email        string   `json:"email" validate:"required,email"`
	Phone        string   `json:"phone"`
	City         string   `json:"city"`
	Interests    []string `json:"interests"`
	Availability string   `json:"availability"`
}

type updateVolunteerRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved active inactive"`
	Notes  string `json:"notes"`
}

// Signup handles POST /api/volunteers, the public volunteer form.
//
// @Summary      Volunteer signup
// @Tags         volunteers
// @Accept       json
// @Produce      json
// @Param        body  body      volunteerSignupRequest  true  "Signup details"
// @Success      201   {object}  response
// @Failure      400   {object}  response
// @Router       /api/volunteers [post]
func (h *VolunteerHandler) Signup(c echo.Context) error {
	var req volunteerSignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	volunteer, err := h.service.Signup(c.Request().Context(), ports.VolunteerSignupInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		City:         req.City,
		Interests:    req.Interests,
		Availability: req.Availability,
	})
	if err != nil {
		return err
	}
	metrics.SubmissionsTotal.WithLabelValues("volunteers").Inc()

	return respond(c, http.StatusCreated, volunteer)
}

// List handles GET /api/volunteers.
//
// @Summary      List volunteers
// @Tags         volunteers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /api/volunteers [get]
func (h *VolunteerHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), bindListFilter(c))
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, page.Items, page.Pagination)
}

// Get handles GET /api/volunteers/:id.
//
// @Summary      Get a volunteer
// @Tags         volunteers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Volunteer ID"
// @Success      200  {object}  response
// @Failure      404  {object}  response
// @Router       /api/volunteers/{id} [get]
func (h *VolunteerHandler) Get(c echo.Context) error {
	volunteer, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, volunteer)
}

// Update handles PUT /api/volunteers/:id.
//
// @Summary      Update a volunteer's status
// @Tags         volunteers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Volunteer ID"
// @Param        body  body      updateVolunteerRequest  true  "New status and notes"
// @Success      200   {object}  response
// @Failure      404   {object}  response
// @Router       /api/volunteers/{id} [put]
func (h *VolunteerHandler) Update(c echo.Context) error {
	var req updateVolunteerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	volunteer, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), domain.VolunteerStatus(req.Status), req.Notes)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, volunteer)
}

// Delete handles DELETE /api/volunteers/:id.
//
// @Summary      Delete a volunteer
// @Tags         volunteers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Volunteer ID"
// @Success      200  {object}  response
// @Failure      404  {object}  response
// @Router       /api/volunteers/{id} [delete]
func (h *VolunteerHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "volunteer deleted")
}

// Stats handles GET /api/volunteers/stats.
//
// @Summary      Volunteer status counts
// @Tags         volunteers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /api/volunteers/stats [get]
func (h *VolunteerHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats)
}
