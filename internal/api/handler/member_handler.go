package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/platform/internal/api/metrics"
	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

// MemberHandler handles HTTP requests for community members.
type MemberHandler struct {
	service ports.MemberService
}

func NewMemberHandler(service ports.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

type memberSignupRequest struct {
	Name       string `json:"name"  validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	Occupation string `json:"occupation"`
	Motivation string `json:"motivation"`
}

type updateMemberRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active inactive"`
	Notes  string `json:"notes"`
}

// Signup handles POST /api/members, the public membership form.
//
// @Summary      Community member signup
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        body  body      memberSignupRequest  true  "Signup details"
// @Success      201   {object}  response
// @Failure      400   {object}  response
// @Failure      409   {object}  response
// @Router       /api/members [post]
func (h *MemberHandler) Signup(c echo.Context) error {
	var req memberSignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	member, err := h.service.Signup(c.Request().Context(), ports.MemberSignupInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		City:       req.City,
		Occupation: req.Occupation,
		Motivation: req.Motivation,
	})
	if err != nil {
		return err
	}
	metrics.SubmissionsTotal.WithLabelValues("members").Inc()

	return respond(c, http.StatusCreated, member)
}

// List handles GET /api/members.
//
// @Summary      List community members
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /api/members [get]
func (h *MemberHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), bindListFilter(c))
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, page.Items, page.Pagination)
}

// Get handles GET /api/members/:id.
//
// @Summary      Get a community member
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Member ID"
// @Success      200  {object}  response
// @Failure      404  {object}  response
// @Router       /api/members/{id} [get]
func (h *MemberHandler) Get(c echo.Context) error {
	member, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, member)
}

// Update handles PUT /api/members/:id.
//
// @Summary      Update a member's status
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Member ID"
// @Param        body  body      updateMemberRequest  true  "New status and notes"
// @Success      200   {object}  response
// @Failure      404   {object}  response
// @Router       /api/members/{id} [put]
func (h *MemberHandler) Update(c echo.Context) error {
	var req updateMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	member, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), domain.MemberStatus(req.Status), req.Notes)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, member)
}

// Delete handles DELETE /api/members/:id.
//
// @Summary      Delete a community member
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Member ID"
// @Success      200  {object}  response
// @Failure      404  {object}  response
// @Router       /api/members/{id} [delete]
func (h *MemberHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "member deleted")
}

// Stats handles GET /api/members/stats.
//
// @Summary      Member status counts
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /api/members/stats [get]
func (h *MemberHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, stats)
}
