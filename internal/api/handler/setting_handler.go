package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/platform/internal/core/ports"
)

// SettingHandler handles site-settings requests. Admin only.
type SettingHandler struct {
	service ports.SettingService
}

func NewSettingHandler(service ports.SettingService) *SettingHandler {
	return &SettingHandler{service: service}
}

type setSettingRequest struct {
	Value string `json:"value" validate:"required"`
}

// List handles GET /api/settings.
//
// @Summary      List all settings
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response
// @Router       /api/settings [get]
func (h *SettingHandler) List(c echo.Context) error {
	settings, err := h.service.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, settings)
}

// Get handles GET /api/settings/:key.
//
// @Summary      Get a setting
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Param        key  path      string  true  "Setting key"
// @Success      200  {object}  response
// @Failure      404  {object}  response
// @Router       /api/settings/{key} [get]
func (h *SettingHandler) Get(c echo.Context) error {
	setting, err := h.service.Get(c.Request().Context(), c.Param("key"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, setting)
}

// Set handles PUT /api/settings/:key: create or overwrite.
//
// @Summary      Set a setting
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key   path      string             true  "Setting key"
// @Param        body  body      setSettingRequest  true  "New value"
// @Success      200   {object}  response
// @Router       /api/settings/{key} [put]
func (h *SettingHandler) Set(c echo.Context) error {
	var req setSettingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	setting, err := h.service.Set(c.Request().Context(), c.Param("key"), req.Value)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, setting)
}

// Delete handles DELETE /api/settings/:key.
//
// @Summary      Delete a setting
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Param        key  path      string  true  "Setting key"
// @Success      200  {object}  response
// @Failure      404  {object}  response
// @Router       /api/settings/{key} [delete]
func (h *SettingHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("key")); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "setting deleted")
}
