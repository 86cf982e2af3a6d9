package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/platform/internal/core/ports"
)

// response is the envelope every endpoint returns: {success, message?, data?}.
type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// listEnvelope is the shape of every list endpoint's data payload.
type listEnvelope struct {
	Data       interface{}    `json:"data"`
	Pagination ports.PageInfo `json:"pagination"`
}

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, response{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, msg string) error {
	return c.JSON(status, response{Success: true, Message: msg})
}

func respondList(c echo.Context, status int, items interface{}, pg ports.PageInfo) error {
	return respond(c, status, listEnvelope{Data: items, Pagination: pg})
}

// bindListFilter reads the shared list query parameters. Unset parameters
// stay zero-valued; services apply defaults.
func bindListFilter(c echo.Context) ports.ListFilter {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return ports.ListFilter{
		Page:    page,
		Limit:   limit,
		Status:  c.QueryParam("status"),
		Search:  c.QueryParam("search"),
		SortBy:  c.QueryParam("sortBy"),
		SortDir: c.QueryParam("sortDir"),
	}
}
