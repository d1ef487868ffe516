package http

import (
	"strings"

	"github.com/labstack/echo/v4"

	"coinlend-backend/internal/adapter/middleware"
)

// bindValid binds and validates req. When it reports false the 400/422
// response has already been written and the handler returns err as is.
func bindValid(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, badRequest(c, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		return false, validationFailed(c, err)
	}
	return true, nil
}

// param returns the trimmed path param and whether it was present.
func param(c echo.Context, name string) (string, bool) {
	v := strings.TrimSpace(c.Param(name))
	return v, v != ""
}

func missingParam(c echo.Context, name string) error {
	return badRequest(c, "missing "+name+" path param")
}

func caller(c echo.Context) string { return middleware.UserID(c) }
