package http

import (
	"bytes"
	"encoding/json"
	"strings"

	"club-event-approval/internal/adapter/middleware"
	"club-event-approval/internal/domain/access"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func as(c echo.Context, id access.Identity) echo.Context {
	middleware.SetIdentity(c, id)
	return c
}

var (
	adminCaller   = access.Identity{Subject: "admin-1", Role: access.RoleAdmin}
	advisorCaller = access.Identity{Subject: "adv-1", Role: access.RoleAdvisor}
	sksCaller     = access.Identity{Subject: "sks-1", Role: access.RoleSks}
	clubCaller    = access.Identity{Subject: "acct-chess", Role: access.RoleClub, ClubID: "club-chess"}
)
