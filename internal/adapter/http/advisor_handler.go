package http

import (
	"net/http"

	advuc "club-event-approval/internal/usecase/advisor"

	"github.com/labstack/echo/v4"
)

type AdvisorHandler struct{ uc *advuc.Usecase }

func NewAdvisorHandler(uc *advuc.Usecase) *AdvisorHandler { return &AdvisorHandler{uc: uc} }

type addAdvisorReq struct {
	AdvisorID          string `json:"advisor_id"           validate:"notblank"`
	RequestPetitionRef string `json:"request_petition_ref" validate:"notblank"`
}

type terminateReq struct {
	TerminationPetitionRef string `json:"termination_petition_ref" validate:"notblank"`
}

func (h *AdvisorHandler) Add(c echo.Context) error {
	var req addAdvisorReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.AddAdvisor(c.Request().Context(), advuc.AddAdvisorInput{
		ClubID:             c.Param("club_id"),
		AdvisorID:          req.AdvisorID,
		RequestPetitionRef: req.RequestPetitionRef,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AdvisorHandler) Remove(c echo.Context) error {
	var req terminateReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.RemoveAdvisor(c.Request().Context(), advuc.RemoveAdvisorInput{
		ClubID:                 c.Param("club_id"),
		AssignmentID:           c.Param("assignment_id"),
		TerminationPetitionRef: req.TerminationPetitionRef,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdvisorHandler) Active(c echo.Context) error {
	dto, err := h.uc.ActiveAdvisors(c.Request().Context(), c.Param("club_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdvisorHandler) History(c echo.Context) error {
	out, err := h.uc.History(c.Request().Context(), c.Param("club_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": out, "count": len(out)})
}
