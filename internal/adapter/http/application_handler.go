package http

import (
	"net/http"
	"time"

	"club-event-approval/internal/adapter/middleware"
	"club-event-approval/internal/domain/apperr"
	appuc "club-event-approval/internal/usecase/application"

	"github.com/labstack/echo/v4"
)

type ApplicationHandler struct{ uc *appuc.Usecase }

func NewApplicationHandler(uc *appuc.Usecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

type locationReq struct {
	Faculty string `json:"faculty" validate:"required"`
	Detail  string `json:"detail"`
}

type documentReq struct {
	Type    string `json:"type"     validate:"notblank"`
	FileRef string `json:"file_ref" validate:"notblank"`
}

type submitApplicationReq struct {
	ClubID              *string       `json:"club_id"`
	ClubName            string        `json:"club_name"`
	EventName           string        `json:"event_name"           validate:"required"`
	EventLocation       locationReq   `json:"event_location"`
	StartTime           time.Time     `json:"start_time"           validate:"required"`
	EndTime             time.Time     `json:"end_time"             validate:"required,gtfield=StartTime"`
	Description         string        `json:"description"          validate:"required"`
	Sponsors            *string       `json:"sponsors"`
	Speakers            *string       `json:"speakers"`
	SupportingDocuments []string      `json:"supporting_documents" validate:"dive,notblank"`
	AdditionalDocuments []documentReq `json:"additional_documents" validate:"dive"`
}

type verdictReq struct {
	Index    *int  `json:"index"    validate:"required,gte=0"`
	Approved *bool `json:"approved" validate:"required"`
}

type decisionReq struct {
	Approved *bool `json:"approved" validate:"required"`
	// Identifies the decision; resending the same value is a no-op.
	Timestamp time.Time    `json:"timestamp" validate:"required"`
	Note      string       `json:"note"`
	Documents []verdictReq `json:"documents" validate:"dive"`
}

type reviseReq struct {
	EventName           *string       `json:"event_name"`
	EventLocation       *locationReq  `json:"event_location"`
	StartTime           *time.Time    `json:"start_time"`
	EndTime             *time.Time    `json:"end_time"`
	Description         *string       `json:"description"`
	Sponsors            *string       `json:"sponsors"`
	Speakers            *string       `json:"speakers"`
	SupportingDocuments []string      `json:"supporting_documents"`
	AdditionalDocuments []documentReq `json:"additional_documents"`
}

func (h *ApplicationHandler) Submit(c echo.Context) error {
	var req submitApplicationReq
	if ok, err := bindBody(c, &req); !ok {
		return err
	}
	in := appuc.SubmitInput{
		ClubID:              req.ClubID,
		ClubName:            req.ClubName,
		EventName:           req.EventName,
		Location:            appuc.LocationInput(req.EventLocation),
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		Description:         req.Description,
		Sponsors:            req.Sponsors,
		Speakers:            req.Speakers,
		SupportingDocuments: req.SupportingDocuments,
		AdditionalDocuments: documentInputs(req.AdditionalDocuments),
	}
	// report the draft rules alongside the tag failures in one response
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, ToFieldErrors(err), apperr.Fields(in.Validate()))
	}
	dto, err := h.uc.Submit(c.Request().Context(), middleware.IdentityFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ApplicationHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) List(c echo.Context) error {
	var in appuc.ListInput
	if err := echo.QueryParamsBinder(c).
		String("club_id", &in.ClubID).
		String("status", &in.Status).
		Int("limit", &in.Limit).
		BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query parameters", Code: "bad_request"})
	}
	out, err := h.uc.List(c.Request().Context(), middleware.IdentityFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": out, "count": len(out)})
}

func (h *ApplicationHandler) AdvisorDecision(c echo.Context) error {
	in, ok, err := bindDecision(c)
	if !ok {
		return err
	}
	res, err := h.uc.RecordAdvisorDecision(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ApplicationHandler) SksDecision(c echo.Context) error {
	in, ok, err := bindDecision(c)
	if !ok {
		return err
	}
	res, err := h.uc.RecordSksDecision(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ApplicationHandler) Revise(c echo.Context) error {
	// the merged draft is validated as a whole once the original is loaded
	var req reviseReq
	if ok, err := bindBody(c, &req); !ok {
		return err
	}
	in := appuc.ReviseInput{
		EventName:           req.EventName,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		Description:         req.Description,
		Sponsors:            req.Sponsors,
		Speakers:            req.Speakers,
		SupportingDocuments: req.SupportingDocuments,
	}
	if req.EventLocation != nil {
		loc := appuc.LocationInput(*req.EventLocation)
		in.Location = &loc
	}
	if req.AdditionalDocuments != nil {
		in.AdditionalDocuments = documentInputs(req.AdditionalDocuments)
	}
	dto, err := h.uc.Revise(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func bindDecision(c echo.Context) (appuc.DecisionInput, bool, error) {
	var req decisionReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return appuc.DecisionInput{}, false, err
	}
	in := appuc.DecisionInput{Approved: *req.Approved, Timestamp: req.Timestamp, Note: req.Note}
	for _, v := range req.Documents {
		in.Documents = append(in.Documents, appuc.DocumentVerdictInput{Index: *v.Index, Approved: *v.Approved})
	}
	return in, true, nil
}

func documentInputs(in []documentReq) []appuc.DocumentInput {
	out := make([]appuc.DocumentInput, 0, len(in))
	for _, d := range in {
		out = append(out, appuc.DocumentInput(d))
	}
	return out
}
