package http

import (
	"net/http"

	"obras-backend/internal/usecase/report"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ReportHandler struct {
	uc  *report.Usecase
	log *logrus.Logger
}

func NewReportHandler(uc *report.Usecase, log *logrus.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// Hours accepts a JSON number or a decimal string.
type attendanceReq struct {
	WorkerID   string          `json:"worker_id"   validate:"required,hex32"`
	WorkerName string          `json:"worker_name"`
	Attended   bool            `json:"attended"`
	Hours      decimal.Decimal `json:"hours"`
}

type submitReportReq struct {
	ProjectID    string          `json:"project_id"    validate:"required,hex32"`
	SupervisorID string          `json:"supervisor_id" validate:"required,hex32"`
	Date         string          `json:"date"          validate:"omitempty,day"`
	Attendance   []attendanceReq `json:"attendance"    validate:"dive"`
	Comments     *string         `json:"comments"`
	PhotoRefs    []string        `json:"photo_refs"    validate:"omitempty,dive,required"`
}

type amendReportReq struct {
	ReportID   string          `param:"report_id" json:"-" validate:"required"`
	DelegateID string          `json:"delegate_id" validate:"required,hex32"`
	Attendance []attendanceReq `json:"attendance"  validate:"dive"`
}

type validateReportReq struct {
	ReportID string `param:"report_id" json:"-" validate:"required"`
	Stage    string `param:"stage"     json:"-" validate:"required,stage"`
}

type listReportsReq struct {
	ProjectID           string `query:"project_id"            validate:"omitempty,hex32"`
	SupervisorID        string `query:"supervisor_id"         validate:"omitempty,hex32"`
	SubcontractorID     string `query:"subcontractor_id"      validate:"omitempty,hex32"`
	GeneralContractorID string `query:"general_contractor_id" validate:"omitempty,hex32"`
	From                string `query:"from"                  validate:"omitempty,day"`
	To                  string `query:"to"                    validate:"omitempty,day"`
}

type latestReportReq struct {
	ProjectID string `param:"project_id" validate:"required,hex32"`
	Date      string `query:"date"       validate:"required,day"`
}

func toAttendanceInput(in []attendanceReq) []report.AttendanceInput {
	out := make([]report.AttendanceInput, len(in))
	for i, a := range in {
		out[i] = report.AttendanceInput(a)
	}
	return out
}

func (h *ReportHandler) Submit(c echo.Context) error {
	var req submitReportReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	var days dayParser
	day := days.optional("date", &req.Date)
	if err := days.err(); err != nil {
		return respondError(c, h.log, err)
	}
	dto, err := h.uc.Submit(c.Request().Context(), report.SubmitInput{
		ProjectID:    req.ProjectID,
		SupervisorID: req.SupervisorID,
		Day:          day,
		Attendance:   toAttendanceInput(req.Attendance),
		Comments:     req.Comments,
		PhotoRefs:    req.PhotoRefs,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ReportHandler) Amend(c echo.Context) error {
	var req amendReportReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Amend(c.Request().Context(), report.AmendInput{
		ReportID:   req.ReportID,
		DelegateID: req.DelegateID,
		Attendance: toAttendanceInput(req.Attendance),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ReportHandler) Validate(c echo.Context) error {
	var req validateReportReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Validate(c.Request().Context(), req.ReportID, req.Stage)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ReportHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("report_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ReportHandler) List(c echo.Context) error {
	var req listReportsReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	var days dayParser
	from, to := days.optional("from", &req.From), days.optional("to", &req.To)
	if err := days.err(); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.List(c.Request().Context(), report.ListFilter{
		ProjectID:           req.ProjectID,
		SupervisorID:        req.SupervisorID,
		SubcontractorID:     req.SubcontractorID,
		GeneralContractorID: req.GeneralContractorID,
		From:                from,
		To:                  to,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Latest returns the last report submitted for the project on that day.
func (h *ReportHandler) Latest(c echo.Context) error {
	var req latestReportReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	var days dayParser
	day := days.day("date", req.Date)
	if err := days.err(); err != nil {
		return respondError(c, h.log, err)
	}
	dto, err := h.uc.Latest(c.Request().Context(), req.ProjectID, day)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
