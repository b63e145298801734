package http

import (
	"net/http"

	"obras-backend/internal/usecase/project"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ProjectHandler struct {
	uc  *project.Usecase
	log *logrus.Logger
}

func NewProjectHandler(uc *project.Usecase, log *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{uc: uc, log: log}
}

type createProjectReq struct {
	Name                string  `json:"name"                  validate:"required"`
	Address             string  `json:"address"`
	GeneralContractorID string  `json:"general_contractor_id" validate:"required,hex32"`
	SubcontractorID     string  `json:"subcontractor_id"      validate:"required,hex32"`
	StartDate           *string `json:"start_date"            validate:"omitempty,day"`
	EndDate             *string `json:"end_date"              validate:"omitempty,day"`
	ClientName          *string `json:"client_name"`
}

type updateProjectReq struct {
	ProjectID  string  `param:"project_id"  json:"-" validate:"required,hex32"`
	Name       string  `json:"name"         validate:"required"`
	Address    string  `json:"address"`
	StartDate  *string `json:"start_date"   validate:"omitempty,day"`
	EndDate    *string `json:"end_date"     validate:"omitempty,day"`
	ClientName *string `json:"client_name"`
}

type listProjectsReq struct {
	GeneralContractorID string `query:"general_contractor_id" validate:"omitempty,hex32"`
	SubcontractorID     string `query:"subcontractor_id"      validate:"omitempty,hex32"`
}

func (h *ProjectHandler) Create(c echo.Context) error {
	var req createProjectReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	var days dayParser
	start, end := days.optional("start_date", req.StartDate), days.optional("end_date", req.EndDate)
	if err := days.err(); err != nil {
		return respondError(c, h.log, err)
	}
	dto, err := h.uc.Create(c.Request().Context(), project.CreateProjectInput{
		Name:                req.Name,
		Address:             req.Address,
		GeneralContractorID: req.GeneralContractorID,
		SubcontractorID:     req.SubcontractorID,
		StartDate:           start,
		EndDate:             end,
		ClientName:          req.ClientName,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ProjectHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("project_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ProjectHandler) List(c echo.Context) error {
	var req listProjectsReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.List(c.Request().Context(), project.ListFilter(req))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateDetails edits name, address, dates and client. Owner companies are
// not part of the body.
func (h *ProjectHandler) UpdateDetails(c echo.Context) error {
	var req updateProjectReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	var days dayParser
	start, end := days.optional("start_date", req.StartDate), days.optional("end_date", req.EndDate)
	if err := days.err(); err != nil {
		return respondError(c, h.log, err)
	}
	dto, err := h.uc.UpdateDetails(c.Request().Context(), project.UpdateDetailsInput{
		ProjectID:  req.ProjectID,
		Name:       req.Name,
		Address:    req.Address,
		StartDate:  start,
		EndDate:    end,
		ClientName: req.ClientName,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
