package http

import (
	"net/http"

	"obras-backend/internal/usecase/company"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type CompanyHandler struct {
	uc  *company.Usecase
	log *logrus.Logger
}

func NewCompanyHandler(uc *company.Usecase, log *logrus.Logger) *CompanyHandler {
	return &CompanyHandler{uc: uc, log: log}
}

type createCompanyReq struct {
	Kind                string   `json:"kind"                  validate:"required,oneof=general_contractor subcontractor"`
	Name                string   `json:"name"                  validate:"required"`
	ServedContractorIDs []string `json:"served_contractor_ids" validate:"omitempty,dive,hex32"`
}

type listCompaniesReq struct {
	Kind string `query:"kind" validate:"omitempty,oneof=general_contractor subcontractor"`
}

func (h *CompanyHandler) Create(c echo.Context) error {
	var req createCompanyReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), company.CreateCompanyInput(req))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *CompanyHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("company_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CompanyHandler) List(c echo.Context) error {
	var req listCompaniesReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	out, err := h.uc.List(c.Request().Context(), req.Kind)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
