package http

import (
	"net/http"

	"obras-backend/internal/usecase/resource"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ResourceHandler struct {
	uc  *resource.Usecase
	log *logrus.Logger
}

func NewResourceHandler(uc *resource.Usecase, log *logrus.Logger) *ResourceHandler {
	return &ResourceHandler{uc: uc, log: log}
}

type createWorkerReq struct {
	SubcontractorID string `json:"subcontractor_id" validate:"required,hex32"`
	Name            string `json:"name"             validate:"required"`
	AccessCode      string `json:"access_code"      validate:"required"`
	Category        string `json:"category"         validate:"omitempty,category"`
	ProjectID       string `json:"project_id"       validate:"omitempty,hex32"`
}

type createMachineryReq struct {
	SubcontractorID string `json:"subcontractor_id" validate:"required,hex32"`
	Name            string `json:"name"             validate:"required"`
	Reference       string `json:"reference"`
	ProjectID       string `json:"project_id"       validate:"omitempty,hex32"`
}

type assignReq struct {
	ProjectID   string   `param:"project_id" json:"-" validate:"required,hex32"`
	Kind        string   `json:"kind"         validate:"required,kind"`
	ResourceIDs []string `json:"resource_ids" validate:"required,min=1,dive,hex32"`
}

// CreateWorker answers 201 for a new worker and 200 when the access code
// already belonged to one in the roster.
func (h *ResourceHandler) CreateWorker(c echo.Context) error {
	var req createWorkerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	res, err := h.uc.CreateWorker(c.Request().Context(), resource.CreateWorkerInput(req))
	if err != nil {
		return respondError(c, h.log, err)
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	return c.JSON(status, res)
}

func (h *ResourceHandler) CreateMachinery(c echo.Context) error {
	var req createMachineryReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.CreateMachinery(c.Request().Context(), resource.CreateMachineryInput(req))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ResourceHandler) Assign(c echo.Context) error {
	var req assignReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if err := h.uc.Assign(c.Request().Context(), resource.AssignInput(req)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ResourceHandler) Unassign(c echo.Context) error {
	err := h.uc.Unassign(c.Request().Context(), c.Param("project_id"), c.Param("resource_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ResourceHandler) ListProjectWorkers(c echo.Context) error {
	out, err := h.uc.ListWorkersByProject(c.Request().Context(), c.Param("project_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ResourceHandler) ListProjectMachinery(c echo.Context) error {
	out, err := h.uc.ListMachineryByProject(c.Request().Context(), c.Param("project_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ResourceHandler) ListRosterWorkers(c echo.Context) error {
	out, err := h.uc.ListWorkersBySubcontractor(c.Request().Context(), c.Param("company_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ResourceHandler) ListRosterMachinery(c echo.Context) error {
	out, err := h.uc.ListMachineryBySubcontractor(c.Request().Context(), c.Param("company_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ResourceHandler) RemoveWorker(c echo.Context) error {
	if err := h.uc.RemoveWorker(c.Request().Context(), c.Param("worker_id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ResourceHandler) RemoveMachinery(c echo.Context) error {
	if err := h.uc.RemoveMachinery(c.Request().Context(), c.Param("machinery_id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
