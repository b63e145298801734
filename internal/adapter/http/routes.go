package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health    *Handler
	Companies *CompanyHandler
	Projects  *ProjectHandler
	Resources *ResourceHandler
	Reports   *ReportHandler
}

// Register mounts every route. Mutating routes go through mutate, the
// idempotency middleware in production.
func Register(e *echo.Echo, h Handlers, mutate ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	e.POST("/companies", h.Companies.Create, mutate...)
	e.GET("/companies", h.Companies.List)
	e.GET("/companies/:company_id", h.Companies.Get)

	e.POST("/projects", h.Projects.Create, mutate...)
	e.GET("/projects", h.Projects.List)
	e.GET("/projects/:project_id", h.Projects.Get)
	e.PATCH("/projects/:project_id", h.Projects.UpdateDetails, mutate...)
	e.GET("/projects/:project_id/reports/latest", h.Reports.Latest)
	e.POST("/projects/:project_id/resources", h.Resources.Assign, mutate...)
	e.DELETE("/projects/:project_id/resources/:resource_id", h.Resources.Unassign, mutate...)
	e.GET("/projects/:project_id/workers", h.Resources.ListProjectWorkers)
	e.GET("/projects/:project_id/machinery", h.Resources.ListProjectMachinery)

	e.POST("/workers", h.Resources.CreateWorker, mutate...)
	e.DELETE("/workers/:worker_id", h.Resources.RemoveWorker, mutate...)
	e.POST("/machinery", h.Resources.CreateMachinery, mutate...)
	e.DELETE("/machinery/:machinery_id", h.Resources.RemoveMachinery, mutate...)
	e.GET("/subcontractors/:company_id/workers", h.Resources.ListRosterWorkers)
	e.GET("/subcontractors/:company_id/machinery", h.Resources.ListRosterMachinery)

	e.POST("/reports", h.Reports.Submit, mutate...)
	e.GET("/reports", h.Reports.List)
	e.GET("/reports/:report_id", h.Reports.Get)
	e.PUT("/reports/:report_id/attendance", h.Reports.Amend, mutate...)
	e.POST("/reports/:report_id/validations/:stage", h.Reports.Validate, mutate...)
}
