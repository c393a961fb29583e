package echo

import e "github.com/labstack/echo/v4"

type Handlers struct {
	Imports   *ImportHandler
	Companies *CompanyHandler
	Roster    *RosterHandler
}

// RegisterRoutes mounts the authenticated API. uploadLimit guards the
// preview upload only; nil disables it.
func RegisterRoutes(server *e.Echo, h Handlers, uploadLimit e.MiddlewareFunc) {
	api := server.Group("/api/v1", Identity())

	api.GET("/roster", h.Roster.List)

	api.POST("/companies", h.Companies.Create)
	api.POST("/companies/bulk-import", h.Companies.BulkImport)

	imports := api.Group("/imports/companies")
	imports.GET("/template", h.Imports.Template)

	preview := []e.MiddlewareFunc{}
	if uploadLimit != nil {
		preview = append(preview, uploadLimit)
	}
	imports.POST("/preview", h.Imports.Preview, preview...)
	imports.GET("/preview/:id", h.Imports.PreviewPage)
	imports.POST("/preview/:id/submit", h.Imports.Submit)
	imports.GET("/preview/:id/result", h.Imports.Result)
	imports.DELETE("/preview/:id", h.Imports.Discard)
}
