package internal

import (
	"net/http"

	"renewalpulse/internal/controllers"
	"renewalpulse/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController, exportController *controllers.ExportController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/list", http.HandlerFunc(apiController.List))
	routers.Get("/summary", http.HandlerFunc(apiController.Summary))
	routers.Post("/", http.HandlerFunc(apiController.Create))
	routers.Post("/update", http.HandlerFunc(apiController.Update))
	routers.Post("/delete", http.HandlerFunc(apiController.Delete))
	routers.Post("/toggle", http.HandlerFunc(apiController.Toggle))
	routers.Post("/renew", http.HandlerFunc(apiController.Renew))

	routers.Get("/rates", http.HandlerFunc(apiController.Rates))
	routers.Post("/rates/refresh", http.HandlerFunc(apiController.RefreshRates))

	routers.Post("/notify/test", http.HandlerFunc(apiController.NotifyTest))
	routers.Get("/notifications/log", http.HandlerFunc(apiController.NotificationLog))

	routers.Get("/export/csv", http.HandlerFunc(exportController.CSV))
	routers.Get("/export/ics", http.HandlerFunc(exportController.ICS))
	routers.Get("/export/xlsx", http.HandlerFunc(exportController.XLSX))
	routers.Post("/import/csv", http.HandlerFunc(exportController.ImportCSV))
	return routers
}
