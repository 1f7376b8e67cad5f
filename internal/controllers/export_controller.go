package controllers

import (
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"

	"renewalpulse/internal/export"
	"renewalpulse/internal/models"
	"renewalpulse/internal/providers"
	"renewalpulse/internal/rates"
	"renewalpulse/internal/services"
)

const maxImportSize = 10 << 20 // 10 MB

type ExportController struct {
	logger  providers.Logger
	service services.SubscriptionServiceInterface
	home    func() string
	stamp   *CacheStamp
}

func NewExportController(logger providers.Logger, service services.SubscriptionServiceInterface, converter rates.ConverterInterface, stamp *CacheStamp) *ExportController {
	return &ExportController{
		logger:  logger,
		service: service,
		home:    converter.Home,
		stamp:   stamp,
	}
}

func (ec *ExportController) CSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="subscriptions.csv"`)
	if err := export.WriteCSV(w, ec.service.Records()); err != nil {
		ec.logger.Errorf(providers.TypeApp, "CSV export failed: %s", err)
	}
}

func (ec *ExportController) ICS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="renewals.ics"`)
	// rolled-forward dates, so the calendar never starts an event in the past
	views := ec.service.List(services.ListQuery{}, models.Today())
	subs := make([]*models.Subscription, 0, len(views))
	for _, v := range views {
		sub := v.Subscription
		subs = append(subs, &sub)
	}
	if err := export.WriteICS(w, subs, "Renewals"); err != nil {
		ec.logger.Errorf(providers.TypeApp, "ICS export failed: %s", err)
	}
}

func (ec *ExportController) XLSX(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="subscriptions.xlsx"`)
	views := ec.service.List(services.ListQuery{}, models.Today())
	if err := export.WriteXLSX(w, views, ec.home()); err != nil {
		ec.logger.Errorf(providers.TypeApp, "XLSX export failed: %s", err)
	}
}

type importResponse struct {
	Imported int               `json:"imported"`
	Errors   []export.RowError `json:"errors"`
}

// ImportCSV accepts either a multipart form with a "file" field or the raw
// CSV as the request body. Rows that parse but fail validation join the
// per-line error report; valid rows are created regardless.
func (ec *ExportController) ImportCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	reader := r.Body
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		reader = file
	}

	rows, rowErrors, err := export.ReadCSV(reader)
	if err != nil {
		http.Error(w, fmt.Sprintf("Bad Request: %s", err), http.StatusBadRequest)
		return
	}

	resp := importResponse{Errors: rowErrors}
	if resp.Errors == nil {
		resp.Errors = []export.RowError{}
	}
	for _, row := range rows {
		if _, err := ec.service.Create(row.Input); err != nil {
			resp.Errors = append(resp.Errors, export.RowError{Line: row.Line, Reason: err.Error()})
			continue
		}
		resp.Imported++
	}
	if resp.Imported > 0 {
		ec.stamp.Bump()
	}
	ec.logger.Infof(providers.TypeApp, "CSV import: %d created, %d rejected", resp.Imported, len(resp.Errors))

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}
