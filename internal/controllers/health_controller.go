package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"renewalpulse/internal/rates"
	"renewalpulse/internal/services"
)

type HealthController struct {
	service   services.SubscriptionServiceInterface
	converter rates.ConverterInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Records       int     `json:"records"`
	DueSoon       int     `json:"due_soon"`
	RatesAge      string  `json:"rates_age,omitempty"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Records:       hc.service.Count(),
		DueSoon:       hc.service.CountDueSoon(),
	}
	if snap := hc.converter.Snapshot(); snap != nil {
		resp.RatesAge = formatDuration(time.Since(snap.FetchedAt))
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.SubscriptionServiceInterface, converter rates.ConverterInterface) *HealthController {
	return &HealthController{
		service:   service,
		converter: converter,
		startTime: time.Now(),
	}
}
