package controllers

import (
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"renewalpulse/internal/models"
	"renewalpulse/internal/notify"
	"renewalpulse/internal/providers"
	"renewalpulse/internal/rates"
	"renewalpulse/internal/scheduler/interfaces"
	"renewalpulse/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const ratesCacheKey = "rates"

// CacheStamp versions the read cache: every mutation bumps the generation,
// which is baked into every read key, so stale entries simply age out of
// freecache instead of being deleted one by one.
type CacheStamp struct {
	gen atomic.Uint64
}

func NewCacheStamp() *CacheStamp {
	return &CacheStamp{}
}

func (cs *CacheStamp) Key(suffix string) string {
	return fmt.Sprintf("g%d:%s", cs.gen.Load(), suffix)
}

func (cs *CacheStamp) Bump() {
	cs.gen.Inc()
}

type ApiController struct {
	logger     providers.Logger
	service    services.SubscriptionServiceInterface
	converter  rates.ConverterInterface
	dispatcher notify.DispatcherInterface
	scheduler  interfaces.SchedulerInterface
	cache      providers.CacheProviderInterface
	stamp      *CacheStamp
}

func NewApiController(logger providers.Logger, service services.SubscriptionServiceInterface, converter rates.ConverterInterface, dispatcher notify.DispatcherInterface, scheduler interfaces.SchedulerInterface, cache providers.CacheProviderInterface, stamp *CacheStamp) *ApiController {
	return &ApiController{
		logger:     logger,
		service:    service,
		converter:  converter,
		dispatcher: dispatcher,
		scheduler:  scheduler,
		cache:      cache,
		stamp:      stamp,
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.fail(w, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// fail maps domain errors onto HTTP statuses; anything unrecognized is a 500.
func (ac *ApiController) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrVersionConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		ac.logger.Errorf(providers.TypeApp, "Request failed: %s", err)
	}
	ac.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func requestID(r *http.Request) (uuid.UUID, error) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: missing id", services.ErrInvalidInput)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad id %q", services.ErrInvalidInput, raw)
	}
	return id, nil
}

func listQuery(r *http.Request) services.ListQuery {
	q := r.URL.Query()
	return services.ListQuery{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
		Sort:     q.Get("sort"),
	}
}

func (ac *ApiController) List(w http.ResponseWriter, r *http.Request) {
	q := listQuery(r)
	key := ac.stamp.Key(fmt.Sprintf("list:%s:%s:%s:%s", q.Search, q.Category, q.Status, q.Sort))
	ac.serveFromCacheOrCompute(w, key, func() (any, error) {
		return ac.service.List(q, models.Today()), nil
	})
}

func (ac *ApiController) Summary(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, ac.stamp.Key("summary"), func() (any, error) {
		return ac.service.Summary(models.Today()), nil
	})
}

func (ac *ApiController) Create(w http.ResponseWriter, r *http.Request) {
	input, err := decodeInput(w, r)
	if err != nil {
		ac.fail(w, err)
		return
	}
	sub, err := ac.service.Create(input)
	if err != nil {
		ac.fail(w, err)
		return
	}
	ac.stamp.Bump()
	ac.writeJSON(w, http.StatusCreated, sub)
}

func (ac *ApiController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		ac.fail(w, err)
		return
	}
	input, err := decodeInput(w, r)
	if err != nil {
		ac.fail(w, err)
		return
	}
	sub, err := ac.service.Update(id, input)
	if err != nil {
		ac.fail(w, err)
		return
	}
	ac.stamp.Bump()
	ac.writeJSON(w, http.StatusOK, sub)
}

func (ac *ApiController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		ac.fail(w, err)
		return
	}
	if err := ac.service.Delete(id); err != nil {
		ac.fail(w, err)
		return
	}
	ac.stamp.Bump()
	ac.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (ac *ApiController) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		ac.fail(w, err)
		return
	}
	sub, err := ac.service.Toggle(id)
	if err != nil {
		ac.fail(w, err)
		return
	}
	ac.stamp.Bump()
	ac.writeJSON(w, http.StatusOK, sub)
}

func (ac *ApiController) Renew(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		ac.fail(w, err)
		return
	}
	sub, err := ac.service.Renew(id, models.Today())
	if err != nil {
		ac.fail(w, err)
		return
	}
	ac.stamp.Bump()
	ac.writeJSON(w, http.StatusOK, sub)
}

func (ac *ApiController) Rates(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, ratesCacheKey, func() (any, error) {
		snap := ac.converter.Snapshot()
		if snap == nil {
			return map[string]any{"home": ac.converter.Home(), "rates": map[string]any{}}, nil
		}
		return snap, nil
	})
}

func (ac *ApiController) RefreshRates(w http.ResponseWriter, r *http.Request) {
	if err := ac.scheduler.RefreshRatesNow(); err != nil {
		ac.fail(w, err)
		return
	}
	ac.cache.Del(ratesCacheKey)
	ac.stamp.Bump()
	ac.writeJSON(w, http.StatusOK, ac.converter.Snapshot())
}

func (ac *ApiController) NotifyTest(w http.ResponseWriter, r *http.Request) {
	channel, ok := notify.ParseChannel(r.URL.Query().Get("channel"))
	if !ok {
		ac.fail(w, fmt.Errorf("%w: unknown channel", services.ErrInvalidInput))
		return
	}
	outcome := ac.dispatcher.TestChannel(r.Context(), channel)
	status := http.StatusOK
	if !outcome.Delivered {
		status = http.StatusBadGateway
	}
	ac.writeJSON(w, status, outcome)
}

func (ac *ApiController) NotificationLog(w http.ResponseWriter, r *http.Request) {
	ac.writeJSON(w, http.StatusOK, ac.dispatcher.History())
}

func decodeInput(w http.ResponseWriter, r *http.Request) (*services.SubscriptionInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var input services.SubscriptionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return nil, fmt.Errorf("%w: %s", services.ErrInvalidInput, err)
	}
	return &input, nil
}
