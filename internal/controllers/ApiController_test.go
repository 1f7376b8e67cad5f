package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renewalpulse/internal/models"
	"renewalpulse/internal/notify"
	"renewalpulse/internal/services"
	"renewalpulse/internal/structures"
	"renewalpulse/internal/testutil"
)

type apiFixture struct {
	controller *ApiController
	service    services.SubscriptionServiceInterface
	converter  *testutil.MockConverter
	dispatcher *testutil.MockDispatcher
	scheduler  *testutil.MockScheduler
	cache      *testutil.MockCache
	stamp      *CacheStamp
}

func newApiFixture() *apiFixture {
	store := models.NewSubscriptionStore()
	converter := testutil.NewMockConverter("CNY", map[string]decimal.Decimal{
		"USD": decimal.NewFromFloat(7.0),
	})
	conf := &structures.Config{
		Reminder: structures.ReminderConfig{DefaultLeadDays: 7},
	}
	service := services.NewSubscriptionService(store, converter, conf)

	dispatcher := &testutil.MockDispatcher{}
	sched := &testutil.MockScheduler{}
	cache := testutil.NewMockCache()
	stamp := NewCacheStamp()

	controller := NewApiController(&testutil.MockLogger{}, service, converter, dispatcher, sched, cache, stamp)
	return &apiFixture{
		controller: controller,
		service:    service,
		converter:  converter,
		dispatcher: dispatcher,
		scheduler:  sched,
		cache:      cache,
		stamp:      stamp,
	}
}

func (f *apiFixture) createSub(t *testing.T, name string) *models.Subscription {
	t.Helper()
	sub, err := f.service.Create(&services.SubscriptionInput{
		Name:      name,
		Amount:    decimal.NewFromInt(70),
		Currency:  "USD",
		Cycle:     "month",
		ExpiresAt: models.Today().AddDays(40).String(),
	})
	require.NoError(t, err)
	return sub
}

func TestCreate_Returns201(t *testing.T) {
	f := newApiFixture()

	body := `{"name":"netflix","amount":"9.99","currency":"USD","cycle":"month","expires_at":"2030-06-10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/", strings.NewReader(body))
	w := httptest.NewRecorder()
	f.controller.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var sub models.Subscription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sub))
	assert.Equal(t, "netflix", sub.Name)
	assert.NotEqual(t, uuid.Nil, sub.ID)
}

func TestCreate_BadPayloadReturns400(t *testing.T) {
	f := newApiFixture()

	for _, body := range []string{
		"not json",
		`{"name":"","expires_at":"2030-06-10"}`,
		`{"name":"x","expires_at":"junk"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/", strings.NewReader(body))
		w := httptest.NewRecorder()
		f.controller.Create(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

func TestUpdate_StaleVersionReturns409(t *testing.T) {
	f := newApiFixture()
	sub := f.createSub(t, "netflix")

	body := `{"name":"netflix hd","cycle":"month","expires_at":"` + sub.ExpiresAt.String() + `","version":99}`
	req := httptest.NewRequest(http.MethodPost, "/api/update?id="+sub.ID.String(), strings.NewReader(body))
	w := httptest.NewRecorder()
	f.controller.Update(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDelete_IDHandling(t *testing.T) {
	f := newApiFixture()
	sub := f.createSub(t, "netflix")

	req := httptest.NewRequest(http.MethodPost, "/api/delete", nil)
	w := httptest.NewRecorder()
	f.controller.Delete(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/delete?id="+uuid.NewString(), nil)
	w = httptest.NewRecorder()
	f.controller.Delete(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/delete?id="+sub.ID.String(), nil)
	w = httptest.NewRecorder()
	f.controller.Delete(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, f.service.Count())
}

func TestList_ServesFromCacheUntilMutation(t *testing.T) {
	f := newApiFixture()
	f.createSub(t, "netflix")

	req := httptest.NewRequest(http.MethodGet, "/api/list", nil)
	w := httptest.NewRecorder()
	f.controller.List(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	first := w.Body.String()
	assert.Len(t, f.cache.Data, 1)

	// second read is the cached payload byte for byte
	w = httptest.NewRecorder()
	f.controller.List(w, httptest.NewRequest(http.MethodGet, "/api/list", nil))
	assert.Equal(t, first, w.Body.String())
	assert.Len(t, f.cache.Data, 1)

	// a mutation bumps the generation, so the next read computes fresh
	f.createSub(t, "spotify")
	f.stamp.Bump()

	w = httptest.NewRecorder()
	f.controller.List(w, httptest.NewRequest(http.MethodGet, "/api/list", nil))
	assert.NotEqual(t, first, w.Body.String())
	assert.Len(t, f.cache.Data, 2)
}

func TestToggleAndRenew(t *testing.T) {
	f := newApiFixture()
	sub := f.createSub(t, "netflix")

	req := httptest.NewRequest(http.MethodPost, "/api/toggle?id="+sub.ID.String(), nil)
	w := httptest.NewRecorder()
	f.controller.Toggle(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var toggled models.Subscription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &toggled))
	assert.False(t, toggled.Enabled)

	req = httptest.NewRequest(http.MethodPost, "/api/renew?id="+sub.ID.String(), nil)
	w = httptest.NewRecorder()
	f.controller.Renew(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var renewed models.Subscription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &renewed))
	assert.True(t, renewed.ExpiresAt.After(sub.ExpiresAt.Time))
}

func TestRates_EmptyWithoutSnapshot(t *testing.T) {
	f := newApiFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/rates", nil)
	w := httptest.NewRecorder()
	f.controller.Rates(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CNY", resp["home"])
}

func TestRefreshRates_InvalidatesRatesCache(t *testing.T) {
	f := newApiFixture()
	f.cache.Set(ratesCacheKey, []byte(`{"stale":true}`))

	req := httptest.NewRequest(http.MethodPost, "/api/rates/refresh", nil)
	w := httptest.NewRecorder()
	f.controller.RefreshRates(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, f.scheduler.RateRefreshes)
	_, ok := f.cache.Get(ratesCacheKey)
	assert.False(t, ok)
}

func TestNotifyTest_StatusFollowsOutcome(t *testing.T) {
	f := newApiFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/notify/test?channel=sms", nil)
	w := httptest.NewRecorder()
	f.controller.NotifyTest(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.dispatcher.Outcome = notify.Outcome{Channel: notify.ChannelTelegram, Delivered: false, Reason: "bad token"}
	req = httptest.NewRequest(http.MethodPost, "/api/notify/test?channel=telegram", nil)
	w = httptest.NewRecorder()
	f.controller.NotifyTest(w, req)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	f.dispatcher.Outcome = notify.Outcome{Channel: notify.ChannelTelegram, Delivered: true}
	w = httptest.NewRecorder()
	f.controller.NotifyTest(w, httptest.NewRequest(http.MethodPost, "/api/notify/test?channel=tg", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNotificationLog_ReturnsHistory(t *testing.T) {
	f := newApiFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/log", nil)
	w := httptest.NewRecorder()
	f.controller.NotificationLog(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}
