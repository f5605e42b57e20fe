package api

import (
	"net/http"
	"testing"

	"github.com/terraincognita07/cyclecast/internal/models"
	"github.com/terraincognita07/cyclecast/internal/services"
)

func completeOnboarding(t *testing.T, app testApp, lastPeriodStart string) {
	t.Helper()
	response := app.do(t, http.MethodPost, "/api/onboarding", map[string]any{
		"name":            "Ana",
		"goal":            "track",
		"lastPeriodStart": lastPeriodStart,
		"cycleLength":     28,
		"periodLength":    5,
	}, "")
	expectStatus(t, response, http.StatusOK)
}

func TestOnboardingThenStatus(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	before := map[string]any{}
	decodeJSON(t, app.do(t, http.MethodGet, "/api/onboarding", nil, ""), &before)
	if before["complete"] != false {
		t.Fatalf("expected onboarding to be pending, got %#v", before)
	}

	completeOnboarding(t, app, "2026-02-08")

	after := map[string]any{}
	decodeJSON(t, app.do(t, http.MethodGet, "/api/onboarding", nil, ""), &after)
	if after["complete"] != true {
		t.Fatalf("expected onboarding to be complete, got %#v", after)
	}

	response := app.do(t, http.MethodGet, "/api/status", nil, "")
	expectStatus(t, response, http.StatusOK)
	payload := statusResponse{}
	decodeJSON(t, response, &payload)

	// 2026-02-20 is day 13 of a cycle that started 2026-02-08.
	if payload.Status.CurrentDay != 13 || payload.Status.DaysUntilPeriod != 16 {
		t.Fatalf("unexpected status %#v", payload.Status)
	}
	if payload.NextPeriodStart.String() != "2026-03-08" {
		t.Fatalf("expected next period 2026-03-08, got %s", payload.NextPeriodStart)
	}
	if payload.PregnancyWeek != nil {
		t.Fatal("pregnancy week is only reported for the pregnancy goal")
	}
}

func TestOnboardingRequiresStartDate(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	response := app.do(t, http.MethodPost, "/api/onboarding", map[string]any{"name": "Ana", "goal": "track"}, "")
	expectStatus(t, response, http.StatusBadRequest)
}

func TestCycleSettingsValidation(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	cases := []map[string]any{
		{"cycleLength": 14, "periodLength": 5, "lastPeriodStart": "2026-02-01"},
		{"cycleLength": 28, "periodLength": 28, "lastPeriodStart": "2026-02-01"},
		{"cycleLength": 28, "periodLength": 5, "lastPeriodStart": "2026-03-01"},
	}
	for _, body := range cases {
		response := app.do(t, http.MethodPut, "/api/settings/cycle", body, "")
		if response.StatusCode != http.StatusBadRequest {
			t.Fatalf("%v: expected 400, got %d", body, response.StatusCode)
		}
	}

	response := app.do(t, http.MethodPut, "/api/settings/cycle", map[string]any{"cycleLength": 30, "periodLength": 4, "lastPeriodStart": "2026-02-01"}, "")
	expectStatus(t, response, http.StatusOK)

	settings := map[string]any{}
	decodeJSON(t, app.do(t, http.MethodGet, "/api/settings/cycle", nil, ""), &settings)
	if settings["cycleLength"] != float64(30) || settings["periodLength"] != float64(4) || settings["lastPeriodStart"] != "2026-02-01" {
		t.Fatalf("unexpected settings %#v", settings)
	}
}

func TestCycleSettingsLastPeriodStartHandling(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body map[string]any
		want any
	}{
		{name: "omitted keeps anchor", body: map[string]any{"cycleLength": 30, "periodLength": 4}, want: "2026-02-01"},
		{name: "null clears anchor", body: map[string]any{"cycleLength": 30, "periodLength": 4, "lastPeriodStart": nil}, want: nil},
		{name: "empty clears anchor", body: map[string]any{"cycleLength": 30, "periodLength": 4, "lastPeriodStart": ""}, want: nil},
		{name: "value replaces anchor", body: map[string]any{"cycleLength": 30, "periodLength": 4, "lastPeriodStart": "2026-02-10"}, want: "2026-02-10"},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			app := newTestApp(t)
			completeOnboarding(t, app, "2026-02-01")

			expectStatus(t, app.do(t, http.MethodPut, "/api/settings/cycle", testCase.body, ""), http.StatusOK)

			settings := map[string]any{}
			decodeJSON(t, app.do(t, http.MethodGet, "/api/settings/cycle", nil, ""), &settings)
			if settings["lastPeriodStart"] != testCase.want {
				t.Fatalf("expected lastPeriodStart %v, got %#v", testCase.want, settings)
			}
			if settings["cycleLength"] != float64(30) || settings["periodLength"] != float64(4) {
				t.Fatalf("unexpected lengths %#v", settings)
			}
		})
	}
}

func TestSetLastPeriodStart(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		date       string
		wantStatus int
		wantDate   string
	}{
		{name: "past day", date: "2026-02-14", wantStatus: http.StatusOK, wantDate: "2026-02-14"},
		{name: "today", date: "2026-02-20", wantStatus: http.StatusOK, wantDate: "2026-02-20"},
		{name: "future day", date: "2026-02-21", wantStatus: http.StatusBadRequest, wantDate: "2026-02-01"},
		{name: "malformed", date: "14/02/2026", wantStatus: http.StatusBadRequest, wantDate: "2026-02-01"},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			app := newTestApp(t)
			completeOnboarding(t, app, "2026-02-01")

			response := app.do(t, http.MethodPut, "/api/settings/last-period-start", map[string]string{"lastPeriodStart": testCase.date}, "")
			expectStatus(t, response, testCase.wantStatus)

			settings := map[string]any{}
			decodeJSON(t, app.do(t, http.MethodGet, "/api/settings/cycle", nil, ""), &settings)
			if settings["lastPeriodStart"] != testCase.wantDate {
				t.Fatalf("expected lastPeriodStart %s, got %#v", testCase.wantDate, settings)
			}
			if settings["cycleLength"] != float64(28) {
				t.Fatalf("expected cycle length untouched, got %#v", settings)
			}
		})
	}
}

func TestStatsCountsSymptoms(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	seedEntries(t, app)

	response := app.do(t, http.MethodGet, "/api/stats", nil, "")
	expectStatus(t, response, http.StatusOK)
	payload := statsResponse{}
	decodeJSON(t, response, &payload)

	if payload.Stats.TotalEntries != 2 {
		t.Fatalf("expected 2 entries, got %d", payload.Stats.TotalEntries)
	}
	if len(payload.Symptoms) != 1 || payload.Symptoms[0].Symptom != models.SymptomCramps || payload.Symptoms[0].Count != 1 {
		t.Fatalf("unexpected symptom frequencies %#v", payload.Symptoms)
	}
}

func TestPredictionIsCachedUntilDataChanges(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	empty := services.PredictionState{}
	decodeJSON(t, app.do(t, http.MethodGet, "/api/prediction", nil, ""), &empty)
	if empty.Prediction != nil || app.predictor.callCount() != 0 {
		t.Fatal("prediction must not be requested without minimum data")
	}

	completeOnboarding(t, app, "2026-02-08")
	expectStatus(t, app.do(t, http.MethodPut, "/api/entries/2026-02-08", map[string]any{"flow": "medium"}, ""), http.StatusOK)

	first := services.PredictionState{}
	decodeJSON(t, app.do(t, http.MethodGet, "/api/prediction", nil, ""), &first)
	if first.Prediction == nil || first.Prediction.NextPeriodDate != "2026-03-10" {
		t.Fatalf("expected prediction, got %#v", first)
	}

	decodeJSON(t, app.do(t, http.MethodGet, "/api/prediction", nil, ""), &first)
	if calls := app.predictor.callCount(); calls != 1 {
		t.Fatalf("expected cached prediction on second load, predictor called %d times", calls)
	}

	expectStatus(t, app.do(t, http.MethodPost, "/api/prediction/refresh", nil, ""), http.StatusOK)
	if calls := app.predictor.callCount(); calls != 2 {
		t.Fatalf("expected refresh to bypass cache, predictor called %d times", calls)
	}

	expectStatus(t, app.do(t, http.MethodPut, "/api/entries/2026-02-09", map[string]any{"flow": "light"}, ""), http.StatusOK)
	expectStatus(t, app.do(t, http.MethodGet, "/api/prediction", nil, ""), http.StatusOK)
	if calls := app.predictor.callCount(); calls != 3 {
		t.Fatalf("expected changed data to invalidate the cache, predictor called %d times", calls)
	}
}

func TestPartnerSyncRequiresOptInAndPublisher(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	response := app.do(t, http.MethodPost, "/api/partner/sync", nil, "")
	expectStatus(t, response, http.StatusConflict)

	expectStatus(t, app.do(t, http.MethodPatch, "/api/profile", map[string]any{"partnerSyncEnabled": true}, ""), http.StatusOK)

	response = app.do(t, http.MethodPost, "/api/partner/sync", nil, "")
	expectStatus(t, response, http.StatusServiceUnavailable)
}

func TestDeleteAllDataResetsEverything(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	completeOnboarding(t, app, "2026-02-08")
	seedEntries(t, app)
	enablePin(t, app, "1234")

	unlocked := unlockResponse{}
	decodeJSON(t, app.do(t, http.MethodPost, "/api/pin/unlock", map[string]string{"pin": "1234"}, ""), &unlocked)

	expectStatus(t, app.do(t, http.MethodDelete, "/api/data", nil, unlocked.Token), http.StatusOK)

	entries := struct {
		Entries []models.CycleEntry `json:"entries"`
	}{}
	decodeJSON(t, app.do(t, http.MethodGet, "/api/entries", nil, ""), &entries)
	if len(entries.Entries) != 0 {
		t.Fatalf("expected no entries after delete, got %d", len(entries.Entries))
	}

	onboarding := map[string]any{}
	decodeJSON(t, app.do(t, http.MethodGet, "/api/onboarding", nil, ""), &onboarding)
	if onboarding["complete"] != false || onboarding["pinEnabled"] != false {
		t.Fatalf("expected a fresh install state, got %#v", onboarding)
	}
}

func TestRemindersListDailyLogReminder(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	completeOnboarding(t, app, "2026-02-08")

	payload := struct {
		Reminders []services.Reminder `json:"reminders"`
	}{}
	decodeJSON(t, app.do(t, http.MethodGet, "/api/reminders", nil, ""), &payload)

	found := false
	for _, reminder := range payload.Reminders {
		if reminder.Kind == services.ReminderDailyLog {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a daily log reminder at noon with nothing logged, got %#v", payload.Reminders)
	}
}
