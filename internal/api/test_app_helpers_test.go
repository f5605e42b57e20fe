package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecast/internal/db"
	"github.com/terraincognita07/cyclecast/internal/models"
	"github.com/terraincognita07/cyclecast/internal/services"
	"go.uber.org/zap"
)

const testSecretKey = "test-secret-key-with-at-least-32-characters"

var testNow = time.Date(2026, time.February, 20, 12, 0, 0, 0, time.UTC)

type stubPredictor struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (predictor *stubPredictor) Predict(_ context.Context, data models.CycleData, _ models.UserProfile) (models.Prediction, error) {
	predictor.mu.Lock()
	defer predictor.mu.Unlock()

	predictor.calls++
	if predictor.err != nil {
		return models.Prediction{}, predictor.err
	}
	return models.Prediction{
		NextPeriodDate:       "2026-03-10",
		PredictedCycleLength: 28,
		FertileWindowStart:   "2026-02-20",
		FertileWindowEnd:     "2026-02-25",
		Insights:             []string{"steady cycle"},
		Tips:                 []string{"log daily"},
		Confidence:           70,
		GeneratedAt:          testNow,
		DataHash:             services.DataHash(data),
	}, nil
}

func (predictor *stubPredictor) callCount() int {
	predictor.mu.Lock()
	defer predictor.mu.Unlock()
	return predictor.calls
}

type testApp struct {
	app       *fiber.App
	store     *db.Store
	predictor *stubPredictor
}

func newTestApp(t *testing.T) testApp {
	t.Helper()

	dir := t.TempDir()
	database, err := db.OpenSQLite(filepath.Join(dir, "cyclecast.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(database) })

	vault, err := db.OpenPinVault(filepath.Join(dir, "vault.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open pin vault: %v", err)
	}
	t.Cleanup(func() { _ = vault.Close() })

	store := db.NewStore(database)
	predictor := &stubPredictor{}
	now := func() time.Time { return testNow }

	deps := NewDependencies(Wiring{
		Store:              store,
		Vault:              vault,
		Predictor:          predictor,
		PeriodReminderDays: services.DefaultPeriodReminderDays,
		Location:           time.UTC,
		Now:                now,
		Logger:             zap.NewNop(),
	})
	handler, err := NewHandler(deps, Options{
		SecretKey: testSecretKey,
		Location:  time.UTC,
		Now:       now,
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return testApp{app: app, store: store, predictor: predictor}
}

func (app testApp) do(t *testing.T, method string, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() { _ = response.Body.Close() })
	return response
}

func expectStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()
	if response.StatusCode != want {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", want, response.StatusCode, body)
	}
}

func decodeJSON(t *testing.T, response *http.Response, target any) {
	t.Helper()
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func readErrorMessage(t *testing.T, response *http.Response) string {
	t.Helper()
	payload := map[string]string{}
	decodeJSON(t, response, &payload)
	return payload["error"]
}
