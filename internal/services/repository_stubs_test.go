package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/terraincognita07/cyclecast/internal/caldate"
	"github.com/terraincognita07/cyclecast/internal/models"
)

var errStubFailure = errors.New("stub failure")

func mustDate(raw string) caldate.Date {
	return caldate.MustParse(raw)
}

func datePtr(raw string) *caldate.Date {
	day := caldate.MustParse(raw)
	return &day
}

func flowPtr(flow models.Flow) *models.Flow {
	return &flow
}

func moodPtr(mood models.Mood) *models.Mood {
	return &mood
}

func floatPtr(value float64) *float64 {
	return &value
}

func intPtr(value int) *int {
	return &value
}

func flowEntry(raw string, flow models.Flow) models.CycleEntry {
	return models.CycleEntry{ID: raw, Date: mustDate(raw), Flow: flowPtr(flow)}
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock(now time.Time) *fixedClock {
	return &fixedClock{now: now}
}

func (clock *fixedClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fixedClock) Advance(delta time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(delta)
}

type entryRepositoryStub struct {
	entries     map[string]models.CycleEntry
	upserts     int
	findErr     error
	upsertErr   error
	listErr     error
	deleteErr   error
	deletedDays []string
}

func newEntryRepositoryStub(entries ...models.CycleEntry) *entryRepositoryStub {
	stub := &entryRepositoryStub{entries: make(map[string]models.CycleEntry)}
	for _, entry := range entries {
		stub.entries[entry.Date.String()] = entry
	}
	return stub
}

func (stub *entryRepositoryStub) FindEntryByDate(day caldate.Date) (models.CycleEntry, bool, error) {
	if stub.findErr != nil {
		return models.CycleEntry{}, false, stub.findErr
	}
	entry, ok := stub.entries[day.String()]
	return entry, ok, nil
}

func (stub *entryRepositoryStub) UpsertEntry(entry *models.CycleEntry) error {
	if stub.upsertErr != nil {
		return stub.upsertErr
	}
	stub.upserts++
	stub.entries[entry.Date.String()] = *entry
	return nil
}

func (stub *entryRepositoryStub) ListEntries() ([]models.CycleEntry, error) {
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	entries := make([]models.CycleEntry, 0, len(stub.entries))
	for _, entry := range stub.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (stub *entryRepositoryStub) DeleteEntryByDate(day caldate.Date) error {
	if stub.deleteErr != nil {
		return stub.deleteErr
	}
	delete(stub.entries, day.String())
	stub.deletedDays = append(stub.deletedDays, day.String())
	return nil
}

type profileRepositoryStub struct {
	profile            models.UserProfile
	onboardingComplete bool
	data               models.CycleData
	settings           models.CycleSettings
	saveErr            error
	loadErr            error
	saves              int
}

func newProfileRepositoryStub() *profileRepositoryStub {
	return &profileRepositoryStub{
		profile:  models.DefaultUserProfile(),
		data:     models.DefaultCycleData(),
		settings: models.CycleSettings{ID: 1, CycleLength: models.DefaultCycleLength, PeriodLength: models.DefaultPeriodLength},
	}
}

func (stub *profileRepositoryStub) LoadProfile() (models.UserProfile, error) {
	if stub.loadErr != nil {
		return models.UserProfile{}, stub.loadErr
	}
	return stub.profile, nil
}

func (stub *profileRepositoryStub) SaveProfile(profile *models.UserProfile) error {
	if stub.saveErr != nil {
		return stub.saveErr
	}
	stub.saves++
	stub.profile = *profile
	return nil
}

func (stub *profileRepositoryStub) IsOnboardingComplete() (bool, error) {
	return stub.onboardingComplete, nil
}

func (stub *profileRepositoryStub) SetOnboardingComplete(complete bool) error {
	stub.onboardingComplete = complete
	return nil
}

func (stub *profileRepositoryStub) LoadCycleData() (models.CycleData, error) {
	return stub.data, nil
}

func (stub *profileRepositoryStub) SaveCycleData(data models.CycleData) error {
	if stub.saveErr != nil {
		return stub.saveErr
	}
	stub.data = data
	return nil
}

func (stub *profileRepositoryStub) LoadCycleSettings() (models.CycleSettings, error) {
	if stub.loadErr != nil {
		return models.CycleSettings{}, stub.loadErr
	}
	return stub.settings, nil
}

func (stub *profileRepositoryStub) SaveCycleSettings(settings *models.CycleSettings) error {
	if stub.saveErr != nil {
		return stub.saveErr
	}
	stub.settings = *settings
	return nil
}

type predictionCacheStub struct {
	mu       sync.Mutex
	cached   *models.Prediction
	readErr  error
	writeErr error
	writes   int
}

func (stub *predictionCacheStub) GetCachedPrediction(context.Context) (models.Prediction, bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.readErr != nil {
		return models.Prediction{}, false, stub.readErr
	}
	if stub.cached == nil {
		return models.Prediction{}, false, nil
	}
	return *stub.cached, true, nil
}

func (stub *predictionCacheStub) SetCachedPrediction(_ context.Context, prediction models.Prediction) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.writeErr != nil {
		return stub.writeErr
	}
	stub.writes++
	stored := prediction
	stub.cached = &stored
	return nil
}

type predictorStub struct {
	mu      sync.Mutex
	calls   int
	err     error
	started chan struct{}
	release chan struct{}
	now     func() time.Time
}

func (stub *predictorStub) Predict(_ context.Context, data models.CycleData, _ models.UserProfile) (models.Prediction, error) {
	stub.mu.Lock()
	stub.calls++
	err := stub.err
	stub.mu.Unlock()

	if stub.started != nil {
		stub.started <- struct{}{}
	}
	if stub.release != nil {
		<-stub.release
	}
	if err != nil {
		return models.Prediction{}, err
	}

	generatedAt := time.Time{}
	if stub.now != nil {
		generatedAt = stub.now()
	}
	return models.Prediction{
		NextPeriodDate:       "2026-03-10",
		PredictedCycleLength: 28,
		Insights:             []string{"steady cycle"},
		Tips:                 []string{},
		Confidence:           70,
		GeneratedAt:          generatedAt,
		DataHash:             DataHash(data),
	}, nil
}

func (stub *predictorStub) callCount() int {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	return stub.calls
}

type pinVaultStub struct {
	hash     string
	set      bool
	clearErr error
	clears   int
}

func (stub *pinVaultStub) SetPinHash(hash string) error {
	stub.hash = hash
	stub.set = true
	return nil
}

func (stub *pinVaultStub) LoadPinHash() (string, bool, error) {
	return stub.hash, stub.set, nil
}

func (stub *pinVaultStub) Clear() error {
	if stub.clearErr != nil {
		return stub.clearErr
	}
	stub.clears++
	stub.hash = ""
	stub.set = false
	return nil
}
