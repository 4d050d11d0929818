package cli

import (
	"bytes"
	"context"

	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driving"
)

// Mock services for command tests.

type MockAskService struct {
	AskFunc   func(ctx context.Context, question string) (domain.Answer, error)
	Questions []string
}

func (m *MockAskService) Ask(ctx context.Context, question string) (domain.Answer, error) {
	m.Questions = append(m.Questions, question)
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return domain.Answer{}, nil
}

type MockReferenceService struct {
	LoadFunc    func(ctx context.Context) (domain.ReferenceMap, error)
	ResolveFunc func(ctx context.Context, chunkID string) (domain.ContentItem, error)
}

func (m *MockReferenceService) Load(ctx context.Context) (domain.ReferenceMap, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return domain.ReferenceMap{}, nil
}

func (m *MockReferenceService) Resolve(ctx context.Context, chunkID string) (domain.ContentItem, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, chunkID)
	}
	return domain.ContentItem{}, domain.ErrNotFound
}

type MockIndexService struct {
	EnsureReadyFunc func(ctx context.Context) (domain.IndexStatus, error)
	Calls           int
}

func (m *MockIndexService) EnsureReady(ctx context.Context) (domain.IndexStatus, error) {
	m.Calls++
	if m.EnsureReadyFunc != nil {
		return m.EnsureReadyFunc(ctx)
	}
	return domain.IndexStatus{}, nil
}

type MockEnrichService struct {
	EnrichFunc func(ctx context.Context) (domain.EnrichStatus, error)
	StatusFunc func(ctx context.Context) (domain.EnrichStatus, error)
}

func (m *MockEnrichService) Enrich(ctx context.Context) (domain.EnrichStatus, error) {
	if m.EnrichFunc != nil {
		return m.EnrichFunc(ctx)
	}
	return domain.EnrichStatus{}, nil
}

func (m *MockEnrichService) Status(ctx context.Context) (domain.EnrichStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx)
	}
	return domain.EnrichStatus{}, nil
}

type MockParseService struct {
	RunFunc func(ctx context.Context, job domain.ParseJob) ([]domain.DocumentResult, error)
	Jobs    []domain.ParseJob
}

func (m *MockParseService) Run(ctx context.Context, job domain.ParseJob) ([]domain.DocumentResult, error) {
	m.Jobs = append(m.Jobs, job)
	if m.RunFunc != nil {
		return m.RunFunc(ctx, job)
	}
	return nil, nil
}

// MockConfigStore is an in-memory config store.
type MockConfigStore struct {
	Values map[string]any
}

func NewMockConfigStore() *MockConfigStore {
	return &MockConfigStore{Values: make(map[string]any)}
}

func (m *MockConfigStore) Get(key string) (any, bool) {
	v, ok := m.Values[key]
	return v, ok
}

func (m *MockConfigStore) GetString(key string) string {
	if v, ok := m.Values[key].(string); ok {
		return v
	}
	return ""
}

func (m *MockConfigStore) GetInt(key string) int {
	if v, ok := m.Values[key].(int); ok {
		return v
	}
	return 0
}

func (m *MockConfigStore) GetBool(key string) bool {
	if v, ok := m.Values[key].(bool); ok {
		return v
	}
	return false
}

func (m *MockConfigStore) GetStringSlice(key string) []string {
	if v, ok := m.Values[key].([]string); ok {
		return v
	}
	return nil
}

func (m *MockConfigStore) Set(key string, value any) error {
	m.Values[key] = value
	return nil
}

func (m *MockConfigStore) Save() error { return nil }
func (m *MockConfigStore) Load() error { return nil }
func (m *MockConfigStore) Path() string {
	return "/tmp/tracedoc-test/config.toml"
}

// testServices bundles the mocks installed by setupTestServices.
type testServices struct {
	Parse     *MockParseService
	Enrich    *MockEnrichService
	Index     *MockIndexService
	Ask       *MockAskService
	Reference *MockReferenceService
	Config    *MockConfigStore
}

// setupTestServices installs fresh mocks into the package-level service
// slots and returns them with a cleanup restoring the originals.
func setupTestServices() (*testServices, func()) {
	origParseFactory := parseServiceFactory
	origEnrich := enrichService
	origIndex := indexService
	origAsk := askService
	origReference := referenceService
	origConfig := configStore

	mocks := &testServices{
		Parse:     &MockParseService{},
		Enrich:    &MockEnrichService{},
		Index:     &MockIndexService{},
		Ask:       &MockAskService{},
		Reference: &MockReferenceService{},
		Config:    NewMockConfigStore(),
	}

	parseServiceFactory = func(narrate bool) driving.ParseService { return mocks.Parse }
	enrichService = mocks.Enrich
	indexService = mocks.Index
	askService = mocks.Ask
	referenceService = mocks.Reference
	configStore = mocks.Config

	cleanup := func() {
		parseServiceFactory = origParseFactory
		enrichService = origEnrich
		indexService = origIndex
		askService = origAsk
		referenceService = origReference
		configStore = origConfig
		rootCmd.SetArgs(nil)
	}

	return mocks, cleanup
}

// executeCommand runs the root command with the given args and captures
// its combined output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
