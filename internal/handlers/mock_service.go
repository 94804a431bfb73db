package handlers

import (
	"context"
	"net/http"
	"sync"

	"geothermal_cycles/internal/models"
	"geothermal_cycles/internal/service"
	"geothermal_cycles/internal/thermo"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockExchanger struct {
	rec     models.SolveRecord
	err     error
	calls   int
	lastReq service.SolveRequest
}

func (m *mockExchanger) Solve(ctx context.Context, req service.SolveRequest) (models.SolveRecord, error) {
	m.calls++
	m.lastReq = req
	return m.rec, m.err
}

type mockRunLog struct {
	resp       []models.SolveRecord
	rec        models.SolveRecord
	err        error
	lastFilter service.RunFilter
	lastID     string
}

func (m *mockRunLog) ListRuns(ctx context.Context, f service.RunFilter) ([]models.SolveRecord, error) {
	m.lastFilter = f
	return m.resp, m.err
}

func (m *mockRunLog) GetRun(ctx context.Context, id string) (models.SolveRecord, error) {
	m.lastID = id
	return m.rec, m.err
}

type mockSummary struct {
	sum models.RunSummary
	err error
}

func (m *mockSummary) GetSummary(ctx context.Context) (models.RunSummary, error) {
	return m.sum, m.err
}

type mockFluids struct {
	infos []service.FluidInfo
}

func (m *mockFluids) ListFluids() []service.FluidInfo { return m.infos }

func (m *mockFluids) LookupFluid(name string) (thermo.Fluid, error) {
	return nil, service.ErrUnknownFluid
}

// mockFeed hands out one channel the test pushes records into.
type mockFeed struct {
	mu       sync.Mutex
	ch       chan models.SolveRecord
	subbed   chan struct{}
	canceled bool
}

func newMockFeed() *mockFeed {
	return &mockFeed{ch: make(chan models.SolveRecord, 4), subbed: make(chan struct{})}
}

func (m *mockFeed) Subscribe() (<-chan models.SolveRecord, func()) {
	close(m.subbed)
	return m.ch, func() {
		m.mu.Lock()
		m.canceled = true
		m.mu.Unlock()
	}
}

func (m *mockFeed) wasCanceled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canceled
}

// ---- Shared Test Helpers ----

const testToken = "tok"

func newTestRouter(s *service.Service) *gin.Engine {
	if s.Authorization == nil {
		s.Authorization = &mockAuth{parseID: 1}
	}
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
