package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/kaixxz/MediNote/internal/api"
	v1 "github.com/kaixxz/MediNote/internal/api/v1"
	"github.com/kaixxz/MediNote/internal/api/validator"
	"github.com/kaixxz/MediNote/internal/config"
	"github.com/kaixxz/MediNote/internal/database"
	"github.com/kaixxz/MediNote/internal/events"
	"github.com/kaixxz/MediNote/internal/ledger"
	"github.com/kaixxz/MediNote/internal/metrics"
	"github.com/kaixxz/MediNote/internal/mocks"
	"github.com/kaixxz/MediNote/internal/repository"
	"github.com/kaixxz/MediNote/internal/service"
	"github.com/kaixxz/MediNote/pkg/aiprovider"
	pkgdatabase "github.com/kaixxz/MediNote/pkg/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Successful bool            `json:"successful"`
	Code       string          `json:"code"`
	Message    string          `json:"message"`
	TrackID    string          `json:"x_track_id"`
	Result     json.RawMessage `json:"result"`
}

type testApp struct {
	app      *fiber.App
	ledger   *ledger.Memory
	provider *mocks.Provider
}

func newTestApp(t *testing.T, health v1.HealthCheck, opts ...ledger.Option) testApp {
	t.Helper()

	logger := zap.NewNop()
	cfg := &config.Config{
		API:     config.API{DefaultAccountID: "default"},
		Metrics: config.Metrics{Path: "/metrics"},
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	l := ledger.NewMemory(opts...)
	provider := &mocks.Provider{}

	xValidator, err := validator.NewXValidator(govalidator.New(), m)
	require.NoError(t, err)

	db, err := pkgdatabase.NewConnection(context.Background(),
		pkgdatabase.Config{Driver: pkgdatabase.DriverSQLite, DSN: ":memory:"}, logger)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	handler := v1.NewHandler(logger,
		service.NewCreditService(l, events.NewNoopPublisher(), m, logger),
		service.NewGenerationService(l, provider, repository.NewReportRepository(db), events.NewNoopPublisher(), m, logger),
		service.NewDraftService(repository.NewDraftRepository(db), logger),
		xValidator,
		health,
	)

	return testApp{app: api.NewApp(cfg, handler, m, reg, logger), ledger: l, provider: provider}
}

func (a testApp) do(t *testing.T, method, path, body string, headers map[string]string) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}

	return resp, env
}

func TestPing(t *testing.T) {
	a := newTestApp(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	resp, err := a.app.Test(req)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "pong", string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Track-ID"))
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		a := newTestApp(t, func(context.Context) error { return nil })

		resp, _ := a.do(t, http.MethodGet, "/health", "", nil)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("database down", func(t *testing.T) {
		a := newTestApp(t, func(context.Context) error { return errors.New("ping failed") })

		resp, _ := a.do(t, http.MethodGet, "/health", "", nil)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestGetCredits(t *testing.T) {
	a := newTestApp(t, nil)

	resp, env := a.do(t, http.MethodGet, "/api/v1/credits", "", map[string]string{"X-Track-ID": "trk-1"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Successful)
	assert.Equal(t, "trk-1", env.TrackID)
	assert.JSONEq(t, `{"credits":3,"total_credits_used":0}`, string(env.Result))

	_, err := a.ledger.GetAccount(context.Background(), "default")
	assert.NoError(t, err)
}

func TestAccountHeaderSelectsAccount(t *testing.T) {
	a := newTestApp(t, nil)
	headers := map[string]string{"X-Account-ID": "clinic-7"}

	resp, env := a.do(t, http.MethodPost, "/api/v1/credits/purchase", `{"package":"medium"}`, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"credits":18,"total_credits_used":0,"package":"medium","purchased":15}`, string(env.Result))

	_, env = a.do(t, http.MethodGet, "/api/v1/credits", "", nil)
	assert.JSONEq(t, `{"credits":3,"total_credits_used":0}`, string(env.Result))

	_, env = a.do(t, http.MethodGet, "/api/v1/credits/transactions", "", headers)
	var history service.HistoryResult
	require.NoError(t, json.Unmarshal(env.Result, &history))
	require.Len(t, history.Transactions, 1)
	assert.Equal(t, "Purchased Professional package", history.Transactions[0].Description)
}

func TestPurchase_Rejections(t *testing.T) {
	a := newTestApp(t, nil)

	resp, env := a.do(t, http.MethodPost, "/api/v1/credits/purchase", `{"package":"huge"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_PACKAGE", env.Code)
	assert.False(t, env.Successful)

	resp, env = a.do(t, http.MethodPost, "/api/v1/credits/purchase", `{}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", env.Code)
	assert.Contains(t, env.Message, "package")

	resp, env = a.do(t, http.MethodPost, "/api/v1/credits/purchase", `{"package":`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_REQUEST_BODY", env.Code)
}

func TestGetPackages(t *testing.T) {
	a := newTestApp(t, nil)

	resp, env := a.do(t, http.MethodGet, "/api/v1/credits/packages", "", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pkgs []service.PackageResult
	require.NoError(t, json.Unmarshal(env.Result, &pkgs))
	require.Len(t, pkgs, 3)
	assert.Equal(t, "5.00", pkgs[1].Price)
}

func TestGenerateSection(t *testing.T) {
	body := `{"section":"assessment","content":"likely viral URI","report_type":"soap"}`

	t.Run("success debits one credit", func(t *testing.T) {
		a := newTestApp(t, nil)
		a.provider.On("Complete", mock.Anything, mock.Anything).Return(aiprovider.Response{Text: "A: viral URI"}, nil).Once()

		resp, env := a.do(t, http.MethodPost, "/api/v1/generate-section", body, nil)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"content":"A: viral URI","credits":2}`, string(env.Result))
		a.provider.AssertExpectations(t)
	})

	t.Run("no credits returns payment required", func(t *testing.T) {
		a := newTestApp(t, nil, ledger.WithStartingGrant(0))

		resp, env := a.do(t, http.MethodPost, "/api/v1/generate-section", body, nil)

		assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
		assert.Equal(t, "INSUFFICIENT_CREDITS", env.Code)
		assert.Contains(t, env.Message, "purchase")
		a.provider.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("provider failure returns service unavailable", func(t *testing.T) {
		a := newTestApp(t, nil)
		a.provider.On("Complete", mock.Anything, mock.Anything).Return(aiprovider.Response{}, aiprovider.ErrCircuitOpen)

		resp, env := a.do(t, http.MethodPost, "/api/v1/generate-section", body, nil)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "PROVIDER_UNAVAILABLE", env.Code)
	})

	t.Run("unknown section is rejected before any debit", func(t *testing.T) {
		a := newTestApp(t, nil)

		resp, env := a.do(t, http.MethodPost, "/api/v1/generate-section", `{"section":"history"}`, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "VALIDATION_FAILED", env.Code)
		assert.Contains(t, env.Message, "section")

		txs, err := a.ledger.ListTransactions(context.Background(), "default")
		require.NoError(t, err)
		assert.Empty(t, txs)
	})
}

func TestReview(t *testing.T) {
	a := newTestApp(t, nil)
	a.provider.On("Complete", mock.Anything, mock.Anything).Return(aiprovider.Response{Text: "Complete note."}, nil)

	resp, env := a.do(t, http.MethodPost, "/api/v1/review", `{"subjective":"cough","plan":"rest"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"content":"Complete note.","credits":2}`, string(env.Result))

	resp, env = a.do(t, http.MethodPost, "/api/v1/review", `{}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", env.Code)
}

func TestGenerateReport(t *testing.T) {
	a := newTestApp(t, nil)
	a.provider.On("Complete", mock.Anything, mock.Anything).Return(aiprovider.Response{Text: "PROGRESS NOTE"}, nil)

	resp, env := a.do(t, http.MethodPost, "/api/v1/generate-report",
		`{"report_type":"progress","patient_notes":"day 3, afebrile"}`, nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"content":"PROGRESS NOTE","credits":2,"report_id":1}`, string(env.Result))

	_, env = a.do(t, http.MethodGet, "/api/v1/reports", "", nil)
	var reports []service.ReportResult
	require.NoError(t, json.Unmarshal(env.Result, &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "progress", reports[0].ReportType)
	assert.Equal(t, "day 3, afebrile", reports[0].PatientNotes)
	assert.Equal(t, "PROGRESS NOTE", reports[0].GeneratedReport)

	_, env = a.do(t, http.MethodGet, "/api/v1/reports", "", map[string]string{"X-Account-ID": "someone-else"})
	assert.JSONEq(t, `[]`, string(env.Result))
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t, nil)

	a.do(t, http.MethodGet, "/api/v1/credits", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := a.app.Test(req)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `medinote_http_requests_total{method="GET",path="/api/v1/credits",status_code="200"} 1`)
	assert.Contains(t, string(body), "medinote_balance_queries_total")
}

func TestUnknownRoute(t *testing.T) {
	a := newTestApp(t, nil)

	resp, env := a.do(t, http.MethodGet, "/api/v1/drafts", "", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ROUTE_NOT_FOUND", env.Code)
	assert.NotEmpty(t, env.TrackID)
}

func TestAccountHeaderRejectsInvalidIDs(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"too long", strings.Repeat("a", 65)},
		{"far too long", strings.Repeat("clinic-", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, nil)

			resp, env := a.do(t, http.MethodGet, "/api/v1/credits", "", map[string]string{"X-Account-ID": tt.id})

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "INVALID_ACCOUNT_ID", env.Code)
		})
	}

	t.Run("max length accepted", func(t *testing.T) {
		a := newTestApp(t, nil)

		resp, _ := a.do(t, http.MethodGet, "/api/v1/credits", "", map[string]string{"X-Account-ID": strings.Repeat("a", 64)})

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestDraftLifecycle(t *testing.T) {
	a := newTestApp(t, nil)

	resp, env := a.do(t, http.MethodPost, "/api/v1/drafts",
		`{"title":"Visit 1","subjective":"cough for 2 days","completed_sections":["subjective"]}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created service.DraftResult
	require.NoError(t, json.Unmarshal(env.Result, &created))
	require.NotZero(t, created.ID)
	assert.Equal(t, []string{"subjective"}, created.CompletedSections)

	path := fmt.Sprintf("/api/v1/drafts/%d", created.ID)

	resp, env = a.do(t, http.MethodPut, path, `{"plan":"rest and fluids","completed_sections":["subjective","plan"]}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated service.DraftResult
	require.NoError(t, json.Unmarshal(env.Result, &updated))
	assert.Equal(t, "Visit 1", updated.Title)
	assert.Equal(t, "cough for 2 days", updated.Subjective)
	assert.Equal(t, "rest and fluids", updated.Plan)
	assert.Equal(t, []string{"subjective", "plan"}, updated.CompletedSections)

	resp, env = a.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched service.DraftResult
	require.NoError(t, json.Unmarshal(env.Result, &fetched))
	assert.Equal(t, "rest and fluids", fetched.Plan)

	_, env = a.do(t, http.MethodGet, "/api/v1/drafts", "", nil)
	var drafts []service.DraftResult
	require.NoError(t, json.Unmarshal(env.Result, &drafts))
	assert.Len(t, drafts, 1)

	resp, _ = a.do(t, http.MethodGet, path, "", map[string]string{"X-Account-ID": "someone-else"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, env = a.do(t, http.MethodDelete, path, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Successful)

	resp, env = a.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "DRAFT_NOT_FOUND", env.Code)

	_, err := a.ledger.GetAccount(context.Background(), "default")
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestDraftErrors(t *testing.T) {
	a := newTestApp(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"missing draft", http.MethodGet, "/api/v1/drafts/42", "", http.StatusNotFound, "DRAFT_NOT_FOUND"},
		{"update missing draft", http.MethodPut, "/api/v1/drafts/42", `{"title":"x"}`, http.StatusNotFound, "DRAFT_NOT_FOUND"},
		{"delete missing draft", http.MethodDelete, "/api/v1/drafts/42", "", http.StatusNotFound, "DRAFT_NOT_FOUND"},
		{"non numeric id", http.MethodGet, "/api/v1/drafts/abc", "", http.StatusBadRequest, "INVALID_DRAFT_ID"},
		{"zero id", http.MethodGet, "/api/v1/drafts/0", "", http.StatusBadRequest, "INVALID_DRAFT_ID"},
		{"missing title", http.MethodPost, "/api/v1/drafts", `{"subjective":"x"}`, http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{"unknown section", http.MethodPost, "/api/v1/drafts", `{"title":"t","completed_sections":["history"]}`, http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{"empty title on update", http.MethodPut, "/api/v1/drafts/1", `{"title":""}`, http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := a.do(t, tt.method, tt.path, tt.body, nil)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, env.Code)
		})
	}
}
