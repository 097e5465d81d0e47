package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/script-breakdown/internal/api"
	"github.com/jonesrussell/script-breakdown/internal/breakdown"
	"github.com/jonesrussell/script-breakdown/internal/classifier"
	"github.com/jonesrussell/script-breakdown/internal/conflict"
	"github.com/jonesrussell/script-breakdown/internal/logging"
	"github.com/jonesrussell/script-breakdown/internal/pipeline"
	"github.com/jonesrussell/script-breakdown/internal/report"
	"github.com/jonesrussell/script-breakdown/internal/supervisor"
	"github.com/jonesrussell/script-breakdown/internal/taxonomy"
	"github.com/jonesrussell/script-breakdown/internal/testhelpers"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := taxonomy.Default()
	logger := logging.NewNop()
	sup, err := supervisor.New(supervisor.DefaultRules(), logger, nil)
	require.NoError(t, err)

	orch := pipeline.New(pipeline.Deps{
		Engine:     classifier.NewEngine(registry, logger, nil, classifier.Config{Version: "test"}),
		Aggregator: breakdown.NewAggregator(registry),
		Detector:   conflict.NewDetector(logger, nil),
		Supervisor: sup,
		Builder:    report.NewBuilder(0),
		Logger:     logger,
	})

	router := gin.New()
	api.SetupRoutes(router, api.NewHandler(orch, registry, nil, logger), nil)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestProcessScript(t *testing.T) {
	router := newTestRouter(t)

	payload, err := json.Marshal(map[string]string{
		"script_id": "script-1",
		"text":      testhelpers.SampleScript,
	})
	require.NoError(t, err)

	w := postJSON(router, "/api/v1/breakdown", string(payload))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.BreakdownResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Report)
	assert.Equal(t, "script-1", resp.Report.ScriptID)
	assert.NotEmpty(t, resp.Report.Elements)
	assert.NotEmpty(t, resp.Report.BreakdownSheets)
}

func TestProcessScript_GeneratesScriptID(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(router, "/api/v1/breakdown", `{"text":"مشهد 1 - داخلي نهار مقهى"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.BreakdownResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Report)
	assert.NotEmpty(t, resp.Report.ScriptID, "Missing script_id should be generated")
}

func TestProcessScriptAsync(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(router, "/api/v1/breakdown/async",
		`{"script_id":"script-async","text":"مشهد 1 - داخلي نهار مقهى"}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var job api.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	require.NotEmpty(t, job.ID)
	assert.Equal(t, "script-async", job.ScriptID)

	require.Eventually(t, func() bool {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.ID, nil))
		if w.Code != http.StatusOK {
			return false
		}
		var got api.Job
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			return false
		}
		return got.Status == api.JobStatusCompleted && got.Report != nil
	}, 5*time.Second, 10*time.Millisecond, "job should complete")
}

func TestGetJob_UnknownID(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProcessScript_MissingTextIsBadRequest(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(router, "/api/v1/breakdown", `{"script_id":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRules(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.RulesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 21, resp.Total)
	assert.Len(t, resp.Rules, 21)
}

func TestHistoryEndpointsWithoutDatabase(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/v1/breakdown/script-1", "/api/v1/stats"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}

func TestHealthAndReady(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health", "/ready"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
