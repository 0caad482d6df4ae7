package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prescripto/health-recommender/internal/dataset"
	"github.com/prescripto/health-recommender/internal/domain"
	"github.com/prescripto/health-recommender/internal/history"
	"github.com/prescripto/health-recommender/internal/service"
)

type stubConfigManager struct {
	cfg *domain.Config
}

func (m *stubConfigManager) GetConfig() *domain.Config             { return m.cfg }
func (m *stubConfigManager) GetServerConfig() *domain.ServerConfig { return &m.cfg.Server }
func (m *stubConfigManager) Validate() error                       { return nil }

type stubClassifier struct {
	label domain.DiseaseLabel
	err   error
}

func (c *stubClassifier) Predict(ctx context.Context, vector []float32) (domain.DiseaseLabel, error) {
	return c.label, c.err
}

func (c *stubClassifier) Close() error { return nil }

func testTables() *dataset.Bundle {
	return &dataset.Bundle{
		Training: dataset.NewTable([]string{"itching", "skin_rash", "disease"}, nil),
		Descriptions: dataset.NewTable(
			[]string{"Disease", "Description"},
			[][]string{{"Fungal infection", "A fungal infection is common."}},
		),
		Precautions: dataset.NewTable(
			[]string{"Disease", "Precaution_1", "Precaution_2", "Precaution_3", "Precaution_4"},
			[][]string{{"Fungal infection", "bath twice", "keep area dry", "", ""}},
		),
		Medications: dataset.NewTable(
			[]string{"Disease", "Medication"},
			[][]string{{"Fungal infection", "Antifungal Cream"}},
		),
		Diets: dataset.NewTable(
			[]string{"Disease", "Diet"},
			[][]string{{"Fungal infection", "Probiotics"}},
		),
		Workouts: dataset.NewTable(
			[]string{"disease", "workout"},
			[][]string{{"Fungal infection", "Avoid sugary foods"}},
		),
	}
}

// newTestServer assembles a server over fixture tables and a stub classifier.
// store may be nil.
func newTestServer(t *testing.T, clf domain.Classifier, store history.Store) *Server {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tables := testTables()
	index, err := service.NewSymptomIndex(tables.Training)
	require.NoError(t, err)

	predictor := service.NewPredictionService(logger, index, service.NewRecommender(tables), clf, nil, store)

	cfg := &domain.Config{
		Server: domain.ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			RequestTimeout: 5 * time.Second,
		},
		Logging: domain.LoggingConfig{Level: "info", Format: "json"},
	}

	return NewServer(&stubConfigManager{cfg: cfg}, logger, predictor, store)
}

func doRequest(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, &stubClassifier{label: "Fungal infection"}, nil)

	w := doRequest(s, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, float64(2), resp["symptoms"])
}

func TestHandleListSymptoms(t *testing.T) {
	s := newTestServer(t, &stubClassifier{label: "Fungal infection"}, nil)

	w := doRequest(s, http.MethodGet, "/api/v1/symptoms", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Symptoms []string `json:"symptoms"`
		Count    int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"itching", "skin_rash"}, resp.Symptoms, "index order, label column excluded")
	assert.Equal(t, 2, resp.Count)
}

func TestHandlePredict(t *testing.T) {
	s := newTestServer(t, &stubClassifier{label: "Fungal infection"}, nil)

	body, _ := json.Marshal(domain.PredictRequest{Symptoms: []string{"itching", "sneezing"}})
	w := doRequest(s, http.MethodPost, "/api/v1/predict", body)

	require.Equal(t, http.StatusOK, w.Code)

	var result domain.PredictionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.NotEmpty(t, result.PredictionID)
	assert.Equal(t, domain.DiseaseLabel("Fungal infection"), result.Bundle.Disease)
	assert.Equal(t, "A fungal infection is common.", result.Bundle.Description)
	assert.Equal(t, []string{"Antifungal Cream"}, result.Bundle.Medications)
	assert.Equal(t, []string{"sneezing"}, result.Unrecognized)
	assert.Equal(t, 2, result.SymptomCount)
}

func TestHandlePredict_EmptySymptoms(t *testing.T) {
	s := newTestServer(t, &stubClassifier{label: "Fungal infection"}, nil)

	w := doRequest(s, http.MethodPost, "/api/v1/predict", []byte(`{"symptoms":[]}`))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, domain.ErrInvalidInput, apiErr.Code)
}

func TestHandlePredict_InvalidBody(t *testing.T) {
	s := newTestServer(t, &stubClassifier{label: "Fungal infection"}, nil)

	w := doRequest(s, http.MethodPost, "/api/v1/predict", []byte(`{not json`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlePredict_ClassifierFailure(t *testing.T) {
	s := newTestServer(t, &stubClassifier{err: errors.New("session crashed")}, nil)

	body, _ := json.Marshal(domain.PredictRequest{Symptoms: []string{"itching"}})
	w := doRequest(s, http.MethodPost, "/api/v1/predict", body)

	require.Equal(t, http.StatusBadGateway, w.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, domain.ErrClassifier, apiErr.Code)
}

func TestHandleGetDisease(t *testing.T) {
	s := newTestServer(t, &stubClassifier{label: "Fungal infection"}, nil)

	w := doRequest(s, http.MethodGet, "/api/v1/diseases/Fungal%20infection", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var bundle domain.AnswerBundle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bundle))
	assert.Equal(t, []string{"bath twice", "keep area dry"}, bundle.Precautions)
	assert.Equal(t, []string{"Avoid sugary foods"}, bundle.Workouts)
}

func TestHandleGetDisease_UnknownLabel(t *testing.T) {
	s := newTestServer(t, &stubClassifier{label: "Fungal infection"}, nil)

	w := doRequest(s, http.MethodGet, "/api/v1/diseases/No%20such%20disease", nil)

	// Unknown labels resolve to an empty bundle, not an error.
	require.Equal(t, http.StatusOK, w.Code)

	var bundle domain.AnswerBundle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bundle))
	assert.Empty(t, bundle.Description)
	assert.Empty(t, bundle.Medications)
}

func TestHandleListHistory_NotConfigured(t *testing.T) {
	s := newTestServer(t, &stubClassifier{label: "Fungal infection"}, nil)

	w := doRequest(s, http.MethodGet, "/api/v1/history", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryRoundTrip(t *testing.T) {
	store, err := history.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	s := newTestServer(t, &stubClassifier{label: "Fungal infection"}, store)

	body, _ := json.Marshal(domain.PredictRequest{Symptoms: []string{"itching"}})
	w := doRequest(s, http.MethodPost, "/api/v1/predict", body)
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.PredictionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	w = doRequest(s, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Records []history.PredictionRecord `json:"records"`
		Total   int64                      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Records, 1)
	assert.Equal(t, result.PredictionID, list.Records[0].ID)

	w = doRequest(s, http.MethodGet, "/api/v1/history/"+result.PredictionID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rec history.PredictionRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "Fungal infection", rec.Disease)
	assert.Equal(t, []string{"itching"}, rec.Symptoms)
}

func TestHandleGetHistory_NotFound(t *testing.T) {
	store, err := history.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	s := newTestServer(t, &stubClassifier{label: "Fungal infection"}, store)

	w := doRequest(s, http.MethodGet, "/api/v1/history/missing-id", nil)

	require.Equal(t, http.StatusNotFound, w.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, domain.ErrNotFound, apiErr.Code)
}

func TestHandleGetReport(t *testing.T) {
	store, err := history.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	s := newTestServer(t, &stubClassifier{label: "Fungal infection"}, store)

	body, _ := json.Marshal(domain.PredictRequest{Symptoms: []string{"itching", "sneezing"}})
	w := doRequest(s, http.MethodPost, "/api/v1/predict", body)
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.PredictionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	w = doRequest(s, http.MethodGet, "/api/v1/report/"+result.PredictionID, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, w.Header().Get("Content-Disposition"), result.PredictionID)

	md := w.Body.String()
	assert.Contains(t, md, "# Full Disease Report")
	assert.Contains(t, md, "**Fungal infection**")
	assert.Contains(t, md, "- itching")
	assert.Contains(t, md, "- sneezing")
}
