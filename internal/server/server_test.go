package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/scorecard/internal/metrics"
	"github.com/agentstation/scorecard/internal/server"
	"github.com/agentstation/scorecard/internal/session"
	"github.com/agentstation/scorecard/internal/store/memory"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/extraction"
	"github.com/agentstation/scorecard/pkg/golf"
	"github.com/agentstation/scorecard/pkg/repository"
	"github.com/agentstation/scorecard/pkg/scan"
)

var pngImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func harborPines() golf.Course {
	c := golf.Course{ID: "harbor-pines", Name: "Harbor Pines Golf Club", Location: "Mendocino, CA"}
	yards := map[int]int{}
	for n := 1; n <= 18; n++ {
		c.Holes = append(c.Holes, golf.Hole{Number: n, Par: 4, Handicap: n})
		yards[n] = 350 + n
	}
	c.Tees = []golf.Tee{{Color: "White", HoleYardages: yards}}
	return c
}

func harborCard() *extraction.Result {
	r := &extraction.Result{
		Course: extraction.ExtractedCourse{
			Name:     extraction.Read("Harbor Pines Golf Club", 0.95),
			Location: extraction.Read("Mendocino, CA", 0.9),
		},
		Date: extraction.Read("2024-06-01", 0.9),
	}
	for n := 1; n <= 18; n++ {
		r.Holes = append(r.Holes, extraction.ExtractedHole{
			HoleNumber: extraction.Read(n, 1),
			Strokes:    extraction.Read(5, 0.95),
			Putts:      extraction.Read(2, 0.9),
		})
	}
	return r
}

// failingRounds rejects every save.
type failingRounds struct {
	*memory.Store
}

func (failingRounds) SaveRound(context.Context, *golf.Round) (*golf.Round, error) {
	return nil, errors.New("disk full")
}

type env struct {
	handler  http.Handler
	store    *memory.Store
	sessions *session.Store
	ext      *extraction.StaticExtractor
}

type envOption func(*server.Config)

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()
	store := memory.New(memory.WithCourses(harborPines()))
	return newEnvWithRounds(t, store, store, opts...)
}

func newEnvWithRounds(t *testing.T, store *memory.Store, rounds repository.RoundStore, opts ...envOption) *env {
	t.Helper()
	ext := &extraction.StaticExtractor{Result: harborCard()}

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	scanner := scan.New(ext, store, rounds, scan.WithObserver(m), scan.WithUserTees(store))
	sessions := session.New(0)
	t.Cleanup(sessions.Close)

	cfg := server.DefaultConfig()
	cfg.RateLimit = 0
	for _, opt := range opts {
		opt(&cfg)
	}
	srv, err := server.New(scanner, sessions, cfg, server.WithMetrics(m), server.WithVersion("test"))
	require.NoError(t, err)

	return &env{handler: srv.Handler(), store: store, sessions: sessions, ext: ext}
}

func (e *env) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func scanRequest(t *testing.T, image []byte, filename string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		part, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if into != nil {
		require.NoError(t, json.Unmarshal(env.Data, into))
	}
	return env
}

type scanBody struct {
	ScanID              string     `json:"scan_id"`
	Round               golf.Round `json:"round"`
	FieldsNeedingReview []string   `json:"fields_needing_review"`
	Strategy            string     `json:"strategy"`
	CourseMatch         *struct {
		CourseID string `json:"course_id"`
		Exact    bool   `json:"exact"`
	} `json:"course_match"`
}

func createScan(t *testing.T, e *env, fields map[string]string) scanBody {
	t.Helper()
	w := e.do(scanRequest(t, pngImage, "card.png", fields))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var body scanBody
	decode(t, w, &body)
	require.NotEmpty(t, body.ScanID)
	return body
}

func TestHealth(t *testing.T) {
	e := newEnv(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		w := e.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"data":{"status":"healthy","service":"scorecard-api","version":"test"},"error":null}`, w.Body.String())
	}

	w := e.do(httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ready"`)
}

func TestScanLifecycle(t *testing.T) {
	e := newEnv(t)

	created := createScan(t, e, map[string]string{"tee_box": "white", "user_id": "golfer-1"})
	assert.Equal(t, "full", created.Strategy)
	require.NotNil(t, created.CourseMatch)
	assert.Equal(t, "harbor-pines", created.CourseMatch.CourseID)
	assert.True(t, created.CourseMatch.Exact)
	assert.Equal(t, 90, *created.Round.Totals.Strokes)
	assert.Equal(t, 351, *created.Round.HoleScores[0].Yardage)
	assert.Empty(t, created.FieldsNeedingReview)

	w := e.do(httptest.NewRequest(http.MethodGet, "/api/v1/scans/"+created.ScanID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	patch := httptest.NewRequest(http.MethodPatch, "/api/v1/scans/"+created.ScanID,
		strings.NewReader(`{"holes":{"5":{"strokes":null},"6":{"strokes":7}},"notes":"windy"}`))
	w = e.do(patch)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var revised scanBody
	decode(t, w, &revised)
	assert.Equal(t, 90-5+2, *revised.Round.Totals.Strokes)
	assert.Nil(t, revised.Round.HoleScores[4].Strokes)
	assert.Equal(t, 7, *revised.Round.HoleScores[5].Strokes)
	assert.Equal(t, "windy", revised.Round.Notes)

	w = e.do(httptest.NewRequest(http.MethodPost, "/api/v1/scans/"+created.ScanID+"/confirm", nil))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var saved golf.Round
	decode(t, w, &saved)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, "golfer-1", saved.UserID)
	assert.Equal(t, "harbor-pines", saved.CourseID)
	assert.Equal(t, 87, *saved.Totals.Strokes)

	stored, err := e.store.GetRound(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.HoleScores[4].Strokes, "round is persisted as reviewed")

	w = e.do(httptest.NewRequest(http.MethodGet, "/api/v1/scans/"+created.ScanID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "confirm ends the session")
	assert.Equal(t, 0, e.sessions.Len())
}

func TestCreateScanRejectsBadRequests(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name     string
		req      *http.Request
		wantCode int
	}{
		{
			name:     "missing image",
			req:      scanRequest(t, nil, "", map[string]string{"strategy": "full"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown strategy",
			req:      scanRequest(t, pngImage, "card.png", map[string]string{"strategy": "guess"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unsupported type",
			req:      scanRequest(t, []byte("just some text"), "card.txt", nil),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "not multipart",
			req:      httptest.NewRequest(http.MethodPost, "/api/v1/scans", strings.NewReader(`{}`)),
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(tt.req)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
			env := decode(t, w, nil)
			require.NotNil(t, env.Error)
			assert.Equal(t, "BAD_REQUEST", env.Error.Code)
		})
	}
	assert.Equal(t, 0, e.sessions.Len())
}

func TestCreateScanUploadTooLarge(t *testing.T) {
	e := newEnv(t, func(c *server.Config) { c.MaxUploadBytes = 8 })

	w := e.do(scanRequest(t, pngImage, "card.png", nil))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCreateScanExtractorFailure(t *testing.T) {
	e := newEnv(t)
	e.ext.ExtractErr = errors.New("quota exhausted")

	w := e.do(scanRequest(t, pngImage, "card.png", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	env := decode(t, w, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "COLLABORATOR_UNAVAILABLE", env.Error.Code)
	assert.Equal(t, 0, e.sessions.Len(), "a failed scan leaves nothing behind")
}

func TestReviseRejectsBadEdits(t *testing.T) {
	e := newEnv(t)
	created := createScan(t, e, nil)

	for name, body := range map[string]string{
		"out of range":  `{"holes":{"3":{"strokes":99}}}`,
		"bad hole":      `{"holes":{"19":{"strokes":4}}}`,
		"unknown field": `{"holes":{"3":{"score":4}}}`,
		"bad date":      `{"date":"June 1st"}`,
		"not json":      `strokes=4`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/api/v1/scans/"+created.ScanID, strings.NewReader(body))
			w := e.do(req)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	w := e.do(httptest.NewRequest(http.MethodPatch, "/api/v1/scans/nope", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfirmFailureKeepsSession(t *testing.T) {
	t.Run("invalid round", func(t *testing.T) {
		e := newEnv(t)
		created := createScan(t, e, nil)

		w := e.do(httptest.NewRequest(http.MethodPatch, "/api/v1/scans/"+created.ScanID,
			strings.NewReader(`{"holes":{"3":{"putts":6}}}`)))
		require.Equal(t, http.StatusOK, w.Code)
		var revised scanBody
		decode(t, w, &revised)
		assert.Contains(t, revised.FieldsNeedingReview, "hole_3.strokes", "the conflict is shown before confirm rejects it")

		w = e.do(httptest.NewRequest(http.MethodPost, "/api/v1/scans/"+created.ScanID+"/confirm", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = e.do(httptest.NewRequest(http.MethodGet, "/api/v1/scans/"+created.ScanID, nil))
		assert.Equal(t, http.StatusOK, w.Code, "the user can fix the round and retry")
	})

	t.Run("store unavailable", func(t *testing.T) {
		store := memory.New(memory.WithCourses(harborPines()))
		e := newEnvWithRounds(t, store, failingRounds{store})
		created := createScan(t, e, nil)

		w := e.do(httptest.NewRequest(http.MethodPost, "/api/v1/scans/"+created.ScanID+"/confirm", nil))
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, 1, e.sessions.Len())
	})
}

func TestDeleteScan(t *testing.T) {
	e := newEnv(t)
	created := createScan(t, e, nil)

	w := e.do(httptest.NewRequest(http.MethodDelete, "/api/v1/scans/"+created.ScanID, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(httptest.NewRequest(http.MethodDelete, "/api/v1/scans/"+created.ScanID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	courses, err := e.store.ListCourses(context.Background())
	require.NoError(t, err)
	assert.Len(t, courses, 1, "abandoning a scan writes nothing")
}

func TestMatchCourse(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name        string
		query       string
		wantCode    int
		wantMatched bool
	}{
		{"exact", "?name=Harbor+Pines+Golf+Club&location=Mendocino,+CA", http.StatusOK, true},
		{"case and punctuation", "?name=harbor-pines+golf+club", http.StatusOK, true},
		{"unknown", "?name=Augusta+National", http.StatusOK, false},
		{"missing name", "", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(httptest.NewRequest(http.MethodGet, "/api/v1/courses/match"+tt.query, nil))
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantCode != http.StatusOK {
				return
			}
			var body struct {
				Matched bool         `json:"matched"`
				Course  *golf.Course `json:"course"`
			}
			decode(t, w, &body)
			assert.Equal(t, tt.wantMatched, body.Matched)
			if tt.wantMatched {
				require.NotNil(t, body.Course)
				assert.Equal(t, "harbor-pines", body.Course.ID)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	e := newEnv(t)
	createScan(t, e, nil)

	w := e.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "scorecard_scans_total")
	assert.Contains(t, w.Body.String(), `route="POST /api/v1/scans"`)
}

func TestAuthProtectsAPI(t *testing.T) {
	e := newEnv(t, func(c *server.Config) {
		c.AuthEnabled = true
		c.APIKey = "secret"
	})

	w := e.do(scanRequest(t, pngImage, "card.png", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := scanRequest(t, pngImage, "card.png", nil)
	req.Header.Set("X-API-Key", "secret")
	w = e.do(req)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = e.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	e := newEnv(t)
	w := e.do(httptest.NewRequest(http.MethodGet, "/api/v1/nothing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestNewValidatesConfig(t *testing.T) {
	store := memory.New()
	scanner := scan.New(&extraction.StaticExtractor{}, store, store)
	sessions := session.New(0)
	defer sessions.Close()

	_, err := server.New(nil, sessions, server.DefaultConfig())
	assert.Error(t, err)

	cfg := server.DefaultConfig()
	cfg.AuthEnabled = true
	_, err = server.New(scanner, sessions, cfg)
	assert.ErrorIs(t, err, errors.ErrAPIKeyRequired)

	cfg = server.DefaultConfig()
	cfg.PathPrefix = "api"
	_, err = server.New(scanner, sessions, cfg)
	assert.Error(t, err)
}
