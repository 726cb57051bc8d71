package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"huddleboard/internal/analysis"
	"huddleboard/internal/data"
	"huddleboard/internal/models"
	"huddleboard/internal/monitoring"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/tmc/langchaingo/llms"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockLLM is a mock implementation of the LLM interface
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	args := m.Called(ctx, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llms.ContentResponse), args.Error(1)
}

func testBuckets() *data.Buckets {
	dataset := &models.Dataset{
		Diners: []models.Diner{
			{
				Name:               "Emily Chen",
				DietaryInformation: "Gluten-free",
				Reservations:       []models.Reservation{{Date: "2024-05-20", NumberOfPeople: 2}},
				Emails: []models.Email{
					{Subject: "Table request", CombinedThread: "Could we add one more guest?"},
				},
			},
			{
				Name:            "David Martinez",
				SpecialOccasion: "Anniversary",
				OtherInfo:       "VIP guest",
				Reservations:    []models.Reservation{{Date: "2024-06-15", NumberOfPeople: 4}},
			},
		},
	}
	return data.Bucket(dataset, data.DefaultDateRanges())
}

func testAPI(mockLLM *MockLLM, secret string) *DashboardAPI {
	monitor := monitoring.NewMonitor()
	return NewDashboardAPI(Options{
		Buckets:    testBuckets(),
		FollowUp:   analysis.NewFollowUpAnalyzer(mockLLM, monitor),
		Huddle:     analysis.NewHuddleAnalyzer(mockLLM, nil),
		Cache:      analysis.NewCache(nil),
		Monitor:    monitor,
		AuthSecret: secret,
	})
}

func doRequest(api *DashboardAPI, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	api.Router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	api := testAPI(new(MockLLM), "")

	w := doRequest(api, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestListBuckets(t *testing.T) {
	api := testAPI(new(MockLLM), "")

	w := doRequest(api, http.MethodGet, "/api/v1/buckets")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Buckets []string `json:"buckets"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Buckets, 4)
	assert.Equal(t, "2024-05 to 2024-09", resp.Buckets[0])
}

func TestGetReservations(t *testing.T) {
	api := testAPI(new(MockLLM), "")

	w := doRequest(api, http.MethodGet, "/api/v1/buckets/2024-05%20to%202024-09/reservations")

	assert.Equal(t, http.StatusOK, w.Code)

	var table data.Table
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &table))
	assert.Equal(t, 2, table.TotalRows)
	assert.False(t, table.Collapsed)

	// VIP mention in the notes flags the row.
	assert.True(t, table.Rows[1].VIP)
	assert.False(t, table.Rows[0].VIP)
}

func TestGetReservationsUnknownBucket(t *testing.T) {
	api := testAPI(new(MockLLM), "")

	w := doRequest(api, http.MethodGet, "/api/v1/buckets/nope/reservations")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown bucket")
}

func TestGetDietary(t *testing.T) {
	api := testAPI(new(MockLLM), "")

	w := doRequest(api, http.MethodGet, "/api/v1/buckets/2024-05%20to%202024-09/dietary")

	assert.Equal(t, http.StatusOK, w.Code)

	var table data.Table
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &table))
	assert.Equal(t, 1, table.TotalRows)
	assert.Equal(t, "Emily Chen", table.Rows[0].Name)
}

func TestGetStats(t *testing.T) {
	api := testAPI(new(MockLLM), "")

	w := doRequest(api, http.MethodGet, "/api/v1/buckets/2024-05%20to%202024-09/stats")

	assert.Equal(t, http.StatusOK, w.Code)

	var stats data.Stats
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalReservations)
	assert.Equal(t, 6, stats.TotalGuests)
	assert.Equal(t, 1, stats.DinersWithDietary)
	assert.Equal(t, 1, stats.SpecialOccasions)
}

func TestGetFollowUpsCachesResult(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).Return(&llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: `[
			{"Name": "Emily Chen", "Reservation": "2024-05-20", "Reason": "Table adjustment"}
		]`}},
	}, nil)

	api := testAPI(mockLLM, "")

	w := doRequest(api, http.MethodGet, "/api/v1/buckets/2024-05%20to%202024-09/followups")
	assert.Equal(t, http.StatusOK, w.Code)

	var first struct {
		Report    models.FollowUpReport `json:"report"`
		Formatted string                `json:"formatted"`
		Cached    bool                  `json:"cached"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.False(t, first.Cached)
	assert.Len(t, first.Report.FollowUps, 1)
	assert.Contains(t, first.Formatted, "Emily Chen")

	// Second request hits the cache without another model call.
	w = doRequest(api, http.MethodGet, "/api/v1/buckets/2024-05%20to%202024-09/followups")
	assert.Equal(t, http.StatusOK, w.Code)

	var second struct {
		Cached bool `json:"cached"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.True(t, second.Cached)

	mockLLM.AssertNumberOfCalls(t, "GenerateContent", 1)
}

func TestGetFollowUpsForceRegenerates(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything).Return(&llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: `[]`}},
	}, nil)

	api := testAPI(mockLLM, "")

	doRequest(api, http.MethodGet, "/api/v1/buckets/2024-05%20to%202024-09/followups")
	doRequest(api, http.MethodGet, "/api/v1/buckets/2024-05%20to%202024-09/followups?force=true")

	mockLLM.AssertNumberOfCalls(t, "GenerateContent", 2)
}

func TestGetLatestHuddleEmpty(t *testing.T) {
	api := testAPI(new(MockLLM), "")

	w := doRequest(api, http.MethodGet, "/api/v1/huddle/latest")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No huddle has been analyzed yet")
}

func TestGetMetricsSummary(t *testing.T) {
	api := testAPI(new(MockLLM), "")

	w := doRequest(api, http.MethodGet, "/api/v1/metrics/summary")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "uptime_seconds")
}

func TestAuthMiddleware(t *testing.T) {
	api := testAPI(new(MockLLM), "test-secret")

	// No token
	w := doRequest(api, http.MethodGet, "/api/v1/buckets")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Bad token
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/buckets", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	api.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "huddlecli",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/buckets", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	api.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Health stays open
	w = doRequest(api, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTranscribeHuddleRequiresFile(t *testing.T) {
	api := testAPI(new(MockLLM), "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/huddle/transcribe", nil)
	api.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "audio file is required")
}

func TestTranscribeHuddleRejectsUnsupportedFormat(t *testing.T) {
	api := testAPI(new(MockLLM), "")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio", "notes.txt")
	assert.NoError(t, err)
	part.Write([]byte("not audio"))
	assert.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/huddle/transcribe", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	api.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported audio format")
}
