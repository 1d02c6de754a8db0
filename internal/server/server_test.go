package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"mcp-ahara/internal/dataset"
	"mcp-ahara/internal/models"
	"mcp-ahara/internal/planner"
	"mcp-ahara/internal/scoring"
	"mcp-ahara/internal/storage"
	factories "mcp-ahara/internal/testutil"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error {
	return errors.New("database is locked")
}

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta planner.Meta    `json:"meta"`
}

type ServerTestSuite struct {
	suite.Suite
	catalog *dataset.Catalog
	store   *storage.SQLiteStorage
	service *planner.Service
	metrics *Metrics
	server  *AharaServer
}

func (s *ServerTestSuite) SetupSuite() {
	catalog, err := dataset.Load()
	s.Require().NoError(err)
	s.catalog = catalog
}

func (s *ServerTestSuite) SetupTest() {
	store, err := storage.NewSQLiteStorage(filepath.Join(s.T().TempDir(), "ahara.db"))
	s.Require().NoError(err)
	s.store = store
	s.service = planner.New(s.catalog, planner.Config{Scoring: scoring.DefaultConfig()},
		planner.WithStore(store),
		planner.WithClock(func() time.Time { return time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC) }),
	)
	s.metrics = NewMetrics()
	s.server = s.newServer(WithPinger(store))
}

func (s *ServerTestSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *ServerTestSuite) newServer(opts ...Option) *AharaServer {
	srv, err := NewAharaServer(&Config{Transport: "http", Host: "127.0.0.1", Port: 0, Name: "ahara", Version: "test"},
		s.service, zap.NewNop(), append([]Option{WithMetrics(s.metrics)}, opts...)...)
	s.Require().NoError(err)
	return srv
}

func (s *ServerTestSuite) call(name string, args interface{}) *httptest.ResponseRecorder {
	raw, err := json.Marshal(args)
	s.Require().NoError(err)
	var arguments map[string]interface{}
	s.Require().NoError(json.Unmarshal(raw, &arguments))

	body, err := json.Marshal(map[string]interface{}{"name": name, "arguments": arguments})
	s.Require().NoError(err)
	return s.post(body)
}

func (s *ServerTestSuite) post(body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (s *ServerTestSuite) decode(rec *httptest.ResponseRecorder) envelope {
	var result toolResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &result))
	s.Require().Len(result.Content, 1)
	s.Equal("text", result.Content[0].Type)

	var env envelope
	s.Require().NoError(json.Unmarshal([]byte(result.Content[0].Text), &env))
	return env
}

func (s *ServerTestSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func (s *ServerTestSuite) TestScoreFoodTool() {
	// Arrange
	patient := factories.Patient(models.DoshaPitta)

	// Act
	rec := s.call("score_food", planner.ScoreFoodRequest{PatientRef: planner.PatientRef{Patient: &patient}, FoodID: "ghee"})

	// Assert
	s.Require().Equal(http.StatusOK, rec.Code)
	env := s.decode(rec)
	s.Equal(scoring.AlgorithmVersion, env.Meta.Algorithm)

	var scored scoring.ScoredFood
	s.Require().NoError(json.Unmarshal(env.Data, &scored))
	s.Equal("ghee", scored.Food.ID)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ToolCalls.WithLabelValues("score_food", "OK")))
}

func (s *ServerTestSuite) TestErrorsMapToStatusCodes() {
	patient := factories.Patient(models.DoshaVata)
	ref := planner.PatientRef{Patient: &patient}

	tests := []struct {
		name   string
		tool   string
		args   interface{}
		status int
		code   string
	}{
		{"unknown tool", "summon_chef", map[string]string{}, http.StatusNotFound, "NOT_FOUND"},
		{"unknown food", "score_food", planner.ScoreFoodRequest{PatientRef: ref, FoodID: "moonbeam"}, http.StatusNotFound, "NOT_FOUND"},
		{"validation", "compose_meal", planner.ComposeMealRequest{PatientRef: ref, MealType: "brunch"}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"wrong argument type", "validate_pair", map[string]interface{}{"food1_id": 5, "food2_id": "ghee"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing patient", "get_patient", planner.GetPatientRequest{PatientID: "patient_nobody"}, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.call(tt.tool, tt.args)

			s.Equal(tt.status, rec.Code)
			s.Equal(tt.code, s.errorCode(rec))
		})
	}
}

func (s *ServerTestSuite) TestRankFoodsToolIsFlat() {
	patient := factories.Patient(models.DoshaKapha)

	rec := s.call("rank_foods", planner.RankFoodsRequest{PatientRef: planner.PatientRef{Patient: &patient}, Limit: 3})

	s.Require().Equal(http.StatusOK, rec.Code)
	var result struct {
		Foods []map[string]interface{} `json:"foods"`
	}
	s.Require().NoError(json.Unmarshal(s.decode(rec).Data, &result))
	s.Require().Len(result.Foods, 3)
	keys := make([]string, 0, len(result.Foods[0]))
	for k := range result.Foods[0] {
		keys = append(keys, k)
	}
	s.ElementsMatch([]string{"food_id", "name", "category", "total_score", "ayurvedic_score", "nutritional_score"}, keys)
}

func (s *ServerTestSuite) TestValidateMealTool() {
	// Arrange
	args := map[string]interface{}{
		"foods": []map[string]interface{}{
			{"food_id": "milk_cow", "quantity": 1},
			{"food_id": "fish_rohu", "quantity": 1},
		},
	}

	// Act
	rec := s.call("validate_meal", args)

	// Assert
	s.Require().Equal(http.StatusOK, rec.Code)
	env := s.decode(rec)
	s.Equal("graph-lookup-v1", env.Meta.Algorithm)

	var result struct {
		IsCompatible bool `json:"is_compatible"`
		SevereCount  int  `json:"severe_count"`
		Warnings     []struct {
			Rule models.ViruddhaRule `json:"rule"`
		} `json:"warnings"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &result))
	s.False(result.IsCompatible)
	s.Equal(1, result.SevereCount)
	s.Require().Len(result.Warnings, 1)
	s.Equal("milk_fish", result.Warnings[0].Rule.ID)
	s.Equal(models.SeveritySevere, result.Warnings[0].Rule.Severity)
}

func (s *ServerTestSuite) TestStartStopsWhenContextIsCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.server.Start(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(5 * time.Second):
		s.Fail("server did not stop after its context was cancelled")
	}
}

func (s *ServerTestSuite) TestInvalidJSON() {
	rec := s.post([]byte(`{"name": "score_food",`))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("INVALID_INPUT", s.errorCode(rec))
}

func (s *ServerTestSuite) TestMethodNotAllowed() {
	req := httptest.NewRequest(http.MethodPut, "/", nil)
	rec := httptest.NewRecorder()

	s.server.Handler().ServeHTTP(rec, req)

	s.Equal(http.StatusMethodNotAllowed, rec.Code)
}

func (s *ServerTestSuite) TestPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	s.server.Handler().ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func (s *ServerTestSuite) TestComposeMealIsCounted() {
	patient := factories.Patient(models.DoshaKapha)

	rec := s.call("compose_meal", planner.ComposeMealRequest{PatientRef: planner.PatientRef{Patient: &patient}, MealType: models.MealBreakfast})
	s.Require().Equal(http.StatusOK, rec.Code)

	var meal planner.PlannedMeal
	s.Require().NoError(json.Unmarshal(s.decode(rec).Data, &meal))
	satisfied := "false"
	if meal.ConstraintsSatisfied {
		satisfied = "true"
	}
	s.Equal(1.0, testutil.ToFloat64(s.metrics.MealsComposed.WithLabelValues("breakfast", satisfied)))

	metrics := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(metrics, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, metrics.Code)
	s.Contains(metrics.Body.String(), "ahara_meals_composed_total")
	s.Contains(metrics.Body.String(), `ahara_tool_calls_total{code="OK",tool="compose_meal"} 1`)
}

func (s *ServerTestSuite) TestPatientLifecycle() {
	// Arrange
	patient := factories.Patient(models.DoshaVata)

	// Act
	saved := s.call("save_patient", planner.SavePatientRequest{Patient: patient})
	meal := s.call("save_meal", planner.SaveMealRequest{
		PatientID: patient.ID,
		MealType:  models.MealDinner,
		Foods:     []planner.FoodQuantity{{FoodID: "moong_dal", Quantity: 1}},
	})
	meals := s.call("get_meals", planner.GetMealsRequest{PatientID: patient.ID})

	// Assert
	s.Equal(http.StatusOK, saved.Code)
	s.Equal(http.StatusOK, meal.Code)
	s.Require().Equal(http.StatusOK, meals.Code)
	var found []models.SavedMeal
	s.Require().NoError(json.Unmarshal(s.decode(meals).Data, &found))
	s.Require().Len(found, 1)
	s.Equal("moong_dal", found[0].Items[0].FoodID)
}

func (s *ServerTestSuite) TestListTools() {
	rec := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tools", nil))

	s.Require().Equal(http.StatusOK, rec.Code)
	var body struct {
		Tools []ToolInfo `json:"tools"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Len(body.Tools, len(s.server.tools))
	s.Equal("score_food", body.Tools[0].Name)
	s.Equal(ToolArgument{Name: "food_id", Type: "string", Required: true}, body.Tools[0].Arguments[0])
}

func (s *ServerTestSuite) TestHealth() {
	rec := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"status":"ok"`)
	s.Contains(rec.Body.String(), `"storage":"ok"`)
}

func (s *ServerTestSuite) TestHealthDegraded() {
	srv := s.newServer(WithPinger(failingPinger{}))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.Contains(rec.Body.String(), `"storage":"unreachable"`)
}

func (s *ServerTestSuite) TestRejectsOtherTransports() {
	_, err := NewAharaServer(&Config{Transport: "stdio"}, s.service, zap.NewNop())

	s.Error(err)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func TestDescribeArguments(t *testing.T) {
	args := describeArguments(reflect.TypeOf(planner.FindSubstitutesRequest{}))

	names := make([]string, 0, len(args))
	for _, a := range args {
		names = append(names, a.Name)
	}
	assert.Equal(t, "food_id,reason,patient,patient_id,count", strings.Join(names, ","))
	assert.True(t, args[0].Required)
	assert.Equal(t, "object", args[2].Type)
	assert.Equal(t, "integer", args[4].Type)
	assert.Empty(t, describeArguments(nil))
}
