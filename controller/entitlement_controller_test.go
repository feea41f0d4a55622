// controller/entitlement_controller_test.go
package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/assetops/entitlements/controller"
	ent_errors "github.com/assetops/entitlements/errors"
	logger "github.com/assetops/entitlements/logging"
	"github.com/assetops/entitlements/model"
	"github.com/assetops/entitlements/test/mock"
)

func setupRouter(svc *mock.MockEntitlementService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	controller.NewEntitlementController(svc).RegisterRoutes(api)
	return r
}

func TestEntitlementController(t *testing.T) {
	// Initialize logger
	logger.InitLogger("")
	defer logger.Sync()

	t.Run("GetEntitlement_Success", func(t *testing.T) {
		svc := &mock.MockEntitlementService{}
		svc.On("CheckServiceTag", tmock.Anything, "ABC123").
			Return(model.WarrantySummary{
				ServiceTag:              "ABC123",
				ServiceLevelDescription: "ProSupport",
				StartDate:               "2024-01-01",
				EndDate:                 "2025-01-01",
			}, nil)
		router := setupRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/entitlement/ABC123", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var summary model.WarrantySummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.Equal(t, "ABC123", summary.ServiceTag)
		assert.Equal(t, "ProSupport", summary.ServiceLevelDescription)
	})

	t.Run("GetEntitlementByBody_Success", func(t *testing.T) {
		svc := &mock.MockEntitlementService{}
		svc.On("CheckServiceTag", tmock.Anything, "XYZ789").
			Return(model.WarrantySummary{ServiceTag: "XYZ789"}, nil)
		router := setupRouter(svc)

		body := strings.NewReader(`{"serviceTag":"XYZ789"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/entitlement", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("GetEntitlementByBody_MissingTag", func(t *testing.T) {
		svc := &mock.MockEntitlementService{}
		router := setupRouter(svc)

		body := strings.NewReader(`{}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/entitlement", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp["error"], "serviceTag")
	})

	t.Run("GetEntitlement_UpstreamError", func(t *testing.T) {
		svc := &mock.MockEntitlementService{}
		svc.On("CheckServiceTag", tmock.Anything, "ABC123").
			Return(model.WarrantySummary{}, &ent_errors.UpstreamError{StatusCode: 500, Body: "boom"})
		router := setupRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/entitlement/ABC123", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.NotContains(t, w.Body.String(), "boom", "upstream body must not leak to clients")
	})

	t.Run("GetEntitlement_AuthenticationError", func(t *testing.T) {
		svc := &mock.MockEntitlementService{}
		svc.On("CheckServiceTag", tmock.Anything, "ABC123").
			Return(model.WarrantySummary{}, &ent_errors.AuthenticationError{Reason: "rejected"})
		router := setupRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/entitlement/ABC123", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("GetEntitlement_NetworkError", func(t *testing.T) {
		svc := &mock.MockEntitlementService{}
		svc.On("CheckServiceTag", tmock.Anything, "ABC123").
			Return(model.WarrantySummary{}, &ent_errors.NetworkError{Op: "fetch entitlements"})
		router := setupRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/entitlement/ABC123", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	})

	t.Run("GetEntitlementRecords_Success", func(t *testing.T) {
		svc := &mock.MockEntitlementService{}
		svc.On("EntitlementRecords", tmock.Anything, "ABC123").
			Return([]model.Record{
				{"serviceTag": "ABC123", "serviceLevelDescription": "ProSupport"},
			}, nil)
		router := setupRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/entitlement/ABC123/records", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var records []model.Record
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "ProSupport", records[0]["serviceLevelDescription"])
	})

	t.Run("HealthCheck", func(t *testing.T) {
		svc := &mock.MockEntitlementService{}
		router := setupRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/health", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})
}
