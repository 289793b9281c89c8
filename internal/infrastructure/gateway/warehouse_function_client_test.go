package gateway

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/rf-picking-service/pkg/errors"
	"github.com/wms-platform/rf-picking-service/pkg/logging"
	"github.com/wms-platform/rf-picking-service/pkg/metrics"
)

func newTestClient(serverURL string) *WarehouseFunctionClient {
	logger := logging.New(logging.DefaultConfig("rf-picking-service-test"))
	m := metrics.New(metrics.DefaultConfig("rf-picking-service-test"))
	return NewWarehouseFunctionClient(Config{BaseURL: serverURL}, logger, m)
}

func TestGenerateSSCC_OK(t *testing.T) {
	var gotPath string
	var gotExtraDigit float64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req functionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotExtraDigit = req.Parameters["extraDigit"].(float64)

		json.NewEncoder(w).Encode(functionResponse{
			Status: "OK",
			Output: map[string]interface{}{"sscc": "300000000000000017"},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	sscc, err := client.GenerateSSCC(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "300000000000000017", sscc)
	assert.Equal(t, "/functions/K_generateSSCC", gotPath)
	assert.Equal(t, float64(1), gotExtraDigit)
}

func TestGenerateSSCC_KO(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(functionResponse{
			Status: "KO",
			Code:   "SSCC_RANGE_EXHAUSTED",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateSSCC(context.Background(), 0)

	var appErr *errors.AppError
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.Equal(t, "SSCC_RANGE_EXHAUSTED", appErr.Details["backendCode"])
}

func TestGenerateSSCC_EmptyOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(functionResponse{Status: "OK"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateSSCC(context.Background(), 0)

	var appErr *errors.AppError
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, "EMPTY_OUTPUT", appErr.Details["backendCode"])
}

func TestGenerateSSCC_MalformedLabel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(functionResponse{
			Status: "OK",
			Output: map[string]interface{}{"sscc": "30000000017"},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateSSCC(context.Background(), 0)

	var appErr *errors.AppError
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, "MALFORMED_SSCC", appErr.Details["backendCode"])
}

func TestGenerateSSCC_BackendDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateSSCC(context.Background(), 0)

	var appErr *errors.AppError
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.Equal(t, "UNAVAILABLE", appErr.Details["backendCode"])
}
