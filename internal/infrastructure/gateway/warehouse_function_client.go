package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wms-platform/rf-picking-service/pkg/errors"
	"github.com/wms-platform/rf-picking-service/pkg/logging"
	"github.com/wms-platform/rf-picking-service/pkg/metrics"
	"github.com/wms-platform/rf-picking-service/pkg/middleware"
	"github.com/wms-platform/rf-picking-service/pkg/resilience"
)

const (
	functionGenerateSSCC = "K_generateSSCC"

	defaultRequestTimeout = 10 * time.Second
)

// WarehouseFunctionClient invokes backend warehouse functions over HTTP.
// The backend answers every invocation with an OK or KO status; a KO
// carries a function-specific error code and never partial output.
type WarehouseFunctionClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewWarehouseFunctionClient(config Config, logger *logging.Logger, m *metrics.Metrics) *WarehouseFunctionClient {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	return &WarehouseFunctionClient{
		baseURL:    config.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("warehouse-functions"), logger.Logger),
		logger:     logger,
		metrics:    m,
	}
}

type functionRequest struct {
	Parameters map[string]interface{} `json:"parameters"`
}

type functionResponse struct {
	Status string                 `json:"status"`
	Code   string                 `json:"code,omitempty"`
	Output map[string]interface{} `json:"output,omitempty"`
}

// GenerateSSCC asks the backend for the next SSCC in the warehouse range.
// The extra digit selects the pallet numbering range.
func (c *WarehouseFunctionClient) GenerateSSCC(ctx context.Context, extraDigit int) (string, error) {
	params := map[string]interface{}{"extraDigit": extraDigit}

	output, err := c.invoke(ctx, functionGenerateSSCC, params)
	if err != nil {
		c.metrics.RecordSSCCGenerated(false)
		return "", err
	}

	sscc, ok := output["sscc"].(string)
	if !ok || sscc == "" {
		c.metrics.RecordSSCCGenerated(false)
		return "", errors.ErrBackendFunction(functionGenerateSSCC, "EMPTY_OUTPUT")
	}
	if err := middleware.GetValidator().Var(sscc, "sscc"); err != nil {
		c.metrics.RecordSSCCGenerated(false)
		return "", errors.ErrBackendFunction(functionGenerateSSCC, "MALFORMED_SSCC")
	}

	c.metrics.RecordSSCCGenerated(true)
	return sscc, nil
}

func (c *WarehouseFunctionClient) invoke(ctx context.Context, function string, params map[string]interface{}) (map[string]interface{}, error) {
	body, err := json.Marshal(functionRequest{Parameters: params})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal function request: %w", err)
	}

	url := fmt.Sprintf("%s/functions/%s", c.baseURL, function)

	result, err := c.breaker.Execute(ctx, func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build function request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("function call failed: %w", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read function response: %w", err)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("function backend returned status %d", resp.StatusCode)
		}

		var parsed functionResponse
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return nil, fmt.Errorf("failed to decode function response: %w", err)
		}
		return &parsed, nil
	})
	if err != nil {
		c.logger.WithError(err).Error("Warehouse function call failed", "function", function)
		return nil, errors.ErrBackendFunction(function, "UNAVAILABLE")
	}

	parsed := result.(*functionResponse)
	if parsed.Status != "OK" {
		c.logger.Warn("Warehouse function returned KO",
			"function", function,
			"code", parsed.Code,
		)
		return nil, errors.ErrBackendFunction(function, parsed.Code)
	}

	return parsed.Output, nil
}
