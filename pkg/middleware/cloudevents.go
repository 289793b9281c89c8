package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/wms-platform/rf-picking-service/pkg/cloudevents"
	"github.com/wms-platform/rf-picking-service/pkg/logging"
)

// CloudEvents WMS extension context keys
const (
	ContextKeyWMSCorrelationID = "wmsCorrelationId"
	ContextKeyWMSTransactionID = "wmsTransactionId"
	ContextKeyWMSWorkflowID    = "wmsWorkflowId"
)

// CloudEvents WMS extension HTTP header names
const (
	HeaderWMSCorrelationID = "X-WMS-Correlation-ID"
	HeaderWMSTransactionID = "X-WMS-Transaction-ID"
	HeaderWMSWorkflowID    = "X-WMS-Workflow-ID"
)

// CloudEvents middleware extracts WMS CloudEvents extensions from HTTP headers
// and adds them to the request context for downstream logging and propagation.
func CloudEvents() gin.HandlerFunc {
	return func(c *gin.Context) {
		wmsCorrelationID := c.GetHeader(HeaderWMSCorrelationID)
		wmsTransactionID := c.GetHeader(HeaderWMSTransactionID)
		wmsWorkflowID := c.GetHeader(HeaderWMSWorkflowID)

		if wmsCorrelationID != "" {
			c.Set(ContextKeyWMSCorrelationID, wmsCorrelationID)
			ctx := logging.ContextWithCorrelationID(c.Request.Context(), wmsCorrelationID)
			c.Request = c.Request.WithContext(ctx)
			c.Header(HeaderWMSCorrelationID, wmsCorrelationID)
		}
		if wmsTransactionID != "" {
			c.Set(ContextKeyWMSTransactionID, wmsTransactionID)
			c.Header(HeaderWMSTransactionID, wmsTransactionID)
		}
		if wmsWorkflowID != "" {
			c.Set(ContextKeyWMSWorkflowID, wmsWorkflowID)
			c.Header(HeaderWMSWorkflowID, wmsWorkflowID)
		}

		c.Next()
	}
}

// GetWMSCorrelationID extracts WMS correlation ID from Gin context
func GetWMSCorrelationID(c *gin.Context) string {
	if val, exists := c.Get(ContextKeyWMSCorrelationID); exists {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}

// GetWMSTransactionID extracts WMS transaction ID from Gin context
func GetWMSTransactionID(c *gin.Context) string {
	if val, exists := c.Get(ContextKeyWMSTransactionID); exists {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}

// GetWMSWorkflowID extracts WMS workflow ID from Gin context
func GetWMSWorkflowID(c *gin.Context) string {
	if val, exists := c.Get(ContextKeyWMSWorkflowID); exists {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}

// ApplyCloudEventContext copies request-scoped WMS extensions onto an
// outgoing event so correlation survives the HTTP hop.
func ApplyCloudEventContext(c *gin.Context, event *cloudevents.WMSCloudEvent) {
	if event == nil {
		return
	}
	if event.CorrelationID == "" {
		event.CorrelationID = GetWMSCorrelationID(c)
	}
	if event.WorkflowID == "" {
		event.WorkflowID = GetWMSWorkflowID(c)
	}
}

// PropagationCloudEventHeaders returns CloudEvents WMS headers for propagation to downstream services
func PropagationCloudEventHeaders(c *gin.Context) map[string]string {
	headers := make(map[string]string)

	if id := GetWMSCorrelationID(c); id != "" {
		headers[HeaderWMSCorrelationID] = id
	}
	if id := GetWMSTransactionID(c); id != "" {
		headers[HeaderWMSTransactionID] = id
	}
	if id := GetWMSWorkflowID(c); id != "" {
		headers[HeaderWMSWorkflowID] = id
	}

	return headers
}
