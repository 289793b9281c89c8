package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/rf-picking-service/pkg/tenant"
)

// HTTP header names for tenant context
const (
	HeaderWMSTenantID    = "X-WMS-Tenant-ID"
	HeaderWMSFacilityID  = "X-WMS-Facility-ID"
	HeaderWMSWarehouseID = "X-WMS-Warehouse-ID"
	HeaderWMSSellerID    = "X-WMS-Seller-ID"
	HeaderWMSChannelID   = "X-WMS-Channel-ID"
)

// TenantAuthConfig holds configuration for tenant authorization middleware
type TenantAuthConfig struct {
	// Required when true, requests without tenant context will be rejected
	Required bool

	// Validator is an optional interface to validate tenant access
	Validator TenantValidator

	// DefaultTenantID is used when no tenant header is provided and Required is false
	DefaultTenantID string

	// DefaultFacilityID is used when no facility header is provided and Required is false
	DefaultFacilityID string

	// DefaultWarehouseID is used when no warehouse header is provided and Required is false
	DefaultWarehouseID string
}

// TenantValidator interface for validating tenant access
type TenantValidator interface {
	// ValidateTenantAccess checks if the user (from auth context) has access to the tenant
	ValidateTenantAccess(userID, tenantID, facilityID string) error

	// GetUserTenants returns the list of tenants a user has access to
	GetUserTenants(userID string) ([]string, error)
}

// DefaultTenantAuthConfig returns a default configuration for backward compatibility
func DefaultTenantAuthConfig() *TenantAuthConfig {
	return &TenantAuthConfig{
		Required:           false,
		DefaultTenantID:    tenant.DefaultTenantID,
		DefaultFacilityID:  tenant.DefaultFacilityID,
		DefaultWarehouseID: tenant.DefaultWarehouseID,
	}
}

// TenantAuth middleware extracts tenant context from headers and adds it to the request context.
// It can optionally validate that the requesting user has access to the tenant.
func TenantAuth(config *TenantAuthConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultTenantAuthConfig()
	}

	return func(c *gin.Context) {
		tenantID := c.GetHeader(HeaderWMSTenantID)
		facilityID := c.GetHeader(HeaderWMSFacilityID)
		warehouseID := c.GetHeader(HeaderWMSWarehouseID)
		sellerID := c.GetHeader(HeaderWMSSellerID)
		channelID := c.GetHeader(HeaderWMSChannelID)

		if tenantID == "" && !config.Required {
			tenantID = config.DefaultTenantID
		}
		if facilityID == "" && !config.Required {
			facilityID = config.DefaultFacilityID
		}
		if warehouseID == "" && !config.Required {
			warehouseID = config.DefaultWarehouseID
		}

		if config.Required && tenantID == "" && facilityID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "MISSING_TENANT_CONTEXT",
				"message": "Tenant or facility context is required",
			})
			return
		}

		if config.Validator != nil && tenantID != "" {
			// User ID is set by the authentication middleware upstream
			userID := c.GetString("userId")
			if userID == "" {
				if val, exists := c.Get("user_id"); exists {
					if uid, ok := val.(string); ok {
						userID = uid
					}
				}
			}

			if userID != "" {
				if err := config.Validator.ValidateTenantAccess(userID, tenantID, facilityID); err != nil {
					c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
						"code":    "UNAUTHORIZED_TENANT_ACCESS",
						"message": "Access to this tenant/facility is not authorized",
					})
					return
				}
			}
		}

		tc := &tenant.Context{
			TenantID:    tenantID,
			FacilityID:  facilityID,
			WarehouseID: warehouseID,
			SellerID:    sellerID,
			ChannelID:   channelID,
		}

		ctx := tenant.ToContext(c.Request.Context(), tc)
		c.Request = c.Request.WithContext(ctx)
		c.Set("tenantContext", tc)

		c.Next()
	}
}

// GetTenantContext retrieves the tenant context from Gin context
func GetTenantContext(c *gin.Context) *tenant.Context {
	if val, exists := c.Get("tenantContext"); exists {
		if tc, ok := val.(*tenant.Context); ok {
			return tc
		}
	}
	return tenant.FromContextOptional(c.Request.Context())
}

// RequireTenant is a middleware that ensures tenant context is present.
// Use this for endpoints that must have tenant context.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc := GetTenantContext(c)
		if tc == nil || tc.IsEmpty() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "MISSING_TENANT_CONTEXT",
				"message": "Tenant context is required for this endpoint",
			})
			return
		}
		c.Next()
	}
}

// RequireFacility is a middleware that ensures facility context is present.
// Use this for endpoints that are facility-specific.
func RequireFacility() gin.HandlerFunc {
	return func(c *gin.Context) {
		tc := GetTenantContext(c)
		if tc == nil || !tc.HasFacility() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "MISSING_FACILITY_CONTEXT",
				"message": "Facility context is required for this endpoint",
			})
			return
		}
		c.Next()
	}
}
