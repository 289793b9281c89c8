package cloudevents

import (
	"github.com/wms-platform/rf-picking-service/pkg/tenant"
)

// CloudEvents extension attribute names for WMS tenant context
const (
	ExtTenantID    = "wmstenantid"
	ExtFacilityID  = "wmsfacilityid"
	ExtWarehouseID = "wmswarehouseid"
	ExtSellerID    = "wmssellerid"
	ExtChannelID   = "wmschannelid"

	ExtCorrelationID = "wmscorrelationid"
	ExtTransactionID = "wmstransactionid"
	ExtWorkflowID    = "wmsworkflowid"
)

// HTTP header names for WMS tenant context
const (
	HeaderTenantID    = "X-WMS-Tenant-ID"
	HeaderFacilityID  = "X-WMS-Facility-ID"
	HeaderWarehouseID = "X-WMS-Warehouse-ID"
	HeaderSellerID    = "X-WMS-Seller-ID"
	HeaderChannelID   = "X-WMS-Channel-ID"
)

// SetTenantContext stamps tenant context onto the event's extension attributes
func (e *WMSCloudEvent) SetTenantContext(tc *tenant.Context) {
	if tc == nil {
		return
	}
	if e.Extensions == nil {
		e.Extensions = make(map[string]interface{})
	}
	if tc.TenantID != "" {
		e.Extensions[ExtTenantID] = tc.TenantID
	}
	if tc.FacilityID != "" {
		e.Extensions[ExtFacilityID] = tc.FacilityID
	}
	if tc.WarehouseID != "" {
		e.Extensions[ExtWarehouseID] = tc.WarehouseID
	}
	if tc.SellerID != "" {
		e.Extensions[ExtSellerID] = tc.SellerID
	}
	if tc.ChannelID != "" {
		e.Extensions[ExtChannelID] = tc.ChannelID
	}
}

// GetTenantContext extracts tenant context from the event's extension attributes
func (e *WMSCloudEvent) GetTenantContext() *tenant.Context {
	tc := &tenant.Context{}
	if e.Extensions == nil {
		return tc
	}
	if v, ok := e.Extensions[ExtTenantID].(string); ok {
		tc.TenantID = v
	}
	if v, ok := e.Extensions[ExtFacilityID].(string); ok {
		tc.FacilityID = v
	}
	if v, ok := e.Extensions[ExtWarehouseID].(string); ok {
		tc.WarehouseID = v
	}
	if v, ok := e.Extensions[ExtSellerID].(string); ok {
		tc.SellerID = v
	}
	if v, ok := e.Extensions[ExtChannelID].(string); ok {
		tc.ChannelID = v
	}
	return tc
}

// WithTenantContext sets tenant context and returns the event
func (e *WMSCloudEvent) WithTenantContext(tc *tenant.Context) *WMSCloudEvent {
	e.SetTenantContext(tc)
	return e
}

// HasTenantContext returns true if all required tenant fields are set
func (e *WMSCloudEvent) HasTenantContext() bool {
	tc := e.GetTenantContext()
	return tc.TenantID != "" && tc.FacilityID != "" && tc.WarehouseID != ""
}

// ValidateTenantContext validates that required tenant context is present
func (e *WMSCloudEvent) ValidateTenantContext() error {
	return e.GetTenantContext().Validate()
}
