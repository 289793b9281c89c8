package domain

import "time"

// ParameterScopeOutbound is the configuration scope holding preparation flags.
const ParameterScopeOutbound = "outbound"

// Parameter keys for outbound preparation flags.
const (
	FlagManuallyGenerateParent    = "MANUALY_GENERATE_PARENT"
	FlagForceArticleScan          = "FORCE_ARTICLE_SCAN"
	FlagEquipmentScanAtPrep       = "EQUIPMENT_SCAN_AT_PREPARATION"
	FlagNoAskBeforeLocationChange = "NO_ASK_BEFORE_LOCATION_CHANGE"
	FlagPickDefaultQuantity       = "PICK_DEFAULT_QUANTITY"
)

// Parameter is a scoped configuration key/value row.
type Parameter struct {
	Scope     string    `bson:"scope"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// PreparationFlags is the typed configuration snapshot resolved once when a
// session starts. Step predicates read these fields instead of comparing raw
// parameter strings.
type PreparationFlags struct {
	ManuallyGenerateParent    bool `bson:"manuallyGenerateParent" json:"manuallyGenerateParent"`
	ForceArticleScan          bool `bson:"forceArticleScan" json:"forceArticleScan"`
	EquipmentScanAtPrep       bool `bson:"equipmentScanAtPrep" json:"equipmentScanAtPrep"`
	NoAskBeforeLocationChange bool `bson:"noAskBeforeLocationChange" json:"noAskBeforeLocationChange"`
	PickDefaultQuantity       bool `bson:"pickDefaultQuantity" json:"pickDefaultQuantity"`
}

// ParseFlags builds a PreparationFlags snapshot from outbound-scope
// parameters. Flag values are stored as the string "1" when enabled; any
// other value, or a missing parameter, reads as disabled.
func ParseFlags(params []Parameter) PreparationFlags {
	flags := PreparationFlags{}
	for _, p := range params {
		if p.Scope != ParameterScopeOutbound {
			continue
		}
		enabled := p.Value == "1"
		switch p.Key {
		case FlagManuallyGenerateParent:
			flags.ManuallyGenerateParent = enabled
		case FlagForceArticleScan:
			flags.ForceArticleScan = enabled
		case FlagEquipmentScanAtPrep:
			flags.EquipmentScanAtPrep = enabled
		case FlagNoAskBeforeLocationChange:
			flags.NoAskBeforeLocationChange = enabled
		case FlagPickDefaultQuantity:
			flags.PickDefaultQuantity = enabled
		}
	}
	return flags
}
