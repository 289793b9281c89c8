package domain

import "strconv"

// Step codes for the guided preparation workflow. Codes are strictly
// increasing and predicates only ever look at steps with smaller codes.
const (
	StepEquipmentScan   = 5
	StepRoundScan       = 10
	StepParentHUScan    = 15
	StepLocationSelect  = 20
	StepArticleScan     = 30
	StepSerialScan      = 40
	StepQuantityEntry   = 50
	StepDestinationScan = 60
	StepAutoValidate    = 90
)

// StepDefinition is one row of the workflow's state table. Visible decides
// whether the step takes part in the sequence for this session; AutoLoading
// marks steps that resolve without operator input.
type StepDefinition struct {
	Code        int
	Name        string
	Visible     func(s *PickingSession) bool
	AutoLoading func(s *PickingSession) bool
}

// Decision is the engine's verdict on what the RF terminal should show:
// exactly one active step, optionally in a loading state, or the terminal
// auto-validate component.
type Decision struct {
	Step        int    `json:"step"`
	Name        string `json:"name"`
	AutoLoading bool   `json:"autoLoading"`
	Terminal    bool   `json:"terminal"`
}

func never(*PickingSession) bool { return false }

// stepTable is the full workflow in ascending step-code order.
var stepTable = []StepDefinition{
	{
		Code:        StepEquipmentScan,
		Name:        "equipment-scan",
		Visible:     func(s *PickingSession) bool { return s.Flags.EquipmentScanAtPrep },
		AutoLoading: never,
	},
	{
		Code:        StepRoundScan,
		Name:        "round-scan",
		Visible:     func(s *PickingSession) bool { return true },
		AutoLoading: never,
	},
	{
		Code:    StepParentHUScan,
		Name:    "parent-hu-scan",
		Visible: func(s *PickingSession) bool { return s.Flags.ManuallyGenerateParent && !s.HasOutboundHU },
		AutoLoading: never,
	},
	{
		Code:    StepLocationSelect,
		Name:    "location-select",
		Visible: func(s *PickingSession) bool { return true },
		AutoLoading: func(s *PickingSession) bool {
			return len(distinctLocations(s.AdvisedAddresses)) == 1
		},
	},
	{
		Code:        StepArticleScan,
		Name:        "article-scan",
		Visible:     func(s *PickingSession) bool { return s.Flags.ForceArticleScan },
		AutoLoading: never,
	},
	{
		Code:        StepSerialScan,
		Name:        "serial-scan",
		Visible:     func(s *PickingSession) bool { return s.SerializedPick },
		AutoLoading: never,
	},
	{
		Code:        StepQuantityEntry,
		Name:        "quantity-entry",
		Visible:     func(s *PickingSession) bool { return true },
		AutoLoading: func(s *PickingSession) bool { return s.Flags.PickDefaultQuantity },
	},
	{
		Code:        StepDestinationScan,
		Name:        "destination-scan",
		Visible:     func(s *PickingSession) bool { return s.ProcessName == ProcessPickAndPack },
		AutoLoading: never,
	},
	{
		Code:        StepAutoValidate,
		Name:        "auto-validate",
		Visible:     func(s *PickingSession) bool { return true },
		AutoLoading: never,
	},
}

// stepIndex maps step codes to their table position.
var stepIndex = func() map[int]int {
	idx := make(map[int]int, len(stepTable))
	for i, def := range stepTable {
		idx[def.Code] = i
	}
	return idx
}()

// StepName returns the display name for a step code.
func StepName(code int) string {
	if i, ok := stepIndex[code]; ok {
		return stepTable[i].Name
	}
	return ""
}

// Decide selects the active step: the smallest-coded visible step whose
// data is still nil. A step with data is never re-selected. The decision
// is a pure function of the session contents, so repeated evaluation over
// unchanged state always yields the same step.
func (s *PickingSession) Decide() Decision {
	for _, def := range stepTable {
		if !def.Visible(s) {
			continue
		}
		if record, ok := s.Steps[def.Code]; ok && record.Data != nil {
			continue
		}
		return Decision{
			Step:        def.Code,
			Name:        def.Name,
			AutoLoading: def.AutoLoading(s),
			Terminal:    def.Code == StepAutoValidate,
		}
	}
	// Every visible step including the terminal one holds data.
	return Decision{
		Step:     StepAutoValidate,
		Name:     StepName(StepAutoValidate),
		Terminal: true,
	}
}

// SummaryField is one label/value pair of the persistent header.
type SummaryField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// HeaderSummary projects the session into the ordered header shown above
// every step. Fields whose source data is absent are omitted; the
// projection never fails on partially populated sessions.
func (s *PickingSession) HeaderSummary() []SummaryField {
	fields := make([]SummaryField, 0, 8)

	if s.RoundName != "" {
		fields = append(fields, SummaryField{Label: "round", Value: s.RoundName})
	}
	if data := s.StepDataFor(StepEquipmentScan); data != nil && data.EquipmentID != "" {
		fields = append(fields, SummaryField{Label: "equipment", Value: data.EquipmentID})
	}
	if data := s.StepDataFor(StepLocationSelect); data != nil && data.LocationID != "" {
		fields = append(fields, SummaryField{Label: "location", Value: data.LocationID})
	}

	candidate := s.ActiveCandidate()
	if candidate != nil {
		fields = append(fields, SummaryField{Label: "expectedArticle", Value: candidate.ArticleCode})
	}
	if data := s.StepDataFor(StepArticleScan); data != nil && data.ArticleCode != "" {
		fields = append(fields, SummaryField{Label: "scannedArticle", Value: data.ArticleCode})
	}
	if data := s.StepDataFor(StepSerialScan); data != nil && data.SerialNumber != "" {
		fields = append(fields, SummaryField{Label: "serialNumber", Value: data.SerialNumber})
	}
	if data := s.StepDataFor(StepQuantityEntry); data != nil {
		value := strconv.Itoa(data.Quantity)
		if candidate != nil {
			value += "/" + strconv.Itoa(candidate.ExpectedQuantity)
		}
		fields = append(fields, SummaryField{Label: "quantity", Value: value})
	}
	if data := s.StepDataFor(StepDestinationScan); data != nil && data.DestinationUnitID != "" {
		fields = append(fields, SummaryField{Label: "destination", Value: data.DestinationUnitID})
	}

	return fields
}

func distinctLocations(addresses []RoundAdvisedAddress) []string {
	seen := make(map[string]struct{}, len(addresses))
	locations := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if _, ok := seen[addr.LocationID]; ok {
			continue
		}
		seen[addr.LocationID] = struct{}{}
		locations = append(locations, addr.LocationID)
	}
	return locations
}
