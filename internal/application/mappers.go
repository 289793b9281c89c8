package application

import "github.com/wms-platform/rf-picking-service/internal/domain"

// ToSessionDTO converts a PickingSession aggregate to its response shape,
// including the current step decision and header projection.
func ToSessionDTO(s *domain.PickingSession) *SessionDTO {
	decision := s.Decide()

	steps := make(map[int]StepDTO, len(s.Steps))
	for code, record := range s.Steps {
		steps[code] = StepDTO{
			PreviousStep: record.PreviousStep,
			Data:         toStepDataDTO(record.Data),
		}
	}

	header := s.HeaderSummary()
	headerDTO := make([]SummaryFieldDTO, len(header))
	for i, f := range header {
		headerDTO[i] = SummaryFieldDTO{Label: f.Label, Value: f.Value}
	}

	dto := &SessionDTO{
		SessionID:     s.SessionID,
		OwnerID:       s.OwnerID,
		ProcessName:   string(s.ProcessName),
		SchemaVersion: s.SchemaVersion,
		Status:        string(s.Status),
		CurrentStep:   s.CurrentStep,
		Decision: DecisionDTO{
			Step:        decision.Step,
			Name:        decision.Name,
			AutoLoading: decision.AutoLoading,
			Terminal:    decision.Terminal,
		},
		Header: headerDTO,
		Steps:  steps,
		Flags: FlagsDTO{
			ManuallyGenerateParent:    s.Flags.ManuallyGenerateParent,
			ForceArticleScan:          s.Flags.ForceArticleScan,
			EquipmentScanAtPrep:       s.Flags.EquipmentScanAtPrep,
			NoAskBeforeLocationChange: s.Flags.NoAskBeforeLocationChange,
			PickDefaultQuantity:       s.Flags.PickDefaultQuantity,
		},
		RoundID:        s.RoundID,
		RoundName:      s.RoundName,
		CandidateIndex: s.CandidateIndex,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		CompletedAt:    s.CompletedAt,
	}

	if candidate := s.ActiveCandidate(); candidate != nil {
		dto.Candidate = &AdvisedAddressDTO{
			LocationID:       candidate.LocationID,
			ArticleID:        candidate.ArticleID,
			ArticleCode:      candidate.ArticleCode,
			ContentID:        candidate.ContentID,
			AdvisedQuantity:  candidate.AdvisedQuantity,
			ExpectedQuantity: candidate.ExpectedQuantity,
		}
	}

	return dto
}

func toStepDataDTO(data *domain.StepData) *StepDataDTO {
	if data == nil {
		return nil
	}
	return &StepDataDTO{
		EquipmentID:          data.EquipmentID,
		RoundName:            data.RoundName,
		ParentHandlingUnitID: data.ParentHandlingUnitID,
		LocationID:           data.LocationID,
		ArticleCode:          data.ArticleCode,
		SerialNumber:         data.SerialNumber,
		Quantity:             data.Quantity,
		DestinationUnitID:    data.DestinationUnitID,
	}
}

// ToHandlingUnitDTO converts a handling unit to its response shape
func ToHandlingUnitDTO(u *domain.HandlingUnit) *HandlingUnitDTO {
	if u == nil {
		return nil
	}
	return &HandlingUnitDTO{
		UnitID:     u.UnitID,
		SSCC:       u.SSCC,
		ModelType:  string(u.ModelType),
		Status:     string(u.Status),
		Category:   string(u.Category),
		LocationID: u.LocationID,
		UpdatedAt:  u.UpdatedAt,
	}
}

// ToHandlingUnitOutboundDTO converts an outbound binding to its response shape
func ToHandlingUnitOutboundDTO(o *domain.HandlingUnitOutbound) *HandlingUnitOutboundDTO {
	if o == nil {
		return nil
	}
	return &HandlingUnitOutboundDTO{
		OutboundID:     o.OutboundID,
		HandlingUnitID: o.HandlingUnitID,
		DeliveryID:     o.DeliveryID,
		RoundID:        o.RoundID,
		Status:         string(o.Status),
		UpdatedAt:      o.UpdatedAt,
	}
}

// ToHandlingUnitContentDTO converts a content row to its response shape
func ToHandlingUnitContentDTO(c *domain.HandlingUnitContent) *HandlingUnitContentDTO {
	if c == nil {
		return nil
	}
	return &HandlingUnitContentDTO{
		ContentID:      c.ContentID,
		HandlingUnitID: c.HandlingUnitID,
		ArticleID:      c.ArticleID,
		Quantity:       c.Quantity,
		StockStatus:    string(c.StockStatus),
	}
}
