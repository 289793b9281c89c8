package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wms-platform/rf-picking-service/internal/domain"
	"github.com/wms-platform/rf-picking-service/pkg/errors"
	"github.com/wms-platform/rf-picking-service/pkg/logging"
	"github.com/wms-platform/rf-picking-service/pkg/metrics"
)

// WarehouseFunctionGateway invokes backend warehouse procedures.
// GenerateSSCC returns an AppError carrying the backend payload when the
// function reports a logical failure.
type WarehouseFunctionGateway interface {
	GenerateSSCC(ctx context.Context, extraDigit int) (string, error)
}

// PackingApplicationService executes the terminal-step packing commit as
// one compensated unit of work.
type PackingApplicationService struct {
	units     domain.HandlingUnitRepository
	rounds    domain.RoundRepository
	movements domain.MovementRepository
	locations domain.LocationRepository
	features  domain.FeatureRepository
	gateway   WarehouseFunctionGateway
	publisher domain.EventPublisher
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewPackingApplicationService creates a new PackingApplicationService
func NewPackingApplicationService(
	units domain.HandlingUnitRepository,
	rounds domain.RoundRepository,
	movements domain.MovementRepository,
	locations domain.LocationRepository,
	features domain.FeatureRepository,
	gateway WarehouseFunctionGateway,
	publisher domain.EventPublisher,
	logger *logging.Logger,
	m *metrics.Metrics,
) *PackingApplicationService {
	return &PackingApplicationService{
		units:     units,
		rounds:    rounds,
		movements: movements,
		locations: locations,
		features:  features,
		gateway:   gateway,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
	}
}

// ValidateRoundPacking commits one pick/pack action: resolve or create the
// destination handling unit and outbound, allocate the moving quantity
// across round lines, decrement the source content and record the stock
// movement. Every committing write pushes its undo; the first failure
// after a commit unwinds the stack once.
func (s *PackingApplicationService) ValidateRoundPacking(ctx context.Context, cmd ValidateRoundPackingCommand) (*RoundPackingResultDTO, error) {
	if cmd.MovingQuantity <= 0 {
		return nil, errors.ErrValidation("movingQuantity must be positive")
	}

	transactionID := uuid.NewString()
	comp := NewCompensator(transactionID, s.logger)

	result, err := s.execute(ctx, transactionID, comp, cmd)
	if err != nil {
		if comp.Committed() {
			undone := comp.Rollback(ctx)
			s.metrics.RecordCompensation("rolled_back")
			s.publishCompensated(ctx, transactionID, cmd.RoundID, undone, err)
		}
		s.metrics.RecordRoundPacked(cmd.HandlingUnitModel, false)
		s.logger.WithError(err).Error("Round packing failed",
			"transactionId", transactionID,
			"roundId", cmd.RoundID,
			"rolledBack", comp.Committed(),
		)
		return nil, err
	}

	s.metrics.RecordRoundPacked(cmd.HandlingUnitModel, true)
	s.metrics.RecordQuantityPacked(cmd.MovingQuantity)
	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType: "packing.validated",
		EntityID:  cmd.RoundID,
		Details: map[string]any{
			"transactionId": transactionID,
			"articleId":     cmd.ArticleID,
			"quantity":      fmt.Sprintf("%d", cmd.MovingQuantity),
		},
	})

	return result, nil
}

func (s *PackingApplicationService) execute(ctx context.Context, transactionID string, comp *Compensator, cmd ValidateRoundPackingCommand) (*RoundPackingResultDTO, error) {
	round, err := s.rounds.FindByID(ctx, cmd.RoundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	if round == nil {
		return nil, errors.ErrNotFound("round")
	}

	finalUnit, finalOutbound, created, err := s.resolveDestination(ctx, comp, cmd, round)
	if err != nil {
		return nil, err
	}

	lines, err := s.rounds.FindLineDetails(ctx, cmd.RoundID, cmd.ArticleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get round lines: %w", err)
	}

	plan := domain.PlanAllocation(cmd.MovingQuantity, lines)

	destContent, err := s.units.FindContentByUnitAndArticle(ctx, finalUnit.UnitID, cmd.ArticleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination content: %w", err)
	}

	for _, alloc := range plan {
		destContent, err = s.applyAllocation(ctx, comp, cmd, finalOutbound, finalUnit, destContent, alloc)
		if err != nil {
			return nil, err
		}
	}

	if cmd.ResType == domain.FeatureTypeSerialNumber && destContent != nil {
		if err := s.rebindSerialFeature(ctx, comp, cmd.SourceContentID, destContent.ContentID, cmd.FeatureValue); err != nil {
			return nil, err
		}
	}

	// The source content drops by the full moving quantity in one write,
	// independent of how the allocation split it across lines.
	sourceContent, err := s.units.FindContentByID(ctx, cmd.SourceContentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get source content: %w", err)
	}
	if sourceContent == nil {
		return nil, errors.ErrNotFound("source content")
	}
	if err := s.units.AddContentQuantity(ctx, sourceContent.ContentID, -cmd.MovingQuantity, sourceContent.Version); err != nil {
		return nil, fmt.Errorf("failed to decrement source content: %w", err)
	}
	sourceVersion := sourceContent.Version + 1
	comp.Push("restore source content quantity", func(ctx context.Context) error {
		return s.units.AddContentQuantity(ctx, sourceContent.ContentID, cmd.MovingQuantity, sourceVersion)
	})

	movement := domain.NewMovement(
		transactionID,
		cmd.ArticleID,
		cmd.MovingQuantity,
		cmd.SourceLocationID,
		cmd.RoundHandlingUnit,
		cmd.SourceContentID,
		finalUnit.LocationID,
		finalUnit.UnitID,
		contentID(destContent),
	)

	events := []domain.DomainEvent{
		&domain.RoundPackingValidatedEvent{
			TransactionID:      transactionID,
			RoundID:            cmd.RoundID,
			ArticleID:          cmd.ArticleID,
			Quantity:           cmd.MovingQuantity,
			FinalHandlingUnit:  finalUnit.UnitID,
			SourceHandlingUnit: cmd.RoundHandlingUnit,
			ValidatedAt:        time.Now(),
		},
		&domain.MovementCreatedEvent{
			MovementID:     movement.MovementID,
			TransactionID:  transactionID,
			ArticleID:      cmd.ArticleID,
			Quantity:       cmd.MovingQuantity,
			SourceLocation: cmd.SourceLocationID,
			TargetLocation: finalUnit.LocationID,
			CreatedAt:      movement.CreatedAt,
		},
	}
	if created {
		events = append(events, &domain.HandlingUnitCreatedEvent{
			UnitID:    finalUnit.UnitID,
			SSCC:      finalUnit.SSCC,
			RoundID:   cmd.RoundID,
			CreatedAt: finalUnit.CreatedAt,
		})
	}

	if err := s.movements.Save(ctx, movement, events); err != nil {
		return nil, fmt.Errorf("failed to save movement: %w", err)
	}
	comp.Push("delete movement", func(ctx context.Context) error {
		return s.movements.Delete(ctx, movement.MovementID)
	})

	updatedRoundHU, err := s.units.FindUnitByID(ctx, cmd.RoundHandlingUnit)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh round handling unit: %w", err)
	}
	updatedSource, err := s.units.FindContentByID(ctx, cmd.SourceContentID)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh source content: %w", err)
	}
	updatedOutbound, err := s.units.FindOutboundByID(ctx, finalOutbound.OutboundID)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh outbound: %w", err)
	}

	return &RoundPackingResultDTO{
		UpdatedRoundHU:            ToHandlingUnitDTO(updatedRoundHU),
		OriginHandlingUnitContent: ToHandlingUnitContentDTO(updatedSource),
		FinalHandlingUnit:         ToHandlingUnitDTO(finalUnit),
		FinalHandlingUnitOutbound: ToHandlingUnitOutboundDTO(updatedOutbound),
		LastTransactionID:         transactionID,
	}, nil
}

// resolveDestination reuses the supplied outbound or creates a fresh
// HU/HUO pair with a generated SSCC. SSCC failures surface before any
// write, so nothing is created and nothing needs compensation.
func (s *PackingApplicationService) resolveDestination(ctx context.Context, comp *Compensator, cmd ValidateRoundPackingCommand, round *domain.Round) (*domain.HandlingUnit, *domain.HandlingUnitOutbound, bool, error) {
	if cmd.ExistingFinalHUO != "" {
		outbound, err := s.units.FindOutboundByID(ctx, cmd.ExistingFinalHUO)
		if err != nil {
			return nil, nil, false, fmt.Errorf("failed to get outbound: %w", err)
		}
		if outbound == nil {
			return nil, nil, false, errors.ErrNotFound("final handling unit outbound")
		}
		unit, err := s.units.FindUnitByID(ctx, outbound.HandlingUnitID)
		if err != nil {
			return nil, nil, false, fmt.Errorf("failed to get handling unit: %w", err)
		}
		if unit == nil {
			return nil, nil, false, errors.ErrNotFound("final handling unit")
		}
		return unit, outbound, false, nil
	}

	shipping, err := s.locations.FindDefaultShipping(ctx)
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to get shipping location: %w", err)
	}
	if shipping == nil {
		return nil, nil, false, errors.ErrNotFound("default shipping location")
	}

	extraDigit := 0
	if domain.HandlingUnitModelType(cmd.HandlingUnitModel) == domain.HandlingUnitModelPallet {
		extraDigit = 1
	}
	sscc, err := s.gateway.GenerateSSCC(ctx, extraDigit)
	if err != nil {
		return nil, nil, false, err
	}

	now := time.Now()
	unit := &domain.HandlingUnit{
		UnitID:     uuid.NewString(),
		SSCC:       sscc,
		ModelType:  domain.HandlingUnitModelType(cmd.HandlingUnitModel),
		Status:     domain.HandlingUnitStatusValidated,
		Category:   domain.HandlingUnitCategoryOutbound,
		LocationID: shipping.LocationID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.units.SaveUnit(ctx, unit); err != nil {
		return nil, nil, false, fmt.Errorf("failed to create handling unit: %w", err)
	}
	comp.Push("delete handling unit", func(ctx context.Context) error {
		return s.units.DeleteUnit(ctx, unit.UnitID)
	})

	outbound := &domain.HandlingUnitOutbound{
		OutboundID:     uuid.NewString(),
		HandlingUnitID: unit.UnitID,
		DeliveryID:     round.DeliveryID,
		RoundID:        round.RoundID,
		Status:         domain.HandlingUnitStatusInProgress,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.units.SaveOutbound(ctx, outbound); err != nil {
		return nil, nil, false, fmt.Errorf("failed to create outbound: %w", err)
	}
	comp.Push("delete outbound", func(ctx context.Context) error {
		return s.units.DeleteOutbound(ctx, outbound.OutboundID)
	})

	return unit, outbound, true, nil
}

// applyAllocation commits one planned allocation: create the HUC/HUCO
// pair when no outbound allocation exists for the delivery line, otherwise
// increment both, then bump the line's packed counter.
func (s *PackingApplicationService) applyAllocation(
	ctx context.Context,
	comp *Compensator,
	cmd ValidateRoundPackingCommand,
	outbound *domain.HandlingUnitOutbound,
	unit *domain.HandlingUnit,
	destContent *domain.HandlingUnitContent,
	alloc domain.Allocation,
) (*domain.HandlingUnitContent, error) {
	var existing *domain.HandlingUnitContentOutbound
	if destContent != nil {
		var err error
		existing, err = s.units.FindContentOutbound(ctx, destContent.ContentID, alloc.DeliveryLineID)
		if err != nil {
			return nil, fmt.Errorf("failed to get content outbound: %w", err)
		}
	}

	now := time.Now()

	if existing == nil {
		if destContent == nil {
			content := &domain.HandlingUnitContent{
				ContentID:      uuid.NewString(),
				HandlingUnitID: unit.UnitID,
				ArticleID:      cmd.ArticleID,
				Quantity:       alloc.Quantity,
				StockStatus:    domain.StockStatusSale,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := s.units.SaveContent(ctx, content); err != nil {
				return nil, fmt.Errorf("failed to create content: %w", err)
			}
			comp.Push("delete content", func(ctx context.Context) error {
				return s.units.DeleteContent(ctx, content.ContentID)
			})
			destContent = content
		} else {
			if err := s.incrementContent(ctx, comp, destContent, alloc.Quantity); err != nil {
				return nil, err
			}
		}

		count, err := s.units.CountContentOutboundsByOutbound(ctx, outbound.OutboundID)
		if err != nil {
			return nil, fmt.Errorf("failed to count content outbounds: %w", err)
		}

		co := &domain.HandlingUnitContentOutbound{
			ContentOutboundID:     uuid.NewString(),
			ContentID:             destContent.ContentID,
			OutboundID:            outbound.OutboundID,
			DeliveryLineID:        alloc.DeliveryLineID,
			PickingHandlingUnitID: cmd.RoundHandlingUnit,
			PickedQuantity:        alloc.Quantity,
			LineNumber:            count + 1,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if err := s.units.SaveContentOutbound(ctx, co); err != nil {
			return nil, fmt.Errorf("failed to create content outbound: %w", err)
		}
		comp.Push("delete content outbound", func(ctx context.Context) error {
			return s.units.DeleteContentOutbound(ctx, co.ContentOutboundID)
		})
	} else {
		if err := s.incrementContent(ctx, comp, destContent, alloc.Quantity); err != nil {
			return nil, err
		}

		if err := s.units.AddContentOutboundQuantity(ctx, existing.ContentOutboundID, alloc.Quantity, existing.Version); err != nil {
			return nil, fmt.Errorf("failed to increment content outbound: %w", err)
		}
		undoVersion := existing.Version + 1
		comp.Push("restore content outbound quantity", func(ctx context.Context) error {
			return s.units.AddContentOutboundQuantity(ctx, existing.ContentOutboundID, -alloc.Quantity, undoVersion)
		})
	}

	if err := s.rounds.AddPackedQuantity(ctx, alloc.LineID, alloc.Quantity, alloc.LineVersion); err != nil {
		return nil, fmt.Errorf("failed to update round line: %w", err)
	}
	lineUndoVersion := alloc.LineVersion + 1
	comp.Push("restore round line packed quantity", func(ctx context.Context) error {
		return s.rounds.AddPackedQuantity(ctx, alloc.LineID, -alloc.Quantity, lineUndoVersion)
	})

	return destContent, nil
}

func (s *PackingApplicationService) incrementContent(ctx context.Context, comp *Compensator, content *domain.HandlingUnitContent, delta int) error {
	if err := s.units.AddContentQuantity(ctx, content.ContentID, delta, content.Version); err != nil {
		return fmt.Errorf("failed to increment content: %w", err)
	}
	undoVersion := content.Version + 1
	comp.Push("restore content quantity", func(ctx context.Context) error {
		return s.units.AddContentQuantity(ctx, content.ContentID, -delta, undoVersion)
	})

	content.Quantity += delta
	content.Version++
	return nil
}

func (s *PackingApplicationService) rebindSerialFeature(ctx context.Context, comp *Compensator, sourceContentID, destContentID, scannedValue string) error {
	feature, err := s.features.FindByContentAndType(ctx, sourceContentID, domain.FeatureTypeSerialNumber)
	if err != nil {
		return fmt.Errorf("failed to get serial feature: %w", err)
	}
	if feature == nil {
		return nil
	}
	if scannedValue != "" && feature.Value != scannedValue {
		return errors.ErrValidation("scanned serial number does not match the source content")
	}

	if err := s.features.Rebind(ctx, feature.FeatureID, destContentID); err != nil {
		return fmt.Errorf("failed to rebind serial feature: %w", err)
	}
	comp.Push("restore serial feature binding", func(ctx context.Context) error {
		return s.features.Rebind(ctx, feature.FeatureID, sourceContentID)
	})

	return nil
}

func (s *PackingApplicationService) publishCompensated(ctx context.Context, transactionID, roundID string, undone int, cause error) {
	if s.publisher == nil {
		return
	}
	event := &domain.PackingCompensatedEvent{
		TransactionID: transactionID,
		RoundID:       roundID,
		StepsUndone:   undone,
		Reason:        cause.Error(),
		CompensatedAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).Warn("Failed to publish compensation event",
			"transactionId", transactionID,
		)
	}
}

func contentID(c *domain.HandlingUnitContent) string {
	if c == nil {
		return ""
	}
	return c.ContentID
}
