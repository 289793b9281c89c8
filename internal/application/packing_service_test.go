package application

import (
	"context"
	goerrors "errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/rf-picking-service/internal/domain"
	"github.com/wms-platform/rf-picking-service/pkg/errors"
	"github.com/wms-platform/rf-picking-service/pkg/logging"
	"github.com/wms-platform/rf-picking-service/pkg/metrics"
)

// fakeWarehouse is an in-memory implementation of every repository port
// the packing service touches, with per-operation failure injection.
type fakeWarehouse struct {
	units            map[string]*domain.HandlingUnit
	outbounds        map[string]*domain.HandlingUnitOutbound
	contents         map[string]*domain.HandlingUnitContent
	contentOutbounds map[string]*domain.HandlingUnitContentOutbound
	rounds           map[string]*domain.Round
	lines            map[string]*domain.RoundLineDetail
	features         map[string]*domain.ContentFeature
	movements        map[string]*domain.Movement
	advised          []domain.RoundAdvisedAddress
	shipping         *domain.WarehouseLocation

	failOn map[string]error
}

func newFakeWarehouse() *fakeWarehouse {
	return &fakeWarehouse{
		units:            make(map[string]*domain.HandlingUnit),
		outbounds:        make(map[string]*domain.HandlingUnitOutbound),
		contents:         make(map[string]*domain.HandlingUnitContent),
		contentOutbounds: make(map[string]*domain.HandlingUnitContentOutbound),
		rounds:           make(map[string]*domain.Round),
		lines:            make(map[string]*domain.RoundLineDetail),
		features:         make(map[string]*domain.ContentFeature),
		movements:        make(map[string]*domain.Movement),
		shipping:         &domain.WarehouseLocation{LocationID: "LOC-SHIP", IsShipping: true, IsDefault: true},
		failOn:           make(map[string]error),
	}
}

func (f *fakeWarehouse) fail(op string) error {
	if err, ok := f.failOn[op]; ok {
		return err
	}
	return nil
}

func (f *fakeWarehouse) SaveUnit(ctx context.Context, unit *domain.HandlingUnit) error {
	if err := f.fail("SaveUnit"); err != nil {
		return err
	}
	f.units[unit.UnitID] = unit
	return nil
}

func (f *fakeWarehouse) FindUnitByID(ctx context.Context, unitID string) (*domain.HandlingUnit, error) {
	return f.units[unitID], nil
}

func (f *fakeWarehouse) DeleteUnit(ctx context.Context, unitID string) error {
	delete(f.units, unitID)
	return nil
}

func (f *fakeWarehouse) SaveOutbound(ctx context.Context, outbound *domain.HandlingUnitOutbound) error {
	if err := f.fail("SaveOutbound"); err != nil {
		return err
	}
	f.outbounds[outbound.OutboundID] = outbound
	return nil
}

func (f *fakeWarehouse) FindOutboundByID(ctx context.Context, outboundID string) (*domain.HandlingUnitOutbound, error) {
	return f.outbounds[outboundID], nil
}

func (f *fakeWarehouse) FindInProgressOutboundByRound(ctx context.Context, roundID string) (*domain.HandlingUnitOutbound, error) {
	for _, o := range f.outbounds {
		if o.RoundID == roundID && o.Status == domain.HandlingUnitStatusInProgress {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeWarehouse) DeleteOutbound(ctx context.Context, outboundID string) error {
	delete(f.outbounds, outboundID)
	return nil
}

func (f *fakeWarehouse) SaveContent(ctx context.Context, content *domain.HandlingUnitContent) error {
	if err := f.fail("SaveContent"); err != nil {
		return err
	}
	f.contents[content.ContentID] = content
	return nil
}

func (f *fakeWarehouse) FindContentByID(ctx context.Context, contentID string) (*domain.HandlingUnitContent, error) {
	if c, ok := f.contents[contentID]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeWarehouse) FindContentByUnitAndArticle(ctx context.Context, unitID, articleID string) (*domain.HandlingUnitContent, error) {
	for _, c := range f.contents {
		if c.HandlingUnitID == unitID && c.ArticleID == articleID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeWarehouse) AddContentQuantity(ctx context.Context, contentID string, delta int, expectedVersion int64) error {
	if err := f.fail("AddContentQuantity"); err != nil {
		return err
	}
	c, ok := f.contents[contentID]
	if !ok {
		return errors.ErrNotFound("content")
	}
	if c.Version != expectedVersion {
		return errors.ErrVersionConflict("content")
	}
	c.Quantity += delta
	c.Version++
	return nil
}

func (f *fakeWarehouse) DeleteContent(ctx context.Context, contentID string) error {
	delete(f.contents, contentID)
	return nil
}

func (f *fakeWarehouse) SaveContentOutbound(ctx context.Context, co *domain.HandlingUnitContentOutbound) error {
	if err := f.fail("SaveContentOutbound"); err != nil {
		return err
	}
	f.contentOutbounds[co.ContentOutboundID] = co
	return nil
}

func (f *fakeWarehouse) FindContentOutbound(ctx context.Context, contentID, deliveryLineID string) (*domain.HandlingUnitContentOutbound, error) {
	for _, co := range f.contentOutbounds {
		if co.ContentID == contentID && co.DeliveryLineID == deliveryLineID {
			copied := *co
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeWarehouse) CountContentOutboundsByOutbound(ctx context.Context, outboundID string) (int, error) {
	count := 0
	for _, co := range f.contentOutbounds {
		if co.OutboundID == outboundID {
			count++
		}
	}
	return count, nil
}

func (f *fakeWarehouse) AddContentOutboundQuantity(ctx context.Context, contentOutboundID string, delta int, expectedVersion int64) error {
	co, ok := f.contentOutbounds[contentOutboundID]
	if !ok {
		return errors.ErrNotFound("content outbound")
	}
	if co.Version != expectedVersion {
		return errors.ErrVersionConflict("content outbound")
	}
	co.PickedQuantity += delta
	co.Version++
	return nil
}

func (f *fakeWarehouse) DeleteContentOutbound(ctx context.Context, contentOutboundID string) error {
	delete(f.contentOutbounds, contentOutboundID)
	return nil
}

func (f *fakeWarehouse) FindByID(ctx context.Context, roundID string) (*domain.Round, error) {
	return f.rounds[roundID], nil
}

func (f *fakeWarehouse) FindByName(ctx context.Context, name string) (*domain.Round, error) {
	for _, r := range f.rounds {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeWarehouse) FindAdvisedAddresses(ctx context.Context, roundID string) ([]domain.RoundAdvisedAddress, error) {
	return f.advised, nil
}

func (f *fakeWarehouse) FindLineDetails(ctx context.Context, roundID, articleID string) ([]domain.RoundLineDetail, error) {
	result := make([]domain.RoundLineDetail, 0)
	for _, l := range f.lines {
		if l.RoundID == roundID && l.ArticleID == articleID {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result, nil
}

func (f *fakeWarehouse) AddPackedQuantity(ctx context.Context, lineID string, delta int, expectedVersion int64) error {
	if err := f.fail("AddPackedQuantity"); err != nil {
		return err
	}
	l, ok := f.lines[lineID]
	if !ok {
		return errors.ErrNotFound("round line")
	}
	if l.Version != expectedVersion {
		return errors.ErrVersionConflict("round line")
	}
	l.PackedQuantity += delta
	l.Version++
	return nil
}

func (f *fakeWarehouse) Save(ctx context.Context, movement *domain.Movement, events []domain.DomainEvent) error {
	if err := f.fail("SaveMovement"); err != nil {
		return err
	}
	f.movements[movement.MovementID] = movement
	return nil
}

func (f *fakeWarehouse) Delete(ctx context.Context, movementID string) error {
	delete(f.movements, movementID)
	return nil
}

func (f *fakeWarehouse) FindDefaultShipping(ctx context.Context) (*domain.WarehouseLocation, error) {
	if err := f.fail("FindDefaultShipping"); err != nil {
		return nil, err
	}
	return f.shipping, nil
}

func (f *fakeWarehouse) FindByContentAndType(ctx context.Context, contentID, featureType string) (*domain.ContentFeature, error) {
	for _, ft := range f.features {
		if ft.ContentID == contentID && ft.Type == featureType {
			copied := *ft
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeWarehouse) Rebind(ctx context.Context, featureID, contentID string) error {
	ft, ok := f.features[featureID]
	if !ok {
		return errors.ErrNotFound("feature")
	}
	ft.ContentID = contentID
	return nil
}

// FindByLocationID satisfies LocationRepository.
func (f *fakeWarehouse) FindLocationByID(ctx context.Context, locationID string) (*domain.WarehouseLocation, error) {
	return nil, nil
}

type fakeGateway struct {
	sscc  string
	err   error
	calls int
}

func (g *fakeGateway) GenerateSSCC(ctx context.Context, extraDigit int) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.sscc, nil
}

type fakePublisher struct {
	events []domain.DomainEvent
}

func (p *fakePublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type locationRepoAdapter struct{ *fakeWarehouse }

func (a locationRepoAdapter) FindByID(ctx context.Context, locationID string) (*domain.WarehouseLocation, error) {
	return a.FindLocationByID(ctx, locationID)
}

func newPackingService(wh *fakeWarehouse, gateway *fakeGateway, publisher *fakePublisher) *PackingApplicationService {
	logger := logging.New(logging.DefaultConfig("rf-picking-service-test"))
	m := metrics.New(metrics.DefaultConfig("rf-picking-service-test"))
	return NewPackingApplicationService(wh, wh, wh, locationRepoAdapter{wh}, wh, gateway, publisher, logger, m)
}

func seedRound(wh *fakeWarehouse) {
	wh.rounds["R-100"] = &domain.Round{
		RoundID:        "R-100",
		Name:           "ROUND-A",
		DeliveryID:     "DEL-1",
		HandlingUnitID: "HU-SRC",
	}
	wh.units["HU-SRC"] = &domain.HandlingUnit{
		UnitID:     "HU-SRC",
		ModelType:  domain.HandlingUnitModelTote,
		Status:     domain.HandlingUnitStatusInProgress,
		Category:   domain.HandlingUnitCategoryStock,
		LocationID: "LOC-A",
	}
	wh.contents["C-SRC"] = &domain.HandlingUnitContent{
		ContentID:      "C-SRC",
		HandlingUnitID: "HU-SRC",
		ArticleID:      "ART-1",
		Quantity:       20,
		StockStatus:    domain.StockStatusSale,
	}
}

func packingCommand() ValidateRoundPackingCommand {
	return ValidateRoundPackingCommand{
		RoundID:           "R-100",
		ArticleID:         "ART-1",
		ArticleCode:       "A0001",
		MovingQuantity:    5,
		RoundHandlingUnit: "HU-SRC",
		SourceContentID:   "C-SRC",
		SourceLocationID:  "LOC-A",
		HandlingUnitModel: "box",
	}
}

// TestValidateRoundPacking_NewDestinationFullFit covers the single-line
// full-fit path with a freshly created destination.
func TestValidateRoundPacking_NewDestinationFullFit(t *testing.T) {
	wh := newFakeWarehouse()
	seedRound(wh)
	wh.lines["L1"] = &domain.RoundLineDetail{
		LineID: "L1", RoundID: "R-100", ArticleID: "ART-1",
		DeliveryLineID: "DL1", Order: 1, ProcessedQuantity: 5, PackedQuantity: 0,
	}
	gateway := &fakeGateway{sscc: "300000000000000017"}

	svc := newPackingService(wh, gateway, &fakePublisher{})
	result, err := svc.ValidateRoundPacking(context.Background(), packingCommand())
	require.NoError(t, err)

	assert.NotEmpty(t, result.LastTransactionID)
	require.NotNil(t, result.FinalHandlingUnit)
	assert.Equal(t, "300000000000000017", result.FinalHandlingUnit.SSCC)
	assert.Equal(t, string(domain.HandlingUnitStatusValidated), result.FinalHandlingUnit.Status)
	assert.Equal(t, string(domain.HandlingUnitCategoryOutbound), result.FinalHandlingUnit.Category)
	assert.Equal(t, "LOC-SHIP", result.FinalHandlingUnit.LocationID)

	require.NotNil(t, result.FinalHandlingUnitOutbound)
	assert.Equal(t, "DEL-1", result.FinalHandlingUnitOutbound.DeliveryID)

	// One new unit besides the source, one outbound binding.
	assert.Len(t, wh.units, 2)
	assert.Len(t, wh.outbounds, 1)

	// One new content with the full quantity, one allocation row.
	require.Len(t, wh.contentOutbounds, 1)
	for _, co := range wh.contentOutbounds {
		assert.Equal(t, 5, co.PickedQuantity)
		assert.Equal(t, 1, co.LineNumber)
		assert.Equal(t, "HU-SRC", co.PickingHandlingUnitID)
	}

	assert.Equal(t, 5, wh.lines["L1"].PackedQuantity)
	assert.Equal(t, 15, wh.contents["C-SRC"].Quantity)
	require.NotNil(t, result.OriginHandlingUnitContent)
	assert.Equal(t, 15, result.OriginHandlingUnitContent.Quantity)

	assert.Len(t, wh.movements, 1)
	for _, mv := range wh.movements {
		assert.Equal(t, domain.MovementCodeProductPick, mv.Code)
		assert.Equal(t, domain.MovementTypePreparation, mv.Type)
		assert.Equal(t, result.LastTransactionID, mv.TransactionID)
	}
}

// TestValidateRoundPacking_ExistingDestinationSplit covers the partial fit
// across two lines with an existing allocation on the first line.
func TestValidateRoundPacking_ExistingDestinationSplit(t *testing.T) {
	wh := newFakeWarehouse()
	seedRound(wh)
	wh.lines["L1"] = &domain.RoundLineDetail{
		LineID: "L1", RoundID: "R-100", ArticleID: "ART-1",
		DeliveryLineID: "DL1", Order: 1, ProcessedQuantity: 3, PackedQuantity: 0,
	}
	wh.lines["L2"] = &domain.RoundLineDetail{
		LineID: "L2", RoundID: "R-100", ArticleID: "ART-1",
		DeliveryLineID: "DL2", Order: 2, ProcessedQuantity: 10, PackedQuantity: 5,
	}

	wh.units["HU-FINAL"] = &domain.HandlingUnit{
		UnitID: "HU-FINAL", Status: domain.HandlingUnitStatusValidated,
		Category: domain.HandlingUnitCategoryOutbound, LocationID: "LOC-SHIP",
	}
	wh.outbounds["HUO-1"] = &domain.HandlingUnitOutbound{
		OutboundID: "HUO-1", HandlingUnitID: "HU-FINAL",
		DeliveryID: "DEL-1", RoundID: "R-100", Status: domain.HandlingUnitStatusInProgress,
	}
	wh.contents["C-FINAL"] = &domain.HandlingUnitContent{
		ContentID: "C-FINAL", HandlingUnitID: "HU-FINAL", ArticleID: "ART-1",
		Quantity: 2, StockStatus: domain.StockStatusSale,
	}
	wh.contentOutbounds["CO-1"] = &domain.HandlingUnitContentOutbound{
		ContentOutboundID: "CO-1", ContentID: "C-FINAL", OutboundID: "HUO-1",
		DeliveryLineID: "DL1", PickedQuantity: 2, LineNumber: 1,
	}

	gateway := &fakeGateway{}
	cmd := packingCommand()
	cmd.MovingQuantity = 8
	cmd.ExistingFinalHUO = "HUO-1"

	svc := newPackingService(wh, gateway, &fakePublisher{})
	result, err := svc.ValidateRoundPacking(context.Background(), cmd)
	require.NoError(t, err)

	// Destination is reused, no SSCC generated.
	assert.Equal(t, 0, gateway.calls)
	assert.Equal(t, "HU-FINAL", result.FinalHandlingUnit.UnitID)

	// Line1 drained through the update path: 2 + 3 = 5.
	assert.Equal(t, 5, wh.contentOutbounds["CO-1"].PickedQuantity)
	assert.Equal(t, 3, wh.lines["L1"].PackedQuantity)

	// Line2 got a fresh allocation row for the remaining 5.
	require.Len(t, wh.contentOutbounds, 2)
	var created *domain.HandlingUnitContentOutbound
	for id, co := range wh.contentOutbounds {
		if id != "CO-1" {
			created = co
		}
	}
	require.NotNil(t, created)
	assert.Equal(t, "DL2", created.DeliveryLineID)
	assert.Equal(t, 5, created.PickedQuantity)
	assert.Equal(t, 2, created.LineNumber)
	assert.Equal(t, 10, wh.lines["L2"].PackedQuantity)

	// Destination content accumulated both allocations: 2 + 3 + 5.
	assert.Equal(t, 10, wh.contents["C-FINAL"].Quantity)

	// Source still drops by the full requested quantity in one write.
	assert.Equal(t, 12, wh.contents["C-SRC"].Quantity)
}

// TestValidateRoundPacking_SSCCBackendFailure checks that a logical
// backend failure stops the run before anything is created and without
// any compensation.
func TestValidateRoundPacking_SSCCBackendFailure(t *testing.T) {
	wh := newFakeWarehouse()
	seedRound(wh)
	wh.lines["L1"] = &domain.RoundLineDetail{
		LineID: "L1", RoundID: "R-100", ArticleID: "ART-1",
		DeliveryLineID: "DL1", Order: 1, ProcessedQuantity: 5, PackedQuantity: 0,
	}
	gateway := &fakeGateway{err: errors.ErrBackendFunction("K_generateSSCC", "SSCC_RANGE_EXHAUSTED")}
	publisher := &fakePublisher{}

	svc := newPackingService(wh, gateway, publisher)
	result, err := svc.ValidateRoundPacking(context.Background(), packingCommand())

	require.Error(t, err)
	assert.Nil(t, result)

	var appErr *errors.AppError
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, 500, appErr.HTTPStatus)
	assert.Equal(t, "SSCC_RANGE_EXHAUSTED", appErr.Details["backendCode"])

	// Nothing was created and nothing was compensated.
	assert.Len(t, wh.units, 1)
	assert.Empty(t, wh.outbounds)
	assert.Empty(t, wh.movements)
	assert.Equal(t, 20, wh.contents["C-SRC"].Quantity)
	assert.Equal(t, 0, wh.lines["L1"].PackedQuantity)
	assert.Empty(t, publisher.events)
}

// TestValidateRoundPacking_RollbackAfterCommit injects a failure after
// several committing writes and expects the undo stack to restore state.
func TestValidateRoundPacking_RollbackAfterCommit(t *testing.T) {
	wh := newFakeWarehouse()
	seedRound(wh)
	wh.lines["L1"] = &domain.RoundLineDetail{
		LineID: "L1", RoundID: "R-100", ArticleID: "ART-1",
		DeliveryLineID: "DL1", Order: 1, ProcessedQuantity: 5, PackedQuantity: 0,
	}
	wh.failOn["SaveMovement"] = goerrors.New("movements collection unavailable")
	gateway := &fakeGateway{sscc: "300000000000000017"}
	publisher := &fakePublisher{}

	svc := newPackingService(wh, gateway, publisher)
	_, err := svc.ValidateRoundPacking(context.Background(), packingCommand())
	require.Error(t, err)

	// Every committed write was undone.
	assert.Len(t, wh.units, 1, "created destination unit should be deleted")
	assert.Empty(t, wh.outbounds)
	assert.Len(t, wh.contents, 1, "created destination content should be deleted")
	assert.Empty(t, wh.contentOutbounds)
	assert.Empty(t, wh.movements)
	assert.Equal(t, 20, wh.contents["C-SRC"].Quantity)
	assert.Equal(t, 0, wh.lines["L1"].PackedQuantity)

	// Exactly one compensation event.
	require.Len(t, publisher.events, 1)
	compensated, ok := publisher.events[0].(*domain.PackingCompensatedEvent)
	require.True(t, ok)
	assert.Equal(t, "R-100", compensated.RoundID)
	assert.Greater(t, compensated.StepsUndone, 0)
}

// TestValidateRoundPacking_NoRollbackBeforeFirstCommit fails during the
// read phase and expects no compensation at all.
func TestValidateRoundPacking_NoRollbackBeforeFirstCommit(t *testing.T) {
	wh := newFakeWarehouse()
	seedRound(wh)
	wh.failOn["FindDefaultShipping"] = goerrors.New("locations collection unavailable")
	publisher := &fakePublisher{}

	svc := newPackingService(wh, &fakeGateway{sscc: "300000000000000017"}, publisher)
	_, err := svc.ValidateRoundPacking(context.Background(), packingCommand())
	require.Error(t, err)

	assert.Empty(t, publisher.events)
	assert.Len(t, wh.units, 1)
	assert.Empty(t, wh.outbounds)
}

// TestValidateRoundPacking_SerialFeatureRebind checks the serialized pick
// moves the feature record to the destination content.
func TestValidateRoundPacking_SerialFeatureRebind(t *testing.T) {
	wh := newFakeWarehouse()
	seedRound(wh)
	wh.lines["L1"] = &domain.RoundLineDetail{
		LineID: "L1", RoundID: "R-100", ArticleID: "ART-1",
		DeliveryLineID: "DL1", Order: 1, ProcessedQuantity: 5, PackedQuantity: 0,
	}
	wh.features["F-1"] = &domain.ContentFeature{
		FeatureID: "F-1", ContentID: "C-SRC",
		Type: domain.FeatureTypeSerialNumber, Value: "SN-123",
	}
	cmd := packingCommand()
	cmd.ResType = domain.FeatureTypeSerialNumber
	cmd.MovingQuantity = 1

	svc := newPackingService(wh, &fakeGateway{sscc: "300000000000000017"}, &fakePublisher{})
	result, err := svc.ValidateRoundPacking(context.Background(), cmd)
	require.NoError(t, err)

	assert.NotEqual(t, "C-SRC", wh.features["F-1"].ContentID)
	require.NotNil(t, result.FinalHandlingUnit)
}

// TestValidateRoundPacking_SerialMismatch checks the scanned serial number
// is compared against the feature bound to the source content.
func TestValidateRoundPacking_SerialMismatch(t *testing.T) {
	wh := newFakeWarehouse()
	seedRound(wh)
	wh.lines["L1"] = &domain.RoundLineDetail{
		LineID: "L1", RoundID: "R-100", ArticleID: "ART-1",
		DeliveryLineID: "DL1", Order: 1, ProcessedQuantity: 5, PackedQuantity: 0,
	}
	wh.features["F-1"] = &domain.ContentFeature{
		FeatureID: "F-1", ContentID: "C-SRC",
		Type: domain.FeatureTypeSerialNumber, Value: "SN-123",
	}
	cmd := packingCommand()
	cmd.ResType = domain.FeatureTypeSerialNumber
	cmd.FeatureValue = "SN-999"
	cmd.MovingQuantity = 1

	svc := newPackingService(wh, &fakeGateway{sscc: "300000000000000017"}, &fakePublisher{})
	_, err := svc.ValidateRoundPacking(context.Background(), cmd)

	var appErr *errors.AppError
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPStatus)
	assert.Equal(t, "C-SRC", wh.features["F-1"].ContentID)
}

// TestValidateRoundPacking_SerialMatch checks a matching scan rebinds.
func TestValidateRoundPacking_SerialMatch(t *testing.T) {
	wh := newFakeWarehouse()
	seedRound(wh)
	wh.lines["L1"] = &domain.RoundLineDetail{
		LineID: "L1", RoundID: "R-100", ArticleID: "ART-1",
		DeliveryLineID: "DL1", Order: 1, ProcessedQuantity: 5, PackedQuantity: 0,
	}
	wh.features["F-1"] = &domain.ContentFeature{
		FeatureID: "F-1", ContentID: "C-SRC",
		Type: domain.FeatureTypeSerialNumber, Value: "SN-123",
	}
	cmd := packingCommand()
	cmd.ResType = domain.FeatureTypeSerialNumber
	cmd.FeatureValue = "SN-123"
	cmd.MovingQuantity = 1

	svc := newPackingService(wh, &fakeGateway{sscc: "300000000000000017"}, &fakePublisher{})
	_, err := svc.ValidateRoundPacking(context.Background(), cmd)
	require.NoError(t, err)
	assert.NotEqual(t, "C-SRC", wh.features["F-1"].ContentID)
}

func TestValidateRoundPacking_RejectsNonPositiveQuantity(t *testing.T) {
	svc := newPackingService(newFakeWarehouse(), &fakeGateway{}, &fakePublisher{})

	cmd := packingCommand()
	cmd.MovingQuantity = 0
	_, err := svc.ValidateRoundPacking(context.Background(), cmd)

	var appErr *errors.AppError
	require.True(t, goerrors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPStatus)
}

// TestValidateRoundPacking_PalletExtraDigit verifies the container-type
// discriminator passed to SSCC generation.
func TestValidateRoundPacking_PalletExtraDigit(t *testing.T) {
	tests := []struct {
		model string
		want  int
	}{
		{model: "pallet", want: 1},
		{model: "box", want: 0},
		{model: "tote", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			wh := newFakeWarehouse()
			seedRound(wh)
			wh.lines["L1"] = &domain.RoundLineDetail{
				LineID: "L1", RoundID: "R-100", ArticleID: "ART-1",
				DeliveryLineID: "DL1", Order: 1, ProcessedQuantity: 5, PackedQuantity: 0,
			}

			var gotDigit int
			gateway := &digitRecordingGateway{digit: &gotDigit}
			cmd := packingCommand()
			cmd.HandlingUnitModel = tt.model

			svc := NewPackingApplicationService(wh, wh, wh, locationRepoAdapter{wh}, wh, gateway,
				&fakePublisher{}, logging.New(logging.DefaultConfig("t")), metrics.New(metrics.DefaultConfig("t")))
			_, err := svc.ValidateRoundPacking(context.Background(), cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, gotDigit)
		})
	}
}

type digitRecordingGateway struct {
	digit *int
}

func (g *digitRecordingGateway) GenerateSSCC(ctx context.Context, extraDigit int) (string, error) {
	*g.digit = extraDigit
	return "300000000000000017", nil
}
