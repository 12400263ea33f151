package consumption

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/application/dto"
	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/domain/repositories"
	"github.com/vsinha/kitchen/pkg/infrastructure/events"
	testhelpers "github.com/vsinha/kitchen/pkg/infrastructure/testing"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var serviceStart = time.Date(2025, 3, 14, 19, 5, 0, 0, time.UTC)

// tickingClock advances one minute per call
func tickingClock() func() time.Time {
	now := serviceStart
	return func() time.Time {
		t := now
		now = now.Add(time.Minute)
		return t
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestService(k *testhelpers.Kitchen, config EngineConfig, opts ...Option) *Service {
	return newServiceWith(k.Recipes, k.Stock, k.Consumptions, config, opts...)
}

func newServiceWith(recipes repositories.RecipeRepository, stock repositories.StockRepository, consumptions repositories.ConsumptionRepository, config EngineConfig, opts ...Option) *Service {
	base := []Option{WithClock(tickingClock()), WithIDGenerator(sequentialIDs())}
	return NewService(recipes, stock, consumptions, config, append(base, opts...)...)
}

func input(recipeID, portions string) dto.ConsumptionInput {
	return dto.ConsumptionInput{
		RecipeID:        recipeID,
		Portions:        decimal.RequireFromString(portions),
		ConsumptionType: "sale",
		ConsumptionDate: "2025-03-14",
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPreview_ScenarioA_SufficientStock(t *testing.T) {
	k := testhelpers.BuildPizzaKitchen("1.0")
	service := newTestService(k, DefaultEngineConfig())

	preview, err := service.Preview(context.Background(), testhelpers.TestUser, input("R-PIZZA", "3"))
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	if len(preview.CalculatedImpacts) != 1 {
		t.Fatalf("Expected 1 impact, got %d", len(preview.CalculatedImpacts))
	}
	impact := preview.CalculatedImpacts[0]
	if impact.QuantityNeeded != 0.36 {
		t.Errorf("Expected quantity_needed 0.36, got %v", impact.QuantityNeeded)
	}
	if impact.StockAfter != 0.64 {
		t.Errorf("Expected stock_after 0.64, got %v", impact.StockAfter)
	}
	if !impact.IsSufficient || preview.HasInsufficientStock {
		t.Error("Expected sufficient stock")
	}
	if !impact.Matched || impact.MatchedBy != "name" || impact.StockID != "S-MOZZA" {
		t.Errorf("Expected name match on S-MOZZA, got %+v", impact)
	}
	if preview.RecipeName != "Pizza" || preview.ConsumptionType != "sale" {
		t.Errorf("Unexpected preview header %+v", preview)
	}
}

func TestScenarioB_PreviewUnclampedConfirmClamped(t *testing.T) {
	ctx := context.Background()
	k := testhelpers.BuildPizzaKitchen("0.2")
	service := newTestService(k, DefaultEngineConfig())

	preview, err := service.Preview(ctx, testhelpers.TestUser, input("R-PIZZA", "3"))
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if preview.CalculatedImpacts[0].StockAfter != -0.16 {
		t.Errorf("Expected unclamped stock_after -0.16, got %v", preview.CalculatedImpacts[0].StockAfter)
	}
	if preview.CalculatedImpacts[0].IsSufficient || !preview.HasInsufficientStock {
		t.Error("Expected insufficient stock")
	}
	if !k.StockQuantity("S-MOZZA").Equal(d("0.2")) {
		t.Fatalf("Expected preview to leave stock at 0.2, got %s", k.StockQuantity("S-MOZZA"))
	}

	result, err := service.Confirm(ctx, testhelpers.TestUser, input("R-PIZZA", "3"))
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if len(result.Impacts) != 1 {
		t.Fatalf("Expected 1 impact, got %d", len(result.Impacts))
	}
	if !k.StockQuantity("S-MOZZA").IsZero() {
		t.Errorf("Expected stock clamped to 0, got %s", k.StockQuantity("S-MOZZA"))
	}
	if result.Impacts[0].StockAfter != 0 || result.Impacts[0].QuantityConsumed != 0.36 {
		t.Errorf("Unexpected applied impact %+v", result.Impacts[0])
	}
	if result.Applied[0].IsSufficient {
		t.Error("Expected applied impact to keep the insufficiency flag")
	}
}

func TestScenarioC_UnmatchedLineIsSkipped(t *testing.T) {
	ctx := context.Background()
	k := testhelpers.BuildPizzaKitchen("1.0")
	k.AddRecipe("R-MARGHE", "Margherita", 1,
		testhelpers.Line{Name: "Mozzarella", Quantity: "0.1", Unit: "kg"},
		testhelpers.Line{Name: "Basilic", Quantity: "0.1", Unit: "botte"},
	)
	core, logs := observer.New(zap.WarnLevel)
	service := newTestService(k, DefaultEngineConfig(), WithLogger(zap.New(core)))

	result, err := service.Confirm(ctx, testhelpers.TestUser, input("R-MARGHE", "2"))
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	if result.ID == "" {
		t.Error("Expected a stored consumption")
	}
	if len(result.Impacts) != 1 || result.Impacts[0].IngredientName != "Mozzarella" {
		t.Fatalf("Expected only the mozzarella impact, got %+v", result.Impacts)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Reason != "unmatched_ingredient" {
		t.Errorf("Expected basil skipped as unmatched, got %+v", result.Skipped)
	}
	if logs.FilterMessage("ingredient not found in stock").Len() != 1 {
		t.Error("Expected the unmatched line to be logged")
	}
	if !k.StockQuantity("S-MOZZA").Equal(d("0.8")) {
		t.Errorf("Expected mozzarella stock 0.8, got %s", k.StockQuantity("S-MOZZA"))
	}
}

func TestScenarioD_SummaryMergesBatch(t *testing.T) {
	ctx := context.Background()
	k := testhelpers.BuildBistroKitchen()
	service := newTestService(k, DefaultEngineConfig())

	if _, err := service.Confirm(ctx, testhelpers.TestUser, input("R-PIZZA", "1")); err != nil {
		t.Fatalf("Confirm outside batch failed: %v", err)
	}

	pizza := input("R-PIZZA", "3")
	pizza.BatchID = "B1"
	salad := input("R-SALADE", "2")
	salad.BatchID = "B1"
	if _, err := service.Confirm(ctx, testhelpers.TestUser, pizza); err != nil {
		t.Fatalf("Confirm pizza failed: %v", err)
	}
	if _, err := service.Confirm(ctx, testhelpers.TestUser, salad); err != nil {
		t.Fatalf("Confirm salad failed: %v", err)
	}

	summary, err := service.Summarize(ctx, testhelpers.TestUser)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.TotalConsumptions != 2 {
		t.Errorf("Expected 2 consumptions, got %d", summary.TotalConsumptions)
	}
	if summary.BatchID != "B1" || summary.Period != "Dernière validation" {
		t.Errorf("Unexpected summary header %q/%q", summary.BatchID, summary.Period)
	}
	if summary.TotalDishes != 5 {
		t.Errorf("Expected 5 dishes, got %v", summary.TotalDishes)
	}
	if len(summary.RecipeSummary) != 2 || summary.RecipeSummary[0].RecipeName != "Salade caprese" {
		t.Errorf("Expected salad then pizza, got %+v", summary.RecipeSummary)
	}

	if len(summary.ProductImpacts) != 3 {
		t.Fatalf("Expected 3 product impacts, got %d", len(summary.ProductImpacts))
	}
	mozzarella := summary.ProductImpacts[0]
	if mozzarella.ProductName != "mozzarella" || mozzarella.TotalQuantity != 0.56 {
		t.Errorf("Expected merged mozzarella 0.56 first, got %s %v", mozzarella.ProductName, mozzarella.TotalQuantity)
	}
	if len(mozzarella.Consumptions) != 2 || mozzarella.Consumptions[0].RecipeName != "Salade caprese" {
		t.Errorf("Expected two contributions newest first, got %+v", mozzarella.Consumptions)
	}
	if summary.ProductImpacts[1].ProductName != "Basilic" || summary.ProductImpacts[2].ProductName != "Tomate" {
		t.Errorf("Expected ties ordered by name, got %s, %s", summary.ProductImpacts[1].ProductName, summary.ProductImpacts[2].ProductName)
	}
}

func TestSummarize_EmptyHistory(t *testing.T) {
	k := testhelpers.NewKitchen()
	service := newTestService(k, EngineConfig{Locale: entities.LocaleEN})

	summary, err := service.Summarize(context.Background(), testhelpers.TestUser)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.TotalConsumptions != 0 || len(summary.ProductImpacts) != 0 || summary.TotalDishes != 0 {
		t.Errorf("Expected zero summary, got %+v", summary)
	}
	if summary.Period != "Latest consumption" {
		t.Errorf("Unexpected period %q", summary.Period)
	}
}

func TestSummarize_StandaloneAndDeletedRecipe(t *testing.T) {
	ctx := context.Background()
	k := testhelpers.BuildBistroKitchen()
	service := newTestService(k, DefaultEngineConfig())

	batch := input("R-SALADE", "1")
	batch.BatchID = "B2"
	service.Confirm(ctx, testhelpers.TestUser, batch)
	pizza := input("R-PIZZA", "2")
	pizza.BatchID = "B2"
	service.Confirm(ctx, testhelpers.TestUser, pizza)
	k.Recipes.DeleteRecipes(ctx, testhelpers.TestUser, []string{"R-SALADE"})

	summary, _ := service.Summarize(ctx, testhelpers.TestUser)
	if summary.TotalConsumptions != 2 {
		t.Errorf("Expected deleted recipe still counted, got %d", summary.TotalConsumptions)
	}
	if len(summary.ProductImpacts) != 1 || summary.ProductImpacts[0].TotalQuantity != 0.24 {
		t.Errorf("Expected only pizza mozzarella 0.24, got %+v", summary.ProductImpacts)
	}

	service.Confirm(ctx, testhelpers.TestUser, input("R-PIZZA", "1"))
	summary, _ = service.Summarize(ctx, testhelpers.TestUser)
	if summary.TotalConsumptions != 1 || summary.BatchID != "" {
		t.Errorf("Expected latest standalone consumption alone, got %d in %q", summary.TotalConsumptions, summary.BatchID)
	}
}

func TestConfirm_DefaultsAndEvents(t *testing.T) {
	ctx := context.Background()
	k := testhelpers.BuildPizzaKitchen("1.0")
	store := events.NewInMemoryEventStore(nil)
	service := newTestService(k, DefaultEngineConfig(), WithEventStore(store))

	in := input("R-PIZZA", "1")
	in.ConsumptionDate = ""
	result, err := service.Confirm(ctx, testhelpers.TestUser, in)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	if result.Name != "Consommation du 14/03/2025 à 19:05" {
		t.Errorf("Unexpected default name %q", result.Name)
	}
	if result.ConsumptionDate != "2025-03-14" {
		t.Errorf("Expected today's date, got %s", result.ConsumptionDate)
	}

	stream, _ := store.ReadEvents(result.ID, 1)
	if len(stream) != 2 {
		t.Fatalf("Expected stock.deducted and consumption.confirmed, got %d events", len(stream))
	}
	if stream[0].Type() != events.StockDeductedEvent || stream[1].Type() != events.ConsumptionConfirmedEvent {
		t.Errorf("Unexpected event order %s, %s", stream[0].Type(), stream[1].Type())
	}

	records, _ := k.Consumptions.ListImpacts(ctx, result.ID)
	if len(records) != 1 || !records[0].StockAfter.Equal(d("0.88")) {
		t.Errorf("Expected one impact record with stock_after 0.88, got %+v", records)
	}
}

func TestConfirm_EventLogStaysBounded(t *testing.T) {
	ctx := context.Background()
	k := testhelpers.BuildPizzaKitchen("1000")
	store := events.NewBoundedEventStore(nil, 100)
	delivered := 0
	store.Subscribe([]string{events.ConsumptionConfirmedEvent}, countingHandler{&delivered})
	service := newTestService(k, DefaultEngineConfig(), WithEventStore(store))

	for i := 0; i < 2000; i++ {
		if _, err := service.Confirm(ctx, testhelpers.TestUser, input("R-PIZZA", "1")); err != nil {
			t.Fatalf("Confirm %d failed: %v", i, err)
		}
	}

	if store.Len() > 100 {
		t.Errorf("Expected at most 100 retained events after 2000 confirms, got %d", store.Len())
	}
	if delivered != 2000 {
		t.Errorf("Expected every confirmation delivered to subscribers, got %d", delivered)
	}
}

type countingHandler struct{ n *int }

func (h countingHandler) CanHandle(eventType string) bool { return true }

func (h countingHandler) Handle(event events.Event) error {
	*h.n++
	return nil
}

func TestConfirm_SameStockTwiceSeesOwnDeduction(t *testing.T) {
	ctx := context.Background()
	k := testhelpers.BuildPizzaKitchen("0.2")
	k.AddRecipe("R-DOUBLE", "Double fromage", 1,
		testhelpers.Line{Name: "Mozzarella", Quantity: "0.12", Unit: "kg"},
		testhelpers.Line{Name: "Fromage", Quantity: "0.12", Unit: "kg", ProductID: "P-MOZZA"},
	)
	service := newTestService(k, EngineConfig{OptimisticLocking: true})

	preview, _ := service.Preview(ctx, testhelpers.TestUser, input("R-DOUBLE", "1"))
	if preview.CalculatedImpacts[1].MatchedBy != "product" || preview.CalculatedImpacts[1].CurrentStock != 0.08 {
		t.Errorf("Expected second line to project from 0.08, got %+v", preview.CalculatedImpacts[1])
	}

	result, err := service.Confirm(ctx, testhelpers.TestUser, input("R-DOUBLE", "1"))
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if len(result.Applied) != 2 {
		t.Fatalf("Expected both lines applied, got %d (skipped %+v)", len(result.Applied), result.Skipped)
	}
	if !result.Applied[1].StockBefore.Equal(d("0.08")) || !result.Applied[1].StockAfter.IsZero() {
		t.Errorf("Unexpected second impact %+v", result.Applied[1])
	}
	if !k.StockQuantity("S-MOZZA").IsZero() {
		t.Errorf("Expected stock 0, got %s", k.StockQuantity("S-MOZZA"))
	}
}

func TestConfirm_InvalidInput(t *testing.T) {
	k := testhelpers.BuildPizzaKitchen("1.0")
	service := newTestService(k, DefaultEngineConfig())

	tests := []struct {
		name   string
		mutate func(*dto.ConsumptionInput)
		want   error
	}{
		{"missing recipe", func(in *dto.ConsumptionInput) { in.RecipeID = " " }, entities.ErrInvalidInput},
		{"zero portions", func(in *dto.ConsumptionInput) { in.Portions = decimal.Zero }, entities.ErrInvalidInput},
		{"negative portions", func(in *dto.ConsumptionInput) { in.Portions = d("-1") }, entities.ErrInvalidInput},
		{"unknown type", func(in *dto.ConsumptionInput) { in.ConsumptionType = "gift" }, entities.ErrInvalidInput},
		{"bad date", func(in *dto.ConsumptionInput) { in.ConsumptionDate = "14/03/2025" }, entities.ErrInvalidInput},
		{"unknown recipe", func(in *dto.ConsumptionInput) { in.RecipeID = "R-NONE" }, entities.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := input("R-PIZZA", "1")
			tt.mutate(&in)

			if _, err := service.Preview(context.Background(), testhelpers.TestUser, in); !errors.Is(err, tt.want) {
				t.Errorf("Preview: expected %v, got %v", tt.want, err)
			}
			if _, err := service.Confirm(context.Background(), testhelpers.TestUser, in); !errors.Is(err, tt.want) {
				t.Errorf("Confirm: expected %v, got %v", tt.want, err)
			}
		})
	}

	latest, _ := k.Consumptions.LatestConsumption(context.Background(), testhelpers.TestUser)
	if latest != nil {
		t.Error("Expected no consumption stored for invalid input")
	}
}

type failingStock struct {
	*testhelpers.Kitchen
	failOn string
}

func (f *failingStock) ListStock(ctx context.Context, userID string) ([]*entities.StockRecord, error) {
	return f.Stock.ListStock(ctx, userID)
}

func (f *failingStock) SaveStock(ctx context.Context, record *entities.StockRecord) error {
	return f.Stock.SaveStock(ctx, record)
}

func (f *failingStock) UpdateQuantity(ctx context.Context, userID, stockID string, quantity decimal.Decimal, expectedVersion int64) (int64, error) {
	if stockID == f.failOn {
		return 0, errors.New("connection reset")
	}
	return f.Stock.UpdateQuantity(ctx, userID, stockID, quantity, expectedVersion)
}

func TestConfirm_StockUpdateFailureIsSkippedAndLogged(t *testing.T) {
	ctx := context.Background()
	k := testhelpers.BuildBistroKitchen()
	core, logs := observer.New(zap.ErrorLevel)
	stock := &failingStock{Kitchen: k, failOn: "S-MOZZA"}
	service := newServiceWith(k.Recipes, stock, k.Consumptions, DefaultEngineConfig(), WithLogger(zap.New(core)))

	result, err := service.Confirm(ctx, testhelpers.TestUser, input("R-SALADE", "2"))
	if err != nil {
		t.Fatalf("Expected stock failures to be tolerated, got %v", err)
	}

	if len(result.Applied) != 1 || result.Applied[0].StockID != "S-TOMATE" {
		t.Errorf("Expected only the tomato applied, got %+v", result.Applied)
	}
	reasons := map[entities.LineSkipReason]int{}
	for _, lineErr := range result.LineErrors {
		reasons[lineErr.Reason]++
	}
	if reasons[entities.SkipStockUpdate] != 1 || reasons[entities.SkipUnmatched] != 1 {
		t.Errorf("Expected one stock failure and one unmatched line, got %v", reasons)
	}
	if logs.FilterMessage("failed to update stock").Len() != 1 {
		t.Error("Expected the stock failure to be logged at error level")
	}
	if !k.StockQuantity("S-MOZZA").Equal(d("1.0")) {
		t.Errorf("Expected mozzarella untouched, got %s", k.StockQuantity("S-MOZZA"))
	}
}

type flakyConsumptions struct {
	repositories.ConsumptionRepository
	failCreate bool
	failRecord bool
}

func (f *flakyConsumptions) CreateConsumption(ctx context.Context, c *entities.Consumption) error {
	if f.failCreate {
		return errors.New("disk full")
	}
	return f.ConsumptionRepository.CreateConsumption(ctx, c)
}

func (f *flakyConsumptions) RecordImpact(ctx context.Context, record *entities.ImpactRecord) error {
	if f.failRecord {
		return errors.New("disk full")
	}
	return f.ConsumptionRepository.RecordImpact(ctx, record)
}

func TestConfirm_ImpactRecordFailureKeepsDeduction(t *testing.T) {
	ctx := context.Background()
	k := testhelpers.BuildPizzaKitchen("1.0")
	repo := &flakyConsumptions{ConsumptionRepository: k.Consumptions, failRecord: true}
	service := newServiceWith(k.Recipes, k.Stock, repo, DefaultEngineConfig())

	result, err := service.Confirm(ctx, testhelpers.TestUser, input("R-PIZZA", "1"))
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if len(result.Applied) != 1 || result.Impacts[0].ID != "" {
		t.Errorf("Expected the deduction reported without a record id, got %+v", result.Impacts)
	}
	if len(result.LineErrors) != 1 || result.LineErrors[0].Reason != entities.SkipImpactRecord {
		t.Errorf("Expected impact_record_failed, got %+v", result.LineErrors)
	}
	if !k.StockQuantity("S-MOZZA").Equal(d("0.88")) {
		t.Errorf("Expected stock deducted to 0.88, got %s", k.StockQuantity("S-MOZZA"))
	}
}

func TestConfirm_ConsumptionInsertFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	k := testhelpers.BuildPizzaKitchen("1.0")
	repo := &flakyConsumptions{ConsumptionRepository: k.Consumptions, failCreate: true}
	service := newServiceWith(k.Recipes, k.Stock, repo, DefaultEngineConfig())

	_, err := service.Confirm(ctx, testhelpers.TestUser, input("R-PIZZA", "1"))
	if !errors.Is(err, entities.ErrPersistence) {
		t.Fatalf("Expected ErrPersistence, got %v", err)
	}
	if !k.StockQuantity("S-MOZZA").Equal(d("1.0")) {
		t.Errorf("Expected stock untouched, got %s", k.StockQuantity("S-MOZZA"))
	}
}

// racingStock writes to every record behind the reader's back right after
// handing out the snapshot.
type racingStock struct {
	*testhelpers.Kitchen
}

func (r *racingStock) ListStock(ctx context.Context, userID string) ([]*entities.StockRecord, error) {
	records, err := r.Stock.ListStock(ctx, userID)
	for _, record := range records {
		r.Stock.UpdateQuantity(ctx, userID, record.ID, record.Quantity.Add(d("5")), 0)
	}
	return records, err
}

func (r *racingStock) SaveStock(ctx context.Context, record *entities.StockRecord) error {
	return r.Stock.SaveStock(ctx, record)
}

func (r *racingStock) UpdateQuantity(ctx context.Context, userID, stockID string, quantity decimal.Decimal, expectedVersion int64) (int64, error) {
	return r.Stock.UpdateQuantity(ctx, userID, stockID, quantity, expectedVersion)
}

func TestConfirm_OptimisticLocking(t *testing.T) {
	ctx := context.Background()

	locked := testhelpers.BuildPizzaKitchen("1.0")
	service := newServiceWith(locked.Recipes, &racingStock{locked}, locked.Consumptions, EngineConfig{OptimisticLocking: true})
	result, err := service.Confirm(ctx, testhelpers.TestUser, input("R-PIZZA", "1"))
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if len(result.LineErrors) != 1 || !errors.Is(result.LineErrors[0], entities.ErrStaleStock) {
		t.Errorf("Expected a stale stock line error, got %+v", result.LineErrors)
	}
	if !locked.StockQuantity("S-MOZZA").Equal(d("6")) {
		t.Errorf("Expected the concurrent write to survive, got %s", locked.StockQuantity("S-MOZZA"))
	}

	unlocked := testhelpers.BuildPizzaKitchen("1.0")
	service = newServiceWith(unlocked.Recipes, &racingStock{unlocked}, unlocked.Consumptions, DefaultEngineConfig())
	result, _ = service.Confirm(ctx, testhelpers.TestUser, input("R-PIZZA", "1"))
	if len(result.LineErrors) != 0 {
		t.Errorf("Expected last write to win without locking, got %+v", result.LineErrors)
	}
	if !unlocked.StockQuantity("S-MOZZA").Equal(d("0.88")) {
		t.Errorf("Expected 0.88 written over the concurrent update, got %s", unlocked.StockQuantity("S-MOZZA"))
	}
}

func TestConfirmBatch_RoundTrip(t *testing.T) {
	ctx := context.Background()
	k := testhelpers.BuildBistroKitchen()
	service := newTestService(k, DefaultEngineConfig())

	result, err := service.ConfirmBatch(ctx, testhelpers.TestUser, []dto.ConsumptionInput{
		input("R-PIZZA", "2"),
		input("R-NONE", "1"),
		input("R-SALADE", "4"),
	})
	if err != nil {
		t.Fatalf("ConfirmBatch failed: %v", err)
	}

	if result.Succeeded != 2 || result.Failed != 1 || len(result.Errors) != 1 {
		t.Errorf("Expected 2 succeeded and 1 failed, got %+v", result)
	}
	stored, _ := k.Consumptions.ListByBatch(ctx, testhelpers.TestUser, result.BatchID)
	if len(stored) != 2 {
		t.Fatalf("Expected 2 consumptions in batch %s, got %d", result.BatchID, len(stored))
	}
	for _, c := range stored {
		if c.BatchID != result.BatchID {
			t.Errorf("Consumption %s has batch %q", c.ID, c.BatchID)
		}
	}

	if _, err := service.ConfirmBatch(ctx, testhelpers.TestUser, nil); !errors.Is(err, entities.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty batch, got %v", err)
	}
}

func TestConfirmBatch_KeepsSharedClientBatchID(t *testing.T) {
	k := testhelpers.BuildBistroKitchen()
	service := newTestService(k, DefaultEngineConfig())

	first, second := input("R-PIZZA", "1"), input("R-SALADE", "1")
	first.BatchID, second.BatchID = "client-batch", "client-batch"

	result, _ := service.ConfirmBatch(context.Background(), testhelpers.TestUser, []dto.ConsumptionInput{first, second})
	if result.BatchID != "client-batch" {
		t.Errorf("Expected client batch id kept, got %q", result.BatchID)
	}
}

func TestRenameAndListConsumptions(t *testing.T) {
	ctx := context.Background()
	k := testhelpers.BuildBistroKitchen()
	store := events.NewInMemoryEventStore(nil)
	service := newTestService(k, DefaultEngineConfig(), WithEventStore(store))

	loss := input("R-SALADE", "1")
	loss.ConsumptionType = "loss"
	loss.ConsumptionDate = "2025-03-10"
	lost, _ := service.Confirm(ctx, testhelpers.TestUser, loss)
	sold, _ := service.Confirm(ctx, testhelpers.TestUser, input("R-PIZZA", "2"))

	renamed, err := service.RenameConsumption(ctx, testhelpers.TestUser, sold.ID, "  Service du soir ")
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if renamed.Name != "Service du soir" || !renamed.UpdatedAt.After(renamed.CreatedAt) {
		t.Errorf("Unexpected renamed consumption %+v", renamed)
	}
	if _, err := service.RenameConsumption(ctx, testhelpers.TestUser, sold.ID, " "); !errors.Is(err, entities.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for blank name, got %v", err)
	}
	if _, err := service.RenameConsumption(ctx, testhelpers.TestUser, "missing", "x"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	stream, _ := store.ReadEvents(sold.ID, 1)
	if stream[len(stream)-1].Type() != events.ConsumptionRenamedEvent {
		t.Errorf("Expected consumption.renamed last, got %s", stream[len(stream)-1].Type())
	}

	all, err := service.ListConsumptions(ctx, testhelpers.TestUser, dto.ListQuery{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != sold.ID || all[0].Name != "Service du soir" {
		t.Fatalf("Expected renamed sale first, got %d entries", len(all))
	}
	if all[1].Recipe.Name != "Salade caprese" || len(all[1].Impacts) != 2 {
		t.Errorf("Expected salad with 2 impact records, got %+v", all[1])
	}

	losses, _ := service.ListConsumptions(ctx, testhelpers.TestUser, dto.ListQuery{Type: "loss"})
	if len(losses) != 1 || losses[0].ID != lost.ID {
		t.Errorf("Expected only the loss, got %d entries", len(losses))
	}

	if _, err := service.ListConsumptions(ctx, testhelpers.TestUser, dto.ListQuery{StartDate: "2025-03-14", EndDate: "2025-03-01"}); !errors.Is(err, entities.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for inverted range, got %v", err)
	}
}
