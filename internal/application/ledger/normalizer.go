package ledger

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ministock/backend/internal/domain/ledger"
	"github.com/ministock/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MigrationReport describes what MigrateLegacy rewrote.
type MigrationReport struct {
	Sales     int
	Purchases int
	Migrated  []ledger.Kind
}

// Normalizer reads the persisted ledger and produces the canonical view with
// flattened incomes and expenses.
type Normalizer struct {
	reader         *blobReader
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewNormalizer creates a Normalizer over store.
func NewNormalizer(store ledger.BlobStore, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{
		reader: &blobReader{
			store:    store,
			validate: validator.New(),
			logger:   logger,
		},
		logger: logger,
	}
}

// SetEventPublisher sets the publisher that receives migration events.
func (n *Normalizer) SetEventPublisher(publisher shared.EventPublisher) {
	n.eventPublisher = publisher
}

// Load returns the ledger view. Transactions still stored only in the legacy
// single-item shape are converted in memory without writing anything back.
func (n *Normalizer) Load(ctx context.Context) (*ledger.View, error) {
	view := &ledger.View{}

	products, _, err := decodeList[productDTO](ctx, n.reader, ledger.KeyProducts)
	if err != nil {
		return nil, err
	}
	for _, d := range products {
		view.Products = append(view.Products, d.toDomain())
	}

	categories, _, err := decodeList[categoryDTO](ctx, n.reader, ledger.KeyCategories)
	if err != nil {
		return nil, err
	}
	for _, d := range categories {
		view.Categories = append(view.Categories, d.toDomain())
	}

	clients, _, err := decodeList[clientDTO](ctx, n.reader, ledger.KeyClients)
	if err != nil {
		return nil, err
	}
	for _, d := range clients {
		view.Clients = append(view.Clients, d.toDomain())
	}

	providers, _, err := decodeList[providerDTO](ctx, n.reader, ledger.KeyProviders)
	if err != nil {
		return nil, err
	}
	for _, d := range providers {
		view.Providers = append(view.Providers, d.toDomain())
	}

	sales, err := n.loadSales(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range sales {
		if tx, ok := n.saleToDomain(d); ok {
			view.Sales = append(view.Sales, tx)
		}
	}

	purchases, err := n.loadPurchases(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range purchases {
		if tx, ok := n.purchaseToDomain(d); ok {
			view.Purchases = append(view.Purchases, tx)
		}
	}

	view.Incomes = ledger.FlattenAll(view.Sales)
	view.Expenses = ledger.FlattenAll(view.Purchases)
	return view, nil
}

func (n *Normalizer) loadSales(ctx context.Context) ([]saleDTO, error) {
	sales, found, err := decodeList[saleDTO](ctx, n.reader, ledger.KeySales)
	if err != nil || found {
		return sales, err
	}
	legacy, _, err := decodeList[legacyDTO](ctx, n.reader, ledger.KeyLegacyIncomes)
	if err != nil {
		return nil, err
	}
	for _, d := range legacy {
		sales = append(sales, d.toSale())
	}
	return sales, nil
}

func (n *Normalizer) loadPurchases(ctx context.Context) ([]purchaseDTO, error) {
	purchases, found, err := decodeList[purchaseDTO](ctx, n.reader, ledger.KeyPurchases)
	if err != nil || found {
		return purchases, err
	}
	legacy, _, err := decodeList[legacyDTO](ctx, n.reader, ledger.KeyLegacyExpenses)
	if err != nil {
		return nil, err
	}
	for _, d := range legacy {
		purchases = append(purchases, d.toPurchase())
	}
	return purchases, nil
}

func (n *Normalizer) saleToDomain(d saleDTO) (ledger.Transaction, bool) {
	date, ok := parseDate(d.Date)
	if !ok {
		n.logger.Warn("skipping sale with unparseable date", zap.String("id", d.ID), zap.String("date", d.Date))
		return ledger.Transaction{}, false
	}
	return toTransaction(d.ID, ledger.KindSale, d.ClientID, d.ClientName, d.Items, date), true
}

func (n *Normalizer) purchaseToDomain(d purchaseDTO) (ledger.Transaction, bool) {
	date, ok := parseDate(d.Date)
	if !ok {
		n.logger.Warn("skipping purchase with unparseable date", zap.String("id", d.ID), zap.String("date", d.Date))
		return ledger.Transaction{}, false
	}
	return toTransaction(d.ID, ledger.KindPurchase, d.ProviderID, d.ProviderName, d.Items, date), true
}

// MigrateLegacy rewrites legacy single-item incomes and expenses into the
// multi-item sales and purchases blobs. A kind is migrated only when its
// multi-item blob is absent and its legacy blob exists, so running it again
// is a no-op. One LegacyDataMigrated event is published per migrated kind.
func (n *Normalizer) MigrateLegacy(ctx context.Context) (MigrationReport, error) {
	var report MigrationReport

	count, migrated, err := migrateKind(ctx, n, ledger.KeyLegacyIncomes, ledger.KeySales, legacyDTO.toSale)
	if err != nil {
		return report, err
	}
	if migrated {
		report.Sales = count
		report.Migrated = append(report.Migrated, ledger.KindSale)
		n.publish(ctx, ledger.NewLegacyDataMigrated(ledger.KindSale, ledger.KeyLegacyIncomes, ledger.KeySales, count))
	}

	count, migrated, err = migrateKind(ctx, n, ledger.KeyLegacyExpenses, ledger.KeyPurchases, legacyDTO.toPurchase)
	if err != nil {
		return report, err
	}
	if migrated {
		report.Purchases = count
		report.Migrated = append(report.Migrated, ledger.KindPurchase)
		n.publish(ctx, ledger.NewLegacyDataMigrated(ledger.KindPurchase, ledger.KeyLegacyExpenses, ledger.KeyPurchases, count))
	}

	return report, nil
}

func migrateKind[T any](ctx context.Context, n *Normalizer, sourceKey, targetKey string, convert func(legacyDTO) T) (int, bool, error) {
	_, targetFound, err := n.reader.store.Get(ctx, targetKey)
	if err != nil {
		return 0, false, fmt.Errorf("read %s: %w", targetKey, err)
	}
	if targetFound {
		return 0, false, nil
	}

	legacy, sourceFound, err := decodeList[legacyDTO](ctx, n.reader, sourceKey)
	if err != nil || !sourceFound {
		return 0, false, err
	}

	converted := make([]T, 0, len(legacy))
	for _, d := range legacy {
		converted = append(converted, convert(d))
	}
	if err := writeList(ctx, n.reader.store, targetKey, converted); err != nil {
		return 0, false, err
	}

	n.logger.Info("legacy records migrated",
		zap.String("source", sourceKey),
		zap.String("target", targetKey),
		zap.Int("count", len(converted)),
	)
	return len(converted), true, nil
}

func (n *Normalizer) publish(ctx context.Context, event shared.DomainEvent) {
	if n.eventPublisher == nil {
		return
	}
	if err := n.eventPublisher.Publish(ctx, event); err != nil {
		n.logger.Error("failed to publish event",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
}
