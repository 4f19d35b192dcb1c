package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ministock/backend/internal/domain/ledger"
	"github.com/ministock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ItemInput is one requested line. When UnitPrice is not valid the product's
// current price is used.
type ItemInput struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.NullDecimal
}

// TransactionInput describes a sale or purchase to record. An empty ID gets a
// generated one; a zero Date means now.
type TransactionInput struct {
	ID               string
	CounterpartyID   string
	CounterpartyName string
	Items            []ItemInput
	Date             time.Time
}

// Poster records and deletes sales and purchases, keeping product stock in
// step: a sale removes stock and its deletion restores it; a purchase adds
// stock and its deletion removes it.
type Poster struct {
	normalizer *Normalizer
	store      ledger.BlobStore
	logger     *zap.Logger
	now        func() time.Time
}

// NewPoster creates a Poster. The normalizer is used to migrate legacy data
// before anything is written.
func NewPoster(store ledger.BlobStore, normalizer *Normalizer, logger *zap.Logger) *Poster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poster{
		normalizer: normalizer,
		store:      store,
		logger:     logger,
		now:        time.Now,
	}
}

// PostSale records a sale. Every product must have enough stock.
func (p *Poster) PostSale(ctx context.Context, in TransactionInput) (ledger.Transaction, error) {
	return p.post(ctx, ledger.KindSale, in)
}

// PostPurchase records a purchase.
func (p *Poster) PostPurchase(ctx context.Context, in TransactionInput) (ledger.Transaction, error) {
	return p.post(ctx, ledger.KindPurchase, in)
}

// DeleteSale removes a sale and restores its stock.
func (p *Poster) DeleteSale(ctx context.Context, id string) error {
	return p.delete(ctx, ledger.KindSale, id)
}

// DeletePurchase removes a purchase and takes its stock back out.
func (p *Poster) DeletePurchase(ctx context.Context, id string) error {
	return p.delete(ctx, ledger.KindPurchase, id)
}

func (p *Poster) post(ctx context.Context, kind ledger.Kind, in TransactionInput) (ledger.Transaction, error) {
	if _, err := p.normalizer.MigrateLegacy(ctx); err != nil {
		return ledger.Transaction{}, err
	}
	view, err := p.normalizer.Load(ctx)
	if err != nil {
		return ledger.Transaction{}, err
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	for _, existing := range transactionsOf(view, kind) {
		if existing.ID == id {
			return ledger.Transaction{}, shared.ErrAlreadyExists.Withf("%s %s already exists", kind, id)
		}
	}

	items := make([]ledger.LineItem, 0, len(in.Items))
	for _, req := range in.Items {
		product, ok := view.ProductByID(req.ProductID)
		if !ok {
			return ledger.Transaction{}, shared.ErrNotFound.Withf("product %s not found", req.ProductID)
		}
		price := product.Price
		if req.UnitPrice.Valid {
			price = req.UnitPrice.Decimal
		}
		item, err := ledger.NewLineItem(product.ID, product.Name, req.Quantity, price)
		if err != nil {
			return ledger.Transaction{}, err
		}
		items = append(items, item)
	}

	date := in.Date
	if date.IsZero() {
		date = p.now()
	}
	tx, err := ledger.NewTransaction(id, kind, in.CounterpartyID, in.CounterpartyName, items, date)
	if err != nil {
		return ledger.Transaction{}, err
	}

	if err := ledger.ApplyStock(view.Products, tx); err != nil {
		return ledger.Transaction{}, err
	}

	elems, err := p.rawList(ctx, transactionKey(kind))
	if err != nil {
		return ledger.Transaction{}, err
	}
	encoded, err := encodeTransaction(tx)
	if err != nil {
		return ledger.Transaction{}, err
	}
	elems = append(elems, encoded)

	if err := p.save(ctx, view.Products, transactionKey(kind), elems); err != nil {
		return ledger.Transaction{}, err
	}

	p.logger.Info("transaction posted",
		zap.String("kind", kind.String()),
		zap.String("id", tx.ID),
		zap.Int("items", len(tx.Items)),
		zap.String("total", tx.Total.StringFixed(2)),
	)
	return tx, nil
}

func (p *Poster) delete(ctx context.Context, kind ledger.Kind, id string) error {
	if _, err := p.normalizer.MigrateLegacy(ctx); err != nil {
		return err
	}
	view, err := p.normalizer.Load(ctx)
	if err != nil {
		return err
	}

	var (
		tx    ledger.Transaction
		found bool
	)
	for _, existing := range transactionsOf(view, kind) {
		if existing.ID == id {
			tx, found = existing, true
			break
		}
	}
	if !found {
		return shared.ErrNotFound.Withf("%s %s not found", kind, id)
	}

	if missing := ledger.ReverseStock(view.Products, tx); len(missing) > 0 {
		p.logger.Warn("stock not restored for removed products",
			zap.String("kind", kind.String()),
			zap.String("id", id),
			zap.Strings("product_ids", missing),
		)
	}

	elems, err := p.rawList(ctx, transactionKey(kind))
	if err != nil {
		return err
	}
	kept := elems[:0]
	for _, elem := range elems {
		if recordID(elem) != id {
			kept = append(kept, elem)
		}
	}

	if err := p.save(ctx, view.Products, transactionKey(kind), kept); err != nil {
		return err
	}

	p.logger.Info("transaction deleted",
		zap.String("kind", kind.String()),
		zap.String("id", id),
	)
	return nil
}

// save writes the updated product quantities and the transaction list.
// Product records are patched in place so fields and records the normalizer
// skipped survive the rewrite.
func (p *Poster) save(ctx context.Context, products []ledger.Product, key string, txs []json.RawMessage) error {
	quantities := make(map[string]int, len(products))
	for _, product := range products {
		quantities[product.ID] = product.Quantity
	}

	elems, err := p.rawList(ctx, ledger.KeyProducts)
	if err != nil {
		return err
	}
	for i, elem := range elems {
		qty, ok := quantities[recordID(elem)]
		if !ok {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elem, &fields); err != nil {
			continue
		}
		fields["quantity"] = json.RawMessage(strconv.Itoa(qty))
		patched, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("encode product: %w", err)
		}
		elems[i] = patched
	}

	if err := writeList(ctx, p.store, ledger.KeyProducts, elems); err != nil {
		return err
	}
	return writeList(ctx, p.store, key, txs)
}

func (p *Poster) rawList(ctx context.Context, key string) ([]json.RawMessage, error) {
	data, found, err := p.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !found {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, shared.ErrInvalidInput.Withf("stored %s is not a list; refusing to overwrite it", key)
	}
	return elems, nil
}

func encodeTransaction(tx ledger.Transaction) (json.RawMessage, error) {
	var v any
	if tx.Kind == ledger.KindSale {
		v = saleFromDomain(tx)
	} else {
		v = purchaseFromDomain(tx)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", tx.Kind, err)
	}
	return data, nil
}

func transactionKey(kind ledger.Kind) string {
	if kind == ledger.KindSale {
		return ledger.KeySales
	}
	return ledger.KeyPurchases
}

func transactionsOf(view *ledger.View, kind ledger.Kind) []ledger.Transaction {
	if kind == ledger.KindSale {
		return view.Sales
	}
	return view.Purchases
}
