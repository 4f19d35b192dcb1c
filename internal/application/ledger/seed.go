package ledger

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ministock/backend/internal/domain/ledger"
	"github.com/ministock/backend/internal/domain/shared"
)

// SeedData is a demo ledger described in YAML. Transactions reference
// products and counterparties by ID; purchases are posted before sales so
// the sales find stock.
type SeedData struct {
	Categories []SeedCategory    `yaml:"categories" validate:"dive"`
	Products   []SeedProduct     `yaml:"products" validate:"dive"`
	Clients    []SeedParty       `yaml:"clients" validate:"dive"`
	Providers  []SeedParty       `yaml:"providers" validate:"dive"`
	Purchases  []SeedTransaction `yaml:"purchases" validate:"dive"`
	Sales      []SeedTransaction `yaml:"sales" validate:"dive"`
}

type SeedCategory struct {
	ID          string `yaml:"id" validate:"required"`
	Name        string `yaml:"name" validate:"required"`
	Description string `yaml:"description"`
}

type SeedProduct struct {
	ID          string  `yaml:"id" validate:"required"`
	Name        string  `yaml:"name" validate:"required"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price" validate:"gte=0"`
	Quantity    int     `yaml:"quantity" validate:"gte=0"`
	Category    string  `yaml:"category"`
}

// SeedParty is a client or a provider.
type SeedParty struct {
	ID      string `yaml:"id" validate:"required"`
	Name    string `yaml:"name" validate:"required"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
	Contact string `yaml:"contact"`
}

type SeedTransaction struct {
	ID           string     `yaml:"id"`
	Counterparty string     `yaml:"counterparty"`
	Date         string     `yaml:"date" validate:"required"`
	Items        []SeedItem `yaml:"items" validate:"required,min=1,dive"`
}

type SeedItem struct {
	Product  string   `yaml:"product" validate:"required"`
	Quantity int      `yaml:"quantity" validate:"gt=0"`
	Price    *float64 `yaml:"price" validate:"omitempty,gte=0"`
}

// SeedReport counts what Seed wrote.
type SeedReport struct {
	Categories int
	Products   int
	Clients    int
	Providers  int
	Purchases  int
	Sales      int
}

// ParseSeed decodes and validates a YAML seed document.
func ParseSeed(data []byte) (SeedData, error) {
	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return SeedData{}, shared.ErrInvalidInput.Withf("seed is not valid YAML: %v", err)
	}
	if err := validator.New().Struct(seed); err != nil {
		return SeedData{}, shared.ErrInvalidInput.Withf("invalid seed: %v", err)
	}
	return seed, nil
}

// Seed replaces the whole ledger with the seed: reference lists are
// overwritten, transactions are cleared and then posted through the usual
// stock rules.
func (p *Poster) Seed(ctx context.Context, seed SeedData) (SeedReport, error) {
	if err := p.writeReference(ctx, seed); err != nil {
		return SeedReport{}, err
	}
	for _, key := range []string{ledger.KeySales, ledger.KeyPurchases, ledger.KeyLegacyIncomes, ledger.KeyLegacyExpenses} {
		if err := writeList[struct{}](ctx, p.store, key, nil); err != nil {
			return SeedReport{}, err
		}
	}

	report := SeedReport{
		Categories: len(seed.Categories),
		Products:   len(seed.Products),
		Clients:    len(seed.Clients),
		Providers:  len(seed.Providers),
	}

	providers := partyNames(seed.Providers)
	for i, st := range seed.Purchases {
		in, err := st.toInput(providers)
		if err != nil {
			return report, fmt.Errorf("purchase %d: %w", i+1, err)
		}
		if _, err := p.PostPurchase(ctx, in); err != nil {
			return report, fmt.Errorf("purchase %d: %w", i+1, err)
		}
		report.Purchases++
	}

	clients := partyNames(seed.Clients)
	for i, st := range seed.Sales {
		in, err := st.toInput(clients)
		if err != nil {
			return report, fmt.Errorf("sale %d: %w", i+1, err)
		}
		if _, err := p.PostSale(ctx, in); err != nil {
			return report, fmt.Errorf("sale %d: %w", i+1, err)
		}
		report.Sales++
	}

	p.logger.Info("ledger seeded",
		zap.Int("products", report.Products),
		zap.Int("purchases", report.Purchases),
		zap.Int("sales", report.Sales),
	)
	return report, nil
}

func (p *Poster) writeReference(ctx context.Context, seed SeedData) error {
	created := formatDate(p.now())

	categories := make([]categoryDTO, 0, len(seed.Categories))
	for _, c := range seed.Categories {
		categories = append(categories, categoryDTO{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: created})
	}
	products := make([]productDTO, 0, len(seed.Products))
	for _, sp := range seed.Products {
		products = append(products, productDTO{
			ID:          sp.ID,
			Name:        sp.Name,
			Description: sp.Description,
			Price:       sp.Price,
			Quantity:    sp.Quantity,
			CategoryID:  sp.Category,
			CreatedAt:   created,
		})
	}
	clients := make([]clientDTO, 0, len(seed.Clients))
	for _, c := range seed.Clients {
		clients = append(clients, clientDTO{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email, CreatedAt: created})
	}
	providers := make([]providerDTO, 0, len(seed.Providers))
	for _, pr := range seed.Providers {
		providers = append(providers, providerDTO{ID: pr.ID, Name: pr.Name, Contact: pr.Contact, Email: pr.Email, CreatedAt: created})
	}

	if err := writeList(ctx, p.store, ledger.KeyCategories, categories); err != nil {
		return err
	}
	if err := writeList(ctx, p.store, ledger.KeyProducts, products); err != nil {
		return err
	}
	if err := writeList(ctx, p.store, ledger.KeyClients, clients); err != nil {
		return err
	}
	return writeList(ctx, p.store, ledger.KeyProviders, providers)
}

func (st SeedTransaction) toInput(names map[string]string) (TransactionInput, error) {
	date, ok := parseDate(st.Date)
	if !ok {
		return TransactionInput{}, shared.ErrInvalidInput.Withf("invalid date %q", st.Date)
	}
	in := TransactionInput{
		ID:             st.ID,
		CounterpartyID: st.Counterparty,
		Date:           date,
	}
	if st.Counterparty != "" {
		name, ok := names[st.Counterparty]
		if !ok {
			return TransactionInput{}, shared.ErrNotFound.Withf("counterparty %s not found", st.Counterparty)
		}
		in.CounterpartyName = name
	}
	for _, item := range st.Items {
		req := ItemInput{ProductID: item.Product, Quantity: item.Quantity}
		if item.Price != nil {
			req.UnitPrice = decimal.NewNullDecimal(decimal.NewFromFloat(*item.Price))
		}
		in.Items = append(in.Items, req)
	}
	return in, nil
}

func partyNames(parties []SeedParty) map[string]string {
	names := make(map[string]string, len(parties))
	for _, party := range parties {
		names[party.ID] = party.Name
	}
	return names
}

