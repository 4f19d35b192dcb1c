package ledger

import (
	"time"

	"github.com/ministock/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// Persisted JSON shapes. Field names and number encoding match the blobs
// written by the inventory UI, so the store can be shared with it.

type productDTO struct {
	ID          string  `json:"id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity"`
	CategoryID  string  `json:"categoryId"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}

type categoryDTO struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

type clientDTO struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type providerDTO struct {
	ID         string   `json:"id" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	Contact    string   `json:"contact"`
	Email      string   `json:"email"`
	CategoryID string   `json:"categoryId"`
	Products   []string `json:"products"`
	CreatedAt  string   `json:"createdAt,omitempty"`
}

type itemDTO struct {
	ProductID   string  `json:"productId" validate:"required"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	Subtotal    float64 `json:"subtotal" validate:"gte=0"`
}

type saleDTO struct {
	ID         string    `json:"id" validate:"required"`
	ClientID   string    `json:"clientId"`
	ClientName string    `json:"clientName"`
	Items      []itemDTO `json:"items" validate:"required,min=1,dive"`
	Total      float64   `json:"total"`
	Date       string    `json:"date" validate:"required"`
}

type purchaseDTO struct {
	ID           string    `json:"id" validate:"required"`
	ProviderID   string    `json:"providerId"`
	ProviderName string    `json:"providerName"`
	Items        []itemDTO `json:"items" validate:"required,min=1,dive"`
	Total        float64   `json:"total"`
	Date         string    `json:"date" validate:"required"`
}

// legacyDTO is the single-item income/expense shape.
type legacyDTO struct {
	ID           string  `json:"id" validate:"required"`
	ProductID    string  `json:"productId" validate:"required"`
	ProductName  string  `json:"productName"`
	Quantity     int     `json:"quantity" validate:"gt=0"`
	UnitPrice    float64 `json:"unitPrice" validate:"gte=0"`
	Total        float64 `json:"total" validate:"gte=0"`
	ClientID     string  `json:"clientId"`
	ClientName   string  `json:"clientName"`
	ProviderID   string  `json:"providerId"`
	ProviderName string  `json:"providerName"`
	Date         string  `json:"date" validate:"required"`
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func (d productDTO) toDomain() ledger.Product {
	created, _ := parseDate(d.CreatedAt)
	return ledger.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       money(d.Price),
		Quantity:    d.Quantity,
		CategoryID:  d.CategoryID,
		CreatedAt:   created,
	}
}

func productFromDomain(p ledger.Product) productDTO {
	dto := productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Quantity:    p.Quantity,
		CategoryID:  p.CategoryID,
	}
	if !p.CreatedAt.IsZero() {
		dto.CreatedAt = formatDate(p.CreatedAt)
	}
	return dto
}

func (d categoryDTO) toDomain() ledger.Category {
	return ledger.Category{ID: d.ID, Name: d.Name, Description: d.Description}
}

func (d clientDTO) toDomain() ledger.Client {
	return ledger.Client{ID: d.ID, Name: d.Name, Phone: d.Phone, Email: d.Email}
}

func (d providerDTO) toDomain() ledger.Provider {
	return ledger.Provider{
		ID:         d.ID,
		Name:       d.Name,
		Contact:    d.Contact,
		Email:      d.Email,
		CategoryID: d.CategoryID,
		ProductIDs: append([]string(nil), d.Products...),
	}
}

func (d itemDTO) toDomain() ledger.LineItem {
	price := money(d.UnitPrice)
	subtotal := money(d.Subtotal)
	if subtotal.IsZero() {
		subtotal = price.Mul(decimal.NewFromInt(int64(d.Quantity)))
	}
	return ledger.LineItem{
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		Quantity:    d.Quantity,
		UnitPrice:   price,
		Subtotal:    subtotal,
	}
}

func itemsFromDomain(items []ledger.LineItem) []itemDTO {
	out := make([]itemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, itemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.InexactFloat64(),
			Subtotal:    item.Subtotal.InexactFloat64(),
		})
	}
	return out
}

func toTransaction(id string, kind ledger.Kind, counterpartyID, counterpartyName string, items []itemDTO, date time.Time) ledger.Transaction {
	tx := ledger.Transaction{
		ID:               id,
		Kind:             kind,
		CounterpartyID:   counterpartyID,
		CounterpartyName: counterpartyName,
		Items:            make([]ledger.LineItem, 0, len(items)),
		Date:             date,
	}
	for _, item := range items {
		tx.Items = append(tx.Items, item.toDomain())
	}
	tx.Total = tx.ItemsTotal()
	return tx
}

func saleFromDomain(tx ledger.Transaction) saleDTO {
	return saleDTO{
		ID:         tx.ID,
		ClientID:   tx.CounterpartyID,
		ClientName: tx.CounterpartyName,
		Items:      itemsFromDomain(tx.Items),
		Total:      tx.Total.InexactFloat64(),
		Date:       formatDate(tx.Date),
	}
}

func purchaseFromDomain(tx ledger.Transaction) purchaseDTO {
	return purchaseDTO{
		ID:           tx.ID,
		ProviderID:   tx.CounterpartyID,
		ProviderName: tx.CounterpartyName,
		Items:        itemsFromDomain(tx.Items),
		Total:        tx.Total.InexactFloat64(),
		Date:         formatDate(tx.Date),
	}
}

// toItem converts a legacy record into its single line item. Records written
// without a unit price get total / quantity.
func (d legacyDTO) toItem() itemDTO {
	unitPrice := d.UnitPrice
	if unitPrice == 0 && d.Quantity > 0 {
		unitPrice = money(d.Total).Div(decimal.NewFromInt(int64(d.Quantity))).InexactFloat64()
	}
	return itemDTO{
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		Quantity:    d.Quantity,
		UnitPrice:   unitPrice,
		Subtotal:    d.Total,
	}
}

func (d legacyDTO) toSale() saleDTO {
	return saleDTO{
		ID:         d.ID,
		ClientID:   d.ClientID,
		ClientName: d.ClientName,
		Items:      []itemDTO{d.toItem()},
		Total:      d.Total,
		Date:       d.Date,
	}
}

func (d legacyDTO) toPurchase() purchaseDTO {
	return purchaseDTO{
		ID:           d.ID,
		ProviderID:   d.ProviderID,
		ProviderName: d.ProviderName,
		Items:        []itemDTO{d.toItem()},
		Total:        d.Total,
		Date:         d.Date,
	}
}
