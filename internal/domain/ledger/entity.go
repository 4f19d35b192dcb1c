package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is an inventory item. Quantity is mutated by sale and purchase
// posting; every other field is edited outside the assistant.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	CategoryID  string
	CreatedAt   time.Time
}

// StockValue returns price multiplied by quantity on hand.
func (p Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// Category groups products.
type Category struct {
	ID          string
	Name        string
	Description string
}

// Client is a buyer referenced by sales.
type Client struct {
	ID    string
	Name  string
	Phone string
	Email string
}

// Provider is a supplier referenced by purchases.
type Provider struct {
	ID         string
	Name       string
	Contact    string
	Email      string
	CategoryID string
	ProductIDs []string
}
