package ledger

import "github.com/ministock/backend/internal/domain/shared"

// StockDelta is the signed quantity change a line item applies to its
// product: sales remove stock, purchases add it.
func StockDelta(kind Kind, quantity int) int {
	if kind == KindSale {
		return -quantity
	}
	return quantity
}

// ApplyStock applies the transaction's stock deltas to products in place.
// A sale fails with ErrInsufficientStock when any product would go below
// zero, and nothing is modified in that case.
func ApplyStock(products []Product, tx Transaction) error {
	_, err := adjustStock(products, tx, 1)
	return err
}

// ReverseStock undoes exactly the deltas ApplyStock applied for tx. Items
// whose product no longer exists are skipped; their product IDs are returned.
func ReverseStock(products []Product, tx Transaction) []string {
	missing, _ := adjustStock(products, tx, -1)
	return missing
}

func adjustStock(products []Product, tx Transaction, sign int) ([]string, error) {
	index := make(map[string]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}

	var missing []string
	next := make(map[int]int)
	for _, item := range tx.Items {
		i, ok := index[item.ProductID]
		if !ok {
			if sign < 0 {
				missing = append(missing, item.ProductID)
				continue
			}
			return nil, shared.ErrNotFound.Withf("product %s not found", item.ProductID)
		}
		current, seen := next[i]
		if !seen {
			current = products[i].Quantity
		}
		current += sign * StockDelta(tx.Kind, item.Quantity)
		if tx.Kind == KindSale && sign > 0 && current < 0 {
			return nil, shared.ErrInsufficientStock.Withf("insufficient stock for %s: available %d", products[i].Name, products[i].Quantity)
		}
		next[i] = current
	}

	for i, qty := range next {
		products[i].Quantity = qty
	}
	return missing, nil
}
