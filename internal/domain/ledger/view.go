package ledger

import "strings"

// View is the canonical in-memory ledger the assistant reasons over.
// Incomes and Expenses are flattened from Sales and Purchases.
type View struct {
	Products   []Product
	Categories []Category
	Clients    []Client
	Providers  []Provider
	Sales      []Transaction
	Purchases  []Transaction
	Incomes    []Record
	Expenses   []Record
}

// IsEmpty reports whether there is no inventory data at all.
func (v *View) IsEmpty() bool {
	return len(v.Products) == 0 && len(v.Categories) == 0
}

// ProductByID returns the product with the given id.
func (v *View) ProductByID(id string) (Product, bool) {
	for _, p := range v.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ProductByName returns the first product whose name equals name, ignoring case.
func (v *View) ProductByName(name string) (Product, bool) {
	for _, p := range v.Products {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Product{}, false
}

// ClientByName returns the first client whose name equals name, ignoring case.
func (v *View) ClientByName(name string) (Client, bool) {
	for _, c := range v.Clients {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Client{}, false
}

// CategoryByID returns the category with the given id.
func (v *View) CategoryByID(id string) (Category, bool) {
	for _, c := range v.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
