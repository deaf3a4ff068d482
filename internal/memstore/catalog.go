// Package memstore provides the in-memory implementations of the storefront
// repositories. All state lives for the process lifetime only; each store
// guards its data with its own mutex so compound operations stay atomic under
// concurrent request handlers.
package memstore

import (
	"context"
	_ "embed"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/uniblox-store/internal/domain/product"
)

//go:embed products.json
var productsJSON []byte

var _ product.Repository = (*Catalog)(nil)

// Catalog is the static product catalog. It is populated once at
// construction and never mutated afterwards, so reads need no locking.
type Catalog struct {
	list []product.Product
	byID map[int64]*product.Product
}

// NewCatalog builds the catalog from the embedded seed data.
func NewCatalog() (*Catalog, error) {
	products, err := parseProducts(productsJSON)
	if err != nil {
		return nil, errors.Wrap(err, "parse embedded catalog")
	}
	return NewCatalogFrom(products), nil
}

// NewCatalogFrom builds a catalog from the given products. Used by tests to
// control the available inventory.
func NewCatalogFrom(products []product.Product) *Catalog {
	c := &Catalog{
		list: products,
		byID: make(map[int64]*product.Product, len(products)),
	}
	for i := range c.list {
		c.byID[c.list[i].ID] = &c.list[i]
	}
	return c
}

// List returns all catalog products.
func (c *Catalog) List(_ context.Context) ([]product.Product, error) {
	out := make([]product.Product, len(c.list))
	copy(out, c.list)
	return out, nil
}

// GetByID returns the product with the given ID, or product.ErrNotFound.
func (c *Catalog) GetByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func parseProducts(data []byte) ([]product.Product, error) {
	var products []product.Product

	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		var p product.Product
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "id":
				v, err := d.Int64()
				if err != nil {
					return errors.Wrap(err, "id")
				}
				p.ID = v
			case "name":
				v, err := d.Str()
				if err != nil {
					return errors.Wrap(err, "name")
				}
				p.Name = v
			case "price":
				n, err := d.Num()
				if err != nil {
					return errors.Wrap(err, "price")
				}
				price, err := decimal.NewFromString(n.String())
				if err != nil {
					return errors.Wrap(err, "price value")
				}
				p.Price = price
			case "description":
				v, err := d.Str()
				if err != nil {
					return errors.Wrap(err, "description")
				}
				p.Description = v
			default:
				return d.Skip()
			}
			return nil
		}); err != nil {
			return err
		}

		if p.ID <= 0 {
			return errors.Errorf("product %q: missing or invalid id", p.Name)
		}
		if p.Price.IsNegative() {
			return errors.Errorf("product %d: negative price", p.ID)
		}
		products = append(products, p)
		return nil
	}); err != nil {
		return nil, err
	}

	return products, nil
}
