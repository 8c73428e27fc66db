package store

import (
	"context"
	"fmt"

	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/period"
)

const productColumns = `id, company_id, sku, name, costing_method, average_cost, stock_quantity, is_service, track_inventory`

func scanProduct(row rowScanner) (model.Product, error) {
	var p model.Product
	var method string
	var isService, track int
	if err := row.Scan(&p.ID, &p.CompanyID, &p.SKU, &p.Name, &method, &p.AverageCost, &p.StockQuantity,
		&isService, &track); err != nil {
		return model.Product{}, err
	}
	p.CostingMethod = model.CostingMethod(method)
	p.IsService = isService != 0
	p.TrackInventory = track != 0
	return p, nil
}

// CreateProduct inserts a product and fills in its ID.
func (s *Store) CreateProduct(ctx context.Context, p *model.Product) error {
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO products (company_id, sku, name, costing_method, average_cost, stock_quantity, is_service, track_inventory)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CompanyID, p.SKU, p.Name, string(p.CostingMethod), p.AverageCost.String(), p.StockQuantity.String(),
		boolToInt(p.IsService), boolToInt(p.TrackInventory))
	if err != nil {
		return fmt.Errorf("inserting product %s: %w", p.SKU, err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("reading product id: %w", err)
	}
	return nil
}

// GetProduct returns a product owned by companyID. Inside a write
// transaction the row is already covered by the database write lock.
func (s *Store) GetProduct(ctx context.Context, companyID, productID int64) (model.Product, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE company_id = ? AND id = ?`, companyID, productID)
	p, err := scanProduct(row)
	if err != nil {
		return model.Product{}, notFound(err, "product", productID)
	}
	return p, nil
}

// ListProducts returns companyID's products ordered by SKU.
func (s *Store) ListProducts(ctx context.Context, companyID int64) ([]model.Product, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE company_id = ? ORDER BY sku`, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProductCosting saves the running average cost and stock quantity.
func (s *Store) UpdateProductCosting(ctx context.Context, p model.Product) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE products SET average_cost = ?, stock_quantity = ? WHERE company_id = ? AND id = ?`,
		p.AverageCost.String(), p.StockQuantity.String(), p.CompanyID, p.ID)
	if err != nil {
		return fmt.Errorf("updating product %d: %w", p.ID, err)
	}
	return nil
}

// InsertCostLayer appends a FIFO layer and fills in its ID.
func (s *Store) InsertCostLayer(ctx context.Context, l *model.CostLayer) error {
	createdAt := s.timestamp()
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO cost_layers (product_id, unit_cost, quantity_in, quantity_out, remaining, purchase_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ProductID, l.UnitCost.String(), l.QuantityIn.String(), l.QuantityOut.String(), l.Remaining.String(),
		period.Format(l.PurchaseDate), createdAt)
	if err != nil {
		return fmt.Errorf("inserting cost layer for product %d: %w", l.ProductID, err)
	}
	if l.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("reading cost layer id: %w", err)
	}
	l.CreatedAt, _ = parseTimestamp(createdAt)
	return nil
}

// CostLayers returns a product's layers oldest purchase first (ties broken by
// insertion order). With openOnly, exhausted layers are skipped.
func (s *Store) CostLayers(ctx context.Context, companyID, productID int64, openOnly bool) ([]model.CostLayer, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT l.id, l.product_id, l.unit_cost, l.quantity_in, l.quantity_out, l.remaining, l.purchase_date, l.created_at
		FROM cost_layers l
		JOIN products p ON p.id = l.product_id
		WHERE p.company_id = ? AND l.product_id = ?
		ORDER BY l.purchase_date, l.id`, companyID, productID)
	if err != nil {
		return nil, fmt.Errorf("loading cost layers: %w", err)
	}
	defer rows.Close()

	var layers []model.CostLayer
	for rows.Next() {
		var l model.CostLayer
		var purchaseDate, createdAt string
		if err := rows.Scan(&l.ID, &l.ProductID, &l.UnitCost, &l.QuantityIn, &l.QuantityOut, &l.Remaining,
			&purchaseDate, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning cost layer: %w", err)
		}
		if l.PurchaseDate, err = parseDate(purchaseDate); err != nil {
			return nil, err
		}
		if l.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		if openOnly && !l.Remaining.IsPositive() {
			continue
		}
		layers = append(layers, l)
	}
	return layers, rows.Err()
}

// UpdateCostLayer saves a layer's consumed and remaining quantities.
func (s *Store) UpdateCostLayer(ctx context.Context, l model.CostLayer) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE cost_layers SET quantity_out = ?, remaining = ? WHERE id = ?`,
		l.QuantityOut.String(), l.Remaining.String(), l.ID)
	if err != nil {
		return fmt.Errorf("updating cost layer %d: %w", l.ID, err)
	}
	return nil
}
