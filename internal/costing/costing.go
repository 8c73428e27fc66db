// Package costing values inventory under weighted average cost or FIFO and
// posts cost of goods sold through the journal.
package costing

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/database"
	"github.com/cleared-dev/books/internal/journal"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/money"
	"github.com/cleared-dev/books/internal/period"
	"github.com/cleared-dev/books/internal/store"
)

// Service records purchases and depletes stock on sale.
type Service struct {
	db      *sql.DB
	journal *journal.Service
	system  accounts.SystemAccounts
	log     zerolog.Logger
}

// NewService creates a costing Service. COGS postings go through j and use
// the cogs and inventory roles of system.
func NewService(db *sql.DB, j *journal.Service, system accounts.SystemAccounts, log zerolog.Logger) *Service {
	return &Service{
		db:      db,
		journal: j,
		system:  system,
		log:     log.With().Str("service", "costing").Logger(),
	}
}

// ProductParams holds parameters for registering a product.
type ProductParams struct {
	SKU            string
	Name           string
	CostingMethod  model.CostingMethod
	IsService      bool
	TrackInventory bool
}

// CreateProduct registers a product with zero stock.
func (s *Service) CreateProduct(ctx context.Context, companyID int64, params ProductParams) (model.Product, error) {
	p := model.Product{
		CompanyID:      companyID,
		SKU:            strings.TrimSpace(params.SKU),
		Name:           strings.TrimSpace(params.Name),
		CostingMethod:  params.CostingMethod,
		IsService:      params.IsService,
		TrackInventory: params.TrackInventory,
	}
	if p.SKU == "" {
		return model.Product{}, apperr.Invalid("sku", "product SKU is required")
	}
	if p.Name == "" {
		p.Name = p.SKU
	}
	if p.CostingMethod == "" {
		p.CostingMethod = model.CostingWAC
	}
	if p.CostingMethod != model.CostingWAC && p.CostingMethod != model.CostingFIFO {
		return model.Product{}, apperr.Invalid("costing_method", "costing method must be wac or fifo, got %q", p.CostingMethod)
	}
	if err := store.New(s.db).CreateProduct(ctx, &p); err != nil {
		return model.Product{}, err
	}
	s.log.Info().Int64("company_id", companyID).Str("sku", p.SKU).Str("method", string(p.CostingMethod)).Msg("product created")
	return p, nil
}

// Product returns one product.
func (s *Service) Product(ctx context.Context, companyID, productID int64) (model.Product, error) {
	return store.New(s.db).GetProduct(ctx, companyID, productID)
}

// Products returns companyID's products ordered by SKU.
func (s *Service) Products(ctx context.Context, companyID int64) ([]model.Product, error) {
	return store.New(s.db).ListProducts(ctx, companyID)
}

// Layers returns every FIFO layer of a product, oldest first.
func (s *Service) Layers(ctx context.Context, companyID, productID int64) ([]model.CostLayer, error) {
	st := store.New(s.db)
	if _, err := st.GetProduct(ctx, companyID, productID); err != nil {
		return nil, err
	}
	return st.CostLayers(ctx, companyID, productID, false)
}

// RecordPurchaseCost adds purchased stock at unitCost. Under WAC the running
// average is recomputed; under FIFO a new layer is appended.
func (s *Service) RecordPurchaseCost(ctx context.Context, companyID, productID int64, quantity, unitCost decimal.Decimal, purchaseDate time.Time) (model.Product, error) {
	var p model.Product
	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		p, err = s.RecordPurchaseCostTx(ctx, tx, companyID, productID, quantity, unitCost, purchaseDate)
		return err
	})
	return p, err
}

// RecordPurchaseCostTx is RecordPurchaseCost inside the caller's transaction.
func (s *Service) RecordPurchaseCostTx(ctx context.Context, tx *sql.Tx, companyID, productID int64, quantity, unitCost decimal.Decimal, purchaseDate time.Time) (model.Product, error) {
	if !quantity.IsPositive() {
		return model.Product{}, apperr.Invalid("quantity", "purchase quantity must be positive, got %s", quantity)
	}
	if unitCost.IsNegative() {
		return model.Product{}, apperr.Invalid("unit_cost", "unit cost must not be negative, got %s", unitCost)
	}
	if purchaseDate.IsZero() {
		return model.Product{}, apperr.Invalid("date", "purchase date is required")
	}

	st := store.New(tx)
	p, err := st.GetProduct(ctx, companyID, productID)
	if err != nil {
		return model.Product{}, err
	}
	if p.IsService {
		return model.Product{}, apperr.Invalid("product", "service product %s carries no inventory cost", p.SKU)
	}

	switch p.CostingMethod {
	case model.CostingFIFO:
		layer := model.CostLayer{
			ProductID:    p.ID,
			UnitCost:     unitCost,
			QuantityIn:   quantity,
			QuantityOut:  decimal.Zero,
			Remaining:    quantity,
			PurchaseDate: period.Day(purchaseDate),
		}
		if err := st.InsertCostLayer(ctx, &layer); err != nil {
			return model.Product{}, err
		}
	default:
		p.AverageCost = WeightedAverage(p.AverageCost, p.StockQuantity, quantity, unitCost)
	}
	p.StockQuantity = p.StockQuantity.Add(quantity)
	if err := st.UpdateProductCosting(ctx, p); err != nil {
		return model.Product{}, err
	}

	s.log.Info().
		Int64("company_id", companyID).
		Str("sku", p.SKU).
		Str("quantity", quantity.String()).
		Str("unit_cost", unitCost.String()).
		Str("stock", p.StockQuantity.String()).
		Msg("purchase recorded")
	return p, nil
}

// WeightedAverage returns (oldAvg*oldStock + qty*unitCost) / (oldStock + qty)
// at 4 decimal places. When the resulting stock is zero the purchase price
// becomes the average.
func WeightedAverage(oldAvg, oldStock, qty, unitCost decimal.Decimal) decimal.Decimal {
	newStock := oldStock.Add(qty)
	if newStock.IsZero() {
		return money.RoundCost(unitCost)
	}
	value := oldAvg.Mul(oldStock).Add(qty.Mul(unitCost))
	return money.RoundCost(value.Div(newStock))
}

// CalculateCogsAndDeplete removes quantity from stock, computes its cost and
// posts Dr COGS / Cr Inventory. Everything happens in one transaction.
func (s *Service) CalculateCogsAndDeplete(ctx context.Context, companyID, productID int64, quantity decimal.Decimal, saleDate time.Time) (decimal.Decimal, error) {
	var cogs decimal.Decimal
	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		cogs, err = s.CalculateCogsAndDepleteTx(ctx, tx, companyID, productID, quantity, saleDate)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return cogs, nil
}

// CalculateCogsAndDepleteTx is CalculateCogsAndDeplete inside the caller's
// transaction, typically the one recording the sale. On error the caller must
// roll back; layer updates already issued are part of tx.
func (s *Service) CalculateCogsAndDepleteTx(ctx context.Context, tx *sql.Tx, companyID, productID int64, quantity decimal.Decimal, saleDate time.Time) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return decimal.Zero, apperr.Invalid("quantity", "quantity sold must be positive, got %s", quantity)
	}
	if saleDate.IsZero() {
		return decimal.Zero, apperr.Invalid("date", "sale date is required")
	}

	st := store.New(tx)
	p, err := st.GetProduct(ctx, companyID, productID)
	if err != nil {
		return decimal.Zero, err
	}

	if p.IsService {
		if p.TrackInventory {
			p.StockQuantity = p.StockQuantity.Sub(quantity)
			if err := st.UpdateProductCosting(ctx, p); err != nil {
				return decimal.Zero, err
			}
		}
		return decimal.Zero, nil
	}

	var cogs decimal.Decimal
	switch p.CostingMethod {
	case model.CostingFIFO:
		cogs, err = depleteLayers(ctx, st, p, quantity)
		if err != nil {
			return decimal.Zero, err
		}
	default:
		cogs = quantity.Mul(p.AverageCost)
	}
	cogs = money.Round(cogs)

	if cogs.GreaterThanOrEqual(money.Tolerance) {
		if err := s.postCogs(ctx, tx, st, p, quantity, cogs, saleDate); err != nil {
			return decimal.Zero, err
		}
	}

	p.StockQuantity = p.StockQuantity.Sub(quantity)
	if err := st.UpdateProductCosting(ctx, p); err != nil {
		return decimal.Zero, err
	}

	s.log.Info().
		Int64("company_id", companyID).
		Str("sku", p.SKU).
		Str("quantity", quantity.String()).
		Str("cogs", cogs.StringFixed(2)).
		Msg("stock depleted")
	return cogs, nil
}

// depleteLayers consumes open layers oldest first and returns the cost of the
// consumed units.
func depleteLayers(ctx context.Context, st *store.Store, p model.Product, quantity decimal.Decimal) (decimal.Decimal, error) {
	layers, err := st.CostLayers(ctx, p.CompanyID, p.ID, true)
	if err != nil {
		return decimal.Zero, err
	}

	cogs := decimal.Zero
	needed := quantity
	for _, layer := range layers {
		if !needed.IsPositive() {
			break
		}
		take := decimal.Min(layer.Remaining, needed)
		cogs = cogs.Add(take.Mul(layer.UnitCost))
		layer.Remaining = layer.Remaining.Sub(take)
		layer.QuantityOut = layer.QuantityOut.Add(take)
		if err := st.UpdateCostLayer(ctx, layer); err != nil {
			return decimal.Zero, err
		}
		needed = needed.Sub(take)
	}

	if needed.IsPositive() {
		return decimal.Zero, &apperr.InsufficientStockError{
			ProductID: p.ID,
			Requested: quantity,
			Available: quantity.Sub(needed),
		}
	}
	return cogs, nil
}

func (s *Service) postCogs(ctx context.Context, tx *sql.Tx, st *store.Store, p model.Product, quantity, cogs decimal.Decimal, saleDate time.Time) error {
	cogsAcct, err := s.system.Resolve(ctx, st, p.CompanyID, accounts.RoleCOGS)
	if err != nil {
		return err
	}
	inventoryAcct, err := s.system.Resolve(ctx, st, p.CompanyID, accounts.RoleInventory)
	if err != nil {
		return err
	}

	_, err = s.journal.CreateEntryTx(ctx, tx, p.CompanyID, journal.EntryParams{
		Status:      model.StatusPosted,
		Date:        saleDate,
		Description: fmt.Sprintf("COGS for %s x %s", p.SKU, quantity.String()),
		Source:      model.SourceInventory,
		Reference:   &model.DocumentRef{Kind: "product", ID: p.ID},
		Lines: []journal.LineParams{
			{AccountID: cogsAcct.ID, Debit: cogs},
			{AccountID: inventoryAcct.ID, Credit: cogs},
		},
	})
	return err
}
