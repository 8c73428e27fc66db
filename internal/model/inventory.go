package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostingMethod selects how a product's cost of goods sold is computed.
type CostingMethod string

const (
	CostingWAC  CostingMethod = "wac"
	CostingFIFO CostingMethod = "fifo"
)

// Product carries the costing fields of an inventory item.
type Product struct {
	ID             int64
	CompanyID      int64
	SKU            string
	Name           string
	CostingMethod  CostingMethod
	AverageCost    decimal.Decimal // meaningful under WAC only
	StockQuantity  decimal.Decimal
	IsService      bool
	TrackInventory bool
}

// CostLayer is one inbound FIFO lot. Remaining = QuantityIn - QuantityOut.
type CostLayer struct {
	ID           int64
	ProductID    int64
	UnitCost     decimal.Decimal
	QuantityIn   decimal.Decimal
	QuantityOut  decimal.Decimal
	Remaining    decimal.Decimal
	PurchaseDate time.Time
	CreatedAt    time.Time
}
