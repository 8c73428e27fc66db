package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/period"
	"github.com/cleared-dev/books/internal/store"
)

// DefaultAgingBuckets are the upper bounds of 0-30, 31-60, 61-90 and 90+.
var DefaultAgingBuckets = []int{30, 60, 90}

// AgingBucket is a closed day range; Max is -1 for the open-ended last bucket.
type AgingBucket struct {
	Label string `json:"label"`
	Min   int    `json:"min_days"`
	Max   int    `json:"max_days"`
}

// AgingRow is one counterparty's outstanding amounts per bucket.
type AgingRow struct {
	Counterparty string            `json:"counterparty"`
	Amounts      []decimal.Decimal `json:"amounts"`
	Total        decimal.Decimal   `json:"total"`
}

// Aging groups open documents of one kind by counterparty and age.
type Aging struct {
	Kind    model.DocumentKind `json:"kind"`
	AsOf    time.Time          `json:"as_of"`
	Buckets []AgingBucket      `json:"buckets"`
	Rows    []AgingRow         `json:"rows"`
	Totals  []decimal.Decimal  `json:"totals"`
	Total   decimal.Decimal    `json:"total"`
}

// AgingBuckets turns inclusive upper bounds into buckets. Bounds must be
// strictly increasing and non-negative.
func AgingBuckets(bounds []int) ([]AgingBucket, error) {
	if len(bounds) == 0 {
		bounds = DefaultAgingBuckets
	}
	buckets := make([]AgingBucket, 0, len(bounds)+1)
	lo := 0
	for _, hi := range bounds {
		if hi < lo {
			return nil, apperr.Invalid("buckets", "bucket bounds must be increasing and non-negative, got %v", bounds)
		}
		buckets = append(buckets, AgingBucket{Label: fmt.Sprintf("%d-%d", lo, hi), Min: lo, Max: hi})
		lo = hi + 1
	}
	last := bounds[len(bounds)-1]
	buckets = append(buckets, AgingBucket{Label: fmt.Sprintf("%d+", last), Min: last + 1, Max: -1})
	return buckets, nil
}

// bucketFor returns the bucket index for an age in days. Documents dated
// after asOf count as current.
func bucketFor(buckets []AgingBucket, days int) int {
	if days < 0 {
		return 0
	}
	for i, b := range buckets {
		if b.Max < 0 || days <= b.Max {
			return i
		}
	}
	return len(buckets) - 1
}

// Aging reports receivables (sales) or payables (purchase). nil bounds use
// the configured buckets.
func (s *Service) Aging(ctx context.Context, companyID int64, kind model.DocumentKind, asOf time.Time, bounds []int) (*Aging, error) {
	if kind != model.DocumentSales && kind != model.DocumentPurchase {
		return nil, apperr.Invalid("kind", "aging kind must be sales or purchase, got %q", kind)
	}
	if asOf.IsZero() {
		return nil, apperr.Invalid("as_of", "as-of date is required")
	}
	if bounds == nil {
		bounds = s.opts.AgingBuckets
	}
	buckets, err := AgingBuckets(bounds)
	if err != nil {
		return nil, err
	}
	asOf = period.Day(asOf)

	docs, err := store.New(s.db).OpenDocuments(ctx, companyID, kind, asOf)
	if err != nil {
		return nil, err
	}

	ag := &Aging{
		Kind:    kind,
		AsOf:    asOf,
		Buckets: buckets,
		Rows:    []AgingRow{},
		Totals:  zeros(len(buckets)),
		Total:   decimal.Zero,
	}
	rowIndex := make(map[string]int)
	for _, d := range docs {
		i, ok := rowIndex[d.Counterparty]
		if !ok {
			i = len(ag.Rows)
			rowIndex[d.Counterparty] = i
			ag.Rows = append(ag.Rows, AgingRow{Counterparty: d.Counterparty, Amounts: zeros(len(buckets)), Total: decimal.Zero})
		}
		b := bucketFor(buckets, period.DaysBetween(d.OrderDate, asOf))
		amount := d.Outstanding()

		row := &ag.Rows[i]
		row.Amounts[b] = row.Amounts[b].Add(amount)
		row.Total = row.Total.Add(amount)
		ag.Totals[b] = ag.Totals[b].Add(amount)
		ag.Total = ag.Total.Add(amount)
	}
	return ag, nil
}

func zeros(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.Zero
	}
	return out
}
