package order

import (
	"context"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

const exportPageSize = 500

// csvOrder is one row of the order export.
type csvOrder struct {
	OrderID   string `csv:"order_id"`
	Date      string `csv:"date"`
	Customer  string `csv:"customer"`
	Email     string `csv:"email"`
	ItemCount int    `csv:"item_count"`
	Subtotal  string `csv:"subtotal"`
}

// ExportCSV streams the filtered order listing as CSV.
func (s *Service) ExportCSV(ctx context.Context, filter Filter, w io.Writer) (int, error) {
	rows := make([]csvOrder, 0)
	for page := 1; ; page++ {
		views, total, err := s.List(ctx, filter, page, exportPageSize)
		if err != nil {
			return 0, err
		}
		for _, v := range views {
			row := csvOrder{
				OrderID:   v.Order.ID,
				Date:      v.Order.Timestamp.Format("2006-01-02 15:04:05"),
				ItemCount: len(v.Order.CartItems),
				Subtotal:  v.Subtotal.StringFixed(2),
			}
			if v.Customer != nil {
				row.Customer = v.Customer.Name
				row.Email = v.Customer.Email
			}
			rows = append(rows, row)
		}
		if int64(page*exportPageSize) >= total || len(views) == 0 {
			break
		}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return 0, errors.Wrap(err, "write order export")
	}
	return len(rows), nil
}

// Stats summarizes the filtered orders' subtotals.
type Stats struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Max     float64 `json:"max"`
}

// Summarize computes aggregate figures over the filtered orders.
func (s *Service) Summarize(ctx context.Context, filter Filter) (*Stats, error) {
	values := make([]float64, 0)
	for page := 1; ; page++ {
		views, total, err := s.List(ctx, filter, page, exportPageSize)
		if err != nil {
			return nil, err
		}
		for _, v := range views {
			f, _ := v.Subtotal.Float64()
			values = append(values, f)
		}
		if int64(page*exportPageSize) >= total || len(views) == 0 {
			break
		}
	}

	out := &Stats{Count: len(values)}
	if len(values) == 0 {
		return out, nil
	}
	out.Revenue, _ = stats.Sum(values)
	out.Mean, _ = stats.Mean(values)
	out.Median, _ = stats.Median(values)
	out.Max, _ = stats.Max(values)
	return out, nil
}
