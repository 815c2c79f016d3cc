// Package export renders a quotation's factory comparison table as CSV
// or as an Excel workbook for the sales side.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Row is one factory entry in the comparison table.
type Row struct {
	FactoryLabel             string
	UnitCost                 float64
	MoldCost                 float64
	MoldCostAdditionalTHB    float64
	TotalCostPerUnit         float64
	TotalSellingPricePerUnit float64
	TotalProfit              float64
	IsWinner                 bool
}

// Comparison is the flattened view of a quotation plus its session
// entries, decoupled from the quotation package so the exporter only
// sees plain data.
type Comparison struct {
	JobCode      string
	JobName      string
	CustomerName string
	Quantity     int
	ExchangeRate float64
	VATPercent   float64
	ShippingRMB  float64
	Rows         []Row
}

// Exporter renders comparison tables. Concurrent identical exports are
// collapsed through singleflight so a double-clicked download button
// renders the workbook once.
type Exporter struct {
	group   singleflight.Group
	printer *message.Printer
}

// NewExporter builds an Exporter with Thai-locale number formatting.
func NewExporter() *Exporter {
	return &Exporter{printer: message.NewPrinter(language.Thai)}
}

// amount formats a THB amount with locale grouping, e.g. 15,735.80.
func (e *Exporter) amount(v float64) string {
	return e.printer.Sprintf("%.2f", v)
}

// WriteComparisonCSV streams the comparison as CSV.
func (e *Exporter) WriteComparisonCSV(ctx context.Context, w io.Writer, cmp Comparison) error {
	data, err := e.render(ctx, "csv:"+cmp.JobCode, cmp, e.renderCSV)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteComparisonExcel streams the comparison as an xlsx workbook.
func (e *Exporter) WriteComparisonExcel(ctx context.Context, w io.Writer, cmp Comparison) error {
	data, err := e.render(ctx, "xlsx:"+cmp.JobCode, cmp, e.renderExcel)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (e *Exporter) render(ctx context.Context, key string, cmp Comparison, fn func(Comparison) ([]byte, error)) ([]byte, error) {
	resultChan := e.group.DoChan(key, func() (interface{}, error) {
		return fn(cmp)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, fmt.Errorf("export: render %s: %w", key, res.Err)
		}
		return res.Val.([]byte), nil
	}
}

func (e *Exporter) renderCSV(cmp Comparison) ([]byte, error) {
	var buf bytes.Buffer
	s := newCSVStreamer(&buf)
	if err := s.writeComment(fmt.Sprintf("# %s — %s (%s)", cmp.JobCode, cmp.JobName, cmp.CustomerName)); err != nil {
		return nil, err
	}
	if err := s.writeComment(fmt.Sprintf("# quantity=%d exchange_rate=%.4f vat=%.2f%% shipping_rmb=%.2f",
		cmp.Quantity, cmp.ExchangeRate, cmp.VATPercent, cmp.ShippingRMB)); err != nil {
		return nil, err
	}
	header := []string{"factory", "unit_cost_rmb", "mold_cost_rmb", "mold_cost_additional_thb",
		"total_cost_per_unit_thb", "total_selling_price_per_unit_thb", "total_profit_thb", "winner"}
	if err := s.writeRow(header); err != nil {
		return nil, err
	}
	for _, row := range cmp.Rows {
		winner := ""
		if row.IsWinner {
			winner = "ชนะ"
		}
		record := []string{
			row.FactoryLabel,
			e.amount(row.UnitCost),
			e.amount(row.MoldCost),
			e.amount(row.MoldCostAdditionalTHB),
			e.amount(row.TotalCostPerUnit),
			e.amount(row.TotalSellingPricePerUnit),
			e.amount(row.TotalProfit),
			winner,
		}
		if err := s.writeRow(record); err != nil {
			return nil, err
		}
	}
	if err := s.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
