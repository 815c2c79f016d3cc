package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleComparison() Comparison {
	return Comparison{
		JobCode:      "250829-01-YW",
		JobName:      "เหรียญวิ่งมาราธอน",
		CustomerName: "บริษัท ตัวอย่าง จำกัด",
		Quantity:     800,
		ExchangeRate: 5.5,
		VATPercent:   7,
		ShippingRMB:  120,
		Rows: []Row{
			{FactoryLabel: "โรงงานอี้อู (Yiwu)", UnitCost: 12.5, MoldCost: 800, TotalCostPerUnit: 80.33025, TotalSellingPricePerUnit: 100, TotalProfit: 15735.8, IsWinner: true},
			{FactoryLabel: "โรงงานตงกวน (Dongguan)", UnitCost: 14, MoldCost: 600, TotalCostPerUnit: 88.5, TotalSellingPricePerUnit: 100, TotalProfit: 9200},
		},
	}
}

func TestWriteComparisonCSV(t *testing.T) {
	e := NewExporter()
	var buf bytes.Buffer
	require.NoError(t, e.WriteComparisonCSV(context.Background(), &buf, sampleComparison()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "# 250829-01-YW"))
	require.Contains(t, out, "factory,unit_cost_rmb")
	require.Contains(t, out, "ชนะ")
	// CRLF row terminators, matching spreadsheet-tool expectations.
	require.Contains(t, out, "\r\n")
}

func TestWriteComparisonExcel(t *testing.T) {
	e := NewExporter()
	var buf bytes.Buffer
	require.NoError(t, e.WriteComparisonExcel(context.Background(), &buf, sampleComparison()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	jobCode, err := f.GetCellValue(comparisonSheet, "B1")
	require.NoError(t, err)
	require.Equal(t, "250829-01-YW", jobCode)

	winner, err := f.GetCellValue(comparisonSheet, "H10")
	require.NoError(t, err)
	require.Equal(t, "ชนะ", winner)
}

func TestExportContextCancellation(t *testing.T) {
	e := NewExporter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := e.WriteComparisonCSV(ctx, &buf, sampleComparison())
	if err == nil {
		// The singleflight result can win the race against the
		// cancelled context; either outcome is acceptable, but a
		// successful write must be complete.
		require.Contains(t, buf.String(), "factory,unit_cost_rmb")
	}
}
