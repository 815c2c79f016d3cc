package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const comparisonSheet = "เปรียบเทียบโรงงาน"

// renderExcel builds the comparison workbook: a header block with the
// shared inputs, then one row per factory entry with the winner marked.
func (e *Exporter) renderExcel(cmp Comparison) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(comparisonSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	set := func(cell string, value any) error {
		return f.SetCellValue(comparisonSheet, cell, value)
	}

	headerCells := map[string]any{
		"A1": "Job Code", "B1": cmp.JobCode,
		"A2": "Job Name", "B2": cmp.JobName,
		"A3": "ลูกค้า", "B3": cmp.CustomerName,
		"A4": "จำนวน", "B4": cmp.Quantity,
		"A5": "อัตราแลกเปลี่ยน", "B5": cmp.ExchangeRate,
		"A6": "VAT (%)", "B6": cmp.VATPercent,
		"A7": "ค่าขนส่ง (RMB)", "B7": cmp.ShippingRMB,
	}
	for cell, value := range headerCells {
		if err := set(cell, value); err != nil {
			return nil, err
		}
	}

	columns := []string{"โรงงาน", "ต้นทุน/ชิ้น (RMB)", "ค่าโมลด์ (RMB)", "ค่าโมลด์เพิ่ม (THB)",
		"ต้นทุนรวม/ชิ้น (THB)", "ราคาขาย/ชิ้น (THB)", "กำไรรวม (THB)", "ผลการคัดเลือก"}
	const tableStart = 9
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, tableStart)
		if err != nil {
			return nil, err
		}
		if err := set(cell, col); err != nil {
			return nil, err
		}
	}

	for rowIdx, row := range cmp.Rows {
		winner := ""
		if row.IsWinner {
			winner = "ชนะ"
		}
		values := []any{
			row.FactoryLabel,
			row.UnitCost,
			row.MoldCost,
			row.MoldCostAdditionalTHB,
			row.TotalCostPerUnit,
			row.TotalSellingPricePerUnit,
			row.TotalProfit,
			winner,
		}
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, tableStart+1+rowIdx)
			if err != nil {
				return nil, err
			}
			if err := set(cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
