package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/smeta-acts/internal/model"
)

// Generator собирает книгу справки о стоимости выполненных работ с
// нарастающим итогом (аналог КС-3).
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(cert model.Certificate) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Справка"
	file.SetSheetName("Sheet1", sheet)
	if err := g.writeCertificate(file, sheet, cert); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeCertificate(file *excelize.File, sheet string, cert model.Certificate) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Справка о стоимости выполненных работ")
	set("A2", "Акт")
	set("B2", cert.Act.ActNumber)
	set("A3", "Дата акта")
	set("B3", formatDate(cert.Act.ActDate))
	set("A4", "Период")
	set("B4", fmt.Sprintf("%s — %s", formatDate(cert.Act.PeriodFrom), formatDate(cert.Act.PeriodTo)))
	set("A5", "Заказчик")
	set("B5", cert.CustomerName)
	set("A6", "Подрядчик")
	set("B6", cert.ContractorName)
	set("A7", "Договор")
	set("B7", cert.ContractNumber)
	set("A8", "Объект")
	set("B8", cert.ObjectName)

	set("A10", "С начала года")
	set("B10", formatAmount(cert.TotalAmountYTD))
	set("A11", "За предыдущие периоды")
	set("B11", formatAmount(cert.PrevPeriodAmount))
	set("A12", "За текущий период")
	set("B12", formatAmount(cert.CurrentPeriodAmount))

	tableRow := 14
	headers := []string{
		"№",
		"Код",
		"Наименование работ",
		"Ед. изм.",
		"Цена",
		"Кол-во ранее",
		"Кол-во за период",
		"Кол-во с начала года",
		"Сумма ранее",
		"Сумма за период",
		"Сумма с начала года",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, row := range cert.Rows {
		r := tableRow + 1 + i
		set(fmt.Sprintf("A%d", r), row.Position)
		set(fmt.Sprintf("B%d", r), row.WorkCode)
		set(fmt.Sprintf("C%d", r), row.WorkName)
		set(fmt.Sprintf("D%d", r), row.Unit)
		set(fmt.Sprintf("E%d", r), formatAmount(row.UnitPrice))
		set(fmt.Sprintf("F%d", r), formatQuantity(row.QuantityPrev))
		set(fmt.Sprintf("G%d", r), formatQuantity(row.QuantityCurrent))
		set(fmt.Sprintf("H%d", r), formatQuantity(row.QuantityYTD))
		set(fmt.Sprintf("I%d", r), formatAmount(row.AmountPrev))
		set(fmt.Sprintf("J%d", r), formatAmount(row.AmountCurrent))
		set(fmt.Sprintf("K%d", r), formatAmount(row.AmountYTD))
	}

	totalRow := tableRow + 1 + len(cert.Rows)
	set(fmt.Sprintf("C%d", totalRow), "Итого")
	set(fmt.Sprintf("I%d", totalRow), formatAmount(cert.PrevPeriodAmount))
	set(fmt.Sprintf("J%d", totalRow), formatAmount(cert.CurrentPeriodAmount))
	set(fmt.Sprintf("K%d", totalRow), formatAmount(cert.TotalAmountYTD))

	_ = file.SetColWidth(sheet, "A", "A", 6)
	_ = file.SetColWidth(sheet, "B", "B", 12)
	_ = file.SetColWidth(sheet, "C", "C", 45)
	_ = file.SetColWidth(sheet, "D", "D", 10)
	_ = file.SetColWidth(sheet, "E", "K", 16)
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006")
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatQuantity(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
