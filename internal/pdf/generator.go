package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/smeta-acts/internal/model"
)

// Generator печатает акт выполненных работ (аналог КС-2). Кириллица
// идёт через транслятор cp1251 поверх базовых шрифтов.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(doc model.ActDocument) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1251")

	title := "АКТ о приёмке выполненных работ"
	if doc.Act.ActType == model.ActTypeSpecialist {
		title = "АКТ выполненных работ (расчёт со специалистом)"
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Акт № %s от %s", doc.Act.ActNumber, formatDate(doc.Act.ActDate))), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Отчётный период: с %s по %s", formatDate(doc.Act.PeriodFrom), formatDate(doc.Act.PeriodTo))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	addPartyLine(pdf, tr, "Заказчик", doc.CustomerName)
	addPartyLine(pdf, tr, "Подрядчик", doc.ContractorName)
	addPartyLine(pdf, tr, "Договор", doc.ContractNumber)
	addPartyLine(pdf, tr, "Объект", doc.ObjectName)
	pdf.Ln(4)

	headers := []string{"№", "Код", "Наименование работ", "Ед. изм.", "По смете", "Выполнено", "Цена", "Сумма"}
	colWidths := []float64{12, 24, 96, 20, 26, 26, 30, 33}
	drawTableRow(pdf, tr, headers, colWidths, true)

	for _, item := range doc.Items {
		row := []string{
			fmt.Sprintf("%d", item.PositionNumber),
			item.WorkCode,
			item.WorkName,
			item.Unit,
			formatAmount(item.PlannedQuantity),
			formatAmount(item.ActualQuantity),
			formatAmount(item.UnitPrice),
			formatAmount(item.TotalPrice),
		}
		drawTableRow(pdf, tr, row, colWidths, false)
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Итого по акту: %s %s", formatAmount(doc.Act.TotalAmount), currencyLabel(doc.Currency))), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Количество работ: %d, объём: %s", doc.Act.WorkCount, formatAmount(doc.Act.TotalQuantity))), "", 1, "R", false, 0, "")

	pdf.Ln(6)
	signatureBlock(pdf, tr, "Заказчик")
	signatureBlock(pdf, tr, "Подрядчик")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addPartyLine(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, tr(label), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr(safeValue(value)), "", 1, "L", false, 0, "")
}

func drawTableRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont("Arial", style, 9)
	for i, col := range cols {
		align := "L"
		if i >= 4 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func signatureBlock(pdf *gofpdf.Fpdf, tr func(string) string, label string) {
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s: ______________________ /________________/", label)), "", 1, "L", false, 0, "")
}

func currencyLabel(currency string) string {
	if strings.TrimSpace(currency) == "" {
		return "руб."
	}
	return currency
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02.01.2006")
}
