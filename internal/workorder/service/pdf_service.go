package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Jkweks/workorder-dashboard/internal/workorder/entity"
	"github.com/jung-kurt/gofpdf"
)

// PDFService renders a one-page work order summary.
type PDFService struct{}

// NewPDFService creates the PDF service.
func NewPDFService() *PDFService {
	return &PDFService{}
}

// Render produces the PDF document for an order and its items.
func (s *PDFService) Render(order *entity.WorkOrder, items []entity.WorkOrderItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Work Order "+order.WorkOrderNumber, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Status: "+order.Status, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	summary := [][2]string{
		{"Job Number", order.JobNumber},
		{"Job Name", order.JobName},
		{"Project Manager", order.JobPM},
		{"Job Address", order.JobAddress},
		{"Superintendent", order.JobSuperintendent},
		{"Division", order.Division},
		{"System", order.System},
		{"Date Issued", order.DateIssued},
		{"Material Delivery", order.MaterialDeliveryDate},
		{"Requested Completion", strings.Join(order.RequestedCompletionDates, ", ")},
	}
	if order.CompletionVaries {
		summary = append(summary, [2]string{"Completion", "Varies by item"})
	} else if order.CompletionDate != "" {
		summary = append(summary, [2]string{"Completion", order.CompletionDate})
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range summary {
		value := row[1]
		if value == "" {
			value = "-"
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 6, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, value, "", "L", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Items", "", 1, "L", false, 0, "")

	headers := []string{"Type", "Scope", "Elevation", "Qty", "Status", "Hold Reason", "Completion"}
	widths := []float64{24, 20, 30, 12, 24, 34, 46}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	if len(items) == 0 {
		pdf.CellFormat(sum(widths), 7, "No items", "1", 1, "L", false, 0, "")
	}
	for _, item := range items {
		dates := make([]string, 0, len(item.CompletionDates))
		for _, d := range item.CompletionDates {
			dates = append(dates, d.CompletionDate)
		}
		cols := []string{
			item.Type,
			item.Scope,
			item.Elevation,
			fmt.Sprintf("%d", item.Quantity),
			item.Status,
			item.HoldReason,
			strings.Join(dates, ", "),
		}
		for i, col := range cols {
			pdf.CellFormat(widths[i], 7, col, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if order.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, order.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sum(widths []float64) float64 {
	total := 0.0
	for _, w := range widths {
		total += w
	}
	return total
}
