package service

import (
	"fmt"
	"strings"

	"github.com/Jkweks/workorder-dashboard/internal/workorder/entity"
	"github.com/xuri/excelize/v2"
)

// ExportService writes the filtered order list as an XLSX workbook.
type ExportService struct{}

// NewExportService creates the export service.
func NewExportService() *ExportService {
	return &ExportService{}
}

var exportHeaders = []string{
	"Work Order #", "Job Number", "Job Name", "PM", "Address", "Superintendent",
	"Division", "System", "Status", "Date Issued", "Material Delivery",
	"Requested Completion", "Completion", "Varies", "Created",
}

// Excel builds the workbook for the given orders.
func (s *ExportService) Excel(orders []entity.WorkOrder) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Work Orders"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	endCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(sheet, "A1", endCell, headerStyle)

	for row, o := range orders {
		completion := o.CompletionDate
		varies := "No"
		if o.CompletionVaries {
			varies = "Yes"
		}
		values := []interface{}{
			o.WorkOrderNumber, o.JobNumber, o.JobName, o.JobPM, o.JobAddress, o.JobSuperintendent,
			o.Division, o.System, o.Status, o.DateIssued, o.MaterialDeliveryDate,
			strings.Join(o.RequestedCompletionDates, ", "), completion, varies,
			o.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "F", 22)
	f.SetColWidth(sheet, "G", "O", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
