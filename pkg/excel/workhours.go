package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WorkHourRow is one exported line of the monthly work-hour report.
type WorkHourRow struct {
	UserName       string
	UserID         string
	StoreName      string
	Period         string
	RegularHours   float64
	SupportHours   float64
	TotalHours     float64
	SupportDetails string // Flattened "Store: Nh" rendering, "none" when empty
}

var workHourHeaders = []string{
	"Staff Name", "Staff ID", "Home Store", "Period",
	"Regular Hours", "Support Hours", "Total Hours", "Support Details",
}

// BuildWorkHoursWorkbook renders the report rows into an xlsx workbook and
// returns its bytes for the transport layer to serve.
func BuildWorkHoursWorkbook(period string, rows []WorkHourRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Work Hours " + period
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, header := range workHourHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.UserName, row.UserID, row.StoreName, row.Period,
			row.RegularHours, row.SupportHours, row.TotalHours, row.SupportDetails,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
