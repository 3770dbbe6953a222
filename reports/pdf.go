package reports

import (
	"fmt"
	"io"
	"time"

	"mealbook/cutoff"
	"mealbook/models"

	"github.com/phpdave11/gofpdf"
)

var (
	headers = []string{"Name", "PS Number", "Meal", "Department", "Date", "Sign"}
	widths  = []float64{36, 28, 22, 34, 26, 34}
)

const rowHeight = 12

// WritePDF renders bookings as a sign-off sheet for the kitchen.
func WritePDF(out io.Writer, bookings []models.Booking, w cutoff.Window, generated time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	tableHeader := func() {
		pdf.SetFont("Arial", "B", 11)
		pdf.SetFillColor(235, 235, 245)
		for i, h := range headers {
			pdf.CellFormat(widths[i], rowHeight, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, "Bookings Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Serving window: %s to %s",
		w.Start.Format("2006-01-02 15:04"), w.Last().Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Generated "+generated.Format("02 Jan 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	tableHeader()
	// repeat the column titles on every page the table spills onto
	pdf.SetHeaderFunc(tableHeader)

	var counts models.BookingCounts
	for _, b := range bookings {
		cells := []string{b.Name, b.EmployeeID, string(b.Meal), b.Department, b.Date, ""}
		for i, c := range cells {
			pdf.CellFormat(widths[i], rowHeight, tr(c), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		switch b.Meal {
		case models.Breakfast:
			counts.BreakfastCount++
		case models.Lunch:
			counts.LunchCount++
		}
	}
	pdf.SetHeaderFunc(nil)

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Breakfast: %d    Lunch: %d    Total: %d",
		counts.BreakfastCount, counts.LunchCount, len(bookings)), "", 1, "L", false, 0, "")

	return pdf.Output(out)
}
