package Controllers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// ExportVisitSummary streams the aggregated visit as an .xlsx, one row per
// report, for office-side filing.
func ExportVisitSummary(c *fiber.Ctx) error {
	projectID := c.Query("projectId")
	technicianID := c.Query("technicianId")
	date := c.Query("date")

	if projectID == "" || technicianID == "" || date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "projectId, technicianId and date are required",
		})
	}

	summary, err := BuildVisitSummary(projectID, technicianID, date)
	if err != nil {
		log.Println("ExportVisitSummary:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "platform error",
		})
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := "Visit Summary"
	file.SetSheetName("Sheet1", sheet)

	headers := []string{"Task", "Report ID", "Building", "Floor", "Apartment", "Location", "Notes", "Status", "Photo URL"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, header)
	}

	row := 2
	for _, task := range summary.Items {
		for _, report := range task.Reports {
			photoURL := ""
			if report.ImageURL != nil {
				photoURL = *report.ImageURL
			}
			values := []interface{}{
				task.ItemName,
				report.SubitemID,
				report.Location.Building,
				report.Location.Floor,
				report.Location.Apartment,
				report.Location.Description,
				report.Notes,
				report.Status,
				photoURL,
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				file.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		log.Println("ExportVisitSummary write:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "export failed",
		})
	}

	filename := fmt.Sprintf("visit-summary-%s-%s.xlsx", projectID, date)
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))

	return c.Send(buffer.Bytes())
}
