package Controllers

import (
	"VisitReport/Monday"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ReportLocation is the location breakdown of one completion record.
type ReportLocation struct {
	Building    string `json:"building"`
	Floor       string `json:"floor"`
	Apartment   string `json:"apartment"`
	Description string `json:"description"`
}

// VisitReportEntry is one completion record as shown on the daily summary
// screen.
type VisitReportEntry struct {
	SubitemID string         `json:"subitemId"`
	Location  ReportLocation `json:"location"`
	Notes     string         `json:"notes"`
	Status    string         `json:"status"`
	ImageURL  *string        `json:"imageUrl"`
}

// VisitTask groups the day's reports under their parent task. Tasks with
// no matching reports are never emitted.
type VisitTask struct {
	ItemID   string             `json:"itemId"`
	ItemName string             `json:"itemName"`
	Reports  []VisitReportEntry `json:"reports"`
}

// VisitSummary is the aggregate of one technician's day on one project.
type VisitSummary struct {
	ProjectID    string      `json:"projectId"`
	TechnicianID string      `json:"technicianId"`
	Date         string      `json:"date"`
	Items        []VisitTask `json:"items"`
}

// GetVisitSummary returns the technician's reports for one project and
// date, grouped by task, with photo URLs resolved.
func GetVisitSummary(c *fiber.Ctx) error {
	projectID := c.Query("projectId")
	technicianID := c.Query("technicianId")
	date := c.Query("date")

	if projectID == "" || technicianID == "" || date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
	}

	summary, err := BuildVisitSummary(projectID, technicianID, date)
	if err != nil {
		log.Println("GetVisitSummary:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"projectId":    summary.ProjectID,
		"technicianId": summary.TechnicianID,
		"date":         summary.Date,
		"items":        summary.Items,
	})
}

// BuildVisitSummary runs the aggregation pipeline: match tasks, match
// reports by parent and date, batch-resolve photo assets, group by task.
func BuildVisitSummary(projectID, technicianID, date string) (*VisitSummary, error) {
	tasks, err := fetchProjectTaskRows(projectID, technicianID)
	if err != nil {
		return nil, err
	}

	taskIDs := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		taskIDs[t.ID] = true
	}

	reports, err := fetchReportRows()
	if err != nil {
		return nil, err
	}

	var relevant []Monday.Item
	for _, sub := range reports {
		if sub.ParentItem == nil || !taskIDs[sub.ParentItem.ID] {
			continue
		}
		if !sub.Column(Monday.ReportDateColumn).DateEquals(date) {
			continue
		}
		relevant = append(relevant, sub)
	}

	// One assets call for every photo in the visit, not one per report.
	assetURLs, err := resolveAssets(relevant)
	if err != nil {
		return nil, err
	}

	summary := &VisitSummary{
		ProjectID:    projectID,
		TechnicianID: technicianID,
		Date:         date,
		Items:        []VisitTask{},
	}

	for _, task := range tasks {
		var entries []VisitReportEntry
		for _, sub := range relevant {
			if sub.ParentItem.ID != task.ID {
				continue
			}
			entries = append(entries, reportEntry(sub, assetURLs))
		}
		if len(entries) == 0 {
			continue
		}
		summary.Items = append(summary.Items, VisitTask{
			ItemID:   task.ID,
			ItemName: task.Name,
			Reports:  entries,
		})
	}

	return summary, nil
}

func reportEntry(sub Monday.Item, assetURLs map[string]string) VisitReportEntry {
	text := func(columnID string) string {
		cv := sub.Column(columnID)
		if cv == nil {
			return ""
		}
		return cv.Text
	}

	entry := VisitReportEntry{
		SubitemID: sub.ID,
		Location: ReportLocation{
			Building:    text(Monday.BuildingColumn),
			Floor:       text(Monday.FloorColumn),
			Apartment:   text(Monday.ApartmentColumn),
			Description: text(Monday.LocationDescColumn),
		},
		Notes:  text(Monday.NotesColumn),
		Status: text(Monday.ReportStatusColumn),
	}

	if assetID := sub.Column(Monday.ReportFileColumn).FirstAssetID(); assetID != "" {
		if url, ok := assetURLs[assetID]; ok {
			entry.ImageURL = &url
		}
	}

	return entry
}

// fetchProjectTaskRows keeps task rows matching the project (by
// stripped-quote value comparison) that are assigned to the technician.
func fetchProjectTaskRows(projectID, technicianID string) ([]Monday.Item, error) {
	query := fmt.Sprintf(`
		query {
			boards(ids: [%d]) {
				items_page(limit: 100) {
					items {
						id
						name
						column_values(ids: [%s, %s]) {
							id
							value
						}
					}
				}
			}
		}
	`, Monday.TasksBoardID,
		Monday.QuoteString(Monday.ProjectNumberColumn),
		Monday.QuoteString(Monday.TechnicianColumn))

	data, err := Monday.Default.Query(query)
	if err != nil {
		return nil, err
	}
	items, err := Monday.BoardItems(data)
	if err != nil {
		return nil, err
	}

	var matched []Monday.Item
	for _, item := range items {
		projectCol := item.Column(Monday.ProjectNumberColumn)
		if projectCol == nil || projectCol.StrippedValue() != projectID {
			continue
		}
		if !item.Column(Monday.TechnicianColumn).ValueHasPerson(technicianID) {
			continue
		}
		matched = append(matched, item)
	}

	return matched, nil
}

func fetchReportRows() ([]Monday.Item, error) {
	query := fmt.Sprintf(`
		query {
			boards(ids: [%d]) {
				items_page(limit: 200) {
					items {
						id
						parent_item { id }
						column_values(ids: [%s, %s, %s, %s, %s, %s, %s, %s]) {
							id
							value
							text
						}
					}
				}
			}
		}
	`, Monday.SubitemsBoardID,
		Monday.QuoteString(Monday.ReportDateColumn),
		Monday.QuoteString(Monday.BuildingColumn),
		Monday.QuoteString(Monday.FloorColumn),
		Monday.QuoteString(Monday.ApartmentColumn),
		Monday.QuoteString(Monday.LocationDescColumn),
		Monday.QuoteString(Monday.NotesColumn),
		Monday.QuoteString(Monday.ReportStatusColumn),
		Monday.QuoteString(Monday.ReportFileColumn))

	data, err := Monday.Default.Query(query)
	if err != nil {
		return nil, err
	}
	return Monday.BoardItems(data)
}

func resolveAssets(reports []Monday.Item) (map[string]string, error) {
	var assetIDs []string
	for _, sub := range reports {
		id := sub.Column(Monday.ReportFileColumn).FirstAssetID()
		if id == "" {
			continue
		}
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			continue
		}
		assetIDs = append(assetIDs, id)
	}
	if len(assetIDs) == 0 {
		return map[string]string{}, nil
	}

	query := fmt.Sprintf(`
		query {
			assets(ids: [%s]) {
				id
				public_url
			}
		}
	`, strings.Join(assetIDs, ","))

	data, err := Monday.Default.Query(query)
	if err != nil {
		return nil, err
	}
	return Monday.Assets(data)
}
