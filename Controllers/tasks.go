package Controllers

import (
	"VisitReport/Monday"
	"VisitReport/middleware"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Task is one billable service row within a project. Remaining is whatever
// the platform reports, it is never recomputed here.
type Task struct {
	ItemID      string `json:"itemId"`
	ServiceName string `json:"serviceName"`
	Required    int    `json:"required"`
	Done        int    `json:"done"`
	Remaining   int    `json:"remaining"`
}

// TechnicianFromContext returns the logged-in technician when the route ran
// through the Verify middleware.
func TechnicianFromContext(c *fiber.Ctx) (middleware.Technician, bool) {
	tech, ok := c.Locals("technician").(middleware.Technician)
	return tech, ok
}

// GetProjectTasks lists the tasks of one project with their quantity
// columns, in board order.
func GetProjectTasks(c *fiber.Ctx) error {
	projectID, err := strconv.ParseInt(c.Params("projectId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid project id",
		})
	}

	query := fmt.Sprintf(`
		query {
			boards(ids: %d) {
				items_page(
					limit: 200,
					query_params: {
						rules: [
							{
								column_id: %s,
								compare_value: [%d]
							}
						]
					}
				) {
					items {
						id
						name
						column_values(ids: [%s, %s, %s]) {
							id
							text
						}
					}
				}
			}
		}
	`, Monday.TasksBoardID,
		Monday.QuoteString(Monday.ProjectNumberColumn),
		projectID,
		Monday.QuoteString(Monday.RequiredColumn),
		Monday.QuoteString(Monday.DoneColumn),
		Monday.QuoteString(Monday.RemainColumn))

	data, err := Monday.Default.Query(query)
	if err != nil {
		log.Println("GetProjectTasks:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "platform error",
		})
	}

	items, err := Monday.BoardItems(data)
	if err != nil {
		log.Println("GetProjectTasks parse:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "platform error",
		})
	}

	tasks := make([]Task, 0, len(items))
	for _, item := range items {
		tasks = append(tasks, Task{
			ItemID:      item.ID,
			ServiceName: item.Name,
			Required:    numericColumn(&item, Monday.RequiredColumn),
			Done:        numericColumn(&item, Monday.DoneColumn),
			Remaining:   numericColumn(&item, Monday.RemainColumn),
		})
	}

	return c.JSON(tasks)
}

// numericColumn reads a quantity column as an int, defaulting to 0 when
// missing or unparseable.
func numericColumn(item *Monday.Item, columnID string) int {
	cv := item.Column(columnID)
	if cv == nil || cv.Text == "" {
		return 0
	}
	n, err := strconv.Atoi(cv.Text)
	if err != nil {
		return 0
	}
	return n
}
