package Controllers

import (
	"VisitReport/Monday"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Project is one unit of work linked from the task board.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GetProjects lists the projects that have at least one task assigned to
// the technician. Remote failures return an empty list, the catalog screen
// degrades to "nothing assigned" rather than an error page.
func GetProjects(c *fiber.Ctx) error {
	technicianID := c.Query("technicianId")
	if technicianID == "" {
		if tech, ok := TechnicianFromContext(c); ok {
			technicianID = tech.ID
		}
	}
	if _, err := strconv.ParseInt(technicianID, 10, 64); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "technicianId is required",
		})
	}

	projects, err := FetchProjectsForTechnician(technicianID)
	if err != nil {
		log.Println("GetProjects:", err)
		return c.JSON([]Project{})
	}

	return c.JSON(projects)
}

// FetchProjectsForTechnician pulls every task-board row, keeps the rows
// assigned to the technician and dedupes the projects they link to.
func FetchProjectsForTechnician(technicianID string) ([]Project, error) {
	query := fmt.Sprintf(`
		query {
			boards(ids: %d) {
				items_page(limit: 500) {
					items {
						id
						name
						column_values(ids: [%s, %s]) {
							id
							... on PeopleValue {
								persons_and_teams {
									id
								}
							}
							... on BoardRelationValue {
								linked_items {
									id
									name
								}
							}
						}
					}
				}
			}
		}
	`, Monday.TasksBoardID,
		Monday.QuoteString(Monday.TechnicianColumn),
		Monday.QuoteString(Monday.ProjectRelationColumn))

	data, err := Monday.Default.Query(query)
	if err != nil {
		return nil, err
	}

	items, err := Monday.BoardItems(data)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	projects := []Project{}
	for _, item := range items {
		if !item.Column(Monday.TechnicianColumn).HasPerson(technicianID) {
			continue
		}
		relation := item.Column(Monday.ProjectRelationColumn)
		if relation == nil {
			continue
		}
		for _, linked := range relation.LinkedItems {
			if seen[linked.ID] {
				continue
			}
			seen[linked.ID] = true
			projects = append(projects, Project{ID: linked.ID, Name: linked.Name})
		}
	}

	return projects, nil
}
