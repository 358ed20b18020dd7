package Controllers

import (
	"VisitReport/Models"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WorkSessionUpdate is the merge payload for a session PUT. Empty fields
// leave the stored value untouched, the session only grows until it is
// cleared as a whole.
type WorkSessionUpdate struct {
	ProjectID      string         `json:"project_id"`
	ProjectName    string         `json:"project_name"`
	TaskID         string         `json:"task_id"`
	TaskName       string         `json:"task_name"`
	TechnicianID   string         `json:"technician_id"`
	TechnicianName string         `json:"technician_name"`
	VisitDate      string         `json:"visit_date"`
	Extra          datatypes.JSON `json:"extra"`
}

// GetWorkSession restores the session for a browser tab.
func GetWorkSession(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "session key is required",
		})
	}

	var session Models.WorkSession
	if err := Models.DB.Where("session_key = ?", key).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "no session",
			})
		}
		log.Println("GetWorkSession:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "server error",
		})
	}

	return c.JSON(fiber.Map{"success": true, "session": session})
}

// PutWorkSession creates or merges the tab's session. Creation happens on
// the first write; later writes fill fields monotonically.
func PutWorkSession(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "session key is required",
		})
	}

	var update WorkSessionUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
	}

	var session Models.WorkSession
	err := Models.DB.Where("session_key = ?", key).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		session = Models.WorkSession{SessionKey: key}
		err = nil
	}
	if err != nil {
		log.Println("PutWorkSession:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "server error",
		})
	}

	mergeSession(&session, &update)

	if err := Models.DB.Save(&session).Error; err != nil {
		log.Println("PutWorkSession save:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "server error",
		})
	}

	return c.JSON(fiber.Map{"success": true, "session": session})
}

// DeleteWorkSession clears the whole session, the only way fields reset.
func DeleteWorkSession(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "session key is required",
		})
	}

	if err := Models.DB.Unscoped().Where("session_key = ?", key).Delete(&Models.WorkSession{}).Error; err != nil {
		log.Println("DeleteWorkSession:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "server error",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

func mergeSession(session *Models.WorkSession, update *WorkSessionUpdate) {
	if update.ProjectID != "" {
		session.ProjectID = update.ProjectID
	}
	if update.ProjectName != "" {
		session.ProjectName = update.ProjectName
	}
	if update.TaskID != "" {
		session.TaskID = update.TaskID
	}
	if update.TaskName != "" {
		session.TaskName = update.TaskName
	}
	if update.TechnicianID != "" {
		session.TechnicianID = update.TechnicianID
	}
	if update.TechnicianName != "" {
		session.TechnicianName = update.TechnicianName
	}
	if update.VisitDate != "" {
		session.VisitDate = update.VisitDate
	}
	if len(update.Extra) > 0 {
		session.Extra = update.Extra
	}
}
