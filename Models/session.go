package Models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WorkSession is the technician's current navigational context, keyed by a
// per-browser-tab session key. Fields fill monotonically as the technician
// walks project → task → technician → date, and only reset together.
type WorkSession struct {
	gorm.Model
	SessionKey     string `json:"session_key" gorm:"uniqueIndex"`
	ProjectID      string `json:"project_id"`
	ProjectName    string `json:"project_name"`
	TaskID         string `json:"task_id"`
	TaskName       string `json:"task_name"`
	TechnicianID   string `json:"technician_id"`
	TechnicianName string `json:"technician_name"`
	VisitDate      string `json:"visit_date"`

	// Extra carries UI-side state the server does not interpret.
	Extra datatypes.JSON `json:"extra,omitempty"`
}

// CleanupStaleSessions removes sessions untouched for longer than maxAge.
// Abandoned tabs never clear their session themselves.
func CleanupStaleSessions(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	result := DB.Unscoped().Where("updated_at < ?", cutoff).Delete(&WorkSession{})
	return result.RowsAffected, result.Error
}
