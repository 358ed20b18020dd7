package Controllers

import (
	"VisitReport/Monday"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CloseVisitRequest carries everything needed to reconcile one visit:
// the session context plus the candidate report ids gathered from the
// summary screen.
type CloseVisitRequest struct {
	ProjectID      string        `json:"projectId" validate:"required,number"`
	ProjectName    string        `json:"projectName" validate:"required"`
	TechnicianID   string        `json:"technicianId" validate:"required,number"`
	TechnicianName string        `json:"technicianName"`
	Date           string        `json:"date" validate:"required"`
	ClientName     string        `json:"clientName"`
	ClientRole     string        `json:"clientRole"`
	SubitemIDs     []interface{} `json:"subitemIds" validate:"required,min=1"`
}

// CloseVisitResponse distinguishes core success from degraded side
// effects: a summary can exist even when some back-links failed.
type CloseVisitResponse struct {
	Success         bool    `json:"success"`
	Error           string  `json:"error,omitempty"`
	SummaryItemID   int64   `json:"summaryItemId,omitempty"`
	UpdatedSubitems []int64 `json:"updatedSubitems,omitempty"`
	FailedLinks     []int64 `json:"failed_links,omitempty"`
}

// CreateVisitSummary closes out a visit: re-verify the candidate reports
// against the platform, create one summary item, then flip each verified
// report to signed with a back-reference to the summary.
//
// There is no idempotency guard and no rollback once the summary exists;
// a double submit while the platform still reports "Done" produces two
// summaries.
func CreateVisitSummary(c *fiber.Ctx) error {
	var req CloseVisitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(CloseVisitResponse{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
		})
	}
	if err := validate.Struct(req); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			return c.Status(fiber.StatusBadRequest).JSON(CloseVisitResponse{
				Success: false,
				Error:   "Missing required fields",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(CloseVisitResponse{
			Success: false,
			Error:   "Invalid request",
		})
	}

	// Collecting: dedupe and keep positive integer ids only.
	candidateIDs := collectCandidateIDs(req.SubitemIDs)
	if len(candidateIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(CloseVisitResponse{
			Success: false,
			Error:   "no valid ids",
		})
	}

	// Verifying: never trust client-held status.
	eligibleIDs, err := verifyDoneSubitems(candidateIDs)
	if err != nil {
		log.Println("CreateVisitSummary verify:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(CloseVisitResponse{
			Success: false,
			Error:   "Server error",
		})
	}
	if len(eligibleIDs) == 0 {
		return c.JSON(CloseVisitResponse{
			Success: false,
			Error:   "אין דיווחים חדשים לסיכום ביקור",
		})
	}

	summaryItemID, err := createSummaryItem(&req)
	if err != nil {
		log.Println("CreateVisitSummary create:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(CloseVisitResponse{
			Success: false,
			Error:   "Server error",
		})
	}
	log.Printf("visit summary %d created for project %s, technician %s, %s",
		summaryItemID, req.ProjectID, req.TechnicianID, req.Date)

	// Reconciling: sequential, best effort per record. A failed back-link
	// leaves the record unsigned but does not undo the summary.
	var reconciled, failed []int64
	for _, subitemID := range eligibleIDs {
		if err := linkSubitemToSummary(subitemID, summaryItemID); err != nil {
			log.Printf("CreateVisitSummary: link failed for subitem %d: %v", subitemID, err)
			failed = append(failed, subitemID)
			continue
		}
		reconciled = append(reconciled, subitemID)
	}

	return c.JSON(CloseVisitResponse{
		Success:         true,
		SummaryItemID:   summaryItemID,
		UpdatedSubitems: reconciled,
		FailedLinks:     failed,
	})
}

// collectCandidateIDs normalizes the raw id list: numbers and numeric
// strings both pass, duplicates and non-positive values do not.
func collectCandidateIDs(raw []interface{}) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, v := range raw {
		var id int64
		switch value := v.(type) {
		case float64:
			id = int64(value)
		case string:
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				continue
			}
			id = parsed
		default:
			continue
		}
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// verifyDoneSubitems re-fetches the status of each candidate and keeps
// those currently Done. Records already signed, stuck, or deleted fall
// out silently.
func verifyDoneSubitems(candidateIDs []int64) ([]int64, error) {
	idList := make([]string, len(candidateIDs))
	for i, id := range candidateIDs {
		idList[i] = strconv.FormatInt(id, 10)
	}

	query := fmt.Sprintf(`
		query {
			items(ids: [%s]) {
				id
				column_values(ids: [%s]) {
					id
					text
				}
			}
		}
	`, strings.Join(idList, ","), Monday.QuoteString(Monday.ReportStatusColumn))

	data, err := Monday.Default.Query(query)
	if err != nil {
		return nil, err
	}

	items, err := Monday.Items(data)
	if err != nil {
		return nil, err
	}

	var eligible []int64
	for _, item := range items {
		statusCol := item.Column(Monday.ReportStatusColumn)
		if statusCol == nil || statusCol.Text != Monday.StatusDone {
			continue
		}
		id, err := strconv.ParseInt(item.ID, 10, 64)
		if err != nil {
			continue
		}
		eligible = append(eligible, id)
	}

	return eligible, nil
}

func createSummaryItem(req *CloseVisitRequest) (int64, error) {
	technicianID, err := strconv.ParseInt(req.TechnicianID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad technician id: %w", err)
	}
	projectID, err := strconv.ParseInt(req.ProjectID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad project id: %w", err)
	}

	technicianLabel := req.TechnicianName
	if technicianLabel == "" {
		technicianLabel = req.TechnicianID
	}
	itemName := fmt.Sprintf("%s | %s | %s", req.Date, req.ProjectName, technicianLabel)

	columnValues := map[string]interface{}{
		Monday.SummaryTechnicianColumn: map[string]interface{}{
			"personsAndTeams": []map[string]interface{}{
				{"id": technicianID, "kind": "person"},
			},
		},
		Monday.SummaryDateColumn:        map[string]string{"date": req.Date},
		Monday.SummaryProjectNameColumn: req.ProjectName,
		Monday.SummaryProjectIDColumn:   projectID,
		Monday.SummaryStatusColumn:      map[string]string{"label": Monday.StatusDone},
		Monday.ClientNameColumn:         req.ClientName,
		Monday.ClientRoleColumn:         req.ClientRole,
	}
	columnValuesArg, err := Monday.QuoteJSON(columnValues)
	if err != nil {
		return 0, err
	}

	mutation := fmt.Sprintf(`
		mutation {
			create_item(
				board_id: %d,
				item_name: %s,
				column_values: %s
			) {
				id
			}
		}
	`, Monday.SummaryBoardID, Monday.QuoteString(itemName), columnValuesArg)

	data, err := Monday.Default.Query(mutation)
	if err != nil {
		return 0, err
	}

	return Monday.CreatedItemID(data, "create_item")
}

func linkSubitemToSummary(subitemID, summaryItemID int64) error {
	updateValues := map[string]interface{}{
		Monday.SummaryBacklinkColumn: summaryItemID,
		Monday.ReportStatusColumn:    map[string]string{"label": Monday.StatusSigned},
	}
	updateValuesArg, err := Monday.QuoteJSON(updateValues)
	if err != nil {
		return err
	}

	mutation := fmt.Sprintf(`
		mutation {
			change_multiple_column_values(
				board_id: %d,
				item_id: %d,
				column_values: %s
			) {
				id
			}
		}
	`, Monday.SubitemsBoardID, subitemID, updateValuesArg)

	_, err = Monday.Default.Query(mutation)
	return err
}
