package Controllers

import (
	"VisitReport/Monday"
	"bytes"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// maxPhotoWidth bounds report photos before upload; field phones send
// full-resolution captures.
const maxPhotoWidth = 1600

// ReportRequest is the multipart form a technician submits for one
// completed (or stuck) task location.
type ReportRequest struct {
	ParentItemID string `form:"parentItemId" validate:"required,number"`
	Date         string `form:"date"`
	Building     string `form:"building"`
	Floor        string `form:"floor"`
	Apartment    string `form:"apartment"`
	Location     string `form:"location"`
	Notes        string `form:"notes"`
	Status       string `form:"status"`
}

// SubmitReport creates a completion record under the parent task. The
// record creation is the only step that can fail the request; the photo
// update and attachment are best effort, their failures are reported in
// the degraded list but the record stands.
func SubmitReport(c *fiber.Ctx) error {
	var req ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Missing parentItemId",
		})
	}

	var photo []byte
	var photoName string
	if fileHeader, err := c.FormFile("file"); err == nil && fileHeader != nil {
		photo, err = readUpload(fileHeader)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Could not read uploaded file",
			})
		}
		photoName = fileHeader.Filename
		photo = shrinkPhoto(photo)
	}

	columnValues := map[string]interface{}{
		Monday.ReportDateColumn:   map[string]string{"date": req.Date},
		Monday.BuildingColumn:     req.Building,
		Monday.FloorColumn:        req.Floor,
		Monday.ApartmentColumn:    req.Apartment,
		Monday.LocationDescColumn: req.Location,
		Monday.NotesColumn:        req.Notes,
		Monday.ReportStatusColumn: map[string]string{"label": req.Status},
	}
	columnValuesArg, err := Monday.QuoteJSON(columnValues)
	if err != nil {
		log.Println("SubmitReport marshal:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Server error",
		})
	}

	mutation := fmt.Sprintf(`
		mutation {
			create_subitem(
				parent_item_id: %s,
				item_name: %s,
				column_values: %s
			) {
				id
			}
		}
	`, req.ParentItemID, Monday.QuoteString("דיווח טכנאי"), columnValuesArg)

	data, err := Monday.Default.Query(mutation)
	if err != nil {
		log.Println("SubmitReport create_subitem:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to create report",
		})
	}

	subitemID, err := Monday.CreatedItemID(data, "create_subitem")
	if err != nil {
		log.Println("SubmitReport subitem id:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to create report",
		})
	}

	degraded := []string{}
	if photo != nil {
		if err := attachPhoto(subitemID, photoName, photo); err != nil {
			log.Printf("SubmitReport: photo attach failed for subitem %d: %v", subitemID, err)
			degraded = append(degraded, "photo")
		}
		go forwardPhotoToAutomation(subitemID, photoName, photo)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"subitemId": subitemID,
		"degraded":  degraded,
	})
}

// attachPhoto creates a discussion update on the subitem and uploads the
// photo onto it.
func attachPhoto(subitemID int64, filename string, photo []byte) error {
	mutation := fmt.Sprintf(`
		mutation {
			create_update(
				item_id: %d,
				body: %s
			) {
				id
			}
		}
	`, subitemID, Monday.QuoteString("📎 קובץ מצורף לדיווח"))

	data, err := Monday.Default.Query(mutation)
	if err != nil {
		return fmt.Errorf("create_update: %w", err)
	}

	updateID, err := Monday.CreatedItemID(data, "create_update")
	if err != nil {
		return fmt.Errorf("create_update id: %w", err)
	}

	if err := Monday.Default.AddFileToUpdate(updateID, filename, photo); err != nil {
		return fmt.Errorf("add_file_to_update: %w", err)
	}

	return nil
}

// shrinkPhoto downscales oversized images. Anything that does not decode
// as an image passes through untouched.
func shrinkPhoto(data []byte) []byte {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	if img.Bounds().Dx() <= maxPhotoWidth {
		return data
	}

	resized := imaging.Resize(img, maxPhotoWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return data
	}
	return buf.Bytes()
}

// forwardPhotoToAutomation posts the photo and its record id to the
// automation webhook. Fire and forget, the report result never depends on
// this.
func forwardPhotoToAutomation(subitemID int64, filename string, photo []byte) {
	webhookURL := os.Getenv("AUTOMATION_WEBHOOK_URL")
	if webhookURL == "" {
		return
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("subitemId", fmt.Sprintf("%d", subitemID)); err != nil {
		log.Println("webhook form:", err)
		return
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		log.Println("webhook form:", err)
		return
	}
	if _, err := part.Write(photo); err != nil {
		log.Println("webhook form:", err)
		return
	}
	if err := writer.Close(); err != nil {
		log.Println("webhook form:", err)
		return
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(webhookURL, writer.FormDataContentType(), &buf)
	if err != nil {
		log.Println("webhook post:", err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	log.Printf("webhook: forwarded photo for subitem %d, status %d", subitemID, resp.StatusCode)
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
