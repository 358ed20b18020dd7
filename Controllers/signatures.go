package Controllers

import (
	"VisitReport/Monday"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UploadSignaturesRequest carries the two signature images captured on
// the closing screen, as data URLs.
type UploadSignaturesRequest struct {
	SummaryItemID       int64  `json:"summaryItemId" validate:"required,gt=0"`
	ClientSignature     string `json:"clientSignature" validate:"required"`
	TechnicianSignature string `json:"technicianSignature" validate:"required"`
	ClientName          string `json:"clientName"`
}

// UploadSignatures attaches the client and technician signatures to the
// summary item's file columns, client first. Both uploads must succeed;
// there is no compensation for the summary if one fails.
func UploadSignatures(c *fiber.Ctx) error {
	var req UploadSignaturesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Missing or invalid fields",
		})
	}

	clientImage, err := decodeDataURL(req.ClientSignature)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid client signature image",
		})
	}
	technicianImage, err := decodeDataURL(req.TechnicianSignature)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid technician signature image",
		})
	}

	clientFilename := "client-signature.png"
	if req.ClientName != "" {
		clientFilename = fmt.Sprintf("client-signature-%s.png", req.ClientName)
	}

	if err := Monday.Default.UploadToColumn(req.SummaryItemID, Monday.ClientSignatureColumn, clientFilename, clientImage); err != nil {
		log.Println("UploadSignatures client:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Upload failed",
		})
	}

	if err := Monday.Default.UploadToColumn(req.SummaryItemID, Monday.TechSignatureColumn, "technician-signature.png", technicianImage); err != nil {
		log.Println("UploadSignatures technician:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Upload failed",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

// decodeDataURL strips a data:image/...;base64, prefix and decodes the
// payload. A bare base64 string also passes.
func decodeDataURL(dataURL string) ([]byte, error) {
	payload := dataURL
	if idx := strings.Index(dataURL, ","); idx >= 0 {
		payload = dataURL[idx+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("empty signature image")
	}
	return decoded, nil
}
