package Monday

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	DefaultAPIURL     = "https://api.monday.com/v2"
	DefaultFileAPIURL = "https://api.monday.com/v2/file"
)

// Client talks to the work-management platform's GraphQL endpoints.
type Client struct {
	APIURL     string
	FileAPIURL string
	Token      string
	HTTPClient *http.Client
}

// Default is the process-wide client, set up by Init from environment.
var Default *Client

func Init() {
	Default = &Client{
		APIURL:     DefaultAPIURL,
		FileAPIURL: DefaultFileAPIURL,
		Token:      os.Getenv("MONDAY_API_TOKEN"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type apiError struct {
	Message string `json:"message"`
}

type apiResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []apiError      `json:"errors"`
}

// Query posts a GraphQL query or mutation and returns the data payload.
// Every call is attempted exactly once, no retries.
func (c *Client) Query(query string) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("platform returned status %d", resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("platform error: %s", parsed.Errors[0].Message)
	}
	if parsed.Data == nil {
		return nil, fmt.Errorf("platform response carried no data")
	}

	return parsed.Data, nil
}

// UploadToColumn attaches a file to a file column on an item. The file
// endpoint expects a "query" part holding the mutation and a
// "variables[file]" file part.
func (c *Client) UploadToColumn(itemID int64, columnID, filename string, data []byte) error {
	mutation := fmt.Sprintf(`
		mutation ($file: File!) {
			add_file_to_column (
				item_id: %d,
				column_id: %s,
				file: $file
			) {
				id
			}
		}
	`, itemID, QuoteString(columnID))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("query", mutation); err != nil {
		return err
	}
	part, err := writer.CreateFormFile("variables[file]", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	return c.postFile(&buf, writer.FormDataContentType())
}

// AddFileToUpdate attaches a file to a discussion update. This uses the
// platform's operations/map multipart layout, which differs from the
// column-upload layout above.
func (c *Client) AddFileToUpdate(updateID int64, filename string, data []byte) error {
	operations := map[string]interface{}{
		"query": fmt.Sprintf(`
			mutation ($file: File!) {
				add_file_to_update(
					update_id: %d,
					file: $file
				) {
					id
				}
			}
		`, updateID),
		"variables": map[string]interface{}{"file": nil},
	}
	operationsJSON, err := json.Marshal(operations)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("operations", string(operationsJSON)); err != nil {
		return err
	}
	if err := writer.WriteField("map", `{"0": ["variables.file"]}`); err != nil {
		return err
	}
	part, err := writer.CreateFormFile("0", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	return c.postFile(&buf, writer.FormDataContentType())
}

func (c *Client) postFile(body io.Reader, contentType string) error {
	req, err := http.NewRequest(http.MethodPost, c.FileAPIURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("file endpoint returned status %d", resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return err
	}
	if len(parsed.Errors) > 0 {
		return fmt.Errorf("file upload error: %s", parsed.Errors[0].Message)
	}

	return nil
}

// QuoteString renders s as a GraphQL string literal. User text must never
// reach a query without going through here.
func QuoteString(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return `"` + replacer.Replace(s) + `"`
}

// QuoteJSON marshals v and embeds the result as a GraphQL string literal,
// the encoding the platform expects for column_values payloads.
func QuoteJSON(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return QuoteString(string(raw)), nil
}
