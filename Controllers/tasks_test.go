package Controllers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"VisitReport/Controllers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProjectTasksPassesRemainingThrough(t *testing.T) {
	// remaining=6 comes from the platform; the handler must not recompute
	// it even though required-done would also be 6 here.
	newFakePlatform(t, func(query string) string {
		return `{
			"data": {"boards": [{"items_page": {"items": [
				{
					"id": "201", "name": "Fiber outlet",
					"column_values": [
						{"id": "numeric_mkxqmet4", "text": "10"},
						{"id": "numeric_mkytx33q", "text": "4"},
						{"id": "numeric_mkyw4ps", "text": "6"}
					]
				},
				{
					"id": "202", "name": "Riser cabling",
					"column_values": [
						{"id": "numeric_mkxqmet4", "text": "not-a-number"},
						{"id": "numeric_mkytx33q", "text": ""}
					]
				}
			]}}]}
		}`
	})
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/projects/8101/tasks", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tasks []Controllers.Task
	decodeBody(t, resp, &tasks)
	require.Len(t, tasks, 2)

	assert.Equal(t, "201", tasks[0].ItemID)
	assert.Equal(t, "Fiber outlet", tasks[0].ServiceName)
	assert.Equal(t, 10, tasks[0].Required)
	assert.Equal(t, 4, tasks[0].Done)
	assert.Equal(t, 6, tasks[0].Remaining)

	// Missing or unparseable quantity columns default to 0.
	assert.Equal(t, 0, tasks[1].Required)
	assert.Equal(t, 0, tasks[1].Done)
	assert.Equal(t, 0, tasks[1].Remaining)
}

func TestGetProjectTasksRejectsBadProjectID(t *testing.T) {
	f := newFakePlatform(t, func(query string) string { return `{"data":{}}` })
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/projects/abc/tasks", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, f.queryCount("boards"))
}

func TestGetProjectTasksPlatformError(t *testing.T) {
	newFakePlatform(t, func(query string) string {
		return `{"errors":[{"message":"rate limited"}]}`
	})
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/projects/8101/tasks", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	// Remote detail stays in the log, the caller gets a generic message.
	assert.Equal(t, "platform error", body["error"])
}
