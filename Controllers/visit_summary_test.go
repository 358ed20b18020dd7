package Controllers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two tasks assigned to technician 17117717 on project 8101. Task 201 has a
// report on the requested date with a photo, task 202 only has a report on
// a different date.
func visitPlatformResponse(query string) string {
	if strings.Contains(query, "18392796088") {
		return `{
			"data": {"boards": [{"items_page": {"items": [
				{
					"id": "201", "name": "Fiber outlet",
					"column_values": [
						{"id": "numeric_mkyx9yah", "value": "\"8101\""},
						{"id": "person", "value": "{\"personsAndTeams\":[{\"id\":17117717,\"kind\":\"person\"}]}"}
					]
				},
				{
					"id": "202", "name": "Riser cabling",
					"column_values": [
						{"id": "numeric_mkyx9yah", "value": "\"8101\""},
						{"id": "person", "value": "{\"personsAndTeams\":[{\"id\":17117717,\"kind\":\"person\"}]}"}
					]
				},
				{
					"id": "203", "name": "Other project task",
					"column_values": [
						{"id": "numeric_mkyx9yah", "value": "\"9999\""},
						{"id": "person", "value": "{\"personsAndTeams\":[{\"id\":17117717,\"kind\":\"person\"}]}"}
					]
				}
			]}}]}
		}`
	}
	if strings.Contains(query, "18392796093") {
		return `{
			"data": {"boards": [{"items_page": {"items": [
				{
					"id": "301", "parent_item": {"id": "201"},
					"column_values": [
						{"id": "date0", "value": "{\"date\":\"2026-08-30\"}"},
						{"id": "text_mkys4gay", "text": "3"},
						{"id": "text_mkysh2sm", "text": "2"},
						{"id": "text_mkys78jp", "text": "7"},
						{"id": "text_mkys1ted", "text": "hallway"},
						{"id": "text_mkysdz8f", "text": "done clean"},
						{"id": "status", "text": "Done"},
						{"id": "file_mkys7yjr", "value": "{\"files\":[{\"assetId\":911}]}"}
					]
				},
				{
					"id": "302", "parent_item": {"id": "202"},
					"column_values": [
						{"id": "date0", "value": "{\"date\":\"2026-08-29\"}"},
						{"id": "status", "text": "Done"}
					]
				}
			]}}]}
		}`
	}
	if strings.Contains(query, "assets(ids:") {
		return `{"data":{"assets":[{"id":911,"public_url":"https://files.example/photo-911.jpg"}]}}`
	}
	return `{"data":{}}`
}

type visitSummaryResponse struct {
	Success      bool   `json:"success"`
	ProjectID    string `json:"projectId"`
	TechnicianID string `json:"technicianId"`
	Date         string `json:"date"`
	Items        []struct {
		ItemID   string `json:"itemId"`
		ItemName string `json:"itemName"`
		Reports  []struct {
			SubitemID string `json:"subitemId"`
			Location  struct {
				Building    string `json:"building"`
				Floor       string `json:"floor"`
				Apartment   string `json:"apartment"`
				Description string `json:"description"`
			} `json:"location"`
			Notes    string  `json:"notes"`
			Status   string  `json:"status"`
			ImageURL *string `json:"imageUrl"`
		} `json:"reports"`
	} `json:"items"`
}

func TestGetVisitSummaryGroupsAndResolvesPhotos(t *testing.T) {
	f := newFakePlatform(t, visitPlatformResponse)
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet,
		"/api/visit-summary?projectId=8101&technicianId=17117717&date=2026-08-30", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result visitSummaryResponse
	decodeBody(t, resp, &result)
	assert.True(t, result.Success)
	assert.Equal(t, "8101", result.ProjectID)
	assert.Equal(t, "2026-08-30", result.Date)

	// Task 202 only reported on another date, so it must not appear.
	require.Len(t, result.Items, 1)
	assert.Equal(t, "201", result.Items[0].ItemID)
	require.Len(t, result.Items[0].Reports, 1)

	report := result.Items[0].Reports[0]
	assert.Equal(t, "301", report.SubitemID)
	assert.Equal(t, "3", report.Location.Building)
	assert.Equal(t, "hallway", report.Location.Description)
	assert.Equal(t, "done clean", report.Notes)
	assert.Equal(t, "Done", report.Status)
	require.NotNil(t, report.ImageURL)
	assert.Equal(t, "https://files.example/photo-911.jpg", *report.ImageURL)

	// All photo assets resolve in a single batched call.
	assert.Equal(t, 1, f.queryCount("assets(ids:"))
}

func TestGetVisitSummaryNoPhotosSkipsAssetCall(t *testing.T) {
	f := newFakePlatform(t, func(query string) string {
		if strings.Contains(query, "18392796093") {
			return `{"data":{"boards":[{"items_page":{"items":[]}}]}}`
		}
		return visitPlatformResponse(query)
	})
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet,
		"/api/visit-summary?projectId=8101&technicianId=17117717&date=2026-08-30", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result visitSummaryResponse
	decodeBody(t, resp, &result)
	assert.True(t, result.Success)
	assert.Empty(t, result.Items)
	assert.Equal(t, 0, f.queryCount("assets(ids:"))
}

func TestGetVisitSummaryRequiresAllParams(t *testing.T) {
	newFakePlatform(t, visitPlatformResponse)
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/visit-summary?projectId=8101", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
