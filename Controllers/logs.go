package Controllers

import (
	"bufio"
	"encoding/json"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"VisitReport/middleware"

	"github.com/gofiber/fiber/v2"
)

const requestLogPath = "logs/requests.log"

// LogGroup aggregates request-log entries by path.
type LogGroup struct {
	Path        string               `json:"path"`
	Method      string               `json:"method"`
	Count       int                  `json:"count"`
	AvgLatency  float64              `json:"avg_latency_ms"`
	SuccessRate float64              `json:"success_rate"`
	Logs        []middleware.LogData `json:"logs"`
}

// LogsResponse is the paginated log listing.
type LogsResponse struct {
	Groups      []LogGroup `json:"groups"`
	TotalLogs   int        `json:"total_logs"`
	TotalGroups int        `json:"total_groups"`
	Page        int        `json:"page"`
	PageSize    int        `json:"page_size"`
	TotalPages  int        `json:"total_pages"`
}

// GetLogs returns request logs grouped by path, newest first, paginated.
func GetLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	entries, err := readLogEntries()
	if err != nil {
		log.Println("GetLogs:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "could not read logs",
		})
	}

	grouped := make(map[string]*LogGroup)
	for _, entry := range entries {
		key := entry.Method + " " + entry.Path
		group, ok := grouped[key]
		if !ok {
			group = &LogGroup{Path: entry.Path, Method: entry.Method}
			grouped[key] = group
		}
		group.Count++
		group.Logs = append(group.Logs, entry)
	}

	groups := make([]LogGroup, 0, len(grouped))
	for _, group := range grouped {
		var totalLatency time.Duration
		successes := 0
		for _, entry := range group.Logs {
			totalLatency += entry.Latency
			if entry.Status < 400 {
				successes++
			}
		}
		group.AvgLatency = float64(totalLatency.Milliseconds()) / float64(group.Count)
		group.SuccessRate = float64(successes) / float64(group.Count) * 100
		sort.Slice(group.Logs, func(i, j int) bool {
			return group.Logs[i].Timestamp.After(group.Logs[j].Timestamp)
		})
		groups = append(groups, *group)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})

	totalGroups := len(groups)
	totalPages := (totalGroups + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if start > totalGroups {
		start = totalGroups
	}
	end := start + pageSize
	if end > totalGroups {
		end = totalGroups
	}

	return c.JSON(LogsResponse{
		Groups:      groups[start:end],
		TotalLogs:   len(entries),
		TotalGroups: totalGroups,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
	})
}

// GetLogStats returns overall request-log counters.
func GetLogStats(c *fiber.Ctx) error {
	entries, err := readLogEntries()
	if err != nil {
		log.Println("GetLogStats:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "could not read logs",
		})
	}

	var totalLatency time.Duration
	statusCounts := map[string]int{}
	for _, entry := range entries {
		totalLatency += entry.Latency
		switch {
		case entry.Status >= 500:
			statusCounts["5xx"]++
		case entry.Status >= 400:
			statusCounts["4xx"]++
		default:
			statusCounts["2xx"]++
		}
	}

	avgLatency := 0.0
	if len(entries) > 0 {
		avgLatency = float64(totalLatency.Milliseconds()) / float64(len(entries))
	}

	return c.JSON(fiber.Map{
		"total_requests": len(entries),
		"avg_latency_ms": avgLatency,
		"status_counts":  statusCounts,
	})
}

func readLogEntries() ([]middleware.LogData, error) {
	file, err := os.Open(requestLogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []middleware.LogData{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []middleware.LogData
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry middleware.LogData
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}
