// Package export writes saved queries and query history to CSV or JSON
// files for use outside the app.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/workgrid/workgrid-studio/internal/history"
	"github.com/workgrid/workgrid-studio/internal/models"
)

const timeFormat = "2006-01-02 15:04:05"

// SavedQueriesToCSV exports saved queries to a CSV file
func SavedQueriesToCSV(queries []models.SavedQuery, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Name", "Description", "Statement", "Tags", "Profile", "Database", "Created", "Updated", "Last Used", "Usage Count"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, q := range queries {
		lastUsed := ""
		if !q.LastUsed.IsZero() {
			lastUsed = q.LastUsed.Format(timeFormat)
		}

		row := []string{
			q.Name,
			q.Description,
			q.Statement,
			strings.Join(q.Tags, ", "),
			q.ProfileID,
			q.Database,
			q.CreatedAt.Format(timeFormat),
			q.UpdatedAt.Format(timeFormat),
			lastUsed,
			fmt.Sprintf("%d", q.UsageCount),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// SavedQueriesToJSON exports saved queries to a pretty-printed JSON file
func SavedQueriesToJSON(queries []models.SavedQuery, path string) error {
	data, err := json.MarshalIndent(queries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal saved queries to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

// HistoryToCSV exports query history entries to a CSV file
func HistoryToCSV(entries []history.Entry, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Profile", "Database", "Query", "Executed At", "Duration (ms)", "Rows", "Success", "Error"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range entries {
		row := []string{
			e.ProfileID,
			e.DatabaseName,
			e.Query,
			e.ExecutedAt.Format(timeFormat),
			fmt.Sprintf("%d", e.Duration.Milliseconds()),
			fmt.Sprintf("%d", e.RowsAffected),
			fmt.Sprintf("%t", e.Success),
			e.ErrorMessage,
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// HistoryToJSON exports query history entries to a pretty-printed JSON file
func HistoryToJSON(entries []history.Entry, path string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}
