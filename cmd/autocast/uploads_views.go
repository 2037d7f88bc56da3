package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"autocast/internal/ipc"
)

func buildUploadStatusRows(stats map[string]int) [][]string {
	if len(stats) == 0 {
		return nil
	}
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{formatStatusLabel(key), fmt.Sprintf("%d", stats[key])})
	}
	return rows
}

func buildUploadListRows(records []ipc.UploadRecord) [][]string {
	if len(records) == 0 {
		return nil
	}
	sorted := make([]ipc.UploadRecord, len(records))
	copy(sorted, records)

	sort.Slice(sorted, func(i, j int) bool {
		ti := parseRecordTime(sorted[i].CreatedAt)
		tj := parseRecordTime(sorted[j].CreatedAt)
		if ti.Equal(tj) {
			return sorted[i].ID > sorted[j].ID
		}
		return ti.After(tj)
	})

	rows := make([][]string, 0, len(sorted))
	for _, record := range sorted {
		title := strings.TrimSpace(record.Title)
		if title == "" {
			title = "Untitled"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", record.ID),
			title,
			formatStatusLabel(record.Status),
			formatStatusLabel(record.Stage),
			formatStatusLabel(record.Format),
			formatDisplayTime(record.CreatedAt),
		})
	}
	return rows
}

func printUploadDetail(out io.Writer, record ipc.UploadRecord) {
	fmt.Fprintf(out, "Upload #%d (%s)\n", record.ID, record.PublicID)
	fmt.Fprintf(out, "  Title: %s\n", record.Title)
	if desc := strings.TrimSpace(record.Description); desc != "" {
		fmt.Fprintf(out, "  Description: %s\n", desc)
	}
	fmt.Fprintf(out, "  Status: %s\n", formatStatusLabel(record.Status))
	fmt.Fprintf(out, "  Stage: %s\n", formatStatusLabel(record.Stage))
	fmt.Fprintf(out, "  Format: %s\n", formatStatusLabel(record.Format))
	if topic := strings.TrimSpace(record.TrendTopic); topic != "" {
		fmt.Fprintf(out, "  Topic: %s\n", topic)
	}
	if thumb := strings.TrimSpace(record.Thumbnail); thumb != "" {
		fmt.Fprintf(out, "  Thumbnail: %s\n", thumb)
	}
	for _, source := range record.Sources {
		fmt.Fprintf(out, "  Source: %s\n", source)
	}
	if metrics := record.Metrics; metrics != nil {
		fmt.Fprintf(out, "  Views: %d\n", metrics.Views)
		fmt.Fprintf(out, "  Engagement: %.3f\n", metrics.Engagement)
	}
	if record.ErrorMessage != "" {
		fmt.Fprintf(out, "  Error: %s\n", record.ErrorMessage)
	}
	if created := formatDisplayTime(record.CreatedAt); created != "" {
		fmt.Fprintf(out, "  Created: %s\n", created)
	}
	if updated := formatDisplayTime(record.UpdatedAt); updated != "" {
		fmt.Fprintf(out, "  Updated: %s\n", updated)
	}
}

func formatStatusLabel(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return ""
	}
	parts := strings.Split(status, "_")
	for i, part := range parts {
		lower := strings.ToLower(part)
		if lower == "" {
			continue
		}
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}

func formatDisplayTime(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Format("2006-01-02 15:04")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC().Format("2006-01-02 15:04")
	}
	return value
}

func parseRecordTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	return time.Time{}
}
