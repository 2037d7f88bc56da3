package uploads

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

const recordColumns = "id, public_id, title, description, status, stage, thumbnail, format, trend_topic, sources_json, metrics_json, error_message, created_at, updated_at"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id           int64
		publicID     string
		title        string
		description  string
		statusStr    string
		stageStr     string
		thumbnail    string
		formatStr    string
		trendTopic   sql.NullString
		sourcesRaw   sql.NullString
		metricsRaw   sql.NullString
		errorMessage sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&publicID,
		&title,
		&description,
		&statusStr,
		&stageStr,
		&thumbnail,
		&formatStr,
		&trendTopic,
		&sourcesRaw,
		&metricsRaw,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	record := &Record{
		ID:           id,
		PublicID:     publicID,
		Title:        title,
		Description:  description,
		Status:       Status(statusStr),
		Stage:        Stage(stageStr),
		Thumbnail:    thumbnail,
		Format:       Format(formatStr),
		TrendTopic:   trendTopic.String,
		ErrorMessage: errorMessage.String,
	}

	if sourcesRaw.Valid {
		sources, err := decodeSources(sourcesRaw.String)
		if err != nil {
			return nil, err
		}
		record.Sources = sources
	}
	if metricsRaw.Valid {
		metrics, err := decodeMetrics(metricsRaw.String)
		if err != nil {
			return nil, err
		}
		record.Metrics = metrics
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		record.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		record.UpdatedAt = updated
	}
	return record, nil
}

func encodeSources(sources []string) (any, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(sources)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func decodeSources(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var sources []string
	if err := json.Unmarshal([]byte(raw), &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

func encodeMetrics(metrics *Metrics) (any, error) {
	if metrics == nil {
		return nil, nil
	}
	raw, err := json.Marshal(metrics)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func decodeMetrics(raw string) (*Metrics, error) {
	if raw == "" {
		return nil, nil
	}
	metrics := &Metrics{}
	if err := json.Unmarshal([]byte(raw), metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
