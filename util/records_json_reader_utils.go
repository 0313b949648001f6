package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"nightlife-server/models"
)

// ReadRawRecordsFromJSON loads raw rows from disk. The file holds either a
// bare array or an object with the rows under "data".
func ReadRawRecordsFromJSON(filePath string) ([]models.RawRecord, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	return DecodeRawRecords(data)
}

// DecodeRawRecords accepts the same shapes as ReadRawRecordsFromJSON.
func DecodeRawRecords(data []byte) ([]models.RawRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Data []models.RawRecord `json:"data"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to unmarshal records: %w", err)
		}
		return nonNil(wrapped.Data), nil
	}

	var recs []models.RawRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records: %w", err)
	}
	return nonNil(recs), nil
}

// ReadFilterOptionsFromJSON loads a FilterOptionsResponse from JSON on disk.
func ReadFilterOptionsFromJSON(filePath string) (*models.FilterOptionsResponse, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var resp models.FilterOptionsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal FilterOptionsResponse: %w", err)
	}
	return &resp, nil
}

func nonNil(recs []models.RawRecord) []models.RawRecord {
	if recs == nil {
		return []models.RawRecord{}
	}
	return recs
}
