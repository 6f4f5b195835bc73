package upload

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes an accepted upload
type Metadata struct {
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	Kind        Kind   `json:"kind"`
	ContentType string `json:"content_type"`
	Hash        string `json:"hash"`      // SHA256 hex digest
	Timestamp   string `json:"timestamp"` // RFC3339 format
}

// NewMetadata creates Metadata for data with the current timestamp
func NewMetadata(filename, contentType string, data []byte) *Metadata {
	return &Metadata{
		Filename:    filename,
		Size:        int64(len(data)),
		Kind:        DetectKind(data, filename),
		ContentType: contentType,
		Hash:        computeHash(data),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

// computeHash computes SHA256 hash of data and returns hex string
func computeHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
