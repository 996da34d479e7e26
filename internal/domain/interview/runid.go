package interview

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewRunID generates a unique run identifier.
// Format: YYYYMMDD-HHMMSS-{first 8 chars of a UUID}
func NewRunID() string {
	datePrefix := time.Now().Format("20060102-150405")
	uuidStr := uuid.New().String()[:8]
	return fmt.Sprintf("%s-%s", datePrefix, uuidStr)
}
