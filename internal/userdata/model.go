package userdata

import (
	"encoding/json"
	"time"
)

// Record is one stored JSON blob, unique by (email, serial).
type Record struct {
	Email     string          `json:"email"`
	Serial    int             `json:"serial"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Save operation labels reported to the caller.
const (
	OpInsert = "insert"
	OpUpdate = "update"
)
