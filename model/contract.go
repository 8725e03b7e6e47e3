package model

import (
	"time"
)

// Contract represents an uploaded procurement contract document
type Contract struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	Tenant        string    `json:"tenant"`
	SourceURL     string    `json:"source_url"`
	Status        string    `json:"status"` // pending, processing, completed, failed
	ExtractTaskID string    `json:"extract_task_id,omitempty"`
	Text          string    `json:"text,omitempty"`
	Amount        float64   `json:"amount,omitempty"`
	ErrorMsg      string    `json:"error_msg,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ContractStatus constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
