package domain

import "time"

// BuildInfo records the hashes observed the last time a task ran to completion.
type BuildInfo struct {
	TaskName   string    `json:"task_name,omitzero"`
	InputHash  string    `json:"input_hash,omitzero"`
	OutputHash string    `json:"output_hash,omitzero"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}

// Fingerprint lists the files a task reads and writes for one run.
// Paths are relative to the project root.
type Fingerprint struct {
	Inputs  []string
	Outputs []string
}
