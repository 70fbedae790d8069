package monitor

import "time"

// Check is the last observed state of one dependency.
type Check struct {
	Name   string `json:"name"`
	Online bool   `json:"online"`
	Error  string `json:"error,omitempty"`
}

type Status struct {
	Store       Check     `json:"store"`
	Cache       *Check    `json:"cache,omitempty"`
	Journal     bool      `json:"journal"`
	JournalSize int       `json:"journal_size"`
	LastCheck   time.Time `json:"last_check"`
}
