package storage

import (
	"time"
)

// Command represents a single stored command with its metadata.
type Command struct {
	ID          string
	Command     string
	Description string
	Workdir     string
	Status      string
	Category    string
	Tags        []string
	CreatedAt   time.Time
	LastUsed    *time.Time // nil until the command is first recalled
	UseCount    int
}

// QueryOptions provides filtering options for command queries.
type QueryOptions struct {
	Query    string // substring matched against command text and description
	Status   string
	Category string
	Tags     []string // every listed tag must be present
	Limit    int
}
