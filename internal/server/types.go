package server

import (
	"time"

	"github.com/entl/membox/internal/storage"
)

// SubmitCommandRequest is the body of POST /api/commands.
type SubmitCommandRequest struct {
	Command     string   `json:"command"`
	Description string   `json:"description,omitempty"`
	Workdir     string   `json:"workdir,omitempty"`
	Status      string   `json:"status,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// SubmitCommandResponse carries the id assigned to a stored command.
type SubmitCommandResponse struct {
	ID string `json:"id"`
}

// CommandEntry is the JSON representation of a stored command.
type CommandEntry struct {
	ID          string     `json:"id"`
	Command     string     `json:"command"`
	Description string     `json:"description,omitempty"`
	Workdir     string     `json:"workdir,omitempty"`
	Status      string     `json:"status,omitempty"`
	Category    string     `json:"category,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsed    *time.Time `json:"last_used,omitempty"`
	UseCount    int        `json:"use_count"`
}

// CommandListResponse wraps a list of commands.
type CommandListResponse struct {
	Commands []CommandEntry `json:"commands"`
}

// TagsResponse wraps the distinct tag list.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// CategoriesResponse wraps the distinct category list.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// VersionResponse reports the compiled-in version and build strings.
type VersionResponse struct {
	Version string `json:"version"`
	Build   string `json:"build"`
}

// toEntry converts a storage command to its JSON representation.
func toEntry(cmd *storage.Command) CommandEntry {
	return CommandEntry{
		ID:          cmd.ID,
		Command:     cmd.Command,
		Description: cmd.Description,
		Workdir:     cmd.Workdir,
		Status:      cmd.Status,
		Category:    cmd.Category,
		Tags:        cmd.Tags,
		CreatedAt:   cmd.CreatedAt,
		LastUsed:    cmd.LastUsed,
		UseCount:    cmd.UseCount,
	}
}

func toEntries(commands []*storage.Command) []CommandEntry {
	entries := make([]CommandEntry, 0, len(commands))
	for _, cmd := range commands {
		entries = append(entries, toEntry(cmd))
	}
	return entries
}
