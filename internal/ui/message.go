package ui

import (
	"github.com/tomasvidal/trackseek/internal/models"
	"github.com/tomasvidal/trackseek/internal/tasks"
)

// sourceFetchedMsg carries the fetched source container and its tracks.
type sourceFetchedMsg struct {
	name   string
	tracks []models.TrackDescriptor
	err    error
}

// progressUpdateMsg wraps one engine progress update.
type progressUpdateMsg tasks.ProgressUpdate

// resolveCompleteMsg carries the final batch result.
type resolveCompleteMsg struct {
	result *tasks.BatchResult
	err    error
}
