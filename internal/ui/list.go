package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/tomasvidal/trackseek/internal/models"
	"github.com/tomasvidal/trackseek/internal/shared"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.TrackDescriptor] to implement [list.Item].
type trackItem struct {
	descriptor models.TrackDescriptor
}

func (i trackItem) FilterValue() string { return i.descriptor.Name }
func (i trackItem) Title() string       { return i.descriptor.Name }
func (i trackItem) Description() string {
	desc := i.descriptor.PrimaryArtist()
	if i.descriptor.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.descriptor.Album)
	}
	return fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.descriptor.Duration))
}
