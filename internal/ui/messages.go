package ui

import (
	"github.com/wallforfry/harbor/internal/model"
)

// ReadyMsg is sent once the program has started and the first frame can
// be drawn. Drawers are activated when it arrives.
type ReadyMsg struct{}

// Data fetched messages
type CatalogLoadedMsg struct {
	Repositories []model.Repository
	Partial      error // tags of some repositories could not be listed
	Err          error
}

type ImageLoadedMsg struct {
	Name   string
	Tag    string
	Image  *model.Image
	Cached bool
	Err    error
}

// OpenImageMsg asks the app to show the details of one tag.
type OpenImageMsg struct {
	Name string
	Tag  string
}

// Action result messages
type ActionResultMsg struct {
	Action string
	Err    error
}
