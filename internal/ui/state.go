package ui

import "github.com/lehigh-university-libraries/letterbox/internal/models"

// Text displays a single line of text, such as the chosen folder name
type Text interface {
	SetText(s string)
}

// Control is the action that triggers an upload
type Control interface {
	SetEnabled(enabled bool)
}

// Indicator shows upload progress
type Indicator interface {
	Show(files int, bytes int64)
	Hide()
}

// View displays upload results
type View interface {
	Clear()
	Render(res models.Results)
}

// Alerter surfaces a blocking message to the user
type Alerter interface {
	Alert(msg string)
}

// State holds the handles the upload routine touches. It is built once and
// injected, so the routine never looks anything up by name.
type State struct {
	FolderName Text
	Trigger    Control
	Progress   Indicator
	Results    View
	Alerts     Alerter
}
