package ui

import (
	"snowthaw/internal/domain"
)

// storyLoadedMsg carries the full card behind a hit
type storyLoadedMsg struct {
	card *domain.Card
}

// storyFailedMsg reports that the card behind a hit could not be loaded
type storyFailedMsg struct {
	id  string
	err error
}

// pagerClosedMsg is sent once ov hands the terminal back
type pagerClosedMsg struct {
	err error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
