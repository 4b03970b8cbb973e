package ui

import "time"

// LayoutCompactWidth is the width below which the list and form stack vertically.
const LayoutCompactWidth = 100

const loginPanelWidth = 52

// Log overlay limits.
const (
	// LogTailLines is the number of lines read from the end of the log file.
	LogTailLines = 500
)

// DefaultUIInterval is how often the model pulls a fresh snapshot from the controller.
const DefaultUIInterval = 250 * time.Millisecond

// chromeHeight is the number of rows used by the header and footer.
const chromeHeight = 3

func (m Model) contentHeight() int {
	h := m.height - chromeHeight
	if h < 5 {
		return 5
	}
	return h
}
