package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	spinnerFrameIntervalConstant = 120 * time.Millisecond
	spinnerLineTemplateConstant  = "\r%s %s"
	spinnerClearLineConstant     = "\r\033[K"
	spinnerColorConstant         = "4"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(spinnerColorConstant))

// spinner redraws a single console line until stopped.
type spinner struct {
	writer    io.Writer
	message   string
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func startSpinner(writer io.Writer, message string) *spinner {
	indicator := &spinner{
		writer:  writer,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	indicator.render(0)
	go indicator.run()
	return indicator
}

func (indicator *spinner) run() {
	defer close(indicator.done)
	ticker := time.NewTicker(spinnerFrameIntervalConstant)
	defer ticker.Stop()

	frameIndex := 0
	for {
		select {
		case <-indicator.stop:
			_, _ = io.WriteString(indicator.writer, spinnerClearLineConstant)
			return
		case <-ticker.C:
			frameIndex = (frameIndex + 1) % len(spinnerFrames)
			indicator.render(frameIndex)
		}
	}
}

func (indicator *spinner) render(frameIndex int) {
	_, _ = fmt.Fprintf(indicator.writer, spinnerLineTemplateConstant, spinnerStyle.Render(spinnerFrames[frameIndex]), indicator.message)
}

// Stop clears the indicator line and waits for the redraw loop to exit.
func (indicator *spinner) Stop() {
	indicator.closeOnce.Do(func() {
		close(indicator.stop)
	})
	<-indicator.done
}
