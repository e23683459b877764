package crosstab

import (
	"errors"
	"log"
)

// Observer receives progress notifications from an Extractor. It never
// influences the extraction result.
type Observer interface {
	PageStarted(page, total int)
	PageSkipped(page int, reason error)
	RunComplete(summary Summary)
}

// NopObserver discards all notifications.
type NopObserver struct{}

func (NopObserver) PageStarted(int, int) {}
func (NopObserver) PageSkipped(int, error) {}
func (NopObserver) RunComplete(Summary) {}

// LogObserver writes one line per notification to a logger.
type LogObserver struct {
	logger *log.Logger
}

// NewLogObserver returns an observer writing to logger, or to the standard
// logger when logger is nil.
func NewLogObserver(logger *log.Logger) *LogObserver {
	if logger == nil {
		logger = log.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) PageStarted(page, total int) {
	o.logger.Printf("Processing page %d/%d", page, total)
}

func (o *LogObserver) PageSkipped(page int, reason error) {
	switch {
	case errors.Is(reason, ErrNoContent):
		o.logger.Printf("Skipping page %d (no table or text)", page)
	default:
		o.logger.Printf("Skipping page %d: %v", page, reason)
	}
}

func (o *LogObserver) RunComplete(summary Summary) {
	o.logger.Printf("Extracted %d of %d pages (%d skipped)",
		summary.Extracted, summary.TotalPages, summary.Skipped)
}
