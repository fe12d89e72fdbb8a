package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/AlexSherTemplar/StaticCodeViewer/internal/analyzer"
)

// ProgressReporter prints analysis progress unless quiet.
type ProgressReporter struct {
	quiet     bool
	startTime time.Time
	bar       *progressbar.ProgressBar
}

// NewProgressReporter creates a reporter. quiet disables all
// non-error output.
func NewProgressReporter(quiet bool) *ProgressReporter {
	return &ProgressReporter{
		quiet:     quiet,
		startTime: time.Now(),
	}
}

func (p *ProgressReporter) OnDiscoveryStart() {
	if p.quiet {
		return
	}
	log.Println("Discovering files...")
}

func (p *ProgressReporter) OnDiscoveryComplete(fileCount int) {
	if p.quiet {
		return
	}
	log.Printf("Analyzing %d files\n", fileCount)
	p.bar = progressbar.NewOptions(fileCount,
		progressbar.OptionSetDescription("extracting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// OnFileProcessed advances the extraction bar by one file.
func (p *ProgressReporter) OnFileProcessed() {
	if p.quiet || p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

func (p *ProgressReporter) OnExtractionComplete(result *analyzer.AnalysisResult) {
	if p.quiet {
		return
	}
	if p.bar != nil {
		_ = p.bar.Finish()
	}
	fmt.Println(result.Summary)
	fmt.Printf("Done in %s\n", time.Since(p.startTime).Round(time.Millisecond))
}
