package filter

import (
	"context"
	"fmt"
	"time"

	"github.com/mikey/sms-guard/internal/core"
	"go.uber.org/zap"
)

// CliFilter implements a command-line interface for message checking
type CliFilter struct {
	service *core.FilterService
	logger  *zap.Logger
	verbose bool
}

// NewCliFilter creates a new CLI filter
func NewCliFilter(service *core.FilterService, logger *zap.Logger, verbose bool) (*CliFilter, error) {
	return &CliFilter{
		service: service,
		logger:  logger,
		verbose: verbose,
	}, nil
}

// Check runs a message through the filter and displays the results
func (f *CliFilter) Check(ctx context.Context, msg *core.Message) (*core.Verdict, error) {
	f.logger.Debug("Checking message", zap.String("sender", msg.SenderID))

	// Print message summary
	fmt.Printf("\n=== Message Summary ===\n")
	if msg.SenderID != "" {
		fmt.Printf("Sender: %s\n", msg.SenderID)
	}
	fmt.Printf("Length: %d bytes\n", len(msg.Text))

	if f.verbose {
		preview := msg.Text
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Printf("\nMessage preview:\n%s\n", preview)
	}

	fmt.Printf("\n=== Analysis ===\n")
	fmt.Printf("Spam threshold: %.2f\n", f.service.Threshold())
	startTime := time.Now()
	verdict, err := f.service.CheckMessage(ctx, msg)
	if err != nil {
		f.logger.Error("Failed to check message", zap.Error(err))
		fmt.Printf("Error: %v\n", err)
		return nil, err
	}
	duration := time.Since(startTime)

	// Print results
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Verdict: %s\n", verdict.Outcome)
	fmt.Printf("Reason: %s\n", verdict.Reason)
	if verdict.MatchedDomain != "" {
		fmt.Printf("Matched domain: %s\n", verdict.MatchedDomain)
	}
	if verdict.Category != "" {
		fmt.Printf("Category: %s\n", verdict.Category)
	}
	if verdict.Confidence != nil {
		fmt.Printf("Confidence: %.2f\n", *verdict.Confidence)
	}
	fmt.Printf("Processing time: %v\n", duration)

	return verdict, nil
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}
