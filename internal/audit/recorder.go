package audit

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mikey/sms-guard/internal/core"
)

// previewLen caps how much message text is retained per audit entry
const previewLen = 100

// Entry is one recorded verdict
type Entry struct {
	Time          time.Time
	ProcessingID  string
	Outcome       core.Outcome
	Reason        core.Reason
	MatchedDomain string
	Preview       string
}

// String formats an entry as a single audit line
func (e Entry) String() string {
	line := fmt.Sprintf("%s | %s | %s | %s",
		e.Time.Format(time.RFC3339),
		strings.ToUpper(string(e.Outcome)),
		e.Reason,
		e.Preview)
	if e.MatchedDomain != "" {
		line += " | " + e.MatchedDomain
	}
	return line
}

// Recorder retains the most recent verdicts in a fixed-size ring so they can
// be served without touching log files. Safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
}

// NewRecorder creates a recorder retaining up to capacity entries
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 50
	}
	return &Recorder{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

// Record appends a verdict to the ring, evicting the oldest entry when full
func (r *Recorder) Record(verdict *core.Verdict, text string) {
	entry := Entry{
		Time:          time.Now(),
		ProcessingID:  verdict.ProcessingID,
		Outcome:       verdict.Outcome,
		Reason:        verdict.Reason,
		MatchedDomain: verdict.MatchedDomain,
		Preview:       preview(text),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == r.capacity {
		copy(r.entries, r.entries[1:])
		r.entries[len(r.entries)-1] = entry
		return
	}
	r.entries = append(r.entries, entry)
}

// Recent returns up to n formatted audit lines, oldest first
func (r *Recorder) Recent(n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n <= 0 || n > len(r.entries) {
		n = len(r.entries)
	}

	lines := make([]string, 0, n)
	for _, e := range r.entries[len(r.entries)-n:] {
		lines = append(lines, e.String())
	}
	return lines
}

// preview truncates message text on a rune boundary for audit retention
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLen {
		return text
	}
	return string(runes[:previewLen]) + "..."
}
