package audit

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mikey/sms-guard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderRecent(t *testing.T) {
	r := NewRecorder(3)

	assert.Empty(t, r.Recent(10))

	for i := 0; i < 5; i++ {
		r.Record(&core.Verdict{
			Outcome:      core.OutcomeAllowed,
			Reason:       core.ReasonWhitelisted,
			ProcessingID: fmt.Sprintf("id-%d", i),
		}, fmt.Sprintf("message %d", i))
	}

	lines := r.Recent(10)
	require.Len(t, lines, 3, "ring retains only the newest entries")
	assert.Contains(t, lines[0], "message 2")
	assert.Contains(t, lines[2], "message 4")

	lines = r.Recent(2)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "message 4")
}

func TestRecorderLineFormat(t *testing.T) {
	r := NewRecorder(10)
	r.Record(&core.Verdict{
		Outcome:       core.OutcomeBlocked,
		Reason:        core.ReasonSuspiciousDomain,
		MatchedDomain: "fakewebsite.com",
	}, "Claim now: https://fakewebsite.com")

	lines := r.Recent(1)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "BLOCKED")
	assert.Contains(t, lines[0], "suspicious_domain")
	assert.Contains(t, lines[0], "fakewebsite.com")
}

func TestRecorderPreviewTruncated(t *testing.T) {
	r := NewRecorder(10)
	r.Record(&core.Verdict{Outcome: core.OutcomeAllowed, Reason: core.ReasonAI}, strings.Repeat("x", 300))

	lines := r.Recent(1)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], strings.Repeat("x", previewLen)+"...")
	assert.NotContains(t, lines[0], strings.Repeat("x", previewLen+1))
}
