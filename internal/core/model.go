package core

import (
	"time"
)

// Message represents a single inbound SMS to be checked
type Message struct {
	Text     string
	SenderID string
}

// Outcome is the final allow/block decision for a message
type Outcome string

const (
	OutcomeAllowed Outcome = "allowed"
	OutcomeBlocked Outcome = "blocked"
)

// Reason identifies which stage of the filter produced the verdict
type Reason string

const (
	ReasonEmptyMessage     Reason = "empty_message"
	ReasonWhitelisted      Reason = "whitelisted"
	ReasonSuspiciousDomain Reason = "suspicious_domain"
	ReasonAI               Reason = "ai"
	ReasonAILowConfidence  Reason = "ai_low_confidence"
)

// Verdict is the result of running a message through the filter pipeline.
// MatchedDomain is set only for suspicious_domain verdicts; Category only
// when the classifier returned a non-spam label; Confidence only when the
// classifier stage was reached.
type Verdict struct {
	Outcome       Outcome  `json:"verdict"`
	Reason        Reason   `json:"reason"`
	MatchedDomain string   `json:"matched_domain,omitempty"`
	Category      string   `json:"category,omitempty"`
	Confidence    *float64 `json:"confidence,omitempty"`
	ProcessingID  string   `json:"-"`
}

// Classification represents the result of the category classifier
type Classification struct {
	Category     string
	Confidence   float64
	ModelUsed    string
	ClassifiedAt time.Time
}

type CacheEntry struct {
	TextKey    string
	Category   string
	Confidence float64
	LastSeen   time.Time
	ExpiresAt  time.Time
}
