package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mikey/sms-guard/internal/rules"
	"github.com/mikey/sms-guard/internal/textutil"
	"github.com/oklog/ulid"
	"go.uber.org/zap"
)

// MaxMessageLength is the maximum accepted message length in characters,
// measured on the trimmed original-case text.
const MaxMessageLength = 1200

// spamCategory is the classifier label that is enforced as a block when
// confidence reaches the threshold.
const spamCategory = "spam"

var (
	// ErrMessageTooLong is returned when a message exceeds MaxMessageLength
	ErrMessageTooLong = errors.New("message exceeds maximum length")

	// ErrClassifierUnavailable is returned when the classifier fails. It is
	// never downgraded to an allow or block verdict.
	ErrClassifierUnavailable = errors.New("classifier unavailable")
)

// FilterService runs the decision cascade for inbound messages: validation,
// whitelist, blocklist, then the statistical classifier. All shared state is
// read-only after construction, so concurrent calls are safe as long as the
// injected Classifier is itself safe for concurrent use.
type FilterService struct {
	classifier   Classifier
	cache        ClassificationCache
	whitelist    *rules.Whitelist
	blocklist    *rules.Blocklist
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
	threshold    float64
}

// NewFilterService creates a new message filter service
func NewFilterService(
	classifier Classifier,
	cache ClassificationCache,
	whitelist *rules.Whitelist,
	blocklist *rules.Blocklist,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
	threshold float64,
) *FilterService {
	return &FilterService{
		classifier:   classifier,
		cache:        cache,
		whitelist:    whitelist,
		blocklist:    blocklist,
		logger:       logger,
		cacheEnabled: cacheEnabled,
		cacheTTL:     cacheTTL,
		threshold:    threshold,
	}
}

// Threshold returns the configured spam confidence threshold
func (s *FilterService) Threshold() float64 {
	return s.threshold
}

// CheckMessage runs a message through the filter cascade and returns a
// verdict. A classifier failure is returned as an error wrapping
// ErrClassifierUnavailable rather than a verdict.
func (s *FilterService) CheckMessage(ctx context.Context, msg *Message) (*Verdict, error) {
	id := newProcessingID()

	trimmed := strings.TrimSpace(msg.Text)
	if trimmed == "" {
		s.logger.Warn("Rejected empty message", zap.String("processing_id", id))
		return &Verdict{Outcome: OutcomeBlocked, Reason: ReasonEmptyMessage, ProcessingID: id}, nil
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageLength {
		s.logger.Warn("Rejected over-length message",
			zap.String("processing_id", id),
			zap.Int("length", utf8.RuneCountInString(trimmed)))
		return nil, ErrMessageTooLong
	}

	normalized := textutil.Normalize(trimmed)

	if s.whitelist.Matches(normalized, msg.SenderID) {
		s.logger.Info("Message whitelisted",
			zap.String("processing_id", id),
			zap.String("sender", msg.SenderID))
		return &Verdict{Outcome: OutcomeAllowed, Reason: ReasonWhitelisted, ProcessingID: id}, nil
	}

	if domain, ok := s.blocklist.Match(normalized); ok {
		s.logger.Info("Message matched blocklist",
			zap.String("processing_id", id),
			zap.String("matched_domain", domain))
		return &Verdict{
			Outcome:       OutcomeBlocked,
			Reason:        ReasonSuspiciousDomain,
			MatchedDomain: domain,
			ProcessingID:  id,
		}, nil
	}

	result, err := s.classify(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}

	category := strings.ToLower(result.Category)
	confidence := roundConfidence(result.Confidence)

	verdict := &Verdict{Outcome: OutcomeAllowed, Reason: ReasonAI, Confidence: &confidence, ProcessingID: id}
	if category == spamCategory {
		// Comparison is inclusive at the threshold: confidence equal to the
		// threshold blocks.
		if confidence >= s.threshold {
			verdict.Outcome = OutcomeBlocked
		} else {
			verdict.Reason = ReasonAILowConfidence
		}
	} else {
		verdict.Category = category
	}

	s.logger.Info("Message classified",
		zap.String("processing_id", id),
		zap.String("category", category),
		zap.Float64("confidence", confidence),
		zap.String("verdict", string(verdict.Outcome)),
		zap.String("reason", string(verdict.Reason)))

	return verdict, nil
}

// classify invokes the classifier for normalized text, consulting and
// updating the cache when enabled.
func (s *FilterService) classify(ctx context.Context, normalized string) (*Classification, error) {
	key := cacheKey(normalized)

	if s.cacheEnabled {
		if cached, ok := s.cache.Get(key); ok {
			s.logger.Debug("Cache hit for message text", zap.String("key", key))
			return cached, nil
		}
	}

	result, err := s.classifier.Classify(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled {
		s.cache.Set(key, result, s.cacheTTL)
	}

	return result, nil
}

// cacheKey derives a fixed-size key from normalized message text
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// roundConfidence rounds to two decimal places for stable verdict output
func roundConfidence(c float64) float64 {
	return math.Round(c*100) / 100
}

// newProcessingID returns a ULID identifying one pass through the pipeline
func newProcessingID() string {
	now := time.Now()
	entropy := rand.New(rand.NewSource(now.UnixNano()))
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}
