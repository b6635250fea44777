package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mikey/sms-guard/internal/textutil"
	"go.uber.org/zap"
)

// Whitelist holds the phrases, domain substrings and sender IDs that exempt
// a message from blocking. Entries are normalized once at construction and
// the set is read-only afterwards, so concurrent matching needs no locking.
type Whitelist struct {
	phrases []string
	domains []string
	senders map[string]struct{}
	logger  *zap.Logger
}

// whitelistFile is the on-disk JSON shape of the whitelist
type whitelistFile struct {
	Phrases []string `json:"phrases"`
	Domains []string `json:"domains"`
	Senders []string `json:"senders"`
}

// NewWhitelist creates a whitelist from the given entries. Phrases and
// domains are lowercased for case-insensitive matching; sender IDs are
// matched exactly as configured.
func NewWhitelist(phrases, domains, senders []string, logger *zap.Logger) *Whitelist {
	w := &Whitelist{
		phrases: normalizeEntries(phrases),
		domains: normalizeEntries(domains),
		senders: make(map[string]struct{}, len(senders)),
		logger:  logger,
	}
	for _, s := range senders {
		s = strings.TrimSpace(s)
		if s != "" {
			w.senders[s] = struct{}{}
		}
	}

	if logger != nil {
		logger.Info("Initialized whitelist",
			zap.Int("phrases", len(w.phrases)),
			zap.Int("domains", len(w.domains)),
			zap.Int("senders", len(w.senders)))
	}

	return w
}

// LoadWhitelist reads a whitelist from a JSON file. The file is required;
// a missing or malformed file is an error so the caller can refuse to start.
func LoadWhitelist(path string, logger *zap.Logger) (*Whitelist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read whitelist file %s: %w", path, err)
	}

	var wf whitelistFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("failed to parse whitelist file %s: %w", path, err)
	}

	return NewWhitelist(wf.Phrases, wf.Domains, wf.Senders, logger), nil
}

// Matches reports whether the message is exempt from blocking. Text must
// already be normalized (lowercased); senderID may be empty.
func (w *Whitelist) Matches(text, senderID string) bool {
	for _, phrase := range w.phrases {
		if strings.Contains(text, phrase) {
			if w.logger != nil {
				w.logger.Debug("Whitelist phrase matched", zap.String("phrase", phrase))
			}
			return true
		}
	}

	for _, domain := range textutil.ExtractDomains(text) {
		for _, allowed := range w.domains {
			if strings.Contains(domain, allowed) {
				if w.logger != nil {
					w.logger.Debug("Whitelist domain matched",
						zap.String("domain", domain),
						zap.String("allowed", allowed))
				}
				return true
			}
		}
	}

	if senderID != "" {
		if _, ok := w.senders[senderID]; ok {
			if w.logger != nil {
				w.logger.Debug("Whitelist sender matched", zap.String("sender", senderID))
			}
			return true
		}
	}

	return false
}

// normalizeEntries lowercases and trims entries, dropping empty ones
func normalizeEntries(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
