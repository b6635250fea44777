package rules

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mikey/sms-guard/internal/textutil"
	"go.uber.org/zap"
)

// Blocklist holds known-malicious domain substrings. Like the whitelist it
// is immutable after construction.
type Blocklist struct {
	domains []string
	logger  *zap.Logger
}

// NewBlocklist creates a blocklist from the given domain substrings
func NewBlocklist(domains []string, logger *zap.Logger) *Blocklist {
	b := &Blocklist{
		domains: normalizeEntries(domains),
		logger:  logger,
	}

	if logger != nil {
		logger.Info("Initialized blocklist", zap.Int("domains", len(b.domains)))
	}

	return b
}

// LoadBlocklist reads a blocklist from a plain-text file, one entry per
// line. Blank lines and lines starting with '#' are skipped.
func LoadBlocklist(path string, logger *zap.Logger) (*Blocklist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open blocklist file %s: %w", path, err)
	}
	defer f.Close()

	var domains []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains = append(domains, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read blocklist file %s: %w", path, err)
	}

	return NewBlocklist(domains, logger), nil
}

// Match extracts all URL hostnames from the text and returns the first one
// (in extraction order) that contains a blocklisted substring. The matched
// hostname is returned for audit, not the blocklist entry.
func (b *Blocklist) Match(text string) (string, bool) {
	for _, domain := range textutil.ExtractDomains(text) {
		for _, blocked := range b.domains {
			if strings.Contains(domain, blocked) {
				if b.logger != nil {
					b.logger.Debug("Blocklist domain matched",
						zap.String("domain", domain),
						zap.String("blocked", blocked))
				}
				return domain, true
			}
		}
	}
	return "", false
}

// DefaultBlockedDomains is the built-in blocklist used when no blocklist
// file is configured.
func DefaultBlockedDomains() []string {
	return []string{
		"secure-update.cards",
		"winfreecash.com",
		"get-rich-fast.biz",
		"confirm-payee.click",
		"iphone14winner.com",
		"fakewebsite.com",
		"login-now-security.xyz",
		"netflix-support.com",
		"urgentupdate.co",
		"verify-now.online",
	}
}
