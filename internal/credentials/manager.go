package credentials

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	internalerrors "github.com/skai-it/trello-mcp-server/internal/errors"
)

// cachedPair is a credential pair with its acquisition time.
type cachedPair struct {
	creds      Credentials
	acquiredAt time.Time
}

// Manager resolves credentials through an ordered chain of tiers and owns
// the single session cache slot. It is safe for concurrent use.
type Manager struct {
	ttl         time.Duration
	provisioned Credentials
	prompter    Prompter
	logger      *zap.Logger

	// now is swappable for tests.
	now func() time.Time

	// mu guards cached.
	mu     sync.RWMutex
	cached *cachedPair

	// acquireMu serializes interactive acquisition so only one prompt is
	// active at a time; concurrent resolvers queue behind it and re-check
	// the cache once they hold the lock.
	acquireMu sync.Mutex
}

// resolverTier attempts one resolution strategy. It returns the resolved
// pair and true on success, or false to pass to the next tier. A non-nil
// error aborts the chain.
type resolverTier func(ctx context.Context) (Credentials, bool, error)

// NewManager creates a credential manager.
//
// Parameters:
//   - ttl: how long a cached pair stays valid (e.g., 8 hours)
//   - provisioned: pre-provisioned pair from configuration; may be zero
//   - prompter: interactive acquisition collaborator
func NewManager(ttl time.Duration, provisioned Credentials, prompter Prompter, logger *zap.Logger) *Manager {
	if prompter == nil {
		panic("prompter cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		ttl:         ttl,
		provisioned: provisioned.Trimmed(),
		prompter:    prompter,
		logger:      logger.With(zap.String("component", "credentials")),
		now:         time.Now,
	}
}

// Resolve returns a usable credential pair, trying in order: the explicit
// pair, the session cache, pre-provisioned configuration, and the
// interactive prompt. Fails with ErrAuthRequired only when interactive
// acquisition is unavailable or aborted.
//
// A valid explicit pair is used as-is and never written to the cache.
func (m *Manager) Resolve(ctx context.Context, explicit *Credentials) (Credentials, error) {
	tiers := []resolverTier{
		m.fromExplicit(explicit),
		m.fromCache,
		m.fromProvisioned,
		m.fromPrompt,
	}

	for _, tier := range tiers {
		creds, ok, err := tier(ctx)
		if err != nil {
			return Credentials{}, err
		}
		if ok {
			return creds, nil
		}
	}

	// Unreachable: fromPrompt either resolves or errors.
	return Credentials{}, internalerrors.New("credentials", "Resolve", internalerrors.ErrAuthRequired, nil)
}

// fromExplicit uses the caller-supplied pair when present and valid.
func (m *Manager) fromExplicit(explicit *Credentials) resolverTier {
	return func(ctx context.Context) (Credentials, bool, error) {
		if explicit == nil || explicit.IsZero() {
			return Credentials{}, false, nil
		}
		trimmed := explicit.Trimmed()
		if err := trimmed.Validate(); err != nil {
			return Credentials{}, false, err
		}
		m.logger.Debug("using explicit credentials")
		return trimmed, true, nil
	}
}

// fromCache returns the cached pair when it has not expired.
func (m *Manager) fromCache(ctx context.Context) (Credentials, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.cached == nil {
		return Credentials{}, false, nil
	}
	if m.now().Sub(m.cached.acquiredAt) >= m.ttl {
		m.logger.Info("cached credentials expired")
		return Credentials{}, false, nil
	}
	m.logger.Debug("using cached credentials from session")
	return m.cached.creds, true, nil
}

// fromProvisioned caches and returns the pre-provisioned pair when both
// values were configured and pass validation.
func (m *Manager) fromProvisioned(ctx context.Context) (Credentials, bool, error) {
	if m.provisioned.IsZero() {
		return Credentials{}, false, nil
	}
	if err := m.provisioned.Validate(); err != nil {
		m.logger.Warn("pre-provisioned credentials are invalid, ignoring")
		return Credentials{}, false, nil
	}
	m.logger.Info("using pre-provisioned credentials from configuration")
	m.cache(m.provisioned)
	return m.provisioned, true, nil
}

// fromPrompt acquires a pair interactively. Acquisition is single-flight:
// whoever holds acquireMu prompts; everyone else waits and re-checks the
// cache instead of issuing a duplicate prompt.
func (m *Manager) fromPrompt(ctx context.Context) (Credentials, bool, error) {
	m.acquireMu.Lock()
	defer m.acquireMu.Unlock()

	// Another request may have completed acquisition while we waited.
	if creds, ok, _ := m.fromCache(ctx); ok {
		return creds, true, nil
	}

	m.logger.Info("no credentials provided or cached, prompting user to login")

	creds, err := m.prompter.PromptForCredentials(ctx, LoginURL)
	if err != nil {
		return Credentials{}, false, err
	}

	creds = creds.Trimmed()
	if err := creds.Validate(); err != nil {
		return Credentials{}, false, internalerrors.New("credentials", "Resolve",
			internalerrors.ErrAuthRequired, fmt.Errorf("prompted credentials failed validation"))
	}

	m.cache(creds)
	return creds, true, nil
}

// cache stores the pair with acquiredAt set to now.
func (m *Manager) cache(creds Credentials) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cached = &cachedPair{creds: creds, acquiredAt: m.now()}
	m.logger.Info("credentials cached for session")
}

// Clear wipes the cached pair. Called on logout and when the Trello API
// rejects the pair, forcing re-resolution on the next call.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cached = nil
	m.logger.Info("credentials cleared")
}

// SessionInfo describes the current credential session.
type SessionInfo struct {
	// HasCachedCredentials reports whether a non-expired pair is cached.
	HasCachedCredentials bool `json:"has_cached_credentials"`

	// CacheTTLMinutes is the configured cache duration in minutes.
	CacheTTLMinutes int `json:"cache_duration_minutes"`

	// AcquiredAt is when the cached pair was stored, if any.
	AcquiredAt *time.Time `json:"credentials_timestamp,omitempty"`

	// LoginURL is where a user obtains credentials.
	LoginURL string `json:"login_url"`
}

// SessionInfo returns information about the current session.
func (m *Manager) SessionInfo() SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info := SessionInfo{
		CacheTTLMinutes: int(m.ttl.Minutes()),
		LoginURL:        LoginURL,
	}
	if m.cached != nil && m.now().Sub(m.cached.acquiredAt) < m.ttl {
		info.HasCachedCredentials = true
		at := m.cached.acquiredAt
		info.AcquiredAt = &at
	}
	return info
}
