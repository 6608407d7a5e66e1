// Package consistency reconciles identity fields across the files of
// one population run. Generators are unaware of each other and may
// emit contradictory usernames, hostnames, or addresses for the same
// simulated machine; the manager rewrites the batch so those facts
// agree.
package consistency

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"regexp"

	"github.com/decoyhive/decoyhive/pkg/textstat"
	"github.com/decoyhive/decoyhive/pkg/types"
)

// Context keys with a rewrite pass. Arbitrary additional keys may be
// stored for generators to read; only these three drive Apply.
const (
	KeyUsername = "username"
	KeyHostname = "hostname"
	KeyIP       = "ip_address"
)

// Rewrite sites. Matching is structural so prose mentioning a name by
// coincidence is left alone.
var (
	homeDirRe   = regexp.MustCompile(`/home/\w+/`)
	userLineRe  = regexp.MustCompile(`User: \w+`)
	hostRefRe   = regexp.MustCompile(`@[\w\-]+\s`)
	privateIPRe = regexp.MustCompile(`\b192\.168\.\d+\.\d+\b`)
)

// Manager holds the canonical identity values for one population run
// and applies them to a file batch. Lifetime is one populate call; it
// is not safe for concurrent mutation during Apply.
type Manager struct {
	context map[string]string
	logger  *slog.Logger
}

// NewManager creates a manager with empty context. Unset keys fall
// back to fixed defaults at Apply time.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{context: make(map[string]string), logger: logger}
}

// Set records a canonical value, overwriting any previous one.
func (m *Manager) Set(key, value string) {
	m.context[key] = value
	m.logger.Debug("consistency context set", "key", key)
}

// Get returns a recorded value, or def if the key is unset.
func (m *Manager) Get(key, def string) string {
	if v, ok := m.context[key]; ok {
		return v
	}
	return def
}

// Randomize fills the three identity keys with generated values,
// leaving any explicitly Set key alone.
func (m *Manager) Randomize() {
	if _, ok := m.context[KeyUsername]; !ok {
		m.context[KeyUsername] = textstat.RandomUsername()
	}
	if _, ok := m.context[KeyHostname]; !ok {
		m.context[KeyHostname] = textstat.RandomHostname()
	}
	if _, ok := m.context[KeyIP]; !ok {
		// Stay in 192.168.0.0/16, the range the rewrite pass targets.
		m.context[KeyIP] = fmt.Sprintf("192.168.%d.%d", rand.IntN(256), rand.IntN(254)+1)
	}
}

// Apply rewrites the batch in three strictly ordered passes: username,
// hostname, then IP. Later passes read text rewritten by earlier ones.
// Apply is idempotent; a consistent batch comes back unchanged.
func (m *Manager) Apply(files []types.FileSpec) []types.FileSpec {
	files = m.applyUsername(files)
	files = m.applyHostname(files)
	files = m.applyIP(files)
	m.logger.Info("consistency applied", "files", len(files))
	return files
}

func (m *Manager) applyUsername(files []types.FileSpec) []types.FileSpec {
	username := m.Get(KeyUsername, "developer")
	for i := range files {
		c := files[i].Content
		c = homeDirRe.ReplaceAllString(c, fmt.Sprintf("/home/%s/", username))
		c = userLineRe.ReplaceAllString(c, "User: "+username)
		files[i].Content = c
	}
	return files
}

func (m *Manager) applyHostname(files []types.FileSpec) []types.FileSpec {
	hostname := m.Get(KeyHostname, "dev-server-01")
	for i := range files {
		files[i].Content = hostRefRe.ReplaceAllString(files[i].Content, "@"+hostname+" ")
	}
	return files
}

// applyIP rewrites only the first private address per file. Files that
// reference multiple distinct internal hosts keep their later
// addresses varied.
func (m *Manager) applyIP(files []types.FileSpec) []types.FileSpec {
	ip := m.Get(KeyIP, "192.168.1.100")
	for i := range files {
		done := false
		files[i].Content = privateIPRe.ReplaceAllStringFunc(files[i].Content, func(s string) string {
			if done {
				return s
			}
			done = true
			return ip
		})
	}
	return files
}
