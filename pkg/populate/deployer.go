// Package populate assembles coherent multi-file honeypot profiles:
// it orchestrates the content generators, embeds and persists
// honeytokens, reconciles identity fields across the batch, and
// deploys the result to disk.
package populate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/decoyhive/decoyhive/pkg/textstat"
	"github.com/decoyhive/decoyhive/pkg/types"
)

// Result reports one population run. Partial success is a valid
// outcome: files that deployed are counted even when others failed.
type Result struct {
	Success      bool     `json:"success"`
	FilesCreated int      `json:"files_created"`
	TokensIssued int      `json:"tokens_issued"`
	Errors       []string `json:"errors,omitempty"`
	HoneypotPath string   `json:"honeypot_path,omitempty"`
}

// Deployer writes file specs under a base path with realistic
// attributes: requested permissions and a backdated timestamp when
// the spec does not pin one.
type Deployer struct {
	basePath string
	logger   *slog.Logger
}

// NewDeployer creates a deployer rooted at basePath, creating it if
// needed.
func NewDeployer(basePath string, logger *slog.Logger) (*Deployer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create base path: %w", err)
	}
	return &Deployer{basePath: basePath, logger: logger}, nil
}

// Deploy writes the batch under basePath/honeypotID. Failures are
// collected per file; the rest of the batch still deploys.
func (d *Deployer) Deploy(honeypotID string, files []types.FileSpec) *Result {
	res := &Result{HoneypotPath: filepath.Join(d.basePath, honeypotID)}
	if len(files) == 0 {
		res.Errors = append(res.Errors, "no files to deploy")
		return res
	}
	if err := os.MkdirAll(res.HoneypotPath, 0o755); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("create honeypot dir: %v", err))
		return res
	}

	for _, f := range files {
		if err := d.deployFile(res.HoneypotPath, f); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("deploy %s: %v", f.Path, err))
			d.logger.Error("file deployment failed", "path", f.Path, "error", err)
			continue
		}
		res.FilesCreated++
	}

	res.Success = len(res.Errors) == 0
	d.logger.Info("population deployed",
		"honeypot_id", honeypotID,
		"files_created", res.FilesCreated,
		"errors", len(res.Errors))
	return res
}

func (d *Deployer) deployFile(root string, f types.FileSpec) error {
	if !filepath.IsLocal(f.Path) {
		return fmt.Errorf("path escapes honeypot root")
	}
	path := filepath.Join(root, f.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent: %w", err)
	}

	perm := f.Permissions
	if perm == 0 {
		perm = 0o644
	}
	if err := os.WriteFile(path, []byte(f.Content), perm); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	// WriteFile's mode is filtered by the umask.
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}

	// A freshly-written mtime on every file is a honeypot tell.
	ts := textstat.RandomTime(time.Time{}, time.Time{})
	if f.Timestamp != nil {
		ts = *f.Timestamp
	}
	if err := os.Chtimes(path, ts, ts); err != nil {
		return fmt.Errorf("set timestamp: %w", err)
	}

	d.logger.Debug("file deployed",
		"path", path, "size", len(f.Content), "permissions", perm)
	return nil
}
