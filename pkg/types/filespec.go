package types

import (
	"io/fs"
	"time"
)

// FileSpec describes one file in a population batch before deployment.
type FileSpec struct {
	Path        string      `json:"path"`
	Content     string      `json:"content"`
	Permissions fs.FileMode `json:"permissions"`
	// Timestamp backdates the deployed file; nil means the deployer
	// picks a random time within the last year.
	Timestamp *time.Time `json:"timestamp,omitempty"`
}
