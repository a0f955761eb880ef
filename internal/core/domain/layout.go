package domain

import "path/filepath"

const (
	// SiteDirName is the name of the internal metadata directory.
	SiteDirName = ".site"
	// StoreDirName is the name of the build info store directory.
	StoreDirName = "store"
	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "site.yaml"
	// PackageFileName is the name of the project metadata file injected into templates.
	PackageFileName = "package.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750
	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStorePath returns the default path for the build info store.
// It joins .site and store.
func DefaultStorePath() string {
	return filepath.Join(SiteDirName, StoreDirName)
}
