package ports

import "github.com/chensid/grunt-demo/internal/core/domain"

// ConfigLoader defines the interface for loading the site configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration for the project rooted at root.
	// A project without a config file gets the default layout.
	Load(root string) (domain.Config, error)
}
