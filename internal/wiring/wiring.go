// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/chensid/grunt-demo/internal/adapters/assets"
	_ "github.com/chensid/grunt-demo/internal/adapters/cas"
	_ "github.com/chensid/grunt-demo/internal/adapters/cleaner"
	_ "github.com/chensid/grunt-demo/internal/adapters/concat"
	_ "github.com/chensid/grunt-demo/internal/adapters/config"
	_ "github.com/chensid/grunt-demo/internal/adapters/devserver"
	_ "github.com/chensid/grunt-demo/internal/adapters/fs"
	_ "github.com/chensid/grunt-demo/internal/adapters/images"
	_ "github.com/chensid/grunt-demo/internal/adapters/lint"
	_ "github.com/chensid/grunt-demo/internal/adapters/logger"
	_ "github.com/chensid/grunt-demo/internal/adapters/minify"
	_ "github.com/chensid/grunt-demo/internal/adapters/publish"
	_ "github.com/chensid/grunt-demo/internal/adapters/scripts"
	_ "github.com/chensid/grunt-demo/internal/adapters/shell"
	_ "github.com/chensid/grunt-demo/internal/adapters/styles"
	_ "github.com/chensid/grunt-demo/internal/adapters/templates"
	_ "github.com/chensid/grunt-demo/internal/adapters/useref"
	_ "github.com/chensid/grunt-demo/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "github.com/chensid/grunt-demo/internal/app"
	_ "github.com/chensid/grunt-demo/internal/engine/scheduler"
)
