package lint

import (
	"context"

	"github.com/chensid/grunt-demo/internal/adapters/fs"
	"github.com/chensid/grunt-demo/internal/adapters/shell"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the linter Graft node.
const NodeID graft.ID = "adapter.lint"

func init() {
	graft.Register(graft.Node[*Linter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, fs.ResolverNodeID},
		Run: func(ctx context.Context) (*Linter, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[ports.FileResolver](ctx)
			if err != nil {
				return nil, err
			}
			return NewLinter(executor, resolver), nil
		},
	})
}
