package images

import (
	"context"

	"github.com/chensid/grunt-demo/internal/adapters/fs"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the image optimizer Graft node.
const NodeID graft.ID = "adapter.images"

func init() {
	graft.Register(graft.Node[*Optimizer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.ResolverNodeID},
		Run: func(ctx context.Context) (*Optimizer, error) {
			resolver, err := graft.Dep[ports.FileResolver](ctx)
			if err != nil {
				return nil, err
			}
			return NewOptimizer(resolver), nil
		},
	})
}
