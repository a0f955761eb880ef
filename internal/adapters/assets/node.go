package assets

import (
	"context"

	"github.com/chensid/grunt-demo/internal/adapters/fs"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the asset copier Graft node.
const NodeID graft.ID = "adapter.assets"

func init() {
	graft.Register(graft.Node[*Copier]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.ResolverNodeID},
		Run: func(ctx context.Context) (*Copier, error) {
			resolver, err := graft.Dep[ports.FileResolver](ctx)
			if err != nil {
				return nil, err
			}
			return NewCopier(resolver), nil
		},
	})
}
