package scripts

import (
	"context"

	"github.com/chensid/grunt-demo/internal/adapters/fs"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the script transpiler Graft node.
const NodeID graft.ID = "adapter.scripts"

func init() {
	graft.Register(graft.Node[*Transpiler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.ResolverNodeID},
		Run: func(ctx context.Context) (*Transpiler, error) {
			resolver, err := graft.Dep[ports.FileResolver](ctx)
			if err != nil {
				return nil, err
			}
			return NewTranspiler(resolver), nil
		},
	})
}
