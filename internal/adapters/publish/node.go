package publish

import (
	"context"

	"github.com/chensid/grunt-demo/internal/adapters/shell"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the publisher Graft node.
const NodeID graft.ID = "adapter.publish"

func init() {
	graft.Register(graft.Node[*Publisher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (*Publisher, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewPublisher(executor), nil
		},
	})
}
