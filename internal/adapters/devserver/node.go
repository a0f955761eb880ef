package devserver

import (
	"context"

	"github.com/chensid/grunt-demo/internal/adapters/logger"
	"github.com/chensid/grunt-demo/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the dev server Graft node.
const NodeID graft.ID = "adapter.devserver"

func init() {
	graft.Register(graft.Node[*Server]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Server, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewServer(log), nil
		},
	})
}
