package concat

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the concatenator Graft node.
const NodeID graft.ID = "adapter.concat"

func init() {
	graft.Register(graft.Node[*Concatenator]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Concatenator, error) {
			return NewConcatenator(), nil
		},
	})
}
