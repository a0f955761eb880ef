package cleaner

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the cleaner Graft node.
const NodeID graft.ID = "adapter.cleaner"

func init() {
	graft.Register(graft.Node[*Cleaner]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Cleaner, error) {
			return NewCleaner(), nil
		},
	})
}
