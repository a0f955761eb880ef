package ports

// Reloader notifies connected browser sessions that resources changed.
//
//go:generate mockgen -source=reloader.go -destination=mocks/mock_reloader.go -package=mocks
type Reloader interface {
	// Reload tells clients to refresh. paths are URL paths of changed
	// resources; an empty list requests a full page reload.
	Reload(paths []string)
}
