package ports

// Hasher defines the interface for computing hashes.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Hasher interface {
	// ComputeInputHash computes a single hash over a task name and the content of its inputs.
	ComputeInputHash(taskName string, inputs []string, root string) (string, error)
	// ComputeOutputHash computes the hash of the output files.
	// It fails if any output is missing.
	ComputeOutputHash(outputs []string, root string) (string, error)
	// ComputeFileHash computes the hash of a single file's content.
	ComputeFileHash(path string) (uint64, error)
}
