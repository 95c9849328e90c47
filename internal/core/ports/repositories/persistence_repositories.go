package repositories

import "context"

// Checkpointer serializes the full in-memory store image to its backing
// file. Implementations must single-flight concurrent triggers and must read
// the image as a consistent snapshot with no interleaved mutation.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}
