package ports

import "context"

// Boundary to the downstream collaborator that persists a submitted line.
// The payload is passed as an opaque JSON-serializable value.
type PayloadPublisher interface {
	Publish(ctx context.Context, key string, payload any) error
}
