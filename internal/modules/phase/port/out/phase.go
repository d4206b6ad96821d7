package out

import "context"

// ReferenceResolver turns a phase citation key into a full literature
// reference. Implementations may call out of process.
type ReferenceResolver interface {
	Resolve(ctx context.Context, citationKey string) (string, error)
}
