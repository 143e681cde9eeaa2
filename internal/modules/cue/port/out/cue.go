package out

import (
	"context"

	"moodooro/internal/modules/cue/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Notify(ctx context.Context, manifest domain.Manifest, event domain.Event) error
}

// Chime is a built-in cue that needs no plugin.
type Chime interface {
	Name() string
	Ring(ctx context.Context, event domain.Event) error
}
