package domain

import "context"

// PageConverter turns a single page image into a LaTeX fragment.
// The role tells the backend which structural markers the fragment must carry.
type PageConverter interface {
	Convert(ctx context.Context, image PageImage, role PageRole) (string, error)
}

// ArtifactStore persists assembled LaTeX keyed by document id.
type ArtifactStore interface {
	Put(ctx context.Context, id string, text string) error
	Get(ctx context.Context, id string) (string, error)
}
