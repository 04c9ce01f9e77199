package repositories

import "context"

// AudioStore abstracts the binary object storage collaborator holding
// uploaded recordings.
type AudioStore interface {
	// ResolveURL resolves an opaque audio reference to a fetchable URL.
	ResolveURL(ctx context.Context, audioRef string) (string, error)
	// Fetch downloads the audio bytes behind the URL.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
