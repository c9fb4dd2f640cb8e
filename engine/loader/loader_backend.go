package loader

import (
	"context"
	"io"

	"github.com/Carmen-Shannon/oxy-beeb/engine/game_object"
)

// loaderBackend defines the generic interface for loading models from streams.
// Concrete implementations (e.g., objLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// LoadReader imports a model from a reader stream.
	//
	// Parameters:
	//   - ctx: cancels the import
	//   - r: the reader providing model data
	//   - name: the asset path, used for the root node name and error messages
	//   - lib: the material library to resolve material names against, may be nil
	//
	// Returns:
	//   - game_object.GameObject: the model root with one child per object
	//   - error: error if loading fails
	LoadReader(ctx context.Context, r io.Reader, name string, lib *MaterialLibrary) (game_object.GameObject, error)
}
