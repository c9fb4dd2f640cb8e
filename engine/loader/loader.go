package loader

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-beeb/engine/game_object"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeOBJ selects the Wavefront OBJ loader backend.
	BackendTypeOBJ LoaderBackendType = iota
)

// Loaders defines the asset readers the pipeline is built on. Every method blocks until the
// asset is available or fails.
type Loaders interface {
	// LoadTexture decodes an image asset into a texture. Repeated loads of the same path
	// return the same texture.
	//
	// Parameters:
	//   - ctx: cancels the load
	//   - p: the asset path
	//
	// Returns:
	//   - *texture.Texture: the decoded texture
	//   - error: error if the asset is missing or cannot be decoded
	LoadTexture(ctx context.Context, p string) (*texture.Texture, error)

	// LoadMaterials parses a Wavefront material library. Texture maps named by the library
	// are resolved through LoadTexture relative to the library's directory.
	//
	// Parameters:
	//   - ctx: cancels the load
	//   - p: the asset path
	//
	// Returns:
	//   - *MaterialLibrary: the parsed library
	//   - error: error if the asset is missing or malformed
	LoadMaterials(ctx context.Context, p string) (*MaterialLibrary, error)

	// LoadText reads a text asset.
	//
	// Parameters:
	//   - ctx: cancels the load
	//   - p: the asset path
	//
	// Returns:
	//   - string: the asset contents
	//   - error: error if the asset is missing
	LoadText(ctx context.Context, p string) (string, error)

	// LoadModel imports a model and returns a node tree whose children are the model's objects.
	// Materials are taken from lib. Each call returns a fresh tree.
	//
	// Parameters:
	//   - ctx: cancels the load
	//   - p: the asset path
	//   - lib: the material library the model's usemtl statements refer to, may be nil
	//
	// Returns:
	//   - game_object.GameObject: the model root
	//   - error: error if the asset is missing or malformed
	LoadModel(ctx context.Context, p string, lib *MaterialLibrary) (game_object.GameObject, error)
}

// fsLoaders is the implementation of the Loaders interface over an fs.FS.
type fsLoaders struct {
	mu sync.RWMutex

	fsys         fs.FS
	textureCache map[string]*texture.Texture
	backends     map[LoaderBackendType]loaderBackend
}

var _ Loaders = &fsLoaders{}

// NewFSLoaders creates the default Loaders reading from a deployment root.
//
// Parameters:
//   - fsys: the asset root, for example os.DirFS of the deployment directory
//
// Returns:
//   - Loaders: the loaders
func NewFSLoaders(fsys fs.FS) Loaders {
	return &fsLoaders{
		fsys:         fsys,
		textureCache: make(map[string]*texture.Texture),
		backends: map[LoaderBackendType]loaderBackend{
			BackendTypeOBJ: &objLoaderBackend{},
		},
	}
}

func (l *fsLoaders) LoadTexture(ctx context.Context, p string) (*texture.Texture, error) {
	l.mu.RLock()
	tex, ok := l.textureCache[p]
	l.mu.RUnlock()
	if ok {
		return tex, nil
	}

	f, err := l.open(ctx, p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tex, err = texture.Decode(f, p)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.textureCache[p]; ok {
		return cached, nil
	}
	l.textureCache[p] = tex
	log.Debugf("[Loader] decoded texture %s (%dx%d)", p, tex.Width(), tex.Height())
	return tex, nil
}

func (l *fsLoaders) LoadMaterials(ctx context.Context, p string) (*MaterialLibrary, error) {
	f, err := l.open(ctx, p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	infos, err := parseMTL(f, p)
	if err != nil {
		return nil, err
	}
	return newMaterialLibrary(p, infos, l.LoadTexture), nil
}

func (l *fsLoaders) LoadText(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", p, err)
	}
	return string(b), nil
}

func (l *fsLoaders) LoadModel(ctx context.Context, p string, lib *MaterialLibrary) (game_object.GameObject, error) {
	backend, err := l.backendFor(p)
	if err != nil {
		return nil, err
	}

	f, err := l.open(ctx, p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root, err := backend.LoadReader(ctx, f, p, lib)
	if err != nil {
		return nil, err
	}
	log.Debugf("[Loader] loaded model %s (%d objects)", p, len(root.Children()))
	return root, nil
}

func (l *fsLoaders) open(ctx context.Context, p string) (fs.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := l.fsys.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", p, err)
	}
	return f, nil
}

func (l *fsLoaders) backendFor(p string) (loaderBackend, error) {
	var bt LoaderBackendType
	switch strings.ToLower(path.Ext(p)) {
	case ".obj":
		bt = BackendTypeOBJ
	default:
		return nil, fmt.Errorf("unsupported model format: %s", p)
	}
	return l.backends[bt], nil
}

// objLoaderBackend reads Wavefront OBJ streams.
type objLoaderBackend struct{}

var _ loaderBackend = &objLoaderBackend{}

func (b *objLoaderBackend) LoadReader(ctx context.Context, r io.Reader, name string, lib *MaterialLibrary) (game_object.GameObject, error) {
	return parseOBJ(ctx, r, name, lib)
}
