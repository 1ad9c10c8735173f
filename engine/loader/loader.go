// Package loader turns OBJ+MTL and glTF assets into GPU-ready models. Bytes come from an
// asset.Source, geometry is interleaved by model.BuildVertices, materials are bound by a
// material.Builder and buffers are created through a renderer.Allocator.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/asset"
	"github.com/Carmen-Shannon/oxy-assets/engine/model"
	"github.com/Carmen-Shannon/oxy-assets/engine/profiler"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer/material"

	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// Asset is anything Load returns: a *model.Model or a *model.GLTFModel.
type Asset interface {
	Release()
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	source    asset.Source
	text      asset.TextReader
	allocator renderer.Allocator
	decoder   renderer.TextureDecoder
	layout    *wgpu.BindGroupLayoutDescriptor
	materials material.Builder
	profiler  *profiler.Profiler
	logger    *zap.Logger

	workers int
	poolMu  sync.Mutex
	pool    worker.DynamicWorkerPool

	cacheEnabled bool
	modelCache   map[string]*model.Model
	gltfCache    map[string]*model.GLTFModel
}

// Loader defines the public-facing interface for loading 3D assets into GPU resources.
// Every load either returns a complete aggregate or an error; on error every GPU resource
// created during that load has already been released.
type Loader interface {
	// LoadModel loads an OBJ file with its MTL libraries and diffuse textures.
	//
	// Parameters:
	//   - ctx: context threaded into every retrieval
	//   - name: the OBJ asset name
	//
	// Returns:
	//   - *model.Model: the model, owned by the caller unless caching is enabled
	//   - error: a wrapped common error kind on failure
	LoadModel(ctx context.Context, name string) (*model.Model, error)

	// LoadGLTF loads a .gltf or .glb asset.
	//
	// Parameters:
	//   - ctx: context threaded into every retrieval
	//   - name: the glTF asset name
	//
	// Returns:
	//   - *model.GLTFModel: the model, owned by the caller unless caching is enabled
	//   - error: a wrapped common error kind on failure
	LoadGLTF(ctx context.Context, name string) (*model.GLTFModel, error)

	// LoadTexture loads and decodes a single image file.
	//
	// Parameters:
	//   - ctx: context threaded into the retrieval
	//   - name: the image asset name; its extension is the format hint
	//
	// Returns:
	//   - *renderer.Texture: the texture, owned by the caller
	//   - error: on retrieval or decode failure
	LoadTexture(ctx context.Context, name string) (*renderer.Texture, error)

	// Load picks LoadModel or LoadGLTF by extension (.obj, .gltf, .glb).
	//
	// Parameters:
	//   - ctx: context threaded into every retrieval
	//   - name: the asset name
	//
	// Returns:
	//   - Asset: a *model.Model or *model.GLTFModel
	//   - error: ErrUnsupportedFormat for any other extension, or the load error
	Load(ctx context.Context, name string) (Asset, error)

	// Source returns the asset source the loader reads from.
	Source() asset.Source

	// Release frees every cached model and stops the texture fetch workers. Models returned
	// while caching was enabled must not be used afterwards. The loader stays usable.
	Release()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader. WithSource, WithAllocator and WithDecoder are required.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the configured loader
//   - error: if a required collaborator is missing or the layout is invalid
func NewLoader(options ...LoaderBuilderOption) (Loader, error) {
	l := &loader{
		logger:     zap.NewNop(),
		workers:    1,
		modelCache: make(map[string]*model.Model),
		gltfCache:  make(map[string]*model.GLTFModel),
	}
	for _, option := range options {
		option(l)
	}

	if l.source == nil {
		return nil, errors.New("loader: no asset source")
	}
	if l.allocator == nil {
		return nil, errors.New("loader: no allocator")
	}
	if l.decoder == nil {
		return nil, errors.New("loader: no texture decoder")
	}
	if l.layout == nil {
		l.layout = renderer.TextureBindGroupLayout("texture_bind_group_layout")
	}
	if err := renderer.ValidateTextureLayout(l.layout); err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}

	l.text = asset.TextReader{Source: l.source}
	mb, err := material.NewBuilder(
		material.WithDecoder(l.decoder),
		material.WithAllocator(l.allocator),
		material.WithLayout(l.layout),
		material.WithLogger(l.logger),
	)
	if err != nil {
		return nil, err
	}
	l.materials = mb
	return l, nil
}

func (l *loader) Source() asset.Source {
	return l.source
}

func (l *loader) LoadModel(ctx context.Context, name string) (*model.Model, error) {
	if l.cacheEnabled {
		l.mu.RLock()
		cached, ok := l.modelCache[name]
		l.mu.RUnlock()
		if ok {
			return cached, nil
		}
	}

	span := l.profiler.Start("obj", name)
	m, err := l.loadOBJ(ctx, name)
	span.End(err)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", name, err)
	}

	if l.cacheEnabled {
		l.mu.Lock()
		if existing, ok := l.modelCache[name]; ok {
			l.mu.Unlock()
			m.Release()
			return existing, nil
		}
		l.modelCache[name] = m
		l.mu.Unlock()
	}
	return m, nil
}

func (l *loader) LoadGLTF(ctx context.Context, name string) (*model.GLTFModel, error) {
	if l.cacheEnabled {
		l.mu.RLock()
		cached, ok := l.gltfCache[name]
		l.mu.RUnlock()
		if ok {
			return cached, nil
		}
	}

	span := l.profiler.Start("gltf", name)
	m, err := l.loadGLTF(ctx, name)
	span.End(err)
	if err != nil {
		return nil, fmt.Errorf("loading glTF %s: %w", name, err)
	}

	if l.cacheEnabled {
		l.mu.Lock()
		if existing, ok := l.gltfCache[name]; ok {
			l.mu.Unlock()
			m.Release()
			return existing, nil
		}
		l.gltfCache[name] = m
		l.mu.Unlock()
	}
	return m, nil
}

func (l *loader) LoadTexture(ctx context.Context, name string) (*renderer.Texture, error) {
	span := l.profiler.Start("texture", name)
	tex, err := l.loadTexture(ctx, name)
	span.End(err)
	return tex, err
}

func (l *loader) loadTexture(ctx context.Context, name string) (*renderer.Texture, error) {
	data, err := l.source.Retrieve(ctx, name)
	if err != nil {
		return nil, err
	}
	tex, err := l.decoder.DecodeTexture(name, data, name)
	if err != nil {
		return nil, fmt.Errorf("decoding texture %s: %w", name, err)
	}
	return tex, nil
}

func (l *loader) Load(ctx context.Context, name string) (Asset, error) {
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".obj":
		return l.LoadModel(ctx, name)
	case ".gltf", ".glb":
		return l.LoadGLTF(ctx, name)
	default:
		return nil, fmt.Errorf("%w: model format %q", common.ErrUnsupportedFormat, ext)
	}
}

func (l *loader) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for k, m := range l.modelCache {
		m.Release()
		delete(l.modelCache, k)
	}
	for k, m := range l.gltfCache {
		m.Release()
		delete(l.gltfCache, k)
	}

	l.poolMu.Lock()
	defer l.poolMu.Unlock()
	if l.pool != nil {
		l.pool.Stop()
		l.pool = nil
	}
}

// workerPool returns the texture fetch pool, starting it on first use or after Release.
func (l *loader) workerPool() worker.DynamicWorkerPool {
	l.poolMu.Lock()
	defer l.poolMu.Unlock()
	if l.pool == nil {
		l.pool = worker.NewDynamicWorkerPool(l.workers, 256, time.Second)
	}
	return l.pool
}

// materialSource is the resolved image for one material. A nil data with an empty name
// means the material has no diffuse map and gets the white fallback.
type materialSource struct {
	name string
	// fetch is the asset name to retrieve; empty when data is already known.
	fetch string
	data  []byte
	hint  string
}

// fetchAll retrieves every pending materialSource.fetch. With more than one worker the
// retrievals fan out on the worker pool; the first error in slice order is returned.
func (l *loader) fetchAll(ctx context.Context, sources []materialSource) error {
	var pending []int
	for i := range sources {
		if sources[i].fetch != "" && sources[i].data == nil {
			pending = append(pending, i)
		}
	}

	if l.workers <= 1 || len(pending) < 2 {
		for _, i := range pending {
			data, err := l.source.Retrieve(ctx, sources[i].fetch)
			if err != nil {
				return fmt.Errorf("material %q texture: %w", sources[i].name, err)
			}
			sources[i].data = data
		}
		return nil
	}

	pool := l.workerPool()
	errs := make([]error, len(sources))
	var wg sync.WaitGroup
	for _, i := range pending {
		wg.Add(1)
		idx := i
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				sources[idx].data, errs[idx] = l.source.Retrieve(ctx, sources[idx].fetch)
				return nil, nil
			},
		})
	}
	wg.Wait()

	for _, i := range pending {
		if errs[i] != nil {
			return fmt.Errorf("material %q texture: %w", sources[i].name, errs[i])
		}
	}
	return nil
}

// buildMaterials creates the GPU materials in order. On failure the materials built so far
// are released. An empty input yields the single fallback material.
func (l *loader) buildMaterials(sources []materialSource) ([]model.Material, error) {
	if len(sources) == 0 {
		mat, err := l.materials.BuildFallback("default")
		if err != nil {
			return nil, err
		}
		return []model.Material{*mat}, nil
	}

	out := make([]model.Material, 0, len(sources))
	for _, src := range sources {
		var mat *model.Material
		var err error
		if src.data == nil {
			mat, err = l.materials.BuildFallback(src.name)
		} else {
			mat, err = l.materials.Build(src.name, src.data, src.hint)
		}
		if err != nil {
			for i := range out {
				out[i].Release()
			}
			return nil, err
		}
		out = append(out, *mat)
	}
	return out, nil
}

// uploadGeometry creates the vertex and index buffers of one mesh or primitive.
func (l *loader) uploadGeometry(label string, vertices []model.Vertex, indices []uint32) (renderer.Buffer, renderer.Buffer, error) {
	vb, err := l.allocator.CreateBufferInit(label+" Vertex Buffer", model.MarshalVertices(vertices), wgpu.BufferUsageVertex)
	if err != nil {
		return nil, nil, fmt.Errorf("vertex buffer %s: %w", label, err)
	}
	ib, err := l.allocator.CreateBufferInit(label+" Index Buffer", model.MarshalIndices(indices), wgpu.BufferUsageIndex)
	if err != nil {
		vb.Release()
		return nil, nil, fmt.Errorf("index buffer %s: %w", label, err)
	}
	return vb, ib, nil
}
