package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/asset"
	"github.com/Carmen-Shannon/oxy-assets/engine/model"
	"github.com/Carmen-Shannon/oxy-assets/engine/profiler"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer"
	"github.com/Carmen-Shannon/oxy-assets/engine/renderer/renderertest"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const cubeOBJ = `# cube
mtllib cube.mtl
o Cube
v -1 -1 1
v 1 -1 1
v 1 1 1
v -1 1 1
v -1 -1 -1
v 1 -1 -1
v 1 1 -1
v -1 1 -1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
vn 0 0 -1
vn 1 0 0
vn -1 0 0
vn 0 1 0
vn 0 -1 0
usemtl Material
f 1/1/1 2/2/1 3/3/1 4/4/1
f 6/1/2 5/2/2 8/3/2 7/4/2
f 2/1/3 6/2/3 7/3/3 3/4/3
f 5/1/4 1/2/4 4/3/4 8/4/4
f 4/1/5 3/2/5 7/3/5 8/4/5
f 5/1/6 6/2/6 2/3/6 1/4/6
`

const cubeMTL = `newmtl Material
Kd 0.8 0.8 0.8
map_Kd cube-diffuse.png
`

func cubeFS() fstest.MapFS {
	return fstest.MapFS{
		"models/cube.obj":          {Data: []byte(cubeOBJ)},
		"models/cube.mtl":          {Data: []byte(cubeMTL)},
		"models/cube-diffuse.png": {Data: renderer.WhiteTexturePNG()},
	}
}

func newTestLoader(t *testing.T, fsys fstest.MapFS, dev *renderertest.Device, options ...LoaderBuilderOption) Loader {
	t.Helper()
	src, err := asset.NewSource(asset.SourceTypeLocal, asset.WithFS(fsys))
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}
	options = append([]LoaderBuilderOption{WithSource(src), WithAllocator(dev), WithDecoder(dev)}, options...)
	l, err := NewLoader(options...)
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}
	return l
}

func TestLoadModelCube(t *testing.T) {
	dev := &renderertest.Device{}
	l := newTestLoader(t, cubeFS(), dev)

	m, err := l.LoadModel(context.Background(), "models/cube.obj")
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	if len(m.Meshes) != 1 || len(m.Materials) != 1 {
		t.Fatalf("expected 1 mesh and 1 material, got %d and %d", len(m.Meshes), len(m.Materials))
	}
	mesh := m.Meshes[0]
	if mesh.Name != "Cube" || mesh.Material != 0 {
		t.Errorf("unexpected mesh %q with material %d", mesh.Name, mesh.Material)
	}
	if mesh.NumElements != 36 || len(mesh.Indices) != 36 {
		t.Errorf("expected 36 indices, got %d", mesh.NumElements)
	}
	if len(mesh.Vertices) != 24 {
		t.Errorf("expected one vertex per distinct corner (24), got %d", len(mesh.Vertices))
	}
	if mesh.BoundsMin.X() != -1 || mesh.BoundsMax.Z() != 1 {
		t.Errorf("unexpected bounds %v %v", mesh.BoundsMin, mesh.BoundsMax)
	}
	if m.Materials[0].Name != "Material" {
		t.Errorf("unexpected material name %q", m.Materials[0].Name)
	}
	if hints := dev.DecodedHints(); len(hints) != 1 || hints[0] != "models/cube-diffuse.png" {
		t.Errorf("texture should resolve next to the MTL, got %v", hints)
	}

	bufs := dev.Buffers()
	if len(bufs) != 2 {
		t.Fatalf("expected vertex and index buffers, got %d", len(bufs))
	}
	if bufs[0].Usage != wgpu.BufferUsageVertex || len(bufs[0].Contents) != 24*model.VertexSize {
		t.Errorf("unexpected vertex buffer usage %v size %d", bufs[0].Usage, len(bufs[0].Contents))
	}
	if bufs[1].Usage != wgpu.BufferUsageIndex || len(bufs[1].Contents) != 36*4 {
		t.Errorf("unexpected index buffer usage %v size %d", bufs[1].Usage, len(bufs[1].Contents))
	}

	if dev.Live() != 6 {
		t.Errorf("expected 6 live handles, got %d", dev.Live())
	}
	m.Release()
	if dev.Live() != 0 || dev.DoubleReleases() != 0 {
		t.Errorf("release left %d live handles, %d double releases", dev.Live(), dev.DoubleReleases())
	}
}

func TestLoadModelMissingTextureReleasesEverything(t *testing.T) {
	fsys := cubeFS()
	delete(fsys, "models/cube-diffuse.png")
	dev := &renderertest.Device{}
	l := newTestLoader(t, fsys, dev)

	_, err := l.LoadModel(context.Background(), "models/cube.obj")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if dev.Live() != 0 {
		t.Errorf("expected no live handles, got %d", dev.Live())
	}
}

func TestLoadModelMissingMTL(t *testing.T) {
	fsys := cubeFS()
	delete(fsys, "models/cube.mtl")
	l := newTestLoader(t, fsys, &renderertest.Device{})

	_, err := l.LoadModel(context.Background(), "models/cube.obj")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadModelUnknownMaterialUsesFirst(t *testing.T) {
	fsys := cubeFS()
	fsys["models/cube.obj"] = &fstest.MapFile{Data: []byte(strings.Replace(cubeOBJ, "usemtl Material", "usemtl Missing", 1))}
	core, logs := observer.New(zap.WarnLevel)
	dev := &renderertest.Device{}
	l := newTestLoader(t, fsys, dev, WithLogger(zap.New(core)))

	m, err := l.LoadModel(context.Background(), "models/cube.obj")
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	defer m.Release()

	if m.Meshes[0].Material != 0 {
		t.Errorf("expected material 0, got %d", m.Meshes[0].Material)
	}
	if logs.FilterMessage("unknown material, using default").Len() != 1 {
		t.Errorf("expected a warning for the unknown material, got %v", logs.All())
	}
}

func TestLoadModelWithoutMaterials(t *testing.T) {
	obj := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvn 0 0 1\nf 1/1/1 2/1/1 3/1/1\n"
	dev := &renderertest.Device{}
	l := newTestLoader(t, fstest.MapFS{"tri.obj": {Data: []byte(obj)}}, dev)

	m, err := l.LoadModel(context.Background(), "tri.obj")
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	defer m.Release()

	if len(m.Materials) != 1 || m.Materials[0].Name != "default" {
		t.Fatalf("expected the fallback material, got %+v", m.Materials)
	}
	if m.Meshes[0].Name == "" {
		t.Error("a mesh without an object line should still be named")
	}
	if hints := dev.DecodedHints(); len(hints) != 1 || hints[0] != renderer.FallbackTextureName {
		t.Errorf("unexpected decode hints %v", hints)
	}
}

func TestLoadModelMaterialWithoutMap(t *testing.T) {
	fsys := cubeFS()
	fsys["models/cube.mtl"] = &fstest.MapFile{Data: []byte("newmtl Material\nKd 1 0 0\n")}
	dev := &renderertest.Device{}
	l := newTestLoader(t, fsys, dev)

	m, err := l.LoadModel(context.Background(), "models/cube.obj")
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	defer m.Release()

	if m.Materials[0].Name != "Material" || m.Materials[0].DiffuseTexture.Width != 1 {
		t.Errorf("expected a 1x1 fallback for Material, got %+v", m.Materials[0])
	}
}

func TestLoadModelGeometryErrors(t *testing.T) {
	cases := map[string]struct {
		obj  string
		want error
	}{
		"no triangles":   {"v 0 0 0\nvt 0 0\nvn 0 0 1\n", common.ErrMalformedAsset},
		"no normals":     {"v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nf 1/1 2/1 3/1\n", common.ErrMissingAttribute},
		"no tex coords":  {"v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n", common.ErrMissingAttribute},
		"syntax":         {"v 0 0\n", common.ErrParse},
		"index overflow": {"v 0 0 0\nf 1 2 3\n", common.ErrParse},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			dev := &renderertest.Device{}
			l := newTestLoader(t, fstest.MapFS{"m.obj": {Data: []byte(tc.obj)}}, dev)

			_, err := l.LoadModel(context.Background(), "m.obj")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if dev.Live() != 0 {
				t.Errorf("expected no live handles, got %d", dev.Live())
			}
		})
	}
}

func TestLoadModelReleasesOnBufferFailure(t *testing.T) {
	for _, failAt := range []int{1, 2} {
		t.Run(fmt.Sprintf("buffer %d", failAt), func(t *testing.T) {
			dev := &renderertest.Device{FailBufferAt: failAt}
			l := newTestLoader(t, cubeFS(), dev)

			_, err := l.LoadModel(context.Background(), "models/cube.obj")
			if !errors.Is(err, renderertest.ErrInjected) {
				t.Fatalf("expected the injected failure, got %v", err)
			}
			if dev.Live() != 0 || dev.DoubleReleases() != 0 {
				t.Errorf("left %d live handles, %d double releases", dev.Live(), dev.DoubleReleases())
			}
		})
	}
}

func TestLoadModelMaterialBuildFailure(t *testing.T) {
	dev := &renderertest.Device{FailBindGroup: true}
	l := newTestLoader(t, cubeFS(), dev)

	_, err := l.LoadModel(context.Background(), "models/cube.obj")
	if !errors.Is(err, common.ErrMaterialBuild) || !errors.Is(err, renderertest.ErrInjected) {
		t.Fatalf("expected a material build error, got %v", err)
	}
	var mbe *common.MaterialBuildError
	if !errors.As(err, &mbe) || mbe.Material != "Material" {
		t.Errorf("expected the failing material name, got %v", err)
	}
	if dev.Live() != 0 {
		t.Errorf("expected no live handles, got %d", dev.Live())
	}
}

func TestParallelMaterialFetchKeepsOrder(t *testing.T) {
	var obj, mtl strings.Builder
	obj.WriteString("mtllib many.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvn 0 0 1\n")
	fsys := fstest.MapFS{}
	names := []string{"a", "b", "c", "d", "e"}
	for _, n := range names {
		fmt.Fprintf(&mtl, "newmtl %s\nmap_Kd tex/%s.png\n", n, n)
		fmt.Fprintf(&obj, "usemtl %s\nf 1/1/1 2/1/1 3/1/1\n", n)
		fsys["tex/"+n+".png"] = &fstest.MapFile{Data: renderer.WhiteTexturePNG()}
	}
	fsys["many.obj"] = &fstest.MapFile{Data: []byte(obj.String())}
	fsys["many.mtl"] = &fstest.MapFile{Data: []byte(mtl.String())}

	dev := &renderertest.Device{}
	l := newTestLoader(t, fsys, dev, WithMaterialWorkers(4))

	m, err := l.LoadModel(context.Background(), "many.obj")
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	defer m.Release()

	if len(m.Materials) != len(names) || len(m.Meshes) != len(names) {
		t.Fatalf("expected %d materials and meshes, got %d and %d", len(names), len(m.Materials), len(m.Meshes))
	}
	for i, n := range names {
		if m.Materials[i].Name != n {
			t.Errorf("material %d: expected %s, got %s", i, n, m.Materials[i].Name)
		}
		if m.Meshes[i].Material != i {
			t.Errorf("mesh %d: expected material %d, got %d", i, i, m.Meshes[i].Material)
		}
	}
	hints := dev.DecodedHints()
	for i, n := range names {
		if hints[i] != "tex/"+n+".png" {
			t.Errorf("decode %d: expected tex/%s.png, got %s", i, n, hints[i])
		}
	}
}

func TestReleaseStopsWorkerPool(t *testing.T) {
	fsys := fstest.MapFS{
		"two.obj": {Data: []byte("mtllib two.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvn 0 0 1\nusemtl a\nf 1/1/1 2/1/1 3/1/1\n")},
		"two.mtl": {Data: []byte("newmtl a\nmap_Kd a.png\nnewmtl b\nmap_Kd b.png\n")},
		"a.png":   {Data: renderer.WhiteTexturePNG()},
		"b.png":   {Data: renderer.WhiteTexturePNG()},
	}
	dev := &renderertest.Device{}
	l := newTestLoader(t, fsys, dev, WithMaterialWorkers(2))
	impl := l.(*loader)

	m, err := l.LoadModel(context.Background(), "two.obj")
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	m.Release()
	if impl.pool == nil {
		t.Fatal("expected the worker pool to be started by a parallel fetch")
	}

	l.Release()
	if impl.pool != nil {
		t.Error("Release should stop and drop the worker pool")
	}

	m, err = l.LoadModel(context.Background(), "two.obj")
	if err != nil {
		t.Fatalf("LoadModel after Release failed: %v", err)
	}
	m.Release()
	l.Release()
	if dev.Live() != 0 {
		t.Errorf("expected no live handles, got %d", dev.Live())
	}
}

func TestParallelMaterialFetchError(t *testing.T) {
	fsys := fstest.MapFS{
		"two.obj": {Data: []byte("mtllib two.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvn 0 0 1\nf 1/1/1 2/1/1 3/1/1\n")},
		"two.mtl": {Data: []byte("newmtl a\nmap_Kd a.png\nnewmtl b\nmap_Kd b.png\n")},
		"a.png":   {Data: renderer.WhiteTexturePNG()},
	}
	dev := &renderertest.Device{}
	l := newTestLoader(t, fsys, dev, WithMaterialWorkers(2))

	_, err := l.LoadModel(context.Background(), "two.obj")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if dev.Live() != 0 {
		t.Errorf("expected no live handles, got %d", dev.Live())
	}
}

func TestLoadDispatch(t *testing.T) {
	dev := &renderertest.Device{}
	l := newTestLoader(t, cubeFS(), dev)

	a, err := l.Load(context.Background(), "models/cube.obj")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := a.(*model.Model); !ok {
		t.Errorf("expected *model.Model, got %T", a)
	}
	a.Release()

	_, err = l.Load(context.Background(), "models/cube.fbx")
	if !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadCache(t *testing.T) {
	dev := &renderertest.Device{}
	p := profiler.NewProfiler()
	l := newTestLoader(t, cubeFS(), dev, WithCache(true), WithProfiler(p))

	first, err := l.LoadModel(context.Background(), "models/cube.obj")
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	second, err := l.LoadModel(context.Background(), "models/cube.obj")
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	if first != second {
		t.Error("cached loads should return the same model")
	}
	if len(dev.Buffers()) != 2 {
		t.Errorf("cache hit should not upload again, got %d buffers", len(dev.Buffers()))
	}
	if got := p.Stats()["obj"].Count; got != 1 {
		t.Errorf("expected one profiled load, got %d", got)
	}

	l.Release()
	if dev.Live() != 0 {
		t.Errorf("Release should free cached models, %d handles live", dev.Live())
	}
}

func TestLoadTexture(t *testing.T) {
	dev := &renderertest.Device{}
	l := newTestLoader(t, cubeFS(), dev)

	tex, err := l.LoadTexture(context.Background(), "models/cube-diffuse.png")
	if err != nil {
		t.Fatalf("LoadTexture failed: %v", err)
	}
	if tex.Width != 1 || tex.Height != 1 {
		t.Errorf("unexpected size %dx%d", tex.Width, tex.Height)
	}
	tex.Release()

	_, err = l.LoadTexture(context.Background(), "models/missing.png")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if dev.Live() != 0 {
		t.Errorf("expected no live handles, got %d", dev.Live())
	}
}

func TestNewLoaderRequiresCollaborators(t *testing.T) {
	dev := &renderertest.Device{}
	src, _ := asset.NewSource(asset.SourceTypeLocal, asset.WithFS(fstest.MapFS{}))

	if _, err := NewLoader(WithAllocator(dev), WithDecoder(dev)); err == nil {
		t.Error("expected an error without a source")
	}
	if _, err := NewLoader(WithSource(src), WithDecoder(dev)); err == nil {
		t.Error("expected an error without an allocator")
	}
	if _, err := NewLoader(WithSource(src), WithAllocator(dev)); err == nil {
		t.Error("expected an error without a decoder")
	}

	bad := renderer.TextureBindGroupLayout("bad")
	bad.Entries = bad.Entries[:1]
	if _, err := NewLoader(WithSource(src), WithAllocator(dev), WithDecoder(dev), WithLayout(bad)); !errors.Is(err, renderer.ErrLayoutMismatch) {
		t.Errorf("expected ErrLayoutMismatch, got %v", err)
	}
}
