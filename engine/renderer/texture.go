package renderer

// Texture is a decoded image resident on the GPU together with the view and sampler a
// material binds. The Texture owns all three.
type Texture struct {
	Label  string
	Width  uint32
	Height uint32

	Handle  TextureHandle
	View    TextureView
	Sampler Sampler
}

// Release frees the sampler, view and texture. It is safe to call on a nil Texture and
// more than once.
func (t *Texture) Release() {
	if t == nil {
		return
	}
	if t.Sampler != nil {
		t.Sampler.Release()
		t.Sampler = nil
	}
	if t.View != nil {
		t.View.Release()
		t.View = nil
	}
	if t.Handle != nil {
		t.Handle.Release()
		t.Handle = nil
	}
}
