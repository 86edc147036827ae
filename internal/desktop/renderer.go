package desktop

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"castle/internal/castle"
	"castle/internal/geometry"
	"castle/internal/logging"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// spriteStride is the float count per particle sprite, matching ParticleField.SpriteData.
const spriteStride = 8

// maxGLErrors is how many consecutive failing frames are tolerated.
const maxGLErrors = 30

type meshBuffer struct {
	vao, vbo uint32
	count    int32
	mode     uint32
}

// Renderer draws a castle.Scene with OpenGL 4.1. One vertex buffer is kept per
// distinct geometry descriptor.
type Renderer struct {
	meshProg    uint32
	spriteProg  uint32
	overlayProg uint32

	mu map[string]int32
	su map[string]int32
	ou map[string]int32

	meshes map[castle.Geometry]*meshBuffer

	spriteVAO uint32
	spriteVBO uint32
	spriteCap int
	spriteBuf []float32

	quadVAO uint32
	quadVBO uint32

	fbW, fbH int
	log      *logging.Logger
	warned   bool
	glErrors int

	pointPos   []float32
	pointCol   []float32
	pointRange []float32
}

func NewRenderer() (*Renderer, error) {
	meshProg, err := linkProgram(meshVertSrc, meshFragSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh program: %w", err)
	}
	spriteProg, err := linkProgram(spriteVertSrc, spriteFragSrc)
	if err != nil {
		gl.DeleteProgram(meshProg)
		return nil, fmt.Errorf("sprite program: %w", err)
	}
	overlayProg, err := linkProgram(overlayVertSrc, overlayFragSrc)
	if err != nil {
		gl.DeleteProgram(meshProg)
		gl.DeleteProgram(spriteProg)
		return nil, fmt.Errorf("overlay program: %w", err)
	}

	r := &Renderer{
		meshProg:    meshProg,
		spriteProg:  spriteProg,
		overlayProg: overlayProg,
		meshes:      make(map[castle.Geometry]*meshBuffer),
		log:         logging.For("renderer"),
	}

	r.mu = uniforms(meshProg,
		"uModel", "uView", "uProj",
		"uColor", "uEmissive", "uEmissiveIntensity", "uOpacity", "uUnlit",
		"uAmbient", "uSunDir", "uSunColor",
		"uPointCount", "uPointPos", "uPointColor", "uPointRange",
		"uFogColor", "uFogDensity")
	r.su = uniforms(spriteProg, "uView", "uProj", "uPointScale")
	r.ou = uniforms(overlayProg, "uTop", "uBottom", "uFlash", "uTint")

	// Sprite VAO/VBO: streaming buffer for particle point sprites.
	// Each sprite: 8 floats (x, y, z, size, r, g, b, a).
	gl.GenVertexArrays(1, &r.spriteVAO)
	gl.GenBuffers(1, &r.spriteVBO)
	gl.BindVertexArray(r.spriteVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.spriteVBO)
	stride := int32(spriteStride * 4)
	// aPos (vec3)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, glOffset(0))
	// aSize (float)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, stride, glOffset(3*4))
	// aColor (vec4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, glOffset(4*4))

	// Overlay VAO/VBO: a unit quad (6 vertices, 2 triangles).
	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	quadVerts := [12]float32{
		0, 0, 1, 0, 1, 1,
		0, 0, 1, 1, 0, 1,
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVerts)*4, gl.Ptr(&quadVerts[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, glOffset(0))

	gl.BindVertexArray(0)

	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(0, 0, 0, 1)
	return r, nil
}

// SetViewport records the framebuffer size used by the next frames.
func (r *Renderer) SetViewport(w, h int) {
	r.fbW, r.fbH = w, h
}

// mesh returns the buffer for g, uploading it on first use.
func (r *Renderer) mesh(g castle.Geometry) *meshBuffer {
	if mb, ok := r.meshes[g]; ok {
		return mb
	}
	buf := geometry.Tessellate(g)
	mb := &meshBuffer{count: int32(buf.Count()), mode: gl.TRIANGLES}
	if buf.Mode == geometry.Lines {
		mb.mode = gl.LINES
	}
	gl.GenVertexArrays(1, &mb.vao)
	gl.GenBuffers(1, &mb.vbo)
	gl.BindVertexArray(mb.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, mb.vbo)
	if len(buf.Vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(buf.Vertices)*4, gl.Ptr(buf.Vertices), gl.STATIC_DRAW)
	}
	stride := int32(geometry.Stride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, glOffset(3*4))
	gl.BindVertexArray(0)

	r.meshes[g] = mb
	return mb
}

func (r *Renderer) freeMesh(g castle.Geometry) {
	mb, ok := r.meshes[g]
	if !ok {
		return
	}
	gl.DeleteBuffers(1, &mb.vbo)
	gl.DeleteVertexArrays(1, &mb.vao)
	delete(r.meshes, g)
}

// Render implements castle.Renderer.
func (r *Renderer) Render(sc *castle.Scene) error {
	if r.fbW <= 0 || r.fbH <= 0 {
		return nil
	}
	f := geometry.BuildFrame(sc, maxPointLights)
	if f.Dropped > 0 && !r.warned {
		r.warned = true
		r.log.Warn("%d point lights over the limit of %d are not drawn", f.Dropped, maxPointLights)
	}

	gl.Viewport(0, 0, int32(r.fbW), int32(r.fbH))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	r.beginMeshes(&f)
	for _, d := range f.Opaque {
		r.drawMesh(d)
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	for _, d := range f.Transparent {
		r.drawMesh(d)
	}
	gl.Disable(gl.CULL_FACE)

	r.drawSprites(sc, &f)

	gl.DepthMask(true)
	gl.Disable(gl.DEPTH_TEST)
	r.drawOverlay(sc.Overlay)

	gl.BindVertexArray(0)
	if e := gl.GetError(); e != gl.NO_ERROR {
		r.glErrors++
		if r.glErrors > maxGLErrors {
			return fmt.Errorf("gl error 0x%x after %d failed frames", e, r.glErrors)
		}
		r.log.Warn("gl error 0x%x", e)
		return nil
	}
	r.glErrors = 0
	return nil
}

func (r *Renderer) beginMeshes(f *geometry.Frame) {
	gl.UseProgram(r.meshProg)
	gl.UniformMatrix4fv(r.mu["uView"], 1, false, &f.View[0])
	gl.UniformMatrix4fv(r.mu["uProj"], 1, false, &f.Proj[0])
	gl.Uniform3fv(r.mu["uAmbient"], 1, &f.Ambient[0])
	gl.Uniform3fv(r.mu["uSunDir"], 1, &f.SunDir[0])
	gl.Uniform3fv(r.mu["uSunColor"], 1, &f.SunColor[0])
	gl.Uniform3fv(r.mu["uFogColor"], 1, &f.FogColor[0])
	gl.Uniform1f(r.mu["uFogDensity"], f.FogDensity)

	r.pointPos = r.pointPos[:0]
	r.pointCol = r.pointCol[:0]
	r.pointRange = r.pointRange[:0]
	for _, p := range f.Points {
		r.pointPos = append(r.pointPos, p.Position[:]...)
		r.pointCol = append(r.pointCol, p.Color[:]...)
		r.pointRange = append(r.pointRange, p.Range)
	}
	n := int32(len(f.Points))
	gl.Uniform1i(r.mu["uPointCount"], n)
	if n > 0 {
		gl.Uniform3fv(r.mu["uPointPos"], n, &r.pointPos[0])
		gl.Uniform3fv(r.mu["uPointColor"], n, &r.pointCol[0])
		gl.Uniform1fv(r.mu["uPointRange"], n, &r.pointRange[0])
	}
}

func (r *Renderer) drawMesh(d geometry.Draw) {
	mb := r.mesh(d.Mesh.Geometry)
	if mb.count == 0 {
		return
	}
	m := d.Mesh.Material

	gl.Enable(gl.CULL_FACE)
	if m.BackSide {
		gl.CullFace(gl.FRONT)
	} else {
		gl.CullFace(gl.BACK)
	}

	cr, cg, cb := m.Color.Floats()
	er, eg, eb := m.Emissive.Floats()
	unlit := int32(0)
	if m.Unlit {
		unlit = 1
	}
	gl.UniformMatrix4fv(r.mu["uModel"], 1, false, &d.World[0])
	gl.Uniform3f(r.mu["uColor"], cr, cg, cb)
	gl.Uniform3f(r.mu["uEmissive"], er, eg, eb)
	gl.Uniform1f(r.mu["uEmissiveIntensity"], float32(m.EmissiveIntensity))
	gl.Uniform1f(r.mu["uOpacity"], float32(m.Opacity))
	gl.Uniform1i(r.mu["uUnlit"], unlit)

	gl.BindVertexArray(mb.vao)
	gl.DrawArrays(mb.mode, 0, mb.count)
}

func (r *Renderer) drawSprites(sc *castle.Scene, f *geometry.Frame) {
	if len(f.Sprites) == 0 {
		return
	}
	gl.UseProgram(r.spriteProg)
	gl.Uniform1f(r.su["uPointScale"], geometry.PointScale(sc.Camera, r.fbH))
	gl.UniformMatrix4fv(r.su["uProj"], 1, false, &f.Proj[0])
	gl.BindVertexArray(r.spriteVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.spriteVBO)

	for _, b := range f.Sprites {
		r.spriteBuf = b.Field.SpriteData(r.spriteBuf)
		n := len(r.spriteBuf) / spriteStride
		if n == 0 {
			continue
		}
		if len(r.spriteBuf) > r.spriteCap {
			r.spriteCap = len(r.spriteBuf)
			gl.BufferData(gl.ARRAY_BUFFER, r.spriteCap*4, nil, gl.STREAM_DRAW)
		}
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(r.spriteBuf)*4, gl.Ptr(r.spriteBuf))

		view := f.View.Mul4(b.World)
		gl.UniformMatrix4fv(r.su["uView"], 1, false, &view[0])
		gl.DrawArrays(gl.POINTS, 0, int32(n))
	}
}

func (r *Renderer) drawOverlay(o *castle.Overlay) {
	if o == nil {
		return
	}
	gl.UseProgram(r.overlayProg)
	setRGBA(r.ou["uTop"], o.Top)
	setRGBA(r.ou["uBottom"], o.Bottom)
	setRGBA(r.ou["uTint"], o.Tint)
	gl.Uniform1f(r.ou["uFlash"], float32(o.Opacity()))
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

func setRGBA(loc int32, c castle.RGBA) {
	cr, cg, cb := c.Floats()
	gl.Uniform4f(loc, cr, cg, cb, float32(c.A))
}

// Release implements castle.Renderer: it frees the buffers of every mesh in the subtree.
func (r *Renderer) Release(root *castle.Node) {
	freed := 0
	root.Walk(func(n *castle.Node) bool {
		if n.Mesh != nil {
			if _, ok := r.meshes[n.Mesh.Geometry]; ok {
				r.freeMesh(n.Mesh.Geometry)
				freed++
			}
		}
		return true
	})
	r.log.Debug("released %d mesh buffers", freed)
}

func (r *Renderer) Destroy() {
	for g := range r.meshes {
		r.freeMesh(g)
	}
	for _, id := range []uint32{r.spriteVBO, r.quadVBO} {
		if id != 0 {
			gl.DeleteBuffers(1, &id)
		}
	}
	for _, id := range []uint32{r.spriteVAO, r.quadVAO} {
		if id != 0 {
			gl.DeleteVertexArrays(1, &id)
		}
	}
	for _, id := range []uint32{r.meshProg, r.spriteProg, r.overlayProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
}

var _ castle.Renderer = (*Renderer)(nil)
