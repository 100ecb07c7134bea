// Package glrender draws tile rasters as textured quads with OpenGL.
//
// Rasters are filled on the CPU and uploaded to a texture once in Finish;
// each frame only blits textures.
package glrender

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/isoterrain/internal/engine/render"
	"github.com/Faultbox/isoterrain/internal/engine/shader"
	"github.com/Faultbox/isoterrain/internal/logger"
	"github.com/Faultbox/isoterrain/pkg/math"
)

// floatsPerVertex is pos(2) + texcoord(2).
const floatsPerVertex = 4

// Surface is a render.Surface on the current OpenGL context.
type Surface struct {
	width, height int

	program uint32
	vao     uint32
	vbo     uint32
	projLoc int32
	texLoc  int32

	proj     math.Mat4
	vertices [6 * floatsPerVertex]float32
	textures int

	log *zap.Logger
}

// New initializes GL bindings and creates the quad pipeline. The GL
// context must be current on the calling thread.
func New(width, height int, log *zap.Logger) (*Surface, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}

	s := &Surface{log: logger.Or(log, "glrender")}

	var err error
	s.program, err = shader.CompileProgram(shader.QuadVertex, shader.QuadFragment)
	if err != nil {
		return nil, fmt.Errorf("create quad shader: %w", err)
	}
	s.projLoc = shader.Uniform(s.program, "uProjection")
	s.texLoc = shader.Uniform(s.program, "uTexture")

	s.createBuffers()
	s.Resize(width, height)

	s.log.Info("OpenGL surface ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
	return s, nil
}

func (s *Surface) createBuffers() {
	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)

	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(s.vertices)*4, nil, gl.DYNAMIC_DRAW)

	stride := int32(floatsPerVertex * 4)

	// Position attribute (location = 0): 2 floats
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)

	// TexCoord attribute (location = 1): 2 floats
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Resize updates the GL viewport and projection.
func (s *Surface) Resize(width, height int) {
	s.width, s.height = max(width, 1), max(height, 1)
	s.proj = math.ScreenOrtho(float64(s.width), float64(s.height))
	gl.Viewport(0, 0, int32(s.width), int32(s.height))
}

// Size returns the surface extent in pixels.
func (s *Surface) Size() math.Vec2 {
	return math.V2(float64(s.width), float64(s.height))
}

// Clear fills the framebuffer with c.
func (s *Surface) Clear(c color.RGBA) {
	gl.ClearColor(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// NewRaster starts a CPU raster uploaded to a texture on Finish.
func (s *Surface) NewRaster(w, h int) render.Raster {
	return &raster{Raster: render.NewSoftRaster(w, h), surface: s}
}

// Draw blits a texture handle. Handles from other backends are ignored.
func (s *Surface) Draw(h render.Handle, at math.Vec2, scale float64) {
	tex, ok := h.(*Texture)
	if !ok || tex.id == 0 {
		return
	}

	x0, y0 := float32(at.X), float32(at.Y)
	x1 := x0 + float32(float64(tex.w)*scale)
	y1 := y0 + float32(float64(tex.h)*scale)
	s.vertices = [6 * floatsPerVertex]float32{
		x0, y0, 0, 0,
		x1, y0, 1, 0,
		x1, y1, 1, 1,
		x0, y0, 0, 0,
		x1, y1, 1, 1,
		x0, y1, 0, 1,
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	gl.UseProgram(s.program)
	gl.UniformMatrix4fv(s.projLoc, 1, false, s.proj.Ptr())
	gl.Uniform1i(s.texLoc, 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex.id)

	gl.BindVertexArray(s.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(s.vertices)*4, unsafe.Pointer(&s.vertices[0]))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// ReadPixels returns the framebuffer as RGBA rows, bottom row first.
func (s *Surface) ReadPixels() []byte {
	pixels := make([]byte, s.width*s.height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(s.width), int32(s.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// Textures returns the number of live textures.
func (s *Surface) Textures() int {
	return s.textures
}

// Close deletes the pipeline objects. Live textures stay valid until released.
func (s *Surface) Close() error {
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
		s.vao = 0
	}
	if s.vbo != 0 {
		gl.DeleteBuffers(1, &s.vbo)
		s.vbo = 0
	}
	if s.program != 0 {
		gl.DeleteProgram(s.program)
		s.program = 0
	}
	if s.textures > 0 {
		s.log.Debug("surface closed with live textures", zap.Int("textures", s.textures))
	}
	return nil
}

func (s *Surface) upload(img image.Image, w, h int) *Texture {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != w*4 {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	s.textures++
	return &Texture{id: id, w: w, h: h, surface: s}
}

// Texture is a raster uploaded to GL.
type Texture struct {
	id      uint32
	w, h    int
	surface *Surface
}

// Size returns the texture dimensions.
func (t *Texture) Size() (int, int) {
	return t.w, t.h
}

// ID returns the GL texture name, or 0 once released.
func (t *Texture) ID() uint32 {
	return t.id
}

// Release deletes the GL texture.
func (t *Texture) Release() {
	if t.id == 0 {
		return
	}
	gl.DeleteTextures(1, &t.id)
	t.id = 0
	t.surface.textures--
}

type raster struct {
	render.Raster
	surface *Surface
}

func (r *raster) Finish() (render.Handle, error) {
	h, err := r.Raster.Finish()
	if err != nil {
		return nil, err
	}
	soft := h.(*render.SoftHandle)
	defer soft.Release()

	w, hh := soft.Size()
	return r.surface.upload(soft.Image(), w, hh), nil
}
