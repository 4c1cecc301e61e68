// Package compositor layers the live camera image behind the 3D garment in
// strict back-to-front order.
package compositor

import (
	"fmt"
	"image"
	"sort"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/wearview/fitmirror/internal/engine/shader"
	"github.com/wearview/fitmirror/pkg/math"
)

// Draw order keys. Lower draws first. Order is explicit rather than
// relying on insertion order: depth configuration and ordering must both
// be right for compositing to survive resizes and material swaps.
const (
	OrderBackground = 0
	OrderGarment    = 100
	OrderOverlay    = 200
)

const backgroundVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec2 aTexCoord;

uniform mat4 uMVP;

out vec2 vTexCoord;

void main() {
    gl_Position = uMVP * vec4(aPosition, 1.0);
    vTexCoord = aTexCoord;
}
`

const backgroundFragmentShader = `#version 410 core
in vec2 vTexCoord;

uniform sampler2D uTexture;

out vec4 fragColor;

void main() {
    fragColor = texture(uTexture, vTexCoord);
}
`

// Config holds camera and frustum settings for the compositing scene.
type Config struct {
	// FOVY is the vertical field of view in radians.
	FOVY float32
	// Aspect is viewport width/height.
	Aspect float32
	// CameraDistance is the eye's +Z offset from the world origin where
	// the garment lives.
	CameraDistance float32
	// BackgroundDepth is the fixed -Z position of the camera backdrop.
	BackgroundDepth float32
}

// DefaultConfig returns frustum settings for a webcam-like view.
func DefaultConfig(aspect float32) Config {
	return Config{
		FOVY:            math.DegToRad(50),
		Aspect:          aspect,
		CameraDistance:  10,
		BackgroundDepth: -12,
	}
}

// Layer is one draw pass ordered by its key.
type Layer struct {
	Order int
	Draw  func(view, proj math.Mat4)
}

// Compositor owns the camera, the video backdrop plane, and the ordered
// draw passes of each output frame.
type Compositor struct {
	cfg Config

	program    uint32
	locMVP     int32
	locTexture int32

	vao uint32
	vbo uint32

	texture     uint32
	texW, texH  int32
	uploadedSeq uint64

	planeW, planeH float32

	layers []Layer
}

// New creates a compositor. Requires a current GL context.
func New(cfg Config) (*Compositor, error) {
	c := &Compositor{cfg: cfg}

	program, err := shader.CompileProgram(backgroundVertexShader, backgroundFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("background shader: %w", err)
	}
	c.program = program
	c.locMVP = shader.GetUniform(program, "uMVP")
	c.locTexture = shader.GetUniform(program, "uTexture")

	c.createPlane()
	c.resizePlane()

	gl.GenTextures(1, &c.texture)
	gl.BindTexture(gl.TEXTURE_2D, c.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	return c, nil
}

// createPlane builds a unit quad scaled to frustum size at draw time.
func (c *Compositor) createPlane() {
	// Unit quad in XY, texture V flipped: camera frames are top-down.
	vertices := []float32{
		// Position (XYZ), TexCoord (UV)
		-0.5, -0.5, 0, 0, 1,
		0.5, -0.5, 0, 1, 1,
		0.5, 0.5, 0, 1, 0,
		-0.5, -0.5, 0, 0, 1,
		0.5, 0.5, 0, 1, 0,
		-0.5, 0.5, 0, 0, 0,
	}

	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)

	gl.GenBuffers(1, &c.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 5*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 5*4, 12)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
}

// resizePlane recomputes the backdrop's world size so it exactly fills the
// frustum at its fixed depth.
func (c *Compositor) resizePlane() {
	distance := c.cfg.CameraDistance - c.cfg.BackgroundDepth
	c.planeW, c.planeH = PlaneSize(c.cfg.FOVY, distance, c.cfg.Aspect)
}

// Resize updates the aspect ratio after a viewport resize.
func (c *Compositor) Resize(aspect float32) {
	c.cfg.Aspect = aspect
	c.resizePlane()
}

// PlaneWorldSize returns the backdrop's current world dimensions.
func (c *Compositor) PlaneWorldSize() (float32, float32) {
	return c.planeW, c.planeH
}

// View returns the view matrix: a fixed camera on +Z looking at the origin.
func (c *Compositor) View() math.Mat4 {
	eye := math.Vec3{X: 0, Y: 0, Z: c.cfg.CameraDistance}
	return math.LookAt(eye, math.Vec3{}, math.Vec3{Y: 1})
}

// Proj returns the projection matrix for the current aspect ratio.
func (c *Compositor) Proj() math.Mat4 {
	return math.Perspective(c.cfg.FOVY, c.cfg.Aspect, 0.1, 100)
}

// AddLayer registers a draw pass. Layers render sorted by order key.
func (c *Compositor) AddLayer(order int, draw func(view, proj math.Mat4)) {
	c.layers = append(c.layers, Layer{Order: order, Draw: draw})
	sort.SliceStable(c.layers, func(i, j int) bool {
		return c.layers[i].Order < c.layers[j].Order
	})
}

// Composite renders one output frame: the camera backdrop first, excluded
// from depth testing and writing so it can never occlude 3D content, then
// every registered layer in order.
func (c *Compositor) Composite(frame *image.RGBA, seq uint64) {
	view := c.View()
	proj := c.Proj()

	if frame != nil {
		c.uploadFrame(frame, seq)
		c.drawBackground(view, proj)
	}

	for _, layer := range c.layers {
		layer.Draw(view, proj)
	}
}

// uploadFrame pushes the camera image to the GPU if it changed.
func (c *Compositor) uploadFrame(frame *image.RGBA, seq uint64) {
	if seq == c.uploadedSeq {
		return
	}
	c.uploadedSeq = seq

	b := frame.Bounds()
	w, h := int32(b.Dx()), int32(b.Dy())

	gl.BindTexture(gl.TEXTURE_2D, c.texture)
	if w != c.texW || h != c.texH {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, w, h, 0,
			gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&frame.Pix[0]))
		c.texW, c.texH = w, h
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, w, h,
			gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&frame.Pix[0]))
	}
}

// drawBackground draws the backdrop plane unlit with depth test and depth
// writes disabled.
func (c *Compositor) drawBackground(view, proj math.Mat4) {
	gl.Disable(gl.DEPTH_TEST)
	gl.DepthMask(false)

	model := math.Translate(0, 0, c.cfg.BackgroundDepth).
		Mul(math.ScaleXYZ(c.planeW, c.planeH, 1))
	mvp := proj.Mul(view).Mul(model)

	gl.UseProgram(c.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, c.texture)
	gl.Uniform1i(c.locTexture, 0)
	gl.UniformMatrix4fv(c.locMVP, 1, false, mvp.Ptr())

	gl.BindVertexArray(c.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	gl.DepthMask(true)
	gl.Enable(gl.DEPTH_TEST)
}

// Close releases GPU resources.
func (c *Compositor) Close() {
	if c.vao != 0 {
		gl.DeleteVertexArrays(1, &c.vao)
	}
	if c.vbo != 0 {
		gl.DeleteBuffers(1, &c.vbo)
	}
	if c.texture != 0 {
		gl.DeleteTextures(1, &c.texture)
	}
	if c.program != 0 {
		gl.DeleteProgram(c.program)
	}
}
