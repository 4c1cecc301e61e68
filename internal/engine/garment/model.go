package garment

import (
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/wearview/fitmirror/internal/engine/material"
	"github.com/wearview/fitmirror/internal/engine/shader"
	"github.com/wearview/fitmirror/internal/logger"
	"github.com/wearview/fitmirror/internal/tracking"
	"github.com/wearview/fitmirror/pkg/math"
)

const garmentVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aTexCoord;

uniform mat4 uMVP;
uniform mat4 uModel;

out vec3 vNormal;
out vec2 vTexCoord;

void main() {
    gl_Position = uMVP * vec4(aPosition, 1.0);
    vNormal = mat3(uModel) * aNormal;
    vTexCoord = aTexCoord;
}
`

const garmentFragmentShader = `#version 410 core
in vec3 vNormal;
in vec2 vTexCoord;

uniform vec3 uLightDir;
uniform vec3 uAmbient;
uniform vec4 uBaseColor;
uniform sampler2D uTexture;
uniform bool uUseTexture;

out vec4 fragColor;

void main() {
    vec3 n = normalize(vNormal);
    float diffuse = max(dot(n, -uLightDir), 0.0);
    vec4 base = uBaseColor;
    if (uUseTexture) {
        base *= texture(uTexture, vTexCoord);
    }
    vec3 lit = base.rgb * (uAmbient + vec3(diffuse));
    fragColor = vec4(lit, base.a);
}
`

// Model is the loaded garment. The tracking controller owns its transform
// and visibility; the render layer only reads them.
//
// The model starts empty and becomes Ready once Load delivers the indexed
// node tree from the asset loader.
type Model struct {
	mu       sync.Mutex
	index    Index
	meshes   []*Mesh
	loaded   bool
	disposed bool

	visible   bool
	transform tracking.Transform

	program      uint32
	locMVP       int32
	locModel     int32
	locLightDir  int32
	locAmbient   int32
	locBaseColor int32
	locTexture   int32
	locUseTex    int32
}

// NewModel creates an empty garment model and compiles its shader.
// Requires a current GL context.
func NewModel() (*Model, error) {
	program, err := shader.CompileProgram(garmentVertexShader, garmentFragmentShader)
	if err != nil {
		return nil, err
	}

	m := &Model{program: program}
	m.locMVP = shader.GetUniform(program, "uMVP")
	m.locModel = shader.GetUniform(program, "uModel")
	m.locLightDir = shader.GetUniform(program, "uLightDir")
	m.locAmbient = shader.GetUniform(program, "uAmbient")
	m.locBaseColor = shader.GetUniform(program, "uBaseColor")
	m.locTexture = shader.GetUniform(program, "uTexture")
	m.locUseTex = shader.GetUniform(program, "uUseTexture")
	return m, nil
}

// Load installs the indexed garment tree delivered by the asset loader and
// uploads its meshes. Ignored if the model was disposed while the load was
// in flight.
func (m *Model) Load(index Index, meshes []*Mesh) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		logger.Warn("garment load discarded, model disposed")
		return
	}

	for _, mesh := range meshes {
		mesh.Upload()
	}
	m.index = index
	m.meshes = meshes
	m.loaded = true

	logger.Info("garment loaded",
		zap.Int("nodes", len(index.Nodes)),
		zap.Int("draw_nodes", len(index.DrawList)),
	)
}

// Ready reports whether the garment tree has been loaded.
func (m *Model) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// SetVisible toggles visibility of all garment parts atomically.
func (m *Model) SetVisible(visible bool) {
	m.visible = visible
}

// Visible reports the current visibility flag.
func (m *Model) Visible() bool {
	return m.visible
}

// SetTransform sets the root transform applied at the next draw.
func (m *Model) SetTransform(t tracking.Transform) {
	m.transform = t
}

// Transform returns the current root transform.
func (m *Model) Transform() tracking.Transform {
	return m.transform
}

// Draw renders all visible garment parts lit, with the active material.
func (m *Model) Draw(view, proj math.Mat4, mat material.Material, lightDir math.Vec3) {
	if !m.visible || !m.Ready() {
		return
	}

	gl.UseProgram(m.program)
	gl.Uniform3f(m.locLightDir, lightDir.X, lightDir.Y, lightDir.Z)
	gl.Uniform3f(m.locAmbient, 0.35, 0.35, 0.38)
	gl.Uniform4f(m.locBaseColor, mat.BaseColor[0], mat.BaseColor[1], mat.BaseColor[2], mat.BaseColor[3])

	if mat.TextureID != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, mat.TextureID)
		gl.Uniform1i(m.locTexture, 0)
		gl.Uniform1i(m.locUseTex, 1)
	} else {
		gl.Uniform1i(m.locUseTex, 0)
	}

	root := m.transform.Matrix()
	viewProj := proj.Mul(view)

	for _, ni := range m.index.DrawList {
		node := m.index.Nodes[ni]
		fit := regionScale(node.Region)
		model := root.Mul(node.Local).Mul(math.ScaleXYZ(fit.X, fit.Y, fit.Z))
		mvp := viewProj.Mul(model)

		gl.UniformMatrix4fv(m.locMVP, 1, false, mvp.Ptr())
		gl.UniformMatrix4fv(m.locModel, 1, false, model.Ptr())
		m.meshes[node.MeshIndex].Draw()
	}
}

// Dispose releases GPU resources. A load completing after Dispose is
// discarded.
func (m *Model) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.disposed = true
	m.loaded = false
	for _, mesh := range m.meshes {
		mesh.Delete()
	}
	m.meshes = nil
	if m.program != 0 {
		gl.DeleteProgram(m.program)
		m.program = 0
	}
}
