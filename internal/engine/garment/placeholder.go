package garment

import (
	"github.com/wearview/fitmirror/pkg/math"
)

// Placeholder builds a crude sleeveless top out of flat panels, used until
// a real garment asset is attached. Dimensions are in garment-local units
// where shoulder width is roughly 1.
func Placeholder() (Index, []*Mesh) {
	front := panelMesh(-0.06, 1)
	back := panelMesh(0.06, -1)

	nodes := []Node{
		{Name: "root", Kind: KindGroup, Local: math.Identity(), MeshIndex: -1, Parent: -1},
		{Name: "chest_front", Kind: KindRigidMesh, Region: RegionChest, Local: math.Identity(), MeshIndex: 0, Parent: 0},
		{Name: "chest_back", Kind: KindRigidMesh, Region: RegionChest, Local: math.Identity(), MeshIndex: 1, Parent: 0},
	}

	return BuildIndex(nodes), []*Mesh{front, back}
}

// panelMesh builds one torso panel at the given z offset, with the normal
// facing sign*Z.
func panelMesh(z, sign float32) *Mesh {
	const (
		halfW = 0.55
		top   = 0.35
		hem   = -0.75
	)

	n := [3]float32{0, 0, sign}
	verts := []Vertex{
		{Position: [3]float32{-halfW, hem, z}, Normal: n, TexCoord: [2]float32{0, 1}},
		{Position: [3]float32{halfW, hem, z}, Normal: n, TexCoord: [2]float32{1, 1}},
		{Position: [3]float32{halfW, top, z}, Normal: n, TexCoord: [2]float32{1, 0}},
		{Position: [3]float32{-halfW, top, z}, Normal: n, TexCoord: [2]float32{0, 0}},
	}

	idx := []uint32{0, 1, 2, 0, 2, 3}
	if sign < 0 {
		idx = []uint32{0, 2, 1, 0, 3, 2}
	}

	return &Mesh{Vertices: verts, Indices: idx}
}
