// Package garment manages the 3D garment model: its scene-graph index,
// root transform, visibility, and crude per-region fit scaling.
package garment

import (
	"github.com/wearview/fitmirror/pkg/math"
)

// NodeKind tags a scene-graph node. The garment tree is classified once at
// load time; nothing re-branches on duck-typed flags at draw time.
type NodeKind uint8

const (
	KindGroup NodeKind = iota
	KindBone
	KindRigidMesh
	KindSkinnedMesh
)

func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindBone:
		return "bone"
	case KindRigidMesh:
		return "rigid_mesh"
	case KindSkinnedMesh:
		return "skinned_mesh"
	default:
		return "unknown"
	}
}

// Region identifies the garment area a mesh belongs to, for the static
// per-region fit heuristic.
type Region uint8

const (
	RegionNone Region = iota
	RegionChest
	RegionWaist
	RegionHem
	RegionSleeve
)

// Node is one element of the loaded garment tree.
type Node struct {
	Name   string
	Kind   NodeKind
	Region Region
	// Local is the node's bind transform relative to the garment root,
	// flattened at load time so drawing never re-walks the hierarchy.
	Local math.Mat4
	// MeshIndex points into the model's mesh list for mesh kinds, -1
	// otherwise.
	MeshIndex int
	Parent    int
}

// Index is the flattened scene-graph index, produced once at load.
type Index struct {
	Nodes []Node
	// DrawList holds indices of the renderable nodes in draw order.
	DrawList []int
}

// BuildIndex flattens a node tree into an index. Parent transforms are
// pre-multiplied into each node's Local, and renderable nodes are
// collected into the draw list. Skinned meshes draw as rigid meshes here;
// cloth deformation beyond the region heuristic is out of scope.
func BuildIndex(nodes []Node) Index {
	idx := Index{Nodes: make([]Node, len(nodes))}
	copy(idx.Nodes, nodes)

	for i := range idx.Nodes {
		n := &idx.Nodes[i]
		if n.Parent >= 0 && n.Parent < i {
			n.Local = idx.Nodes[n.Parent].Local.Mul(n.Local)
		}
		if (n.Kind == KindRigidMesh || n.Kind == KindSkinnedMesh) && n.MeshIndex >= 0 {
			idx.DrawList = append(idx.DrawList, i)
		}
	}
	return idx
}

// regionScale returns the static fit multiplier for a region. This is a
// per-region scale heuristic, not a cloth simulation.
func regionScale(r Region) math.Vec3 {
	switch r {
	case RegionChest:
		return math.Vec3{X: 1.05, Y: 1.0, Z: 1.05}
	case RegionWaist:
		return math.Vec3{X: 0.97, Y: 1.0, Z: 0.97}
	case RegionHem:
		return math.Vec3{X: 1.1, Y: 1.0, Z: 1.1}
	case RegionSleeve:
		return math.Vec3{X: 1.02, Y: 1.0, Z: 1.02}
	default:
		return math.Vec3{X: 1, Y: 1, Z: 1}
	}
}
