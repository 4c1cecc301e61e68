// Package material supplies the fabric materials applied to garment parts.
package material

// Material is an opaque handle to a fabric appearance: a base color tint
// and an optional GL texture. Zero TextureID means untextured.
type Material struct {
	Name      string
	BaseColor [4]float32
	TextureID uint32
}

// Provider supplies the currently selected material.
type Provider interface {
	Active() Material
}

// StaticProvider always returns the same material. Suitable as a default
// until a fabric catalog is attached.
type StaticProvider struct {
	Material Material
}

// Active returns the provider's material.
func (p StaticProvider) Active() Material {
	return p.Material
}

// DefaultProvider returns a provider with a plain white fabric.
func DefaultProvider() StaticProvider {
	return StaticProvider{Material: Material{
		Name:      "plain",
		BaseColor: [4]float32{0.9, 0.9, 0.92, 1},
	}}
}
