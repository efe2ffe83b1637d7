// Package csg defines the boolean mesh capability used by the keycap generator
// and the scene evaluator, plus a default BSP-tree implementation. Callers hold
// the narrow Operator interface so a different kernel (e.g. a Manifold binding)
// can be dropped in without touching the pipelines.
package csg

import "keycap-studio/internal/geometry"

// Operation selects how a Boolean scene node combines its children.
type Operation string

const (
	Union     Operation = "union"
	Subtract  Operation = "subtract"
	Intersect Operation = "intersect"
)

// Operator performs boolean operations on two triangle meshes, returning a new
// mesh. Implementations may fail on degenerate input; callers are expected to
// recover by keeping the pre-operation mesh.
type Operator interface {
	Union(a, b geometry.Mesh) (geometry.Mesh, error)
	Subtract(a, b geometry.Mesh) (geometry.Mesh, error)
	Intersect(a, b geometry.Mesh) (geometry.Mesh, error)
}

// Apply dispatches op on the operator. Unknown operations fall back to
// Subtract, the default for Boolean scene nodes.
func Apply(operator Operator, op Operation, a, b geometry.Mesh) (geometry.Mesh, error) {
	switch op {
	case Union:
		return operator.Union(a, b)
	case Intersect:
		return operator.Intersect(a, b)
	default:
		return operator.Subtract(a, b)
	}
}
