// Package scene defines the CSG node tree that the evaluator walks and the
// JSON document wrapper it is persisted in. Nodes form a tagged union: Kind
// selects which payload field is meaningful, and a single switch in the
// evaluator dispatches on it.
package scene

import (
	"fmt"

	"github.com/jinzhu/copier"

	"keycap-studio/internal/csg"
	"keycap-studio/internal/keycap"
)

// Kind tags the node variants.
type Kind string

const (
	KindPrimitive Kind = "primitive"
	KindKeycap    Kind = "keycap"
	KindBoolean   Kind = "boolean"
	KindGroup     Kind = "group"
)

// Shape names the primitive solids.
type Shape string

const (
	ShapeBox      Shape = "box"
	ShapeCylinder Shape = "cylinder"
	ShapeSphere   Shape = "sphere"
)

// PrimitiveData is the payload of a primitive node. Size is the full extent
// for boxes; Radius/Height are used by cylinders and spheres.
type PrimitiveData struct {
	Shape  Shape      `json:"shape"`
	Size   [3]float32 `json:"size,omitempty"`
	Radius float32    `json:"radius,omitempty"`
	Height float32    `json:"height,omitempty"`
	Color  [4]uint8   `json:"color"`
}

// BooleanData is the payload of a boolean node. An empty operation means
// subtract, the historical default.
type BooleanData struct {
	Operation csg.Operation `json:"operation,omitempty"`
}

// Node is one element of the scene tree. Exactly one payload pointer is set
// for primitive/keycap/boolean kinds; Children is used by boolean and group
// nodes and is ordered — element 0 is the boolean base mesh, the rest are
// combined left to right.
type Node struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	Position  [3]float32     `json:"position"`
	Rotation  [3]float32     `json:"rotation"`
	Primitive *PrimitiveData `json:"primitive,omitempty"`
	Keycap    *keycap.Params `json:"keycap,omitempty"`
	Boolean   *BooleanData   `json:"boolean,omitempty"`
	Children  []*Node        `json:"children,omitempty"`
}

// Clone returns a deep copy of the node tree, so the original can keep being
// edited while a copy crosses into the export worker.
func (n *Node) Clone() (*Node, error) {
	if n == nil {
		return nil, nil
	}
	out := &Node{}
	if err := copier.CopyWithOption(out, n, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("scene: clone failed: %w", err)
	}
	restoreNilChildren(out)
	return out, nil
}

// restoreNilChildren undoes the copier's normalization of nil child slices to
// empty ones, keeping clones deep-equal to their source trees.
func restoreNilChildren(n *Node) {
	if len(n.Children) == 0 {
		n.Children = nil
		return
	}
	for _, c := range n.Children {
		restoreNilChildren(c)
	}
}

// Validate checks the tree invariants: unique ids and payload/kind agreement.
// The evaluator itself treats malformed nodes as empty results; Validate is
// for the loading boundary, where a broken document should be reported.
func (n *Node) Validate() error {
	seen := make(map[string]bool)
	return n.validate(seen)
}

func (n *Node) validate(seen map[string]bool) error {
	if n == nil {
		return nil
	}
	if n.ID != "" {
		if seen[n.ID] {
			return fmt.Errorf("scene: duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
	}
	switch n.Kind {
	case KindPrimitive:
		if n.Primitive == nil {
			return fmt.Errorf("scene: primitive node %q has no primitive payload", n.ID)
		}
	case KindKeycap:
		if n.Keycap == nil {
			return fmt.Errorf("scene: keycap node %q has no keycap payload", n.ID)
		}
	case KindBoolean, KindGroup:
	default:
		return fmt.Errorf("scene: node %q has unknown kind %q", n.ID, n.Kind)
	}
	for _, c := range n.Children {
		if err := c.validate(seen); err != nil {
			return err
		}
	}
	return nil
}
