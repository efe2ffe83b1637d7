// Package eval walks a scene node tree and turns it into meshes, in one of two
// modes: Preview (cheap, no boolean ops, ghost overlays for boolean tails) and
// Export (full boolean composition at export tessellation).
package eval

import (
	"keycap-studio/internal/cache"
	"keycap-studio/internal/csg"
	"keycap-studio/internal/geometry"
	"keycap-studio/internal/keycap"
	"keycap-studio/internal/logger"
	"keycap-studio/internal/scene"
)

// Mode selects the pipeline tier; it is threaded as a parameter through every
// recursive call rather than held as state.
type Mode = keycap.Quality

const (
	Preview = keycap.Preview
	Export  = keycap.Export
)

// defaultCreaseAngle is used when recomputing normals on boolean results,
// matching the cherry-profile crease.
const defaultCreaseAngle = 35

// Object is one evaluation result: either a mesh or a group of child objects.
// Ghost marks boolean tail children in Preview mode, drawn translucent and
// never exported.
type Object struct {
	Mesh     *geometry.Mesh
	Children []*Object
	Ghost    bool
}

// transform bakes a node transform into every mesh of the object tree.
func (o *Object) transform(position, rotation [3]float32) {
	if o == nil {
		return
	}
	if o.Mesh != nil {
		o.Mesh.TransformTRS(position, rotation)
	}
	for _, c := range o.Children {
		c.transform(position, rotation)
	}
}

// Flatten merges every non-ghost mesh in the object tree into a single mesh.
// Returns an empty mesh for a nil or all-ghost object.
func (o *Object) Flatten() geometry.Mesh {
	var out geometry.Mesh
	o.flattenInto(&out)
	return out
}

func (o *Object) flattenInto(dst *geometry.Mesh) {
	if o == nil || o.Ghost {
		return
	}
	if o.Mesh != nil {
		if dst.IsEmpty() {
			dst.Color = o.Mesh.Color
		}
		dst.Append(*o.Mesh)
	}
	for _, c := range o.Children {
		c.flattenInto(dst)
	}
}

// Evaluator turns scene nodes into objects. Each evaluator owns its two cache
// instances; the UI thread and the export worker each hold their own, so
// caches are never shared across pipelines. The caches and the generator's
// font state carry their own locks, which keeps the exporter's shared
// synchronous-fallback evaluator safe under concurrent callers.
type Evaluator struct {
	Gen          *keycap.Generator
	Op           csg.Operator
	PreviewCache *cache.GeometryCache
	ExportCache  *cache.GeometryCache
	Detail       keycap.Detail
	Log          *logger.Logger
}

// New returns an evaluator with fresh caches, wiring the boolean operator into
// the keycap generator as well.
func New(op csg.Operator, log *logger.Logger) *Evaluator {
	return &Evaluator{
		Gen:          keycap.NewGenerator(op, log),
		Op:           op,
		PreviewCache: cache.NewPreviewCache(),
		ExportCache:  cache.NewExportCache(),
		Detail:       keycap.DetailBalanced,
		Log:          log,
	}
}

// SetDetail changes the tessellation level and clears both caches, since
// entries generated at another level would be visually wrong.
func (e *Evaluator) SetDetail(d keycap.Detail) {
	if d == e.Detail {
		return
	}
	e.Detail = d
	e.ClearCaches()
}

// ClearCaches drops all cached geometry (the user's "clear cache" action).
func (e *Evaluator) ClearCaches() {
	e.PreviewCache.Clear()
	e.ExportCache.Clear()
}

// Evaluate builds the object for a node. Unknown or malformed nodes yield nil,
// never an error: a broken branch must not take down the rest of the scene.
// Every non-nil result has the node's own transform already baked in.
func (e *Evaluator) Evaluate(n *scene.Node, mode Mode) *Object {
	if n == nil {
		return nil
	}
	var obj *Object
	switch n.Kind {
	case scene.KindPrimitive:
		obj = e.evalPrimitive(n)
	case scene.KindKeycap:
		obj = e.evalKeycap(n, mode)
	case scene.KindBoolean:
		obj = e.evalBoolean(n, mode)
	case scene.KindGroup:
		obj = e.evalGroup(n, mode)
	default:
		e.Log.Logf("eval: skipping node %q with unknown kind %q", n.ID, n.Kind)
		return nil
	}
	if obj != nil {
		obj.transform(n.Position, n.Rotation)
	}
	return obj
}

// evalPrimitive builds a primitive solid directly; primitives are cheap and
// never cached.
func (e *Evaluator) evalPrimitive(n *scene.Node) *Object {
	d := n.Primitive
	if d == nil {
		return nil
	}
	var m geometry.Mesh
	switch d.Shape {
	case scene.ShapeBox:
		sx, sy, sz := d.Size[0], d.Size[1], d.Size[2]
		if sx <= 0 {
			sx = 10
		}
		if sy <= 0 {
			sy = 10
		}
		if sz <= 0 {
			sz = 10
		}
		m = geometry.GenBox(sx, sy, sz)
	case scene.ShapeCylinder:
		r, h := d.Radius, d.Height
		if r <= 0 {
			r = 5
		}
		if h <= 0 {
			h = 10
		}
		m = geometry.GenCylinder(r, h, 0)
	case scene.ShapeSphere:
		r := d.Radius
		if r <= 0 {
			r = 5
		}
		m = geometry.GenSphere(r, 0, 0)
	default:
		e.Log.Logf("eval: skipping primitive %q with unknown shape %q", n.ID, d.Shape)
		return nil
	}
	m.Color = d.Color
	return &Object{Mesh: &m}
}

// evalKeycap delegates to the generator through the mode's cache. Color is
// applied after the cache lookup and is never part of the key. Embossed caps
// bypass the cache: legend text changes geometry but is not a key field.
func (e *Evaluator) evalKeycap(n *scene.Node, mode Mode) *Object {
	p := n.Keycap
	if p == nil {
		return nil
	}
	if p.Emboss.Enabled && p.Emboss.Text != "" {
		m := e.Gen.Generate(*p, mode, e.Detail)
		m.Color = p.Color
		return &Object{Mesh: &m}
	}
	c := e.PreviewCache
	if mode == Export {
		c = e.ExportCache
	}
	key := p.ShapeKey()
	m, ok := c.Get(key)
	if !ok {
		m = e.Gen.Generate(*p, mode, e.Detail)
		c.Put(key, m)
	}
	m.Color = p.Color
	return &Object{Mesh: &m}
}

// evalBoolean combines ordered children. Zero children is nothing; one child
// passes through. In Preview mode no boolean op ever runs: the first child is
// shown as-is and the remaining children become translucent ghosts, an
// intentional interactivity trade-off. In Export mode children fold left to
// right through the operator, then the result is welded and renormaled once.
func (e *Evaluator) evalBoolean(n *scene.Node, mode Mode) *Object {
	if len(n.Children) == 0 {
		return nil
	}
	if len(n.Children) == 1 {
		return e.Evaluate(n.Children[0], mode)
	}
	op := csg.Subtract
	if n.Boolean != nil && n.Boolean.Operation != "" {
		op = n.Boolean.Operation
	}

	if mode == Preview {
		out := &Object{}
		if base := e.Evaluate(n.Children[0], mode); base != nil {
			out.Children = append(out.Children, base)
		}
		for _, c := range n.Children[1:] {
			if ghost := e.Evaluate(c, mode); ghost != nil {
				ghost.Ghost = true
				out.Children = append(out.Children, ghost)
			}
		}
		if len(out.Children) == 0 {
			return nil
		}
		return out
	}

	base := e.Evaluate(n.Children[0], mode)
	if base == nil {
		return nil
	}
	acc := base.Flatten()
	changed := false
	for _, c := range n.Children[1:] {
		childObj := e.Evaluate(c, mode)
		if childObj == nil {
			continue
		}
		operand := childObj.Flatten()
		if operand.IsEmpty() {
			continue
		}
		next, err := csg.Apply(e.Op, op, acc, operand)
		if err != nil {
			e.Log.Logf("eval: %s failed on node %q child, keeping previous result: %v", op, n.ID, err)
			continue
		}
		acc = next
		changed = true
	}
	if changed {
		acc.MergeVertices()
		geometry.SmoothNormals(&acc, defaultCreaseAngle)
	}
	return &Object{Mesh: &acc}
}

// evalGroup evaluates children in order and collects them under one object.
func (e *Evaluator) evalGroup(n *scene.Node, mode Mode) *Object {
	out := &Object{}
	for _, c := range n.Children {
		if child := e.Evaluate(c, mode); child != nil {
			out.Children = append(out.Children, child)
		}
	}
	if len(out.Children) == 0 {
		return nil
	}
	return out
}
