package render

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"

import (
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"keycap-studio/internal/eval"
	"keycap-studio/internal/geometry"
)

// ghostAlpha is the tint alpha for boolean tail children in preview.
const ghostAlpha = 80

// Model is one uploaded evaluation result ready for drawing.
type Model struct {
	model rl.Model
	color rl.Color
	ghost bool
}

// BuildModels uploads every mesh of an evaluated object tree to the GPU.
// Ghost objects keep their flag so Draw can render them translucent.
// Call UnloadModels before replacing a previous set.
func BuildModels(obj *eval.Object) []Model {
	var out []Model
	collectModels(obj, false, &out)
	return out
}

func collectModels(obj *eval.Object, ghost bool, out *[]Model) {
	if obj == nil {
		return
	}
	ghost = ghost || obj.Ghost
	if obj.Mesh != nil && !obj.Mesh.IsEmpty() {
		mesh := meshToRaylib(*obj.Mesh)
		rl.UploadMesh(&mesh, false)
		model := rl.LoadModelFromMesh(mesh)
		if shader := litShader(); rl.IsShaderValid(shader) && model.MaterialCount > 0 {
			materials := unsafe.Slice(model.Materials, model.MaterialCount)
			materials[0].Shader = shader
		}
		c := obj.Mesh.Color
		color := rl.NewColor(c[0], c[1], c[2], c[3])
		if color.A == 0 {
			color = rl.NewColor(200, 200, 205, 255)
		}
		if ghost {
			color.A = ghostAlpha
		}
		*out = append(*out, Model{model: model, color: color, ghost: ghost})
	}
	for _, child := range obj.Children {
		collectModels(child, ghost, out)
	}
}

// UnloadModels frees the GPU resources of a previous BuildModels result.
func UnloadModels(models []Model) {
	for _, m := range models {
		rl.UnloadModel(m.model)
	}
}

// meshToRaylib un-indexes the mesh (raylib draws plain triangle soups here)
// and copies the buffers into C memory so the GC can never move them out from
// under the renderer.
func meshToRaylib(src geometry.Mesh) rl.Mesh {
	tris := src.TriangleCount()
	vertices := make([]float32, 0, tris*9)
	normals := make([]float32, 0, tris*9)
	for _, idx := range src.Indices {
		p := src.Position(int(idx))
		vertices = append(vertices, p.X(), p.Y(), p.Z())
		if len(src.Normals) > int(idx)*3+2 {
			normals = append(normals, src.Normals[idx*3], src.Normals[idx*3+1], src.Normals[idx*3+2])
		} else {
			normals = append(normals, 0, 1, 0)
		}
	}

	var mesh rl.Mesh
	mesh.VertexCount = int32(tris * 3)
	mesh.TriangleCount = int32(tris)
	if len(vertices) > 0 {
		mesh.Vertices = (*float32)(copyToC(unsafe.Pointer(&vertices[0]), len(vertices)*4))
		mesh.Normals = (*float32)(copyToC(unsafe.Pointer(&normals[0]), len(normals)*4))
	}
	return mesh
}

func copyToC(data unsafe.Pointer, size int) unsafe.Pointer {
	if size <= 0 || data == nil {
		return nil
	}
	ptr := C.malloc(C.size_t(size))
	C.memcpy(ptr, data, C.size_t(size))
	return ptr
}
