// Package render is the interactive preview: it uploads evaluated meshes to
// the GPU and draws them over an editor grid with a free camera. Booleans
// evaluated in Preview mode arrive with translucent ghost children.
package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	gridExtent     = 50
	gridMinorStep  = 1
	gridMajorStep  = 10
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220
)

// Viewer holds a 3D camera and draws the evaluated scene. Update runs camera
// logic (free camera); Draw renders between BeginMode3D and EndMode3D.
type Viewer struct {
	Camera      rl.Camera3D
	GridVisible bool
	ShowGhosts  bool
	cursorDone  bool
	models      []Model
}

// NewViewer returns a viewer with a perspective camera looking at the origin.
// Camera: position (30,30,30), target (0,5,0), up (0,1,0), fovy 45°. Keycaps
// are ~18mm wide, so the camera starts a few caps away.
func NewViewer() *Viewer {
	v := &Viewer{GridVisible: true, ShowGhosts: true}
	v.Camera.Position = rl.NewVector3(30, 30, 30)
	v.Camera.Target = rl.NewVector3(0, 5, 0)
	v.Camera.Up = rl.NewVector3(0, 1, 0)
	v.Camera.Fovy = 45
	v.Camera.Projection = rl.CameraPerspective
	return v
}

// SetModels replaces the drawn model set, unloading the previous one.
func (v *Viewer) SetModels(models []Model) {
	UnloadModels(v.models)
	v.models = models
}

// Update runs once per frame. Uses raylib UpdateCamera with CameraFree so the
// user can orbit/zoom/pan. Cursor is disabled so the mouse is captured.
func (v *Viewer) Update() {
	if !v.cursorDone {
		rl.DisableCursor()
		v.cursorDone = true
	}
	rl.UpdateCamera(&v.Camera, rl.CameraFree)
}

// Draw renders the 3D scene: grid first, then solid models, then ghosts last
// so their translucency blends over the solids.
func (v *Viewer) Draw() {
	rl.BeginMode3D(v.Camera)
	if v.GridVisible {
		drawEditorGrid()
	}
	setLitUniforms(v.Camera.Position)
	for _, m := range v.models {
		if !m.ghost {
			rl.DrawModel(m.model, rl.NewVector3(0, 0, 0), 1, m.color)
		}
	}
	for _, m := range v.models {
		if m.ghost && v.ShowGhosts {
			rl.DrawModel(m.model, rl.NewVector3(0, 0, 0), 1, m.color)
		}
	}
	rl.EndMode3D()
}

// Run opens the window and drives the frame loop until the window is closed.
// Each frame calls update (e.g. re-evaluate after edits), then clears and
// draws. Close via window button or ESC.
func Run(v *Viewer, update func()) {
	rl.InitWindow(1280, 800, "keycap studio")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		update()
		v.Update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(24, 26, 30, 255))
		v.Draw()
		rl.EndDrawing()
	}
	v.SetModels(nil)
	unloadLitShader()
}

// drawEditorGrid draws a grid on the XZ plane with major/minor lines and axis
// lines through the origin (X=red, Y=green, Z=blue). Reuses start/end vectors
// to avoid per-frame allocations in the hot loop.
func drawEditorGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)
	axisX := rl.NewColor(220, 80, 80, axisLineAlpha)
	axisY := rl.NewColor(80, 220, 80, axisLineAlpha)
	axisZ := rl.NewColor(80, 80, 220, axisLineAlpha)

	var start, end rl.Vector3
	for x := -gridExtent; x <= gridExtent; x += gridMinorStep {
		c := major
		if x%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(x), 0, float32(-gridExtent)
		end.X, end.Y, end.Z = float32(x), 0, float32(gridExtent)
		rl.DrawLine3D(start, end, c)
	}
	for z := -gridExtent; z <= gridExtent; z += gridMinorStep {
		c := major
		if z%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(-gridExtent), 0, float32(z)
		end.X, end.Y, end.Z = float32(gridExtent), 0, float32(z)
		rl.DrawLine3D(start, end, c)
	}

	start.X, start.Y, start.Z = float32(-gridExtent), 0, 0
	end.X, end.Y, end.Z = float32(gridExtent), 0, 0
	rl.DrawLine3D(start, end, axisX)
	start.X, start.Y, start.Z = 0, float32(-gridExtent), 0
	end.X, end.Y, end.Z = 0, float32(gridExtent), 0
	rl.DrawLine3D(start, end, axisY)
	start.X, start.Y, start.Z = 0, 0, float32(-gridExtent)
	end.X, end.Y, end.Z = 0, 0, float32(gridExtent)
	rl.DrawLine3D(start, end, axisZ)
}
