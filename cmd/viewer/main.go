package main

import (
	"flag"
	"fmt"
	"os"

	"keycap-studio/internal/csg"
	"keycap-studio/internal/eval"
	"keycap-studio/internal/keycap"
	"keycap-studio/internal/logger"
	"keycap-studio/internal/render"
	"keycap-studio/internal/scene"
	"keycap-studio/internal/studioconfig"
)

func main() {
	scenePath := flag.String("scene", "", "scene document to preview (default: a demo keycap)")
	flag.Parse()

	log := logger.New()
	prefs, _ := studioconfig.Load()

	ev := eval.New(csg.NewBSPOperator(), log)
	ev.Detail = keycap.Detail(prefs.Detail)
	ev.Gen.FontPath = prefs.EmbossFont

	root := demoScene()
	if *scenePath != "" {
		doc, err := scene.LoadDocument(*scenePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "viewer:", err)
			os.Exit(1)
		}
		root = doc.Root
	}

	v := render.NewViewer()
	v.GridVisible = prefs.GridVisible
	v.ShowGhosts = prefs.ShowGhosts

	loaded := false
	render.Run(v, func() {
		// Upload on the first frame, after the GL context exists.
		if !loaded {
			obj := ev.Evaluate(root, eval.Preview)
			v.SetModels(render.BuildModels(obj))
			loaded = true
		}
	})
}

// demoScene is a single 1u cherry cap so the viewer shows something useful
// when started without a scene file.
func demoScene() *scene.Node {
	return &scene.Node{
		ID:   "demo-cap",
		Kind: scene.KindKeycap,
		Keycap: &keycap.Params{
			Profile:       "Cherry",
			Size:          "1u",
			Color:         [4]uint8{235, 235, 240, 255},
			HasStem:       true,
			TopRadius:     0.5,
			WallThickness: 1.5,
		},
	}
}
