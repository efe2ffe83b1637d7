package main

import (
	"flag"
	"fmt"
	"os"

	"keycap-studio/internal/export"
	"keycap-studio/internal/keycap"
	"keycap-studio/internal/logger"
	"keycap-studio/internal/scene"
	"keycap-studio/internal/studioconfig"
)

func main() {
	scenePath := flag.String("scene", "", "scene document (JSON) to export")
	outPath := flag.String("o", "out.stl", "output STL path")
	detailFlag := flag.String("detail", "", "tessellation detail: fast, balanced, quality (default from config)")
	syncMode := flag.Bool("sync", false, "run the export on the calling thread instead of the worker")
	flag.Parse()

	if *scenePath == "" {
		fmt.Fprintln(os.Stderr, "usage: studio -scene file.json [-o out.stl] [-detail balanced] [-sync]")
		os.Exit(2)
	}

	log := logger.New()
	prefs, _ := studioconfig.Load()
	detail := keycap.Detail(prefs.Detail)
	if *detailFlag != "" {
		detail = keycap.Detail(*detailFlag)
	}

	doc, err := scene.LoadDocument(*scenePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "studio:", err)
		os.Exit(1)
	}

	exp := export.NewExporter(log, detail)
	exp.Sync = *syncMode
	exp.FontPath = prefs.EmbossFont

	buf, err := exp.ExportScene(doc.Root)
	if err != nil {
		fmt.Fprintln(os.Stderr, "studio: export failed:", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outPath, buf, 0644); err != nil {
		fmt.Fprintln(os.Stderr, "studio:", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d bytes)\n", *outPath, len(buf))
}
