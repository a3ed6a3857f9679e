// Command projectdump loads a project file and prints where each
// annotation lands on screen for a given container size and zoom level.
package main

import (
	"flag"
	"fmt"
	"os"

	"doc-viewer/internal/annotation"
	"doc-viewer/internal/app"
	"doc-viewer/internal/document"
	"doc-viewer/pkg/geometry"
)

func main() {
	projectPath := flag.String("project", "", "Path to a "+app.ProjectExt+" project file")
	width := flag.Float64("width", 800, "Container width in pixels")
	height := flag.Float64("height", 600, "Container height in pixels")
	scale := flag.Float64("scale", 0, "Zoom scale (0 = fit to container)")
	page := flag.Int("page", 0, "Page to project (flow documents, 0 = saved page)")
	flag.Parse()

	if *projectPath == "" {
		fmt.Println("Usage: projectdump -project <path> [-width 800] [-height 600] [-scale 1.5] [-page 2]")
		os.Exit(1)
	}

	state := app.NewState()
	if err := state.LoadProject(*projectPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load project: %v\n", err)
		os.Exit(1)
	}

	doc := state.Document
	fmt.Printf("Loaded %s: %s (%s)\n", *projectPath, doc.Name, doc.Kind)
	if doc.SizeKnown() {
		fmt.Printf("Natural size: %.0fx%.0f\n", doc.Size.Width, doc.Size.Height)
	}

	vp := state.Viewport
	vp.SetContainerSize(geometry.NewSize(*width, *height))
	if *scale > 0 {
		vp.SetZoom(*scale, nil)
	}
	fmt.Printf("Container: %.0fx%.0f  scale: %.3f  fit: %v  origin: (%.1f, %.1f)\n",
		*width, *height, vp.Scale(), vp.InFitMode(), vp.ContentOrigin().X, vp.ContentOrigin().Y)

	if *page > 0 {
		state.SetPage(*page)
	}
	if doc.Kind == document.KindFlow {
		fmt.Printf("Page: %d\n", state.Page)
	}

	overlay := annotation.NewOverlay(doc.Kind, vp, nil)
	markers := overlay.Project(state.Annotations.List(), state.Page)
	fmt.Printf("\n%d annotation(s), %d on screen:\n", state.Annotations.Len(), len(markers))
	for _, m := range markers {
		fmt.Printf("  (%8.2f, %8.2f)  %s  %s\n",
			m.Screen.X, m.Screen.Y, storageText(m.Annotation), m.Annotation.Content)
	}
}

func storageText(a *document.Annotation) string {
	switch {
	case a.Percent != nil:
		return fmt.Sprintf("[%6.2f%% %6.2f%%]", a.Percent.XPercent, a.Percent.YPercent)
	case a.Pixel != nil:
		return fmt.Sprintf("[px %4d %4d]", a.Pixel.XPixel, a.Pixel.YPixel)
	}
	return "[no position]"
}
