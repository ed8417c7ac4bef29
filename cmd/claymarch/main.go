// Command claymarch renders sphere-traced scenes of implicit
// primitives. By default it renders the built-in duck scene to a PNG;
// -scene loads a scene file, -heatmap slices the distance field,
// -watch re-renders on scene file changes and -ui opens the
// interactive viewer.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"claymarch"
	"claymarch/clayaux"

	"github.com/fsnotify/fsnotify"
)

func main() {
	var (
		sceneFile  = flag.String("scene", "", "Scene JSON file. Empty renders the built-in duck scene.")
		outFile    = flag.String("o", "claymarch.png", "Output PNG path.")
		configFile = flag.String("config", "", "YAML render config. Empty uses defaults.")
		width      = flag.Int("width", 0, "Output width, overrides config.")
		height     = flag.Int("height", 0, "Output height, overrides config.")
		ss         = flag.Int("ss", 0, "Supersample factor, overrides config.")
		heatmap    = flag.Bool("heatmap", false, "Render a distance field slice instead of the shaded scene.")
		watch      = flag.Bool("watch", false, "Re-render whenever the scene file changes.")
		ui         = flag.Bool("ui", false, "Open the interactive viewer (requires cgo).")
		silent     = flag.Bool("silent", false, "Suppress progress output.")
	)
	flag.Parse()

	cfg := clayaux.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = clayaux.LoadConfig(*configFile)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *ss > 0 {
		cfg.Supersample = *ss
	}
	cfg.Silent = cfg.Silent || *silent

	scene, err := loadScene(*sceneFile)
	if err != nil {
		log.Fatal(err)
	}

	switch {
	case *ui:
		err = clayaux.UI(scene, clayaux.UIConfig{Width: cfg.Width, Height: cfg.Height})
	case *watch:
		if *sceneFile == "" {
			log.Fatal("-watch requires -scene")
		}
		err = watchAndRender(*sceneFile, *outFile, cfg, *heatmap)
	default:
		err = renderOnce(scene, *outFile, cfg, *heatmap)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func loadScene(filename string) (*claymarch.Scene, error) {
	if filename == "" {
		return claymarch.DuckScene(), nil
	}
	return claymarch.LoadSceneFile(filename)
}

func renderOnce(scene *claymarch.Scene, outFile string, cfg clayaux.Config, heatmap bool) error {
	if heatmap {
		return clayaux.HeatmapPNGFile(outFile, scene, cfg.Height, nil)
	}
	return clayaux.RenderPNGFile(outFile, scene, cfg.RenderConfig())
}

// watchAndRender renders once, then re-renders every time the scene
// file is written. Editors replace files on save so the watch is
// re-added after rename events.
func watchAndRender(sceneFile, outFile string, cfg clayaux.Config, heatmap bool) error {
	render := func() {
		scene, err := claymarch.LoadSceneFile(sceneFile)
		if err != nil {
			log.Println("loading scene:", err)
			return
		}
		if err := renderOnce(scene, outFile, cfg, heatmap); err != nil {
			log.Println("rendering:", err)
		}
	}
	render()
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(sceneFile); err != nil {
		return err
	}
	if !cfg.Silent {
		log.Println("watching", sceneFile)
	}
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Editors save in bursts; let the file settle.
			time.Sleep(50 * time.Millisecond)
			if _, err := os.Stat(sceneFile); err == nil {
				if err := watcher.Add(sceneFile); err != nil {
					log.Println("watch:", err)
				}
				render()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("watch:", err)
		}
	}
}
