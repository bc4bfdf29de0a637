package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/JackDobie/Procedural-Terrain/terrain_generation/config"
	eros "github.com/JackDobie/Procedural-Terrain/terrain_generation/erosion"
	"github.com/JackDobie/Procedural-Terrain/terrain_generation/noise"
	"github.com/JackDobie/Procedural-Terrain/terrain_generation/pipeline"
	"github.com/JackDobie/Procedural-Terrain/terrain_generation/render"
	"github.com/JackDobie/Procedural-Terrain/terrain_generation/viewer"
)

func main() {
	var (
		configPath string
		seed       int64
		size       int
		noiseName  string
		erosion    string
		peaks      string
		headless   bool
		outPath    string
	)

	flag.StringVar(&configPath, "config", "", "ini file with terrain settings")
	flag.Int64Var(&seed, "seed", 1, "random seed")
	flag.IntVar(&size, "size", 128, "grid size (power of two for diamond-square)")
	flag.StringVar(&noiseName, "noise", "perlin", "noise generator: "+strings.Join(noise.Kinds(), ", "))
	flag.StringVar(&erosion, "erosion", "natural", "erosion preset: "+strings.Join(eros.Presets(), ", ")+", none")
	flag.StringVar(&peaks, "peaks", "none", "peak preset (alpine, hills, volcanic, ...)")
	flag.BoolVar(&headless, "headless", false, "print a summary instead of opening the viewer")
	flag.StringVar(&outPath, "out", "", "write the final hillshade to this PNG file")
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime)

	cfg := pipeline.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			die(err)
		}
	}

	// explicit flags win over the file
	var err error
	flag.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "seed":
			cfg.Seed = seed
		case "size":
			cfg.Size = size
		case "noise":
			cfg.Noise.Kind, err = noise.ParseKind(noiseName)
		case "erosion":
			cfg.Passes, err = erosionPasses(erosion)
		case "peaks":
			p, ok := eros.PeakPreset(peaks)
			if !ok {
				err = fmt.Errorf("unknown peak preset %q", peaks)
			}
			cfg.Peaks = p
		}
	})
	if err != nil {
		die(err)
	}
	cfg.KeepStages = !headless

	res, err := pipeline.Run(cfg)
	if err != nil {
		die(err)
	}

	if outPath != "" && !res.Grid.Empty() {
		img := render.Shade(res.Grid, render.FitOptions(res.Grid.Size(), 1024))
		if err := render.SavePNG(outPath, img); err != nil {
			die(err)
		}
	}

	if headless {
		fmt.Println(summary(res))
		return
	}
	if err := viewer.Run(res); err != nil {
		log.Fatal(err)
	}
}

func erosionPasses(name string) ([]eros.Spec, error) {
	if name == "none" {
		return nil, nil
	}
	preset, err := eros.Preset(name)
	if err != nil {
		return nil, err
	}
	return preset.Passes(), nil
}

func die(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
