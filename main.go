package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/df07/go-band-raytracer/pkg/config"
	"github.com/df07/go-band-raytracer/pkg/ppm"
	"github.com/df07/go-band-raytracer/pkg/renderer"
	"github.com/df07/go-band-raytracer/pkg/scene"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run renders one image. The PPM stream goes to stdout unless -out is set; diagnostics go to stderr.
func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&cfg.Scene, "scene", cfg.Scene, "Scene type: "+strings.Join(scene.Names(), ", "))
	flags.IntVar(&cfg.Width, "width", cfg.Width, "Image width in pixels; height follows the 16:9 aspect ratio")
	flags.IntVar(&cfg.Samples, "samples", cfg.Samples, "Samples per pixel")
	flags.IntVar(&cfg.Depth, "depth", cfg.Depth, "Maximum ray bounce depth")
	flags.IntVar(&cfg.Bands, "bands", cfg.Bands, "Number of column bands rendered in parallel (0 = one per CPU)")
	flags.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed; the same seed reproduces the same image")
	flags.StringVar(&cfg.Out, "out", cfg.Out, "Output file (default stdout)")
	help := flags.Bool("help", false, "Show help information")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *help {
		printHelp(stdout, flags)
		return nil
	}

	logger := renderer.NewWriterLogger(stderr)

	if err := cfg.Validate(); err != nil {
		return err
	}

	selectedScene, err := createScene(cfg.Scene)
	if err != nil {
		return err
	}

	logger.Printf("Starting Band Raytracer on %s\n", config.HostInfo())
	logger.Printf("Using %s scene (%d primitives)\n", selectedScene.Name, selectedScene.GetPrimitiveCount())

	camera := renderer.NewCamera(cfg.CameraConfig())
	raytracer := renderer.NewRaytracer(selectedScene, camera, cfg.RenderConfig(), logger)

	frame, stats, err := raytracer.Render()
	if err != nil {
		return err
	}

	if cfg.Out == "" {
		return ppm.Encode(stdout, frame, stats.SamplesPerPixel)
	}

	file, err := os.Create(cfg.Out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := encodeAndClose(file, frame, stats.SamplesPerPixel); err != nil {
		return err
	}
	logger.Printf("Render saved as %s\n", cfg.Out)
	return nil
}

// encodeAndClose writes the image and closes w, reporting the first error of the two
func encodeAndClose(w io.WriteCloser, frame *renderer.FrameBuffer, samples int) error {
	if err := ppm.Encode(w, frame, samples); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// createScene builds and validates the named built-in scene
func createScene(name string) (*scene.Scene, error) {
	s, err := scene.Create(name)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func printHelp(w io.Writer, flags *flag.FlagSet) {
	fmt.Fprintln(w, "Band Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options] > image.ppm")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	flags.SetOutput(w)
	flags.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Fprintf(w, "  %-8s - %s\n", info.ID, info.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Settings can also be given as %s* environment variables or in a .env file.\n", config.EnvPrefix)
}
