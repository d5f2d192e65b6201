// meshinfo is a CLI utility for inspecting meshes and placements.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/Faultbox/mapmodel/internal/assets"
	"github.com/Faultbox/mapmodel/internal/engine/placement"
	"github.com/Faultbox/mapmodel/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "place":
		cmdPlace(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshinfo - mesh and map placement utility

Usage:
  meshinfo <command> [options]

Commands:
  info [-flip auto|true|false] [-v] <file>     Import a mesh and show its statistics
  place [-alt m] [-rot deg] [-axis x|y|z] <lat> <lon> [scale]
                                                Print the model matrix for a placement

Examples:
  meshinfo info model.obj
  meshinfo info -flip false scene.glb
  meshinfo place 60.1712 24.9441 10
  meshinfo place -rot 90 -axis x 60.1712 24.9441`)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	flip := fs.String("flip", "auto", "Winding flip: auto, true or false")
	verbose := fs.Bool("v", false, "Log import details")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshinfo info [-flip auto|true|false] <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	if *verbose {
		if err := logger.Init("debug", ""); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}

	var opts assets.Options
	if *flip != "auto" {
		v, err := strconv.ParseBool(*flip)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -flip value %q\n", *flip)
			os.Exit(1)
		}
		opts.FlipWinding = &v
	}

	res := assets.Import(path, opts)
	if !res.OK() {
		fmt.Fprintf(os.Stderr, "Error: %v\n", res.Err)
		os.Exit(1)
	}

	m := res.Mesh
	b := m.Bounds()
	size := b.Size()

	normals := "authored"
	if res.Stats.NormalsSynthesized {
		normals = "synthesized"
	}

	fmt.Printf("File:       %s\n", path)
	fmt.Printf("Format:     %s\n", res.Format)
	fmt.Printf("Faces:      %d\n", res.Stats.Faces)
	fmt.Printf("Vertices:   %d (%d corners reused)\n", len(m.Positions), res.Stats.CacheHits)
	fmt.Printf("Triangles:  %d\n", m.TriangleCount())
	fmt.Printf("Normals:    %s\n", normals)
	if res.Stats.DegenerateNormals > 0 {
		fmt.Printf("Unlit:      %d vertices without a normal\n", res.Stats.DegenerateNormals)
	}
	fmt.Printf("Bounds min: (%.4g, %.4g, %.4g)\n", b.Min.X, b.Min.Y, b.Min.Z)
	fmt.Printf("Bounds max: (%.4g, %.4g, %.4g)\n", b.Max.X, b.Max.Y, b.Max.Z)
	fmt.Printf("Size:       %.4g x %.4g x %.4g\n", size.X, size.Y, size.Z)

	if len(res.Warnings) > 0 {
		fmt.Println()
		fmt.Println("Warnings:")
		for _, w := range res.Warnings {
			fmt.Printf("  %s\n", w)
		}
	}
}

func cmdPlace(args []string) {
	fs := flag.NewFlagSet("place", flag.ExitOnError)
	alt := fs.Float64("alt", 0, "Altitude in meters")
	rot := fs.Float64("rot", 0, "Rotation in degrees")
	axis := fs.String("axis", "x", "Rotation axis: x, y or z")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: meshinfo place [-alt m] [-rot deg] [-axis x|y|z] <lat> <lon> [scale]")
		os.Exit(1)
	}

	p := placement.Placement{Altitude: *alt, Scale: 1, Rotation: *rot * math.Pi / 180}
	var err error
	if p.Latitude, err = strconv.ParseFloat(fs.Arg(0), 64); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid latitude %q\n", fs.Arg(0))
		os.Exit(1)
	}
	if p.Longitude, err = strconv.ParseFloat(fs.Arg(1), 64); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid longitude %q\n", fs.Arg(1))
		os.Exit(1)
	}
	if fs.NArg() > 2 {
		if p.Scale, err = strconv.ParseFloat(fs.Arg(2), 64); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid scale %q\n", fs.Arg(2))
			os.Exit(1)
		}
	}
	if p.Axis, err = placement.ParseAxis(*axis); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := p.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	merc := placement.FromLatLng(p.Latitude, p.Longitude, p.Altitude)

	fmt.Printf("Location:   %.7f, %.7f (%g m)\n", p.Latitude, p.Longitude, p.Altitude)
	fmt.Printf("Mercator:   x=%.12f y=%.12f z=%.6g\n", merc.X, merc.Y, merc.Z)
	fmt.Printf("Meter:      %.6g Mercator units\n", placement.MeterInMercatorUnits(p.Latitude))
	fmt.Printf("Rotation:   %g deg about %s\n", *rot, p.Axis)
	fmt.Println()
	fmt.Println("Model matrix:")
	fmt.Println(placement.FormatMatrix(placement.ModelMatrix(p)))
}
