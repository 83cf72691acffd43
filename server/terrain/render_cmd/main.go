// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"runtime/pprof"

	"github.com/SoftbearStudios/island/server/terrain"
	"github.com/SoftbearStudios/island/server/terrain/mesh"
	"github.com/SoftbearStudios/island/server/terrain/noise"
	"github.com/SoftbearStudios/island/server/terrain/pool"
)

func main() {
	var (
		cpuProfile string
		paramsFile string
		output     string
		workers    int
	)

	flag.StringVar(&cpuProfile, "cpuprofile", "", "write cpu profile to `file`")
	flag.StringVar(&paramsFile, "params", "", "read terrain parameters from JSON `file`")
	flag.StringVar(&output, "output", "out.png", "write image to `file`")
	flag.IntVar(&workers, "workers", pool.DefaultWorkers, "number of generation workers")
	flag.Parse()

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	params := terrain.DefaultParameters()
	if paramsFile != "" {
		f, err := os.Open(paramsFile)
		if err != nil {
			log.Fatal(err)
		}
		params, err = terrain.ReadParameters(f)
		f.Close()
		if err != nil {
			log.Fatal(err)
		}
	}

	if err := run(params, workers, output); err != nil {
		log.Fatal(err)
	}
}

func run(params terrain.Parameters, workers int, output string) error {
	layout := mesh.DefaultLayout()
	p := pool.New(noise.Source, layout, workers)
	defer p.Close()

	buffer := mesh.NewBuffer()
	g, err := p.Regenerate(buffer, params)
	if err != nil {
		return err
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("generated %d vertices with %d workers in %s\n", buffer.Len(), p.Workers(), g.Duration())

	img := terrain.Render(buffer.Vertices(), layout.ResolutionX, layout.ResolutionY, params.LightFactor)

	file, err := os.Create(output)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
