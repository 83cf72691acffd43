// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SoftbearStudios/island/server"
	"github.com/SoftbearStudios/island/server/terrain"
	"github.com/SoftbearStudios/island/server/terrain/mesh"
	"github.com/SoftbearStudios/island/server/terrain/pool"
	"github.com/SoftbearStudios/island/server_main/cloud"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		auth           string
		paramsFile     string
		presetsDir     string
		port           int
		maxConnections int
		workers        int
	)

	layout := mesh.DefaultLayout()

	flag.StringVar(&auth, "auth", "", "auth code required to save presets")
	flag.StringVar(&paramsFile, "params", "", "read initial terrain parameters from JSON `file`")
	flag.StringVar(&presetsDir, "presets", "", "store presets in `dir` when not running on AWS")
	flag.IntVar(&port, "port", 8192, "http service port")
	flag.IntVar(&maxConnections, "max-connections", 256, "maximum number of inbound TCP connections")
	flag.IntVar(&workers, "workers", pool.DefaultWorkers, "number of generation workers")
	flag.IntVar(&layout.Blocks, "blocks", layout.Blocks, "number of row blocks per generation")
	flag.IntVar(&layout.ResolutionX, "resolution-x", layout.ResolutionX, "grid columns")
	flag.IntVar(&layout.ResolutionY, "resolution-y", layout.ResolutionY, "grid rows")
	width := flag.Float64("width", float64(layout.Width), "display width")
	height := flag.Float64("height", float64(layout.Height), "display height")
	flag.Parse()

	layout.Width = float32(*width)
	layout.Height = float32(*height)

	if layout.ResolutionX < 1 || layout.ResolutionY < 1 || layout.Blocks < 1 {
		log.Fatalf("invalid layout: %+v", layout)
	}
	if workers < 1 {
		log.Fatal("invalid argument workers: ", workers)
	}

	var params *terrain.Parameters
	if paramsFile != "" {
		f, err := os.Open(paramsFile)
		if err != nil {
			log.Fatal(err)
		}
		p, err := terrain.ReadParameters(f)
		f.Close()
		if err != nil {
			log.Fatal(err)
		}
		params = &p
	}

	hub := server.NewHub(server.HubOptions{
		Cloud:      newCloud(presetsDir),
		Layout:     layout,
		Workers:    workers,
		Parameters: params,
		Auth:       auth,
	})

	mux := http.DefaultServeMux
	mux.HandleFunc("/", hub.ServeIndex)
	mux.HandleFunc("/ws", hub.ServeSocket)
	mux.HandleFunc("/mesh", hub.ServeMesh)
	mux.HandleFunc("/terrain.png", hub.ServeImage)

	l, err := net.Listen("tcp", fmt.Sprint(":", port))
	if err != nil {
		log.Fatalf("Listen: %v", err)
	}
	l = netutil.LimitListener(l, maxConnections)

	srv := &http.Server{Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		hub.Run()
		return nil
	})

	group.Go(func() error {
		log.Printf("island server started on http://localhost:%d\n", port)
		if err := srv.Serve(l); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		log.Println("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		hub.Close()
		return err
	})

	if err := group.Wait(); err != nil {
		log.Fatal(err)
	}
}

// newCloud prefers AWS, then a local presets directory, then offline.
func newCloud(presetsDir string) server.Cloud {
	c, err := cloud.New()
	if err == nil {
		return c
	}

	// Cloud is not required for server to function, just log an error
	log.Printf("Cloud error: %v\n", err)

	if presetsDir != "" {
		local, err := cloud.NewLocal(presetsDir)
		if err == nil {
			return local
		}
		log.Printf("Local presets error: %v\n", err)
	}

	return server.Offline{}
}
