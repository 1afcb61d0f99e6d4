package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/theoremus-urban-solutions/transit-graph/calendar"
	"github.com/theoremus-urban-solutions/transit-graph/config"
	"github.com/theoremus-urban-solutions/transit-graph/graph"
	"github.com/theoremus-urban-solutions/transit-graph/internal"
	"github.com/theoremus-urban-solutions/transit-graph/realtime"
)

func main() {
	mode := flag.String("mode", "info", "info|verify|annotations")
	graphPath := flag.String("graph", "", "graph file (overrides config)")
	flag.Parse()

	internal.InitLogging()

	cfg, cfgErr := config.Load()
	path := *graphPath
	if path == "" {
		if cfgErr != nil {
			log.Fatalf("config error: %v", cfgErr)
		}
		path = cfg.Graph.Path
	}

	switch *mode {
	case "info":
		g, err := graph.Load(path, graph.LoadBasic)
		if err != nil {
			log.Fatalf("load: %v", err)
		}
		fmt.Printf("graph version: %v\n", g.Version())
	case "verify":
		g, err := graph.Load(path, graph.LoadFull)
		if err != nil {
			log.Fatalf("load: %v", err)
		}
		fmt.Printf("graph version: %v\n", g.Version())
		fmt.Printf("|V|=%d |E|=%d\n", g.CountVertices(), g.CountEdges())
		fmt.Printf("transfer rules: %d\n", g.TransferTable().Size())
		if env := g.Extent(); !env.IsNil() {
			fmt.Printf("extent: (%.5f,%.5f)..(%.5f,%.5f)\n", env.MinLat, env.MinLon, env.MaxLat, env.MaxLon)
		}
		start, end := g.FeedValidity()
		fmt.Printf("feed validity: [%d, %d)\n", start, end)
		if cfgErr == nil {
			if zipPath := cfg.Graph.GTFSZip; zipPath != "" {
				data, err := calendar.LoadZip(zipPath)
				if err != nil {
					log.Fatalf("calendar: %v", err)
				}
				g.UpdateFeedValidity(data)
				start, end = g.FeedValidity()
				fmt.Printf("feed validity (recomputed): [%d, %d)\n", start, end)
			}
			graph.PutService(g, newSnapshotSource(cfg.Realtime))
			if src, ok := graph.GetService[*realtime.SnapshotSource](g); ok && src.Timestamp() > 0 {
				fmt.Printf("trip updates as of %d\n", src.Timestamp())
			}
		}
	case "annotations":
		g, err := graph.Load(path, graph.LoadDebug)
		if err != nil {
			log.Fatalf("load: %v", err)
		}
		for _, a := range g.Annotations() {
			fmt.Println(a.Message())
		}
		g.SummarizeAnnotations()
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}
}

// newSnapshotSource builds the graph's real-time service, primed from
// the configured trip-update feed when one is set.
func newSnapshotSource(cfg config.RealtimeConfig) *realtime.SnapshotSource {
	src := realtime.NewSnapshotSource()
	if err := src.Fetch(cfg.TripUpdatesURL); err != nil {
		log.Printf("realtime: trip updates unavailable: %v", err)
	}
	return src
}
