package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	get "github.com/hashicorp/go-getter"

	"github.com/islandforge/archipelago/internal/engine/biome"
	"github.com/islandforge/archipelago/internal/engine/config"
	"github.com/islandforge/archipelago/internal/engine/decor"
	"github.com/islandforge/archipelago/internal/engine/scene"
	"github.com/islandforge/archipelago/internal/engine/storage"
	"github.com/islandforge/archipelago/internal/engine/world"
	"github.com/islandforge/archipelago/internal/server"
)

func main() {
	cfg := config.Default()

	var (
		dataDir   = flag.String("data-dir", "./worlddata", "directory for world config and placement cache")
		addr      = flag.String("addr", ":8787", "observer endpoint address")
		templates = flag.String("templates", "", "template catalog source: local file, directory, or go-getter URL")
		walk      = flag.Bool("walk", false, "run a demo observer walk across the world and exit")
		verbose   = flag.Bool("v", false, "enable debug logging")
	)
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.Float64Var(&cfg.WorldWidth, "world-width", cfg.WorldWidth, "world width")
	flag.Float64Var(&cfg.WorldDepth, "world-depth", cfg.WorldDepth, "world depth")
	flag.Float64Var(&cfg.Density, "density", cfg.Density, "fraction of the island budget to realize")
	flag.Float64Var(&cfg.MinSpacing, "min-spacing", cfg.MinSpacing, "minimum island spacing")
	flag.Float64Var(&cfg.MaxSpacing, "max-spacing", cfg.MaxSpacing, "maximum island spacing")
	flag.Float64Var(&cfg.MaxIslandRenderDistance, "island-distance", cfg.MaxIslandRenderDistance, "island render distance")
	flag.Float64Var(&cfg.MaxObjectRenderDistance, "object-distance", cfg.MaxObjectRenderDistance, "decoration render distance")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	store, err := storage.New(*dataDir, log)
	if err != nil {
		log.Error("open data dir", "dir", *dataDir, "error", err)
		os.Exit(1)
	}

	// File config fills in whatever the command line left alone.
	fromFile := config.Default()
	if err := store.LoadConfig(fromFile); err != nil {
		log.Warn("load world config", "error", err)
	} else {
		config.Merge(cfg, fromFile, explicit)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	registry := biome.NewDefaultRegistry()
	if *templates != "" {
		if err := loadTemplates(registry, *templates, store.Dir(), log); err != nil {
			log.Error("load template catalog", "source", *templates, "error", err)
			os.Exit(1)
		}
	}

	cacheDB, err := storage.OpenCacheDB(store.CachePath(), log)
	if err != nil {
		log.Error("open placement cache", "path", store.CachePath(), "error", err)
		os.Exit(1)
	}
	defer cacheDB.Close()

	graph := scene.NewGraph()
	engine := decor.NewEngine(graph, decor.SimpleFactory(), decor.NewCache(cfg.CacheCapacity), cacheDB, log)
	orch := world.New(cfg, registry, graph, engine, log)

	if err := orch.GenerateWorld(); err != nil {
		log.Error("generate world", "error", err)
		os.Exit(1)
	}
	if err := store.SaveConfig(cfg); err != nil {
		log.Warn("persist world config", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *walk {
		runWalk(ctx, orch, log)
		return
	}

	srv := server.New(orch, log, server.Options{Addr: *addr})
	if err := srv.Start(ctx); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// loadTemplates registers catalog templates from a local file or
// directory, or from any go-getter source (git, http, s3). Remote
// sources are fetched into the data directory first.
func loadTemplates(reg *biome.Registry, source, dataDir string, log *slog.Logger) error {
	path := source
	if strings.Contains(source, "::") || strings.Contains(source, "://") {
		path = filepath.Join(dataDir, "templates")
		log.Info("fetching template catalog", "source", source, "dest", path)
		if err := get.GetAny(path, source); err != nil {
			return fmt.Errorf("fetch catalog: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat catalog: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files = nil
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(path, pattern))
			if err != nil {
				return fmt.Errorf("scan catalog dir: %w", err)
			}
			files = append(files, matches...)
		}
		sort.Strings(files)
	}
	if len(files) == 0 {
		return fmt.Errorf("no catalog files in %s", path)
	}

	for _, f := range files {
		if err := biome.LoadCatalog(f, reg); err != nil {
			return fmt.Errorf("catalog %s: %w", f, err)
		}
	}
	log.Info("template catalog loaded", "files", len(files), "templates", reg.Len())
	return nil
}

// runWalk marches the observer along the world diagonal, ticking the
// streaming loop at every step, and reports what loads and unloads.
// It is the quickest way to eyeball LOD behavior without a client.
func runWalk(ctx context.Context, orch *world.Orchestrator, log *slog.Logger) {
	cfg := orch.Config()
	const steps = 40

	startX, startZ := -cfg.WorldWidth/2, -cfg.WorldDepth/2
	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			log.Info("walk interrupted", "step", i)
			return
		default:
		}

		t := float64(i) / steps
		x := startX + t*cfg.WorldWidth
		z := startZ + t*cfg.WorldDepth
		orch.UpdatePlayerPosition(x, 0, z)
		orch.Tick()
		for orch.PendingJobs() > 0 {
			orch.Tick()
		}

		m := orch.Metadata()
		log.Info("walk step",
			"step", i,
			"x", fmt.Sprintf("%.0f", x),
			"z", fmt.Sprintf("%.0f", z),
			"loaded", m.LoadedCount,
			"decorated", m.DecoratedCount,
			"decorations", m.DecorationTotal,
		)
	}

	log.Info("walk finished",
		"islands", orch.Metadata().TotalIslands,
		"digest", fmt.Sprintf("%016x", orch.Digest()),
	)
}
