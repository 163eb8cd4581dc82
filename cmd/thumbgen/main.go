package main

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gfx-engine/internal/config"
	"gfx-engine/internal/gfx"
	"gfx-engine/internal/logging"
	"gfx-engine/internal/memory"
	"gfx-engine/internal/provider/native"
	"gfx-engine/internal/provider/vips"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"
)

var attrNames = map[gfx.Attr]string{
	gfx.AttrThumbnail: "thumb",
	gfx.AttrPreview:   "preview",
}

func main() {
	var (
		configPath    = flag.String("config", "", "path to YAML config file")
		outputDir     = flag.String("out", "", "output directory (overrides config)")
		providerName  = flag.String("provider", "", "graphics backend: native or vips (overrides config)")
		metricsListen = flag.String("metrics-listen", "", "address for the Prometheus /metrics listener (overrides config)")
		avatar        = flag.Bool("avatar", false, "generate 250x250 avatars synchronously instead of thumbnail+preview jobs")
	)
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: thumbgen [flags] file...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal("%v", err)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *providerName != "" {
		cfg.Provider = *providerName
	}
	if *metricsListen != "" {
		cfg.MetricsListen = *metricsListen
	}

	memory.ConfigureFromEnv()

	provider, err := buildProvider(cfg.Provider)
	if err != nil {
		logging.Fatal("%v", err)
	}
	if cfg.Provider == "vips" {
		defer vips.Shutdown()
	}

	engine, err := gfx.New(gfx.Config{
		Provider:   provider,
		QueueDepth: cfg.QueueDepth,
	})
	if err != nil {
		logging.Fatal("%v", err)
	}

	if cfg.MetricsListen != "" {
		go serveMetrics(cfg.MetricsListen)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		logging.Fatal("create output dir: %v", err)
	}

	if *avatar {
		os.Exit(runAvatars(engine, files, cfg.OutputDir))
	}
	os.Exit(runJobs(engine, files, cfg.OutputDir))
}

func buildProvider(name string) (gfx.Provider, error) {
	switch name {
	case "native":
		return native.New(), nil
	case "vips":
		if err := vips.Init(); err != nil {
			return nil, err
		}
		return vips.New()
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

// runAvatars exercises the synchronous path: one square avatar per file,
// written directly to disk.
func runAvatars(engine *gfx.Engine, files []string, outDir string) int {
	failures := 0
	for _, f := range files {
		dest := filepath.Join(outDir, baseName(f)+"_avatar.jpg")
		if err := engine.Save(f, gfx.DimensionAvatar, dest); err != nil {
			logging.Error("avatar %s: %v", f, err)
			failures++
			continue
		}
		logging.Info("wrote %s", dest)
	}
	if failures > 0 {
		return 1
	}
	return 0
}

// runJobs submits one thumbnail+preview job per file, then drains completed
// jobs as the engine signals readiness, writing each populated slot to disk.
func runJobs(engine *gfx.Engine, files []string, outDir string) int {
	submitted := 0
	failures := 0
	for i, f := range files {
		var key [gfx.KeyLength]byte
		if _, err := rand.Read(key[:]); err != nil {
			logging.Fatal("generate key: %v", err)
		}
		err := engine.Submit(f, gfx.UploadTarget(gfx.Handle(i+1)), key[:], gfx.SetThumbnail|gfx.SetPreview)
		if err != nil {
			logging.Error("submit %s: %v", f, err)
			failures++
			continue
		}
		submitted++
	}

	deliver := func(job *gfx.Job) {
		for i, attr := range job.Attrs {
			if len(job.Images[i]) == 0 {
				logging.Warn("%s: no %s available", job.Path, attrNames[attr])
				failures++
				continue
			}
			dest := filepath.Join(outDir, fmt.Sprintf("%s_%s.jpg", baseName(job.Path), attrNames[attr]))
			if err := os.WriteFile(dest, job.Images[i], 0644); err != nil {
				logging.Error("write %s: %v", dest, err)
				failures++
				continue
			}
			logging.Info("wrote %s", dest)
		}
	}

	delivered := 0
	for delivered < submitted {
		select {
		case <-engine.Completed():
			delivered += engine.Drain(deliver)
		case <-time.After(5 * time.Minute):
			logging.Error("timed out waiting for %d of %d jobs", submitted-delivered, submitted)
			engine.Shutdown()
			return 1
		}
	}
	engine.Shutdown()

	if failures > 0 {
		return 1
	}
	return 0
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func serveMetrics(addr string) {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}).Methods("GET")

	logging.Info("metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logging.Error("metrics listener: %v", err)
	}
}
