package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/chenBenjamin97/posture-analyzer/pkg/analyzer"
	"github.com/chenBenjamin97/posture-analyzer/pkg/api"
	"github.com/chenBenjamin97/posture-analyzer/pkg/config"
	"github.com/chenBenjamin97/posture-analyzer/pkg/store"
	"github.com/chenBenjamin97/posture-analyzer/pkg/utils"
	"github.com/chenBenjamin97/posture-analyzer/pkg/video"
	"gocv.io/x/gocv"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	configPath := flag.String("config", "", "path to config file (default ./config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error: Could not load configuration, got '%v'", err)
	}

	//create missing directories from config file
	for _, dir := range []string{cfg.RootDir, cfg.TempDir, filepath.Dir(cfg.StorePath)} {
		if err := os.MkdirAll(dir, 0766); err != nil {
			log.Fatalf("Error Creating '%s' directory, got '%v'", dir, err)
		}
	}

	//uploads left behind by a crashed process
	if removed, err := utils.RemoveStale(cfg.TempDir, utils.UploadPattern); err != nil {
		log.Printf("Error: Could not clean '%s', got '%v'", cfg.TempDir, err)
	} else if removed > 0 {
		log.Printf("Removed %d stale uploads from '%s'", removed, cfg.TempDir)
	}

	//fail at startup rather than on the first upload when the model is missing
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		log.Fatalf("Error: Missing pose model '%s', got '%v'", cfg.ModelPath, err)
	}

	reports, err := store.Open(cfg.StorePath)
	if err != nil {
		log.Fatalf("Error: Could not open report store, got '%v'", err)
	}
	defer reports.Close()

	poseCfg := video.OpenPoseConfig{
		ModelPath:     cfg.ModelPath,
		InputWidth:    cfg.InputWidth,
		InputHeight:   cfg.InputHeight,
		MinConfidence: float32(cfg.MinConfidence),
	}
	pool := analyzer.NewPool[*gocv.Mat](cfg.PoolSize, func() (analyzer.Estimator[*gocv.Mat], error) {
		e, err := video.NewOpenPoseEstimator(poseCfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	})
	defer pool.Close()

	videos := analyzer.New[*gocv.Mat](
		analyzer.Config{TempDir: cfg.TempDir, Thresholds: cfg.Thresholds},
		video.OpenCapture,
		pool,
		reports,
	)

	r := api.SetRouter(videos, reports, api.Options{
		StaticFilesPath: cfg.StaticFilesPath,
		AllowedOrigin:   cfg.AllowedOrigin,
		MaxUploadBytes:  cfg.MaxUploadBytes,
	})
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Error: Got '%v'", err)
	}
}
