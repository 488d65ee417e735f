// Command analyze runs the hallway safety pipeline over a directory of
// extracted frames and prints the JSON report on stdout. Hard
// precondition failures print a structured error object and exit
// non-zero.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/pathwatch-data/hallway.report/internal/monitoring"
	"github.com/pathwatch-data/hallway.report/internal/pipeline"
)

func main() {
	// Local overrides for development; absence is not an error.
	_ = godotenv.Load()

	var (
		framesDir   = flag.String("frames", "", "directory containing frame_*.jpg files")
		apiKey      = flag.String("api-key", os.Getenv("OPENROUTER_API_KEY"), "annotation service API key (default $OPENROUTER_API_KEY)")
		jobID       = flag.String("job-id", "", "job id for tracking and dataset naming fallback")
		datasetRoot = flag.String("dataset-root", envOr("DATASET_ROOT", "datasets"), "root directory for cached datasets")
		videoPath   = flag.String("video-path", "", "original video file path, used to name the dataset")
		runDB       = flag.String("run-db", "", "optional sqlite file recording run history")
		verbose     = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	monitoring.Verbose = *verbose

	result := pipeline.Analyze(context.Background(), pipeline.Options{
		FramesDir:   *framesDir,
		APIKey:      *apiKey,
		JobID:       *jobID,
		DatasetRoot: *datasetRoot,
		VideoPath:   *videoPath,
		RunDBPath:   *runDB,
	})

	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(result); err != nil {
		monitoring.Warnf("could not encode result: %v", err)
		os.Exit(1)
	}
	if !result.Success {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
