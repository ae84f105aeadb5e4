package jobs

import (
	"context"
	"log"

	"weddingverse/internal/services"
)

// CatalogStatsJob periodically counts the image catalog and re-warms the
// cached default sample so fallback responses stay fast and current.
type CatalogStatsJob struct {
	matcher     *services.MatcherService
	sampleLimit int
}

// NewCatalogStatsJob creates a new catalog stats job
func NewCatalogStatsJob(matcher *services.MatcherService, sampleLimit int) *CatalogStatsJob {
	return &CatalogStatsJob{
		matcher:     matcher,
		sampleLimit: sampleLimit,
	}
}

// Run refreshes catalog statistics and the default-sample cache. Failures
// only log; the next tick tries again.
func (j *CatalogStatsJob) Run(ctx context.Context) error {
	size, err := j.matcher.CatalogSize(ctx)
	if err != nil {
		log.Printf("⚠️ [CATALOG-JOB] Failed to count image catalog: %v", err)
		return err
	}

	if err := j.matcher.WarmDefaultSample(ctx, j.sampleLimit); err != nil {
		log.Printf("⚠️ [CATALOG-JOB] Failed to warm default sample: %v", err)
		return err
	}

	log.Printf("[CATALOG-JOB] Catalog refresh complete: %d images, sample of %d warmed", size, j.sampleLimit)
	return nil
}
