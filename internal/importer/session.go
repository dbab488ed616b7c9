// Package importer runs a batch of texture and material builds against one
// resource cache. Every texture is materialized before the first material
// starts, and a failed asset never stops the others.
package importer

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/shadermat/internal/ctxlog"
	"github.com/specialistvlad/shadermat/internal/descriptor"
	"github.com/specialistvlad/shadermat/internal/materialize"
	"github.com/specialistvlad/shadermat/internal/resource"
)

// Session imports assets into the host behind its cache.
type Session struct {
	cache    *resource.Cache
	settings Settings
}

// NewSession creates a session. The cache decides which host is written to
// and is shared by every asset of the session.
func NewSession(cache *resource.Cache, settings Settings) *Session {
	if settings.Workers < 1 {
		settings.Workers = 1
	}
	return &Session{cache: cache, settings: settings}
}

// job is one asset build. Its result goes to results[index].
type job struct {
	index int
	kind  Kind
	name  string
	run   func(ctx context.Context) error
}

// Import materializes textures and then materials. Once ctx is canceled no
// further asset is started; those left over are reported with ctx's error.
func (s *Session) Import(ctx context.Context, textures []descriptor.TextureDescriptor, materials []descriptor.MaterialDescriptor) *Report {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Import started.", "textures", len(textures), "materials", len(materials), "workers", s.settings.Workers)
	start := time.Now()

	results := make([]Result, len(textures)+len(materials))

	textureJobs := make([]job, len(textures))
	for i, tex := range textures {
		textureJobs[i] = job{index: i, kind: KindTexture, name: tex.Name, run: func(ctx context.Context) error {
			_, err := materialize.MaterializeTexture(ctx, s.cache, tex)
			return err
		}}
	}
	s.runPhase(ctx, textureJobs, results)

	materialJobs := make([]job, len(materials))
	for i, mat := range materials {
		mat = s.settings.Apply(mat)
		materialJobs[i] = job{index: len(textures) + i, kind: KindMaterial, name: mat.Name, run: func(ctx context.Context) error {
			_, err := materialize.MaterializeMaterial(ctx, s.cache, mat)
			return err
		}}
	}
	s.runPhase(ctx, materialJobs, results)

	report := &Report{Results: results}
	for _, res := range report.Failures() {
		logger.Error("Asset import failed.", "kind", res.Kind, "name", res.Name, "error", res.Err)
	}
	logger.Info("Import finished.", "succeeded", report.Succeeded(), "failed", report.Failed(), "duration", time.Since(start))
	return report
}

// runPhase feeds jobs to the worker pool and waits for all of them.
func (s *Session) runPhase(ctx context.Context, jobs []job, results []Result) {
	if len(jobs) == 0 {
		return
	}
	logger := ctxlog.FromContext(ctx)

	feed := make(chan job)
	var wg sync.WaitGroup

	workers := min(s.settings.Workers, len(jobs))
	logger.Debug("Starting worker pool.", "workers", workers, "jobs", len(jobs))
	wg.Add(workers)
	for i := range workers {
		go s.worker(ctx, feed, results, &wg, i)
	}

	for i, j := range jobs {
		if ctx.Err() != nil {
			for _, skipped := range jobs[i:] {
				results[skipped.index] = Result{Kind: skipped.kind, Name: skipped.name, Err: ctx.Err()}
			}
			logger.Warn("Context canceled, skipping remaining assets.", "skipped", len(jobs)-i)
			break
		}
		feed <- j
	}
	close(feed)
	wg.Wait()
}

// worker builds jobs until feed is closed. Each job writes only its own
// slot of results.
func (s *Session) worker(ctx context.Context, feed <-chan job, results []Result, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for j := range feed {
		jobCtx, workerLogger := ctxlog.With(ctx, "workerID", workerID, "kind", j.kind, "name", j.name)
		workerLogger.Debug("Worker picked up asset.")

		started := time.Now()
		err := j.run(jobCtx)
		results[j.index] = Result{Kind: j.kind, Name: j.name, Err: err, Duration: time.Since(started)}

		if err != nil {
			workerLogger.Debug("Asset build failed.", "error", err)
			continue
		}
		workerLogger.Debug("Asset build succeeded.")
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}
