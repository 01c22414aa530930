// Package downloader orchestrates a download run: provider selection,
// candidate fetching, deduplication and sequential file writes.
package downloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/providers"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/storage"
)

// Request is a normalized download request produced by the CLI or REPL.
type Request struct {
	Count     int
	Provider  string // provider name or providers.AutoProvider
	Theme     models.Theme
	Rating    models.UserRating
	Randomize bool
	OutputDir string
}

// Runner executes download requests. Items are processed one at a time;
// partial failure is normal and per-item errors never abort the run.
type Runner struct {
	registry     *providers.Registry
	client       *providers.Client
	logger       logger.Logger
	showProgress bool
	warnings     []string
}

// New creates a Runner.
func New(registry *providers.Registry, client *providers.Client, log logger.Logger) *Runner {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Runner{registry: registry, client: client, logger: log}
}

// SetShowProgress toggles the terminal progress bar.
func (r *Runner) SetShowProgress(show bool) {
	r.showProgress = show
}

// Warnings returns the user-facing warnings collected during the last run.
func (r *Runner) Warnings() []string {
	return r.warnings
}

func (r *Runner) warnf(format string, args ...interface{}) {
	warning := fmt.Sprintf(format, args...)
	r.warnings = append(r.warnings, warning)
	r.logger.Warn(warning)
}

// Run executes one request and returns the per-item outcomes. The returned
// error is reserved for unrecoverable conditions: an invalid request, an
// unknown provider, missing credentials for an explicitly requested
// provider, or an unusable output directory.
func (r *Runner) Run(ctx context.Context, req Request) ([]models.DownloadResult, error) {
	if req.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", req.Count)
	}
	r.warnings = nil

	manager, err := storage.NewManager(req.OutputDir)
	if err != nil {
		return nil, err
	}

	candidates, err := r.fetchCandidates(ctx, req)
	if err != nil {
		return nil, err
	}

	unique, results := dedupeCandidates(candidates)
	// Keep the requested upper bound strict even if providers over-return.
	if len(unique) > req.Count {
		unique = unique[:req.Count]
	}

	var bar *progressbar.ProgressBar
	if r.showProgress && len(unique) > 0 {
		bar = progressbar.NewOptions(len(unique),
			progressbar.OptionSetDescription("downloading"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, candidate := range unique {
		results = append(results, r.downloadOne(ctx, manager, candidate))
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return results, nil
}

func (r *Runner) fetchCandidates(ctx context.Context, req Request) ([]models.RemoteImage, error) {
	if req.Provider == providers.AutoProvider {
		return r.fetchAuto(ctx, req)
	}
	return r.fetchExplicit(ctx, req)
}

// fetchExplicit resolves a named provider. Capability mismatches become
// warnings with zero results; missing credentials abort the run because the
// user asked for this provider specifically.
func (r *Runner) fetchExplicit(ctx context.Context, req Request) ([]models.RemoteImage, error) {
	provider, err := r.registry.Get(req.Provider)
	if err != nil {
		return nil, err
	}
	if checker, ok := provider.(providers.CredentialChecker); ok {
		if err := checker.CheckCredentials(); err != nil {
			return nil, fmt.Errorf("provider %s: %w", req.Provider, err)
		}
	}

	caps := provider.Capabilities()
	if !caps.SupportsTheme(req.Theme) {
		r.warnf("%s does not support theme %q. Supported: %s.",
			req.Provider, req.Theme, caps.Themes)
		return nil, nil
	}
	if !caps.SupportsRating(req.Rating) {
		r.warnf("%s does not support rating %q. Supported: %s.",
			req.Provider, req.Rating, caps.Ratings)
		return nil, nil
	}

	fetched, err := provider.Fetch(ctx, providers.FetchRequest{
		Theme:     req.Theme,
		Rating:    req.Rating,
		Count:     req.Count,
		Randomize: req.Randomize,
	})
	if err != nil {
		r.warnf("%s fetch failed: %v", req.Provider, err)
		return nil, nil
	}
	if len(fetched) == 0 {
		r.warnf("%s returned no results for theme %q with rating %q", req.Provider, req.Theme, req.Rating)
	}
	return fetched, nil
}

// fetchAuto walks the filtered priority order for the theme, accumulating
// candidates until count is satisfied.
func (r *Runner) fetchAuto(ctx context.Context, req Request) ([]models.RemoteImage, error) {
	order := r.registry.AutoOrder(req.Theme, req.Rating)
	if len(order) == 0 {
		r.warnf("no provider supports theme %q with rating %q", req.Theme, req.Rating)
		return nil, nil
	}

	var collected []models.RemoteImage
	for _, provider := range order {
		remaining := req.Count - len(collected)
		if remaining <= 0 {
			break
		}
		if checker, ok := provider.(providers.CredentialChecker); ok {
			if err := checker.CheckCredentials(); err != nil {
				r.warnf("skipping %s: %v", provider.Name(), err)
				continue
			}
		}

		fetched, err := provider.Fetch(ctx, providers.FetchRequest{
			Theme:     req.Theme,
			Rating:    req.Rating,
			Count:     remaining,
			Randomize: req.Randomize,
		})
		if err != nil {
			r.warnf("%s fetch failed: %v", provider.Name(), err)
			continue
		}
		collected = append(collected, fetched...)
	}
	if len(collected) > req.Count {
		collected = collected[:req.Count]
	}
	return collected, nil
}

// dedupeCandidates drops candidates whose URL was already seen, recording a
// skipped_duplicate outcome for each drop.
func dedupeCandidates(candidates []models.RemoteImage) ([]models.RemoteImage, []models.DownloadResult) {
	seen := make(map[string]struct{}, len(candidates))
	unique := make([]models.RemoteImage, 0, len(candidates))
	var duplicates []models.DownloadResult

	for _, candidate := range candidates {
		if _, dup := seen[candidate.URL]; dup {
			duplicates = append(duplicates, models.DownloadResult{
				URL:      candidate.URL,
				Provider: candidate.Provider,
				Status:   models.StatusSkippedDuplicate,
				Error:    "duplicate URL in candidate list",
			})
			continue
		}
		seen[candidate.URL] = struct{}{}
		unique = append(unique, candidate)
	}
	return unique, duplicates
}

func (r *Runner) downloadOne(ctx context.Context, manager *storage.Manager, image models.RemoteImage) models.DownloadResult {
	failed := func(err error) models.DownloadResult {
		r.logger.WithError(err).WithFields(map[string]interface{}{
			"provider": image.Provider,
			"url":      image.URL,
		}).Warn("download failed")
		return models.DownloadResult{
			URL:      image.URL,
			Provider: image.Provider,
			Status:   models.StatusFailed,
			Error:    err.Error(),
		}
	}

	data, contentType, err := r.client.Download(ctx, image.URL)
	if err != nil {
		return failed(err)
	}

	dir, err := manager.DirFor(image.Theme, image.Rating)
	if err != nil {
		return failed(err)
	}
	extension := storage.ExtensionFor(contentType, image.URL)
	path := filepath.Join(dir, storage.BuildFilename(image.Provider, image.URL, extension, time.Now().UTC()))

	if err := manager.Save(path, data); err != nil {
		return failed(err)
	}

	r.logger.WithFields(map[string]interface{}{
		"provider": image.Provider,
		"path":     path,
		"size":     len(data),
	}).Debug("image saved")
	return models.DownloadResult{
		URL:      image.URL,
		Path:     path,
		Provider: image.Provider,
		Status:   models.StatusOK,
	}
}

// Summarize aggregates outcomes into a run summary.
func Summarize(requested int, outputDir string, results []models.DownloadResult) models.DownloadSummary {
	summary := models.DownloadSummary{Requested: requested, OutputDir: outputDir}
	if abs, err := filepath.Abs(outputDir); err == nil {
		summary.OutputDir = abs
	}
	for _, result := range results {
		switch result.Status {
		case models.StatusOK:
			summary.Downloaded++
		case models.StatusFailed:
			summary.Failed++
		case models.StatusSkippedDuplicate:
			summary.Duplicates++
		}
	}
	return summary
}
