package download

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/Urban-Analytics-Technology-Platform/popgetter-cli/metadata"
	"github.com/rs/zerolog/log"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/exp/maps"
	"golang.org/x/sync/errgroup"
)

const maxRetries = 3

// Downloader pulls release files into the local store with a bounded worker
// pool and a progress bar.
type Downloader struct {
	Store   *Store
	API     *metadata.API
	Workers int

	// AlwaysDownload skips the is-it-cached check.
	AlwaysDownload bool

	// Progress disables the progress bar when false, for tests and quiet
	// runs.
	Progress bool
}

type job struct {
	relpath string
	retries int
}

type jobResult struct {
	relpath string
	cached  bool
}

// Fetch downloads every given release-relative path that isn't already in
// the store.
func (d *Downloader) Fetch(ctx context.Context, relpaths []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := d.Workers
	if workers < 1 {
		workers = 4
	}

	// weed out dupes
	unique := map[string]job{}
	for _, p := range relpaths {
		if p == "" {
			return fmt.Errorf("download: empty file path in request")
		}
		unique[p] = job{relpath: p}
	}
	jobs := maps.Values(unique)
	if len(jobs) == 0 {
		return nil
	}

	jobQueue := make(chan job, len(jobs)+workers)
	unitsOfWorkRemaining := int32(len(jobs))
	for _, j := range jobs {
		jobQueue <- j
	}

	results := make(chan jobResult, workers*3)
	grp, gctx := errgroup.WithContext(ctx)

	activeWorkers := int32(workers)
	for i := 0; i < workers; i++ {
		grp.Go(func() error {
			for {
				select {
				case j, ok := <-jobQueue:
					if !ok {
						// Last one out closes the shop
						if atomic.AddInt32(&activeWorkers, -1) == 0 {
							close(results)
						}
						return nil
					}

					result, err := d.performJob(gctx, j)
					if err != nil {
						if j.retries >= maxRetries {
							return fmt.Errorf("download: retries exceeded for %s: %w", j.relpath, err)
						}
						j.retries++
						log.Warn().Err(err).Str("file", j.relpath).Int("attempt", j.retries).Msg("retrying download")
						select {
						case jobQueue <- j:
						case <-gctx.Done():
							return context.Cause(gctx)
						}
						continue
					}

					if atomic.AddInt32(&unitsOfWorkRemaining, -1) == 0 {
						// only do this when we're sure there's no more work:
						close(jobQueue)
					}

					select {
					case results <- result:
					case <-gctx.Done():
						return context.Cause(gctx)
					}

				case <-gctx.Done():
					return context.Cause(gctx)
				}
			}
		})
	}

	var bar *mpb.Bar
	var progress *mpb.Progress
	if d.Progress {
		progress = mpb.New(mpb.WithWidth(64))
		bar = progress.AddBar(int64(len(jobs)),
			mpb.PrependDecorators(
				decor.Name("data:", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d/%d) "),
				decor.NewPercentage("%d"),
			),
		)
	}

	grp.Go(func() error {
		for {
			select {
			case result, ok := <-results:
				if !ok {
					// this is good news, we're done
					return nil
				}
				if bar != nil {
					bar.Increment()
				}
				if result.cached {
					log.Debug().Str("file", result.relpath).Msg("already in local store")
				} else {
					log.Debug().Str("file", result.relpath).Msg("fetched")
				}

			case <-gctx.Done():
				return context.Cause(gctx)
			}
		}
	})

	if err := grp.Wait(); err != nil {
		return err
	}
	if progress != nil {
		progress.Wait()
	}

	return d.Store.WriteManifest()
}

func (d *Downloader) performJob(ctx context.Context, j job) (jobResult, error) {
	if !d.AlwaysDownload && d.Store.Has(j.relpath) {
		return jobResult{relpath: j.relpath, cached: true}, nil
	}

	data, err := d.API.FetchFile(ctx, j.relpath)
	if err != nil {
		return jobResult{}, err
	}

	if err := d.Store.Write(j.relpath, d.API.BaseURL.String()+"/"+j.relpath, data); err != nil {
		return jobResult{}, err
	}

	return jobResult{relpath: j.relpath}, nil
}
