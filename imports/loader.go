package imports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"movie-catalog/catalog"
	"movie-catalog/common"
	"movie-catalog/movies"
)

// ErrReloadThrottled is returned when manual reloads arrive faster than allowed
var ErrReloadThrottled = errors.New("reload throttled")

// ErrJobNotFound is returned for unknown load job IDs
var ErrJobNotFound = errors.New("load job not found")

// Options configures a Loader
type Options struct {
	SourceURL string
	Format    string // csv or ndjson
	// MinReloadInterval is the minimum spacing of manual reloads; 0 disables throttling
	MinReloadInterval time.Duration
}

// Loader runs ingestion cycles: fetch, parse, index, install.
// At most one cycle runs at a time; concurrent callers share its outcome.
type Loader struct {
	fetcher *Fetcher
	store   *catalog.Store
	db      *gorm.DB
	opts    Options

	group   singleflight.Group
	limiter *rate.Limiter
	log     zerolog.Logger
	now     func() time.Time
}

// NewLoader wires a loader. db may be nil, in which case jobs are not recorded.
func NewLoader(fetcher *Fetcher, store *catalog.Store, db *gorm.DB, opts Options) *Loader {
	limit := rate.Inf
	if opts.MinReloadInterval > 0 {
		limit = rate.Every(opts.MinReloadInterval)
	}
	return &Loader{
		fetcher: fetcher,
		store:   store,
		db:      db,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		log:     common.WithComponent("imports"),
		now:     time.Now,
	}
}

// Load runs one ingestion cycle, or joins the one in flight.
// A failed cycle leaves the current snapshot in place.
func (l *Loader) Load(ctx context.Context, trigger string) (*common.LoadJob, error) {
	// The cycle outlives any single caller that gives up waiting
	runCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan("load", func() (interface{}, error) {
		return l.run(runCtx, trigger)
	})

	select {
	case res := <-ch:
		job, _ := res.Val.(*common.LoadJob)
		return job, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Reload is a manually triggered Load, subject to the reload throttle
func (l *Loader) Reload(ctx context.Context) (*common.LoadJob, error) {
	if !l.limiter.Allow() {
		return nil, ErrReloadThrottled
	}
	return l.Load(ctx, common.TriggerManual)
}

// Schedule reloads every interval until ctx is done
func (l *Loader) Schedule(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Failures are logged and recorded by run
			l.Load(ctx, common.TriggerSchedule)
		}
	}
}

func (l *Loader) run(ctx context.Context, trigger string) (*common.LoadJob, error) {
	start := time.Now()
	now := l.now()
	job := &common.LoadJob{
		ID:        uuid.New().String(),
		Trigger:   trigger,
		SourceURL: l.opts.SourceURL,
		Format:    l.opts.Format,
		Status:    common.JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.save(job)

	log := l.log.With().Str("job_id", job.ID).Str("trigger", trigger).Logger()

	job.Status = common.JobStatusProcessing
	job.UpdatedAt = l.now()
	l.save(job)

	snapshot, err := l.ingest(ctx, job)
	job.Finish(err)
	l.save(job)
	common.LoadDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		common.LoadsTotal.WithLabelValues(trigger, "failed").Inc()
		log.Error().Err(err).Str("source", l.opts.SourceURL).Msg("catalog load failed, keeping current snapshot")
		return job, err
	}

	l.store.Swap(snapshot)
	common.LoadsTotal.WithLabelValues(trigger, "completed").Inc()
	common.CatalogMovies.Set(float64(len(snapshot.Movies)))
	common.CatalogCategories.Set(float64(len(snapshot.Categories())))

	log.Info().
		Int("rows", job.TotalRows).
		Int("movies", job.LoadedCount).
		Int("skipped", job.SkippedCount).
		Int("categories", job.CategoryCount).
		Dur("duration", time.Since(start)).
		Msg("catalog loaded")
	return job, nil
}

// ingest fetches and parses the source. Skipped rows are recorded on job
// and never fail the cycle.
func (l *Loader) ingest(ctx context.Context, job *common.LoadJob) (*catalog.Snapshot, error) {
	data, err := l.fetcher.Fetch(ctx, l.opts.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("fetch source: %w", err)
	}

	var results []movies.RowResult
	switch l.opts.Format {
	case "ndjson":
		results, err = movies.ParseFeed(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("read feed: %w", err)
		}
	default:
		results = movies.ParseRows(string(data))
	}

	records, skipped := movies.Collect(results)
	job.TotalRows = len(results)
	job.LoadedCount = len(records)
	job.SetSkipped(skipped)
	for _, s := range skipped {
		common.RowsSkippedTotal.WithLabelValues(s.Reason()).Inc()
	}

	snapshot := catalog.Build(records, l.now(), job.ID)
	job.CategoryCount = len(snapshot.Categories())
	return snapshot, nil
}

func (l *Loader) save(job *common.LoadJob) {
	if l.db == nil {
		return
	}
	if err := l.db.Save(job).Error; err != nil {
		l.log.Warn().Err(err).Str("job_id", job.ID).Msg("save load job")
	}
}

// Job returns a recorded load job
func (l *Loader) Job(id string) (*common.LoadJob, error) {
	if l.db == nil {
		return nil, ErrJobNotFound
	}
	var job common.LoadJob
	if err := l.db.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// Jobs returns the most recent load jobs, newest first
func (l *Loader) Jobs(limit int) ([]common.LoadJob, error) {
	if l.db == nil {
		return nil, nil
	}
	var jobs []common.LoadJob
	err := l.db.Order("created_at desc").Limit(limit).Find(&jobs).Error
	return jobs, err
}
