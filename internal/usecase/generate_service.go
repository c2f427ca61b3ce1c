package usecase

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/jaws696969/hockey-ics/internal/config"
	"github.com/jaws696969/hockey-ics/internal/domain/schedule"
	"github.com/jaws696969/hockey-ics/internal/ics"
	"github.com/jaws696969/hockey-ics/internal/platform/logging"
)

const (
	TeamStatusSuccess = "success"
	TeamStatusFailed  = "failed"
)

// ScheduleSource fetches and parses one upstream schedule document.
type ScheduleSource interface {
	FetchGames(ctx context.Context, apiURL string) ([]schedule.GameRecord, error)
}

// TeamResult is one team's row in the run report.
type TeamResult struct {
	Slug       string
	Path       string
	Events     int
	DurationMs int64
	Status     string
	Message    string
}

// Report summarizes a full generation run.
type Report struct {
	Results      []TeamResult
	SuccessCount int
	FailedCount  int
}

// GenerateService runs the fetch -> parse -> match -> serialize -> write
// pipeline for every configured team. Teams are independent, so they run on
// a worker pool; a failing team is reported without blocking the others.
type GenerateService struct {
	cfg     config.Config
	source  ScheduleSource
	builder *ics.Builder
	logger  *logging.Logger
}

func NewGenerateService(cfg config.Config, source ScheduleSource, builder *ics.Builder, logger *logging.Logger) (*GenerateService, error) {
	if len(cfg.Teams) == 0 {
		return nil, crerr.Wrap(ErrInvalidConfig, "no teams configured")
	}
	if source == nil {
		return nil, crerr.Wrap(ErrInvalidConfig, "schedule source is required")
	}
	if builder == nil {
		builder = ics.NewBuilder()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &GenerateService{
		cfg:     cfg,
		source:  source,
		builder: builder,
		logger:  logger,
	}, nil
}

// Run generates every configured team's calendar file. The returned Report
// always carries one row per team; the error is non-nil when any team
// failed or the output directory could not be prepared.
func (s *GenerateService) Run(ctx context.Context) (Report, error) {
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return Report{}, crerr.Wrapf(ErrInvalidConfig, "create output dir %s: %v", s.cfg.OutputDir, err)
	}

	workerCount := s.cfg.MaxWorkers
	if workerCount > len(s.cfg.Teams) {
		workerCount = len(s.cfg.Teams)
	}
	if workerCount < 1 {
		workerCount = 1
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return Report{}, crerr.Wrapf(err, "create worker pool")
	}
	defer pool.Release()

	results := make(chan TeamResult, len(s.cfg.Teams))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, team := range s.cfg.Teams {
		team := team
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.runTeam(ctx, team)
			if row.Status == TeamStatusSuccess {
				successCount.Add(1)
			} else {
				failedCount.Add(1)
			}
			results <- row
		}); err != nil {
			workers.Done()
			return Report{}, crerr.Wrapf(err, "submit team %s to worker pool", team.Slug)
		}
	}

	workers.Wait()
	close(results)

	report := Report{Results: make([]TeamResult, 0, len(s.cfg.Teams))}
	for row := range results {
		report.Results = append(report.Results, row)
	}

	sort.SliceStable(report.Results, func(i, j int) bool {
		return report.Results[i].Slug < report.Results[j].Slug
	})

	report.SuccessCount = int(successCount.Load())
	report.FailedCount = int(failedCount.Load())

	if report.FailedCount > 0 {
		return report, crerr.Newf("%d of %d teams failed", report.FailedCount, len(s.cfg.Teams))
	}
	return report, nil
}

func (s *GenerateService) runTeam(ctx context.Context, team config.TeamConfig) TeamResult {
	start := time.Now()
	row := TeamResult{Slug: team.Slug}

	games, err := s.source.FetchGames(ctx, team.APIURL)
	if err != nil {
		row.Status = TeamStatusFailed
		row.Message = err.Error()
		row.DurationMs = time.Since(start).Milliseconds()
		s.logger.Error("team generation failed", "team", team.Name, "slug", team.Slug, "error", err)
		return row
	}

	matched := schedule.MatchTeam(games, schedule.TeamIdentity{
		Name:  team.Name,
		Slug:  team.Slug,
		IDs:   team.MyTeamIDs,
		Names: team.MyTeamNames,
	})

	document := s.builder.Build(ics.BuildInput{
		TeamSlug:          team.Slug,
		CalendarName:      team.Name,
		DescriptionPrefix: team.LeagueName,
		Games:             matched,
	})

	path := filepath.Join(s.cfg.OutputDir, team.Slug+".ics")
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		row.Status = TeamStatusFailed
		row.Message = err.Error()
		row.DurationMs = time.Since(start).Milliseconds()
		s.logger.Error("write calendar failed", "team", team.Name, "path", path, "error", err)
		return row
	}

	row.Path = path
	row.Events = len(matched)
	row.Status = TeamStatusSuccess
	row.DurationMs = time.Since(start).Milliseconds()
	s.logger.Info("wrote calendar", "team", team.Name, "path", path, "events", len(matched), "source", team.APIURL)
	return row
}
