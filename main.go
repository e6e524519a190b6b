package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alexflint/go-filemutex"
	"github.com/tidwall/buntdb"
	"github.com/urfave/cli/v2"

	"worktime/activity"
	"worktime/config"
	"worktime/report"
	"worktime/source"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{
		Name:  "worktime",
		Usage: "reconcile worker online and break time",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Usage: "rest, mongo or store (overrides WORKTIME_SOURCE)"},
			&cli.StringFlag{Name: "format", Value: "table", Usage: "table, csv, markdown or html"},
		},
		Commands: []*cli.Command{
			liveCommand,
			reportCommand,
			syncCommand,
			watchCommand,
			viewCommand,
		},
	}
	return app.Run(os.Args)
}

var liveCommand = &cli.Command{
	Name:  "live",
	Usage: "show every worker as of now, or one worker's breaks with --worker",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "worker"},
	},
	Action: func(c *cli.Context) error {
		return withEnv(c, func(e *env) error {
			b := report.NewBuilder(e.src, e.cfg.Calendar, e.cfg.LogoutPolicy, e.logger)
			now := time.Now()
			var r report.Report
			var err error
			if id := c.String("worker"); id != "" {
				r, err = b.Worker(c.Context, id, now)
			} else {
				r, err = b.Team(c.Context, now)
			}
			if err != nil {
				return err
			}
			return e.render(c, r)
		})
	},
}

var reportCommand = &cli.Command{
	Name:  "report",
	Usage: "daily, weekly, monthly or custom month report for one worker",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "worker", Required: true},
		&cli.StringFlag{Name: "period", Value: string(activity.PeriodWeekly)},
		&cli.StringFlag{Name: "month", Usage: "YYYY-MM, for --period custom"},
	},
	Action: func(c *cli.Context) error {
		return withEnv(c, func(e *env) error {
			r, err := e.rangeReport(c, c.String("worker"), c.String("period"), c.String("month"))
			if err != nil {
				return err
			}
			return e.render(c, r)
		})
	},
}

var viewCommand = &cli.Command{
	Name:      "view",
	Usage:     "browse one worker's month in the terminal",
	ArgsUsage: "[YYYY-MM]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "worker", Required: true},
	},
	Action: func(c *cli.Context) error {
		return withEnv(c, func(e *env) error {
			month := c.Args().First()
			period := string(activity.PeriodCustomMonth)
			if month == "" {
				period = string(activity.PeriodMonthly)
			}
			r, err := e.rangeReport(c, c.String("worker"), period, month)
			if err != nil {
				return err
			}
			return report.NewTUI(e.logger).Show(r)
		})
	},
}

var syncCommand = &cli.Command{
	Name:  "sync",
	Usage: "copy workers and their history from the remote source into the local store",
	Action: func(c *cli.Context) error {
		return withEnv(c, func(e *env) error {
			if e.kind == config.SourceStore {
				return fmt.Errorf("sync needs a remote source, use --source rest or --source mongo")
			}
			now := time.Now()
			from := e.cfg.Calendar.DateOf(now).AddDays(-(e.cfg.HistoryDays - 1))

			results, err := e.src.Workers(c.Context)
			if err != nil {
				return err
			}

			if err := e.lock.Lock(); err != nil {
				return err
			}
			defer e.lock.Unlock()

			var synced int
			for _, r := range results {
				if r.Err != nil {
					e.logger.Warn("skip worker", slog.String("err", r.Err.Error()))
					continue
				}
				if err := e.syncWorker(c.Context, r.Snapshot, from, now); err != nil {
					e.logger.Warn("sync worker", slog.String("worker", r.Snapshot.WorkerID), slog.String("err", err.Error()))
					continue
				}
				synced++
			}
			fmt.Fprintf(c.App.Writer, "synced %d of %d workers\n", synced, len(results))
			return nil
		})
	},
}

var watchCommand = &cli.Command{
	Name:  "watch",
	Usage: "refresh the team view every poll interval",
	Action: func(c *cli.Context) error {
		return withEnv(c, func(e *env) error {
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			provider := source.Provider{Source: e.src, Logger: e.logger}
			sink := func(p activity.Pass) error {
				if e.kind != config.SourceStore {
					if err := e.cacheSnapshots(p); err != nil {
						e.logger.Error("cache snapshots", slog.String("err", err.Error()))
					}
				}
				return e.render(c, report.AssembleTeam(p.Views, e.cfg.Calendar, activity.SentinelNA, p.Now))
			}
			mgr := activity.NewMonitor(provider, sink, e.logger, e.cfg.PollInterval, e.cfg.LogoutPolicy)
			if err := mgr.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		})
	},
}

// env is what every command needs, opened once per invocation.
type env struct {
	cfg    *config.Config
	kind   config.SourceKind
	logger *slog.Logger
	repo   activity.Repository
	lock   *filemutex.FileMutex
	src    source.Source
	format report.Format
}

func withEnv(c *cli.Context, fn func(e *env) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return err
	}
	format, err := report.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	db, err := buntdb.Open(filepath.Join(cfg.Dir, "worktime.db"))
	if err != nil {
		return err
	}
	defer db.Close()

	lock, err := filemutex.New(filepath.Join(cfg.Dir, "worktime.lock"))
	if err != nil {
		return err
	}
	defer lock.Close()

	e := &env{
		cfg:    cfg,
		kind:   cfg.Source,
		logger: logger,
		repo:   activity.NewRepository(db),
		lock:   lock,
		format: format,
	}
	if s := c.String("source"); s != "" {
		e.kind = config.SourceKind(s)
	}

	closeSrc, err := e.openSource(c.Context)
	if err != nil {
		return err
	}
	defer closeSrc()

	return fn(e)
}

func (e *env) openSource(ctx context.Context) (func(), error) {
	switch e.kind {
	case config.SourceREST:
		e.src = source.NewRESTSource(e.cfg.RESTURL, e.cfg.RESTToken, e.cfg.Calendar.Zone(), e.logger)
		return func() {}, nil
	case config.SourceMongo:
		client, err := source.ConnectMongo(ctx, e.cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		e.src = source.NewMongoSource(client.Database(e.cfg.MongoDB), e.cfg.Calendar.Zone(), e.logger)
		return func() { client.Disconnect(context.Background()) }, nil
	case config.SourceStore:
		e.src = source.NewStoreSource(e.repo, func() activity.Date {
			return e.cfg.Calendar.DateOf(time.Now())
		})
		return func() {}, nil
	}
	return nil, fmt.Errorf("unknown source %q", e.kind)
}

func (e *env) rangeReport(c *cli.Context, workerID, period, month string) (report.Report, error) {
	p, err := activity.ParsePeriod(period)
	if err != nil {
		return report.Report{}, err
	}
	now := time.Now()
	rng, err := activity.ResolveRange(p, e.cfg.Calendar.DateOf(now), month)
	if err != nil {
		return report.Report{}, err
	}
	b := report.NewBuilder(e.src, e.cfg.Calendar, e.cfg.LogoutPolicy, e.logger)
	r, _, err := b.Range(c.Context, workerID, rng, now)
	return r, err
}

func (e *env) syncWorker(ctx context.Context, w activity.WorkerSnapshot, from activity.Date, now time.Time) error {
	if err := e.repo.SaveSnapshot(w); err != nil {
		return err
	}
	results, err := e.src.History(ctx, w.WorkerID, from)
	if err != nil {
		return err
	}
	entries, errs := source.Entries(results)
	for _, err := range errs {
		e.logger.Warn("skip history day", slog.String("worker", w.WorkerID), slog.String("err", err.Error()))
	}
	recs := make([]activity.DailyRecord, 0, len(entries))
	for _, entry := range entries {
		recs = append(recs, activity.NormalizeDay(entry, now, activity.LogoutPolicyZero))
	}
	return e.repo.SaveDays(w.WorkerID, recs)
}

func (e *env) cacheSnapshots(p activity.Pass) error {
	if err := e.lock.Lock(); err != nil {
		return err
	}
	defer e.lock.Unlock()
	for _, w := range p.Snapshots {
		if err := e.repo.SaveSnapshot(w); err != nil {
			return err
		}
	}
	e.logger.Debug("cached snapshots", slog.Int("workers", len(p.Snapshots)))
	return nil
}

func (e *env) render(c *cli.Context, r report.Report) error {
	return report.Render(c.App.Writer, r, e.format)
}

func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	logFile, err := os.OpenFile(filepath.Join(cfg.Dir, "log.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(
		slog.NewJSONHandler(logFile, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		}),
	)
	return logger, func() { logFile.Close() }, nil
}
