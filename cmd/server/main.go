// main wires high-level dependencies, starts the processing cycles, and
// exposes the HTTP surface. Business logic lives in the internal service
// packages.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"vetflow/internal/admin"
	"vetflow/internal/audit"
	auditkafka "vetflow/internal/audit/kafka"
	"vetflow/internal/check"
	checkhandler "vetflow/internal/check/handler"
	checkservice "vetflow/internal/check/service"
	"vetflow/internal/digest"
	digesthandler "vetflow/internal/digest/handler"
	"vetflow/internal/escalation"
	escalationhandler "vetflow/internal/escalation/handler"
	escalationmetrics "vetflow/internal/escalation/metrics"
	"vetflow/internal/notify"
	"vetflow/internal/platform/clock"
	"vetflow/internal/platform/config"
	"vetflow/internal/platform/httpserver"
	"vetflow/internal/platform/logger"
	"vetflow/internal/platform/metrics"
	"vetflow/internal/platform/postgres"
	platformredis "vetflow/internal/platform/redis"
	"vetflow/internal/runner"
	"vetflow/internal/sla"
	"vetflow/internal/transition"
	transitionmetrics "vetflow/internal/transition/metrics"
	httptransport "vetflow/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	clk := clock.System{}

	// Stores: Postgres when configured, in-memory otherwise.
	var (
		checkStore check.Store    = check.NewInMemoryStore()
		auditStore audit.Store    = audit.NewInMemoryStore()
		eventStore escalation.EventStore = escalation.NewInMemoryEventStore()
	)
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres unavailable", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.Migrate(context.Background(), db); err != nil {
			log.Error("migrate schema", "error", err)
			os.Exit(1)
		}
		checkStore = check.NewPostgres(db)
		auditStore = audit.NewPostgres(db)
		eventStore = escalation.NewPostgresEventStore(db)
	}

	// Escalation cooldown: Redis when configured so the 24h window
	// survives restarts.
	var dedup escalation.DedupStore = escalation.NewInMemoryDedupStore()
	if cfg.RedisURL != "" {
		rdb, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			log.Error("redis unavailable", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		dedup = escalation.NewRedisDedupStore(rdb.Client)
	}

	auditPub := audit.NewPublisher(auditStore)
	var auditWorker *audit.Worker
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := auditkafka.New(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
		inbox := make(chan audit.Record, 256)
		auditPub = auditPub.WithInbox(inbox)
		auditWorker = audit.NewWorker(sink, inbox, log)
	}

	notifier := notify.NewLogNotifier(log)

	slaConfigs := sla.NewInMemoryConfigStore()
	slaCalc := sla.NewCalculator(slaConfigs)

	engine := transition.NewEngine(checkStore, auditPub, notifier, transitionmetrics.New(), cfg.Reviewers)
	checkSvc, err := checkservice.New(checkStore, engine, slaCalc, auditPub, log)
	if err != nil {
		log.Error("wire check service", "error", err)
		os.Exit(1)
	}

	ruleStore := escalation.NewInMemoryRuleStore()
	processor := escalation.NewProcessor(
		checkStore, ruleStore, eventStore, dedup,
		notifier, escalationmetrics.New(), log,
	)
	escalationSvc := escalation.NewService(eventStore)

	prefs := digest.NewInMemoryPreferencesStore()
	aggregator := digest.NewAggregator(checkStore, auditStore, prefs)
	dispatcher := digest.NewDispatcher(aggregator, prefs, notifier, log)

	cycles := runner.New(clk, log,
		runner.Cycle{
			Name:     "transition_sweep",
			Interval: cfg.TransitionInterval,
			Run: func(ctx context.Context, now time.Time) error {
				_, err := checkSvc.Sweep(ctx, now)
				return err
			},
		},
		runner.Cycle{
			Name:     "escalation_scan",
			Interval: cfg.EscalationInterval,
			Run: func(ctx context.Context, now time.Time) error {
				_, err := processor.RunCycle(ctx, now)
				return err
			},
		},
		runner.Cycle{
			Name:     "digest_dispatch",
			Interval: cfg.DigestInterval,
			Run: func(ctx context.Context, now time.Time) error {
				_, err := dispatcher.DispatchDue(ctx, now)
				return err
			},
		},
	)

	router := httptransport.NewRouter(log, metrics.New(),
		checkhandler.New(checkSvc),
		escalationhandler.New(escalationSvc),
		digesthandler.New(aggregator, prefs),
		admin.New(slaConfigs, ruleStore),
	)
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting vetflow", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		err := cycles.Run(ctx)
		if err == context.Canceled {
			return nil
		}
		return err
	})
	if auditWorker != nil {
		g.Go(func() error {
			err := auditWorker.Run(ctx)
			if err == context.Canceled {
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
