package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dynacharting/core/aggregation"
	"github.com/dynacharting/core/command"
	"github.com/dynacharting/core/config"
	"github.com/dynacharting/core/datasource"
	"github.com/dynacharting/core/ids"
	"github.com/dynacharting/core/ingest"
	"github.com/dynacharting/core/ingestloop"
	"github.com/dynacharting/core/internal/dcerr"
	"github.com/dynacharting/core/layout"
	"github.com/dynacharting/core/pipeline"
	"github.com/dynacharting/core/resolution"
	"github.com/dynacharting/core/scene"
	"github.com/dynacharting/core/session"
	"github.com/dynacharting/core/telemetry"
	"github.com/dynacharting/core/viewport"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dcserved",
		Short: "Drive a DynaCharting Chart Session from a fake or websocket data source",
		RunE:  runServe,
	}
	config.BindFlags(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return fmt.Errorf("dcserved: %w", err)
	}

	logger := telemetry.NewLogger("dcserved")
	if cfg.LogConsole {
		logger = telemetry.NewConsoleLogger("dcserved")
	}

	registry := telemetry.NewRegistry()

	demo, err := buildDemo(cfg)
	if err != nil {
		return fmt.Errorf("dcserved: %w", err)
	}

	source, err := buildDataSource(cfg, demo, logger)
	if err != nil {
		return fmt.Errorf("dcserved: %w", err)
	}
	source.Start()
	defer source.Stop()

	metricsSrv := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: promhttp.HandlerFor(registry.Gatherer(), promhttp.HandlerOpts{}),
	}
	go func() {
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("serving /metrics")
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()

	logger.Info().
		Str("dataSource", string(cfg.DataSource)).
		Dur("tickInterval", cfg.TickInterval).
		Bool("aggregation", cfg.Session.EnableAggregation).
		Bool("smartRetention", cfg.Session.EnableSmartRetention).
		Msg("dcserved started")

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
			logger.Info().Msg("dcserved stopped")
			return nil
		case <-ticker.C:
			start := time.Now()
			result := demo.session.Update(source)
			registry.ObserveUpdateDuration(time.Since(start))

			for _, id := range result.TouchedBufferIds {
				size := demo.ing.Size(id)
				delta := size - demo.prevBufferSizes[id]
				demo.prevBufferSizes[id] = size
				if delta > 0 {
					registry.IngestBytesTotal.WithLabelValues(fmt.Sprintf("%d", id)).Add(float64(delta))
				}
			}
			if demo.agg != nil {
				registry.ResolutionTier.WithLabelValues(fmt.Sprintf("%d", demo.pricePaneId)).
					Set(float64(demo.agg.Tier().Factor))
				if result.ResolutionChanged {
					logger.Debug().Interface("tier", demo.agg.Tier()).Msg("resolution tier changed")
				}
			}
		}
	}
}

// demoStack holds every resource buildDemo wires together, so runServe's ticker
// loop and buildDataSource can both reach into it without a longer parameter list.
type demoStack struct {
	session        *session.Session
	ing            ingest.Processor
	agg            aggregation.Manager
	pricePaneId    dcerr.Id
	candleBufferId dcerr.Id

	prevBufferSizes map[dcerr.Id]int
}

// buildDemo wires a two-pane (price + volume) chart, mirroring the pane/layer
// layout of original_source/core/demos/live_server.cpp: a price pane holding a
// candle series and a volume pane holding a derived volume histogram, with a
// linked X axis between them.
func buildDemo(cfg config.Config) (*demoStack, error) {
	sc := scene.New()
	cp := command.New(ids.New(), sc, pipeline.NewDefaultCatalog())
	ing := ingest.New()
	loop := ingestloop.New()

	var agg aggregation.Manager
	if cfg.Session.EnableAggregation {
		agg = aggregation.New(resolution.NewDefault())
	}

	const pricePaneId, volPaneId dcerr.Id = 1, 2
	const priceLayerId, volLayerId dcerr.Id = 10, 20

	lm := layout.New(layout.DefaultConfig())
	lm.AddPane(pricePaneId, 0.7)
	lm.AddPane(volPaneId, 0.3)

	if err := mustOk(cp.Process(paneCmd(pricePaneId, "price"))); err != nil {
		return nil, err
	}
	if err := mustOk(cp.Process(paneCmd(volPaneId, "volume"))); err != nil {
		return nil, err
	}
	lm.ApplyLayout(cp)

	if err := mustOk(cp.Process(layerCmd(priceLayerId, pricePaneId, "price"))); err != nil {
		return nil, err
	}
	if err := mustOk(cp.Process(layerCmd(volLayerId, volPaneId, "volume"))); err != nil {
		return nil, err
	}

	sess := session.New(cp, ing, loop, agg, cfg.Session)

	candle := recipeCandle(priceLayerId)
	if _, err := sess.Mount(candle, dcerr.InvalidId); err != nil {
		return nil, fmt.Errorf("mount candle series: %w", err)
	}

	volume := recipeVolume(volLayerId)
	volumeHandle, err := sess.Mount(volume, dcerr.InvalidId)
	if err != nil {
		return nil, fmt.Errorf("mount volume histogram: %w", err)
	}

	sess.AddComputeDependency(volumeHandle, candle.BufferId())
	sess.SetComputeCallback(volumeHandle, newVolumeComputeCallback(ing, cp, candle.BufferId(), volume))

	regions := lm.Regions()
	priceRegion, volRegion := scene.Region{ClipXMin: -1, ClipXMax: 1, ClipYMin: -0.05, ClipYMax: 1}, scene.Region{ClipXMin: -1, ClipXMax: 1, ClipYMin: -1, ClipYMax: -0.1}
	if len(regions) >= 2 {
		priceRegion, volRegion = regions[0], regions[1]
	}

	priceVp := viewport.New(
		viewport.PixelSize{W: 900, H: 600},
		priceRegion,
		viewport.DataRange{XMin: 0, XMax: 200, YMin: 90, YMax: 110},
	)
	volVp := viewport.New(
		viewport.PixelSize{W: 900, H: 200},
		volRegion,
		viewport.DataRange{XMin: 0, XMax: 200, YMin: 0, YMax: 1},
	)
	sess.AttachViewport(pricePaneId, priceVp, candle.TransformId(), true)
	sess.AttachViewport(volPaneId, volVp, volume.TransformId(), false)

	return &demoStack{
		session:         sess,
		ing:             ing,
		agg:             agg,
		pricePaneId:     pricePaneId,
		candleBufferId:  candle.BufferId(),
		prevBufferSizes: make(map[dcerr.Id]int),
	}, nil
}

// buildDataSource constructs the datasource.DataSource cfg selects, wiring the
// fake generator's candle buffer to the id buildDemo minted for the candle series.
func buildDataSource(cfg config.Config, demo *demoStack, logger zerolog.Logger) (datasource.DataSource, error) {
	switch cfg.DataSource {
	case config.DataSourceFake:
		dsCfg := datasource.DefaultFakeDataSourceConfig()
		dsCfg.CandleBufferId = demo.candleBufferId
		dsCfg.TickInterval = cfg.TickInterval
		return datasource.NewFakeDataSource(dsCfg), nil
	case config.DataSourceWebSocket:
		return datasource.NewWebSocketDataSource(datasource.WebSocketDataSourceConfig{
			URL:    cfg.WebSocketURL,
			Logger: logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}
}

func mustOk(r command.Result) error {
	if !r.Ok {
		return fmt.Errorf("command failed: %v", r.Err)
	}
	return nil
}
