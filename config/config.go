// Package config is the typed runtime configuration for a dcserved process:
// which data source to drive a Chart Session from, how often to tick it, and
// which session-level knobs (retention, aggregation, X-axis linking) to apply.
// The teacher carries no configuration layer of its own; this package follows
// cryptorun's flag/env-driven plain-struct pattern (no viper) rather than
// inventing a bespoke scheme, per SPEC_FULL.md's DOMAIN STACK ledger.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dynacharting/core/session"
)

// DataSourceKind selects which datasource.DataSource implementation
// cmd/dcserved wires up.
type DataSourceKind string

const (
	DataSourceFake      DataSourceKind = "fake"
	DataSourceWebSocket DataSourceKind = "websocket"
)

// Config is every tunable a dcserved process needs at startup.
type Config struct {
	DataSource    DataSourceKind
	WebSocketURL  string
	TickInterval  time.Duration
	MetricsAddr   string
	LogConsole    bool

	Session session.ChartSessionConfig
}

// Default returns a Config wired to a fake data source, a 100ms tick, and
// session defaults with aggregation and smart retention both enabled (a
// realistic always-on demo configuration, unlike session.DefaultChartSessionConfig
// which starts both disabled for library callers to opt into explicitly).
func Default() Config {
	cfg := session.DefaultChartSessionConfig()
	cfg.EnableAggregation = true
	cfg.EnableSmartRetention = true

	return Config{
		DataSource:   DataSourceFake,
		TickInterval: 100 * time.Millisecond,
		MetricsAddr:  ":9090",
		LogConsole:   true,
		Session:      cfg,
	}
}

// BindFlags registers every Config field as a cobra flag on cmd, seeded with
// Default()'s values. Call Load after cmd.Execute resolves flags to read them back.
func BindFlags(cmd *cobra.Command) {
	d := Default()
	flags := cmd.Flags()

	flags.String("data-source", string(d.DataSource), "data source kind: fake or websocket")
	flags.String("websocket-url", d.WebSocketURL, "websocket URL, required when data-source=websocket")
	flags.Duration("tick-interval", d.TickInterval, "how often to drive one Session.Update")
	flags.String("metrics-addr", d.MetricsAddr, "address to serve /metrics on")
	flags.Bool("log-console", d.LogConsole, "use human-readable console logging instead of JSON")
	flags.Bool("enable-aggregation", d.Session.EnableAggregation, "enable the Aggregation Manager")
	flags.Bool("enable-smart-retention", d.Session.EnableSmartRetention, "enable viewport-driven retention sizing")
	flags.Bool("link-x-axis", d.Session.LinkXAxis, "link every secondary viewport's X range to the primary")
}

// Load reads back the flags BindFlags registered on cmd onto Default(). Every
// setting except tick-interval also has a DCSERVED_* env var; when that env var
// is set it takes precedence over the flag value, even an explicitly set flag.
func Load(cmd *cobra.Command) (Config, error) {
	cfg := Default()
	flags := cmd.Flags()

	dataSource, err := flags.GetString("data-source")
	if err != nil {
		return Config{}, err
	}
	cfg.DataSource = DataSourceKind(envOr("DCSERVED_DATA_SOURCE", dataSource))
	if cfg.DataSource != DataSourceFake && cfg.DataSource != DataSourceWebSocket {
		return Config{}, fmt.Errorf("config: unknown data-source %q", cfg.DataSource)
	}

	cfg.WebSocketURL = envOr("DCSERVED_WEBSOCKET_URL", mustString(flags.GetString("websocket-url")))
	if cfg.DataSource == DataSourceWebSocket && cfg.WebSocketURL == "" {
		return Config{}, fmt.Errorf("config: websocket-url is required when data-source=websocket")
	}

	cfg.TickInterval = mustDuration(flags.GetDuration("tick-interval"))
	cfg.MetricsAddr = envOr("DCSERVED_METRICS_ADDR", mustString(flags.GetString("metrics-addr")))
	cfg.LogConsole = envBoolOr("DCSERVED_LOG_CONSOLE", mustBool(flags.GetBool("log-console")))

	cfg.Session.EnableAggregation = envBoolOr("DCSERVED_ENABLE_AGGREGATION", mustBool(flags.GetBool("enable-aggregation")))
	cfg.Session.EnableSmartRetention = envBoolOr("DCSERVED_ENABLE_SMART_RETENTION", mustBool(flags.GetBool("enable-smart-retention")))
	cfg.Session.LinkXAxis = envBoolOr("DCSERVED_LINK_X_AXIS", mustBool(flags.GetBool("link-x-axis")))
	cfg.Session.Retention = session.DefaultRetentionPolicy()
	cfg.Session.SmartRetention = session.DefaultSmartRetentionConfig()

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// mustString/mustDuration/mustBool unwrap a cobra flag accessor's error, which
// can only be non-nil if BindFlags did not register that flag name — a
// programmer error, not a runtime condition callers need to handle.
func mustString(v string, err error) string {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDuration(v time.Duration, err error) time.Duration {
	if err != nil {
		panic(err)
	}
	return v
}

func mustBool(v bool, err error) bool {
	if err != nil {
		panic(err)
	}
	return v
}
