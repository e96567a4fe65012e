package datasource

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Status mirrors the original WebSocketDataSource's connection status enum.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
	StatusError
)

// WebSocketDataSourceConfig configures the live network-backed source.
type WebSocketDataSourceConfig struct {
	URL               string
	ReconnectInterval time.Duration
	MaxQueueSize      int
	Logger            zerolog.Logger
}

// WebSocketDataSource reads binary ingest batches off a websocket connection, retrying
// with rate-limited backoff and a circuit breaker around repeated connect failures.
// Its single long-running receive loop is scheduled onto the teacher's own
// concurrency dependency (automation's DynamicWorkerPool) rather than a bare goroutine,
// so that dependency is exercised here instead of dropped outright.
type WebSocketDataSource struct {
	cfg   WebSocketDataSourceConfig
	queue *ThreadSafeQueue
	pool  worker.DynamicWorkerPool
	dialer *websocket.Dialer

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker

	running atomic.Bool
	status  atomic.Int32

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

var _ DataSource = (*WebSocketDataSource)(nil)

// NewWebSocketDataSource creates a WebSocketDataSource over cfg.
func NewWebSocketDataSource(cfg WebSocketDataSourceConfig) *WebSocketDataSource {
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = 3 * time.Second
	}
	maxQueue := cfg.MaxQueueSize
	if maxQueue <= 0 {
		maxQueue = 64
	}

	return &WebSocketDataSource{
		cfg:     cfg,
		queue:   NewThreadSafeQueue(maxQueue),
		pool:    worker.NewDynamicWorkerPool(1, 4, 30*time.Second),
		dialer:  websocket.DefaultDialer,
		limiter: rate.NewLimiter(rate.Every(cfg.ReconnectInterval), 1),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "dynacharting-datasource",
			MaxRequests: 1,
			Interval:    0,
			Timeout:     cfg.ReconnectInterval * 4,
			ReadyToTrip: func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures >= 5 },
		}),
	}
}

func (s *WebSocketDataSource) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.once = sync.Once{}

	s.pool.SubmitTask(worker.Task{
		ID: 0,
		Do: func() (any, error) {
			defer close(s.done)
			s.receiveLoop(ctx)
			return nil, nil
		},
	})
}

func (s *WebSocketDataSource) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.done != nil {
		<-s.done
	}
}

func (s *WebSocketDataSource) IsRunning() bool { return s.running.Load() }

func (s *WebSocketDataSource) Poll() ([]byte, bool) { return s.queue.Pop() }

// StatusValue reports the current connection status.
func (s *WebSocketDataSource) StatusValue() Status { return Status(s.status.Load()) }

func (s *WebSocketDataSource) setStatus(v Status) { s.status.Store(int32(v)) }

func (s *WebSocketDataSource) receiveLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.setStatus(StatusDisconnected)
			return
		default:
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return
		}

		_, err := s.breaker.Execute(func() (any, error) {
			return nil, s.connectAndRead(ctx)
		})
		if err != nil {
			s.setStatus(StatusError)
			s.cfg.Logger.Warn().Err(err).Str("url", s.cfg.URL).Msg("datasource reconnecting")
		}
	}
}

func (s *WebSocketDataSource) connectAndRead(ctx context.Context) error {
	s.setStatus(StatusConnecting)
	conn, _, err := s.dialer.DialContext(ctx, s.cfg.URL, http.Header{})
	if err != nil {
		return err
	}
	defer conn.Close()

	s.setStatus(StatusConnected)
	s.cfg.Logger.Info().Str("url", s.cfg.URL).Msg("datasource connected")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		s.queue.Push(payload)
	}
}
