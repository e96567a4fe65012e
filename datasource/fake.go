package datasource

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dynacharting/core/internal/dcerr"
)

// FakeDataSourceConfig configures the synthetic candle generator. Grounded on
// original_source's FakeDataSourceConfig: a candle buffer and an optional companion
// close-price line buffer, ticked at two independent intervals.
type FakeDataSourceConfig struct {
	CandleBufferId  dcerr.Id
	LineBufferId    dcerr.Id
	TickInterval    time.Duration
	CandleInterval  time.Duration
	StartPrice      float32
	Volatility      float32
}

// DefaultFakeDataSourceConfig mirrors the original's defaults (100ms ticks, new
// candle every 2s, startPrice 100, volatility 0.5).
func DefaultFakeDataSourceConfig() FakeDataSourceConfig {
	return FakeDataSourceConfig{
		TickInterval:   100 * time.Millisecond,
		CandleInterval: 2 * time.Second,
		StartPrice:     100,
		Volatility:     0.5,
	}
}

// FakeDataSource generates a synthetic, ever-ticking candle series on a background
// goroutine, pushing Candle6 (and optionally Pos2Clip) batches onto a ThreadSafeQueue.
type FakeDataSource struct {
	cfg   FakeDataSourceConfig
	queue *ThreadSafeQueue

	running atomic.Bool
	stopCh  chan struct{}
	done    chan struct{}

	seed uint32

	mu          sync.Mutex
	price       float32
	open        float32
	high        float32
	low         float32
	close_      float32
	candleCount uint32
}

var _ DataSource = (*FakeDataSource)(nil)

// NewFakeDataSource creates a FakeDataSource over cfg.
func NewFakeDataSource(cfg FakeDataSourceConfig) *FakeDataSource {
	return &FakeDataSource{
		cfg:   cfg,
		queue: NewThreadSafeQueue(DefaultQueueCapacity),
		seed:  42,
		price: cfg.StartPrice,
		open:  cfg.StartPrice,
		high:  cfg.StartPrice,
		low:   cfg.StartPrice,
		close_: cfg.StartPrice,
	}
}

func (s *FakeDataSource) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	go s.producerLoop()
}

func (s *FakeDataSource) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	close(s.stopCh)
	<-s.done
}

func (s *FakeDataSource) IsRunning() bool { return s.running.Load() }

func (s *FakeDataSource) Poll() ([]byte, bool) { return s.queue.Pop() }

func (s *FakeDataSource) producerLoop() {
	defer close(s.done)

	tickInterval := s.cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = 100 * time.Millisecond
	}
	candleInterval := s.cfg.CandleInterval
	if candleInterval <= 0 {
		candleInterval = 2 * time.Second
	}

	s.emitAppend()
	nextCandle := time.Now().Add(candleInterval)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			if now.After(nextCandle) || now.Equal(nextCandle) {
				s.emitAppend()
				nextCandle = nextCandle.Add(candleInterval)
			} else {
				s.emitUpdate()
			}
		}
	}
}

// rng is a tiny LCG matching the original's seed stepping, not a cryptographic
// generator -- any two runs produce the same synthetic series from the same seed.
func (s *FakeDataSource) rng() float32 {
	s.seed = s.seed*1103515245 + 12345
	return float32((s.seed>>16)&0x7FFF) / 32767.0
}

func (s *FakeDataSource) emitAppend() {
	change := (s.rng() - 0.5) * s.cfg.Volatility * 2
	s.price += change
	s.open = s.price
	s.high = s.price + s.rng()*s.cfg.Volatility*0.5
	s.low = s.price - s.rng()*s.cfg.Volatility*0.5
	s.close_ = s.price

	s.mu.Lock()
	idx := s.candleCount
	s.candleCount++
	s.mu.Unlock()

	const halfWidth = 0.4
	candle := packCandle6(float32(idx), s.open, s.high, s.low, s.close_, halfWidth)

	var batch []byte
	batch = appendRecord(batch, opAppend, s.cfg.CandleBufferId, 0, candle)
	if s.cfg.LineBufferId != dcerr.InvalidId {
		line := packPos2Clip(float32(idx), s.close_)
		batch = appendRecord(batch, opAppend, s.cfg.LineBufferId, 0, line)
	}
	s.queue.Push(batch)
}

func (s *FakeDataSource) emitUpdate() {
	tick := (s.rng() - 0.5) * s.cfg.Volatility
	s.close_ += tick
	if s.close_ > s.high {
		s.high = s.close_
	}
	if s.close_ < s.low {
		s.low = s.close_
	}
	s.price = s.close_

	s.mu.Lock()
	idx := uint32(0)
	if s.candleCount > 0 {
		idx = s.candleCount - 1
	}
	s.mu.Unlock()

	candle := packCandle6(float32(idx), s.open, s.high, s.low, s.close_, 0.4)
	offset := idx * dcerr.CandleRecordBytes

	var batch []byte
	batch = appendRecord(batch, opUpdateRange, s.cfg.CandleBufferId, offset, candle)
	if s.cfg.LineBufferId != dcerr.InvalidId {
		line := packPos2Clip(float32(idx), s.close_)
		lineOffset := idx * 8
		batch = appendRecord(batch, opUpdateRange, s.cfg.LineBufferId, lineOffset, line)
	}
	s.queue.Push(batch)
}

const (
	opAppend      = 1
	opUpdateRange = 2
)

func appendRecord(batch []byte, op byte, bufferId dcerr.Id, offset uint32, payload []byte) []byte {
	header := make([]byte, 13)
	header[0] = op
	binary.LittleEndian.PutUint32(header[1:5], uint32(bufferId))
	binary.LittleEndian.PutUint32(header[5:9], offset)
	binary.LittleEndian.PutUint32(header[9:13], uint32(len(payload)))
	batch = append(batch, header...)
	batch = append(batch, payload...)
	return batch
}

func packCandle6(x, open, high, low, close, halfWidth float32) []byte {
	out := make([]byte, dcerr.CandleRecordBytes)
	for i, v := range []float32{x, open, high, low, close, halfWidth} {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], math.Float32bits(v))
	}
	return out
}

func packPos2Clip(x, y float32) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint32(out[0:4], math.Float32bits(x))
	binary.LittleEndian.PutUint32(out[4:8], math.Float32bits(y))
	return out
}
