// Package ingest implements the Ingest Processor: a binary record decoder (append/update
// operations) feeding CPU-side byte buffers with per-buffer size caps and front-eviction,
// synchronised to Scene Buffer byte lengths.
package ingest

import (
	"encoding/binary"

	"github.com/dynacharting/core/internal/dcerr"
	"github.com/dynacharting/core/scene"
)

// Op identifies a single ingest record's operation.
type Op byte

const (
	OpAppend      Op = 1
	OpUpdateRange Op = 2
)

// headerSize is the fixed byte size of one record header (op, bufferId, offset, payloadLen).
const headerSize = 13

// BatchResult reports the outcome of decoding one batch: every buffer id touched
// (deduplicated, in first-touch order), total payload bytes committed, and the
// number of trailing bytes dropped: a tail shorter than a record header, a record
// whose payload would have extended past the batch end, or everything from a
// record with an unknown op byte onward.
type BatchResult struct {
	TouchedBufferIds []dcerr.Id
	PayloadBytes     int
	DroppedBytes     int
}

// Processor decodes binary batches into capped CPU-side buffers and keeps them
// synchronised with the Scene's Buffer.ByteLength fields.
type Processor interface {
	// ProcessBatch decodes batch as a concatenation of records (see package doc) and
	// applies each to its target buffer. Malformed tails are dropped; valid records
	// before the malformed tail are committed.
	ProcessBatch(batch []byte) BatchResult

	// EnsureBuffer creates the CpuBuffer for id if it does not already exist.
	EnsureBuffer(id dcerr.Id)

	// SetBufferData replaces the buffer's entire contents, then enforces maxBytes.
	SetBufferData(id dcerr.Id, data []byte)

	// SetMaxBytes installs a new cap for id's buffer and immediately enforces it.
	SetMaxBytes(id dcerr.Id, maxBytes int)

	// EvictFront removes the first n bytes of id's buffer.
	EvictFront(id dcerr.Id, n int)

	// KeepLast truncates id's buffer to at most its last n bytes.
	KeepLast(id dcerr.Id, n int)

	// Size returns the current byte size of id's buffer, or 0 if it does not exist.
	Size(id dcerr.Id) int

	// Bytes returns a read-only view of id's buffer contents, or nil if absent.
	Bytes(id dcerr.Id) []byte

	// SyncBufferLengths writes every tracked CpuBuffer's size into the matching
	// Scene Buffer's ByteLength field.
	SyncBufferLengths(sc scene.Scene)
}

type processor struct {
	buffers map[dcerr.Id]*cpuBuffer
}

var _ Processor = (*processor)(nil)

// New creates an empty Processor with no buffers.
func New() Processor {
	return &processor{buffers: make(map[dcerr.Id]*cpuBuffer)}
}

func (p *processor) bufferFor(id dcerr.Id) *cpuBuffer {
	b, ok := p.buffers[id]
	if !ok {
		b = newCPUBuffer()
		p.buffers[id] = b
	}
	return b
}

func (p *processor) ProcessBatch(batch []byte) BatchResult {
	var result BatchResult
	touched := make(map[dcerr.Id]bool)

	offset := 0
	for offset < len(batch) {
		remaining := len(batch) - offset
		if remaining < headerSize {
			result.DroppedBytes += remaining
			break
		}

		op := Op(batch[offset])
		bufferId := dcerr.Id(binary.LittleEndian.Uint32(batch[offset+1 : offset+5]))
		recOffset := int(binary.LittleEndian.Uint32(batch[offset+5 : offset+9]))
		payloadLen := int(binary.LittleEndian.Uint32(batch[offset+9 : offset+13]))

		payloadStart := offset + headerSize
		payloadEnd := payloadStart + payloadLen
		if payloadEnd > len(batch) {
			result.DroppedBytes += len(batch) - offset
			break
		}

		payload := batch[payloadStart:payloadEnd]
		buf := p.bufferFor(bufferId)

		switch op {
		case OpAppend:
			buf.append(payload)
		case OpUpdateRange:
			buf.updateRange(recOffset, payload)
		default:
			// Unknown op byte: treat the rest of the batch as malformed tail.
			result.DroppedBytes += len(batch) - offset
			offset = len(batch)
			continue
		}

		if !touched[bufferId] {
			touched[bufferId] = true
			result.TouchedBufferIds = append(result.TouchedBufferIds, bufferId)
		}
		result.PayloadBytes += payloadLen
		offset = payloadEnd
	}

	return result
}

func (p *processor) EnsureBuffer(id dcerr.Id) {
	p.bufferFor(id)
}

func (p *processor) SetBufferData(id dcerr.Id, data []byte) {
	p.bufferFor(id).setData(data)
}

func (p *processor) SetMaxBytes(id dcerr.Id, maxBytes int) {
	p.bufferFor(id).setMaxBytes(maxBytes)
}

func (p *processor) EvictFront(id dcerr.Id, n int) {
	p.bufferFor(id).evictFront(n)
}

func (p *processor) KeepLast(id dcerr.Id, n int) {
	p.bufferFor(id).keepLast(n)
}

func (p *processor) Size(id dcerr.Id) int {
	b, ok := p.buffers[id]
	if !ok {
		return 0
	}
	return b.size()
}

func (p *processor) Bytes(id dcerr.Id) []byte {
	b, ok := p.buffers[id]
	if !ok {
		return nil
	}
	return b.bytes
}

func (p *processor) SyncBufferLengths(sc scene.Scene) {
	for id, buf := range p.buffers {
		if b, ok := sc.GetBufferMutable(id); ok {
			b.ByteLength = buf.size()
		}
	}
}
