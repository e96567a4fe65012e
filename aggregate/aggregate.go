// Package aggregate implements the Candle Aggregator: a pure function that
// downsamples a packed Candle6 sequence by an integer factor into OHLC-merged
// candles. No allocation beyond the output vector; all arithmetic is single precision.
package aggregate

import (
	"encoding/binary"
	"math"

	"github.com/dynacharting/core/internal/dcerr"
)

// Result is the output of Aggregate: a packed Candle6 byte sequence and the
// number of candles it contains.
type Result struct {
	Bytes       []byte
	CandleCount int
}

// Aggregate downsamples rawLen bytes of packed Candle6 records (from raw) by factor.
//
// Rules (spec §4.F):
//   - factor < 2 or rawCount < factor -> empty result.
//   - groupCount = ceil(rawCount / factor); group g spans [g*factor, min((g+1)*factor, rawCount)).
//   - x, open come from the first raw candle in the group; close from the last.
//   - high/low are the group's max/min.
//   - halfWidth is the first member's halfWidth scaled by the group's actual member count,
//     so a ragged tail group is proportionally narrower.
//
// Parameters:
//   - raw: packed Candle6 bytes (24 bytes per record)
//   - rawLen: number of valid bytes in raw to consider
//   - factor: the downsampling factor
//
// Returns:
//   - Result: the aggregated candles, empty if the boundary rules apply
func Aggregate(raw []byte, rawLen int, factor int) Result {
	rawCount := rawLen / dcerr.CandleRecordBytes

	if factor < 2 || rawCount < factor {
		return Result{}
	}

	groupCount := (rawCount + factor - 1) / factor
	out := make([]byte, groupCount*dcerr.CandleRecordBytes)

	for g := 0; g < groupCount; g++ {
		start := g * factor
		end := start + factor
		if end > rawCount {
			end = rawCount
		}

		firstOff := start * dcerr.CandleRecordBytes
		x := readF32(raw, firstOff+0)
		open := readF32(raw, firstOff+4)
		firstHalfWidth := readF32(raw, firstOff+20)

		high := readF32(raw, firstOff+8)
		low := readF32(raw, firstOff+12)
		var closeVal float32

		for i := start; i < end; i++ {
			off := i * dcerr.CandleRecordBytes
			h := readF32(raw, off+8)
			l := readF32(raw, off+12)
			if h > high {
				high = h
			}
			if l < low {
				low = l
			}
			if i == end-1 {
				closeVal = readF32(raw, off+16)
			}
		}

		halfWidth := firstHalfWidth * float32(end-start)

		outOff := g * dcerr.CandleRecordBytes
		writeF32(out, outOff+0, x)
		writeF32(out, outOff+4, open)
		writeF32(out, outOff+8, high)
		writeF32(out, outOff+12, low)
		writeF32(out, outOff+16, closeVal)
		writeF32(out, outOff+20, halfWidth)
	}

	return Result{Bytes: out, CandleCount: groupCount}
}

func readF32(b []byte, off int) float32 {
	bits := binary.LittleEndian.Uint32(b[off : off+4])
	return math.Float32frombits(bits)
}

func writeF32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:off+4], math.Float32bits(v))
}
