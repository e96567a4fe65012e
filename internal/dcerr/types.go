// Package dcerr contains common types that are used throughout this engine. They are not
// interface-wrapped structs, just plain structs and value types that express commonly used
// data, mirroring the role the teacher repo's "common" package plays for this one.
package dcerr

// Id is a 64-bit unsigned resource identifier. Zero is reserved as the invalid sentinel.
type Id uint64

// InvalidId is the reserved sentinel value; no live resource may ever carry it.
const InvalidId Id = 0

// ResourceKind identifies which scene table an Id belongs to.
type ResourceKind int

const (
	// KindUnknown is the zero value and never assigned to a live Id.
	KindUnknown ResourceKind = iota
	KindPane
	KindLayer
	KindDrawItem
	KindBuffer
	KindGeometry
	KindTransform
)

// String returns the human-readable name of the kind, used in error details and diagnostics.
func (k ResourceKind) String() string {
	switch k {
	case KindPane:
		return "Pane"
	case KindLayer:
		return "Layer"
	case KindDrawItem:
		return "DrawItem"
	case KindBuffer:
		return "Buffer"
	case KindGeometry:
		return "Geometry"
	case KindTransform:
		return "Transform"
	default:
		return "Unknown"
	}
}

// VertexFormat names one of the fixed-stride vertex layouts the core understands.
type VertexFormat int

const (
	FormatUnknown VertexFormat = iota
	FormatPos2Clip
	FormatRect4
	FormatCandle6
	FormatGlyph8
	FormatPos2Alpha
)

// StrideOf returns the fixed byte stride of one logical record in the given format,
// or 0 if the format is not recognised.
func StrideOf(f VertexFormat) int {
	switch f {
	case FormatPos2Clip:
		return 8
	case FormatRect4:
		return 16
	case FormatCandle6:
		return 24
	case FormatGlyph8:
		return 32
	case FormatPos2Alpha:
		return 12
	default:
		return 0
	}
}

// ParseVertexFormat converts a wire-protocol format name into a VertexFormat.
func ParseVertexFormat(name string) (VertexFormat, bool) {
	switch name {
	case "Pos2Clip":
		return FormatPos2Clip, true
	case "Rect4":
		return FormatRect4, true
	case "Candle6":
		return FormatCandle6, true
	case "Glyph8":
		return FormatGlyph8, true
	case "Pos2Alpha":
		return FormatPos2Alpha, true
	default:
		return FormatUnknown, false
	}
}

// String returns the wire-protocol name of the format.
func (f VertexFormat) String() string {
	switch f {
	case FormatPos2Clip:
		return "Pos2Clip"
	case FormatRect4:
		return "Rect4"
	case FormatCandle6:
		return "Candle6"
	case FormatGlyph8:
		return "Glyph8"
	case FormatPos2Alpha:
		return "Pos2Alpha"
	default:
		return "Unknown"
	}
}

// CandleRecordBytes is the packed size, in bytes, of one Candle6 record
// (x, open, high, low, close, halfWidth as float32).
const CandleRecordBytes = 24
