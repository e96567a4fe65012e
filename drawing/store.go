// Package drawing implements the DrawingStore: user-created chart annotations
// (trendlines, horizontal/vertical levels, rectangles, fib retracements) living in
// data space, independent of the Scene Graph. Grounded on original_source's
// DrawingStore, a spec.md §3.1 supplement not named by spec.md's own component table.
package drawing

import "encoding/json"

// Type identifies one kind of drawing annotation.
type Type int

const (
	TypeUnknown Type = iota
	TypeTrendline
	TypeHorizontalLevel
	TypeVerticalLine
	TypeRectangle
	TypeFibRetracement
)

// Drawing is one annotation in data space. For HorizontalLevel only Y0 is
// meaningful (drawn full-width); for VerticalLine only X0 is meaningful (drawn
// full-height).
type Drawing struct {
	Id        uint32
	Type      Type
	X0, Y0    float64
	X1, Y1    float64
	Color     [4]float32
	LineWidth float32
}

// defaultColor matches the original's default yellow.
var defaultColor = [4]float32{1, 1, 0, 1}

// Store is an ordered collection of Drawings with a monotonic id allocator.
type Store struct {
	drawings []Drawing
	nextId   uint32
}

// New creates an empty Store.
func New() *Store {
	return &Store{nextId: 1}
}

func (s *Store) add(d Drawing) uint32 {
	d.Id = s.nextId
	s.nextId++
	d.Color = defaultColor
	d.LineWidth = 2
	s.drawings = append(s.drawings, d)
	return d.Id
}

// AddTrendline adds a two-point trendline.
func (s *Store) AddTrendline(x0, y0, x1, y1 float64) uint32 {
	return s.add(Drawing{Type: TypeTrendline, X0: x0, Y0: y0, X1: x1, Y1: y1})
}

// AddHorizontalLevel adds a single price level.
func (s *Store) AddHorizontalLevel(price float64) uint32 {
	return s.add(Drawing{Type: TypeHorizontalLevel, Y0: price})
}

// AddVerticalLine adds a single x-coordinate vertical line.
func (s *Store) AddVerticalLine(x float64) uint32 {
	return s.add(Drawing{Type: TypeVerticalLine, X0: x})
}

// AddRectangle adds a rectangle zone spanning (x0,y0) to (x1,y1).
func (s *Store) AddRectangle(x0, y0, x1, y1 float64) uint32 {
	return s.add(Drawing{Type: TypeRectangle, X0: x0, Y0: y0, X1: x1, Y1: y1})
}

// AddFibRetracement adds a fibonacci retracement spanning (x0,y0) to (x1,y1).
func (s *Store) AddFibRetracement(x0, y0, x1, y1 float64) uint32 {
	return s.add(Drawing{Type: TypeFibRetracement, X0: x0, Y0: y0, X1: x1, Y1: y1})
}

// SetColor updates id's color, a no-op if id is unknown.
func (s *Store) SetColor(id uint32, r, g, b, a float32) {
	for i := range s.drawings {
		if s.drawings[i].Id == id {
			s.drawings[i].Color = [4]float32{r, g, b, a}
			return
		}
	}
}

// SetLineWidth updates id's line width, a no-op if id is unknown.
func (s *Store) SetLineWidth(id uint32, width float32) {
	for i := range s.drawings {
		if s.drawings[i].Id == id {
			s.drawings[i].LineWidth = width
			return
		}
	}
}

// Remove deletes id, a no-op if unknown.
func (s *Store) Remove(id uint32) {
	out := s.drawings[:0]
	for _, d := range s.drawings {
		if d.Id != id {
			out = append(out, d)
		}
	}
	s.drawings = out
}

// Clear removes every drawing.
func (s *Store) Clear() {
	s.drawings = nil
}

// Get returns the drawing with id, or false if unknown.
func (s *Store) Get(id uint32) (Drawing, bool) {
	for _, d := range s.drawings {
		if d.Id == id {
			return d, true
		}
	}
	return Drawing{}, false
}

// Drawings returns every stored drawing, in insertion order.
func (s *Store) Drawings() []Drawing {
	out := make([]Drawing, len(s.drawings))
	copy(out, s.drawings)
	return out
}

// Count returns the number of stored drawings.
func (s *Store) Count() int { return len(s.drawings) }

type wireDrawing struct {
	Id        uint32     `json:"id"`
	Type      Type       `json:"type"`
	X0        float64    `json:"x0"`
	Y0        float64    `json:"y0"`
	X1        float64    `json:"x1"`
	Y1        float64    `json:"y1"`
	Color     [4]float32 `json:"color"`
	LineWidth float32    `json:"lineWidth"`
}

type wireDocument struct {
	Drawings []wireDrawing `json:"drawings"`
}

// ToJSON serialises every stored drawing.
func (s *Store) ToJSON() ([]byte, error) {
	doc := wireDocument{Drawings: make([]wireDrawing, len(s.drawings))}
	for i, d := range s.drawings {
		doc.Drawings[i] = wireDrawing{
			Id: d.Id, Type: d.Type, X0: d.X0, Y0: d.Y0, X1: d.X1, Y1: d.Y1,
			Color: d.Color, LineWidth: d.LineWidth,
		}
	}
	return json.Marshal(doc)
}

// LoadJSON replaces the Store's contents from a document produced by ToJSON. The
// allocator is reset to one past the highest loaded id.
func (s *Store) LoadJSON(data []byte) error {
	var doc wireDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	loaded := make([]Drawing, len(doc.Drawings))
	var maxId uint32
	for i, w := range doc.Drawings {
		loaded[i] = Drawing{
			Id: w.Id, Type: w.Type, X0: w.X0, Y0: w.Y0, X1: w.X1, Y1: w.Y1,
			Color: w.Color, LineWidth: w.LineWidth,
		}
		if w.Id > maxId {
			maxId = w.Id
		}
	}
	s.drawings = loaded
	s.nextId = maxId + 1
	return nil
}
