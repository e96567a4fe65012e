// Package scene implements the Scene Graph: a retained store of panes, layers, draw
// items, geometries, buffers, and transforms, with cascade-deletes and insertion-order
// enumeration. Mutation is restricted to the command package; callers outside it should
// only ever see the immutable query surface.
package scene

import (
	"sync"

	"github.com/dynacharting/core/internal/dcerr"
)

// Scene is the retained-mode store backing the command protocol. Enumeration of
// PaneIds/LayerIds/DrawItemIds is insertion order, which is also render order unless
// the external renderer imposes its own layer ordering.
type Scene interface {
	// --- immutable queries ---

	GetPane(id dcerr.Id) (Pane, bool)
	GetLayer(id dcerr.Id) (Layer, bool)
	GetDrawItem(id dcerr.Id) (DrawItem, bool)
	GetGeometry(id dcerr.Id) (Geometry, bool)
	GetBuffer(id dcerr.Id) (Buffer, bool)
	GetTransform(id dcerr.Id) (Transform, bool)

	PaneIds() []dcerr.Id
	LayerIds() []dcerr.Id
	DrawItemIds() []dcerr.Id

	// --- mutable accessors, restricted to the command processor ---

	AddPane(p Pane)
	AddLayer(l Layer)
	AddDrawItem(d DrawItem)
	AddGeometry(g Geometry)
	AddBuffer(b Buffer)
	AddTransform(t Transform)

	GetPaneMutable(id dcerr.Id) (*Pane, bool)
	GetLayerMutable(id dcerr.Id) (*Layer, bool)
	GetDrawItemMutable(id dcerr.Id) (*DrawItem, bool)
	GetGeometryMutable(id dcerr.Id) (*Geometry, bool)
	GetBufferMutable(id dcerr.Id) (*Buffer, bool)
	GetTransformMutable(id dcerr.Id) (*Transform, bool)

	// Delete removes the entity of the given kind (if known) and cascades: deleting a
	// Pane also deletes its Layers and, transitively, their DrawItems; deleting a Layer
	// deletes its DrawItems. Returns the flat list of every id removed (including id
	// itself) so the Id Registry can release them all.
	//
	// Parameters:
	//   - id: the resource to delete
	//   - kind: the resource's kind, as recorded by the Id Registry
	//
	// Returns:
	//   - []dcerr.Id: every id removed by this call, id itself included
	Delete(id dcerr.Id, kind dcerr.ResourceKind) []dcerr.Id
}

type scene struct {
	mu *sync.RWMutex

	panes      map[dcerr.Id]*Pane
	layers     map[dcerr.Id]*Layer
	drawItems  map[dcerr.Id]*DrawItem
	geometries map[dcerr.Id]*Geometry
	buffers    map[dcerr.Id]*Buffer
	transforms map[dcerr.Id]*Transform

	paneOrder     []dcerr.Id
	layerOrder    []dcerr.Id
	drawItemOrder []dcerr.Id

	// cascade indices: pane -> its layers, layer -> its draw items, kept in insertion
	// order so cascade-delete removes descendants deterministically.
	layersOf    map[dcerr.Id][]dcerr.Id
	drawItemsOf map[dcerr.Id][]dcerr.Id
}

var _ Scene = (*scene)(nil)

// New creates an empty Scene.
func New() Scene {
	return &scene{
		mu:          &sync.RWMutex{},
		panes:       make(map[dcerr.Id]*Pane),
		layers:      make(map[dcerr.Id]*Layer),
		drawItems:   make(map[dcerr.Id]*DrawItem),
		geometries:  make(map[dcerr.Id]*Geometry),
		buffers:     make(map[dcerr.Id]*Buffer),
		transforms:  make(map[dcerr.Id]*Transform),
		layersOf:    make(map[dcerr.Id][]dcerr.Id),
		drawItemsOf: make(map[dcerr.Id][]dcerr.Id),
	}
}

func (s *scene) GetPane(id dcerr.Id) (Pane, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.panes[id]
	if !ok {
		return Pane{}, false
	}
	return *p, true
}

func (s *scene) GetLayer(id dcerr.Id) (Layer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.layers[id]
	if !ok {
		return Layer{}, false
	}
	return *l, true
}

func (s *scene) GetDrawItem(id dcerr.Id) (DrawItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drawItems[id]
	if !ok {
		return DrawItem{}, false
	}
	return *d, true
}

func (s *scene) GetGeometry(id dcerr.Id) (Geometry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.geometries[id]
	if !ok {
		return Geometry{}, false
	}
	return *g, true
}

func (s *scene) GetBuffer(id dcerr.Id) (Buffer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buffers[id]
	if !ok {
		return Buffer{}, false
	}
	return *b, true
}

func (s *scene) GetTransform(id dcerr.Id) (Transform, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transforms[id]
	if !ok {
		return Transform{}, false
	}
	return *t, true
}

func (s *scene) PaneIds() []dcerr.Id {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]dcerr.Id, len(s.paneOrder))
	copy(out, s.paneOrder)
	return out
}

func (s *scene) LayerIds() []dcerr.Id {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]dcerr.Id, len(s.layerOrder))
	copy(out, s.layerOrder)
	return out
}

func (s *scene) DrawItemIds() []dcerr.Id {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]dcerr.Id, len(s.drawItemOrder))
	copy(out, s.drawItemOrder)
	return out
}

func (s *scene) AddPane(p Pane) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.panes[p.Id] = &cp
	s.paneOrder = append(s.paneOrder, p.Id)
}

func (s *scene) AddLayer(l Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cl := l
	s.layers[l.Id] = &cl
	s.layerOrder = append(s.layerOrder, l.Id)
	s.layersOf[l.PaneId] = append(s.layersOf[l.PaneId], l.Id)
}

func (s *scene) AddDrawItem(d DrawItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cd := d
	s.drawItems[d.Id] = &cd
	s.drawItemOrder = append(s.drawItemOrder, d.Id)
	s.drawItemsOf[d.LayerId] = append(s.drawItemsOf[d.LayerId], d.Id)
}

func (s *scene) AddGeometry(g Geometry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cg := g
	s.geometries[g.Id] = &cg
}

func (s *scene) AddBuffer(b Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cb := b
	s.buffers[b.Id] = &cb
}

func (s *scene) AddTransform(t Transform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ct := t
	s.transforms[t.Id] = &ct
}

func (s *scene) GetPaneMutable(id dcerr.Id) (*Pane, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.panes[id]
	return p, ok
}

func (s *scene) GetLayerMutable(id dcerr.Id) (*Layer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.layers[id]
	return l, ok
}

func (s *scene) GetDrawItemMutable(id dcerr.Id) (*DrawItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drawItems[id]
	return d, ok
}

func (s *scene) GetGeometryMutable(id dcerr.Id) (*Geometry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.geometries[id]
	return g, ok
}

func (s *scene) GetBufferMutable(id dcerr.Id) (*Buffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buffers[id]
	return b, ok
}

func (s *scene) GetTransformMutable(id dcerr.Id) (*Transform, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transforms[id]
	return t, ok
}

func (s *scene) Delete(id dcerr.Id, kind dcerr.ResourceKind) []dcerr.Id {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case dcerr.KindPane:
		return s.deletePaneLocked(id)
	case dcerr.KindLayer:
		return s.deleteLayerLocked(id)
	case dcerr.KindDrawItem:
		return s.deleteDrawItemLocked(id)
	case dcerr.KindGeometry:
		delete(s.geometries, id)
		return []dcerr.Id{id}
	case dcerr.KindBuffer:
		delete(s.buffers, id)
		return []dcerr.Id{id}
	case dcerr.KindTransform:
		delete(s.transforms, id)
		return []dcerr.Id{id}
	default:
		return nil
	}
}

func (s *scene) deletePaneLocked(id dcerr.Id) []dcerr.Id {
	removed := []dcerr.Id{id}
	// deleteLayerLocked mutates s.layersOf[id] in place (it removes the layer
	// from its parent's list), so this must range over a copy rather than the
	// live slice -- otherwise removeId's in-place shift skips every other
	// element as the backing array moves under the iteration.
	layerIds := append([]dcerr.Id(nil), s.layersOf[id]...)
	for _, layerId := range layerIds {
		removed = append(removed, s.deleteLayerLocked(layerId)...)
	}
	delete(s.layersOf, id)
	delete(s.panes, id)
	s.paneOrder = removeId(s.paneOrder, id)
	return removed
}

func (s *scene) deleteLayerLocked(id dcerr.Id) []dcerr.Id {
	removed := []dcerr.Id{id}
	for _, drawItemId := range s.drawItemsOf[id] {
		removed = append(removed, drawItemId)
		delete(s.drawItems, drawItemId)
		s.drawItemOrder = removeId(s.drawItemOrder, drawItemId)
	}
	delete(s.drawItemsOf, id)

	if l, ok := s.layers[id]; ok {
		paneLayers := s.layersOf[l.PaneId]
		s.layersOf[l.PaneId] = removeId(paneLayers, id)
	}
	delete(s.layers, id)
	s.layerOrder = removeId(s.layerOrder, id)
	return removed
}

func (s *scene) deleteDrawItemLocked(id dcerr.Id) []dcerr.Id {
	if d, ok := s.drawItems[id]; ok {
		s.drawItemsOf[d.LayerId] = removeId(s.drawItemsOf[d.LayerId], id)
	}
	delete(s.drawItems, id)
	s.drawItemOrder = removeId(s.drawItemOrder, id)
	return []dcerr.Id{id}
}

func removeId(list []dcerr.Id, target dcerr.Id) []dcerr.Id {
	for i, v := range list {
		if v == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
