package command

import (
	"encoding/json"

	"github.com/dynacharting/core/internal/dcerr"
)

type resourceList struct {
	Panes     []dcerr.Id `json:"panes"`
	Layers    []dcerr.Id `json:"layers"`
	DrawItems []dcerr.Id `json:"drawItems"`
	Frame     int        `json:"frame"`
	InFrame   bool       `json:"inFrame"`
}

// ListResourcesJson renders {panes, layers, drawItems, frame, inFrame} for diagnostics
// and golden tests. Enumeration order matches scene.Scene's insertion order.
func (p *processor) ListResourcesJson() ([]byte, error) {
	list := resourceList{
		Panes:     p.scene.PaneIds(),
		Layers:    p.scene.LayerIds(),
		DrawItems: p.scene.DrawItemIds(),
		Frame:     p.frame,
		InFrame:   p.inFrame,
	}
	return json.Marshal(list)
}
