package session

import (
	"encoding/json"

	"github.com/dynacharting/core/internal/dcerr"
)

func attachTransformJSON(drawItemId, transformId dcerr.Id) []byte {
	b, _ := json.Marshal(map[string]any{
		"cmd":         "attachTransform",
		"drawItemId":  uint64(drawItemId),
		"transformId": uint64(transformId),
	})
	return b
}

func setTransformJSON(id dcerr.Id, sx, sy, tx, ty float32) []byte {
	b, _ := json.Marshal(map[string]any{
		"cmd": "setTransform",
		"id":  uint64(id),
		"sx":  sx,
		"sy":  sy,
		"tx":  tx,
		"ty":  ty,
	})
	return b
}
