package aggregation

import (
	"encoding/json"

	"github.com/dynacharting/core/internal/dcerr"
)

func rebindCmd(geometryId, vertexBufferId dcerr.Id) []byte {
	b, _ := json.Marshal(map[string]any{
		"cmd":            "setGeometryBuffer",
		"geometryId":     uint64(geometryId),
		"vertexBufferId": uint64(vertexBufferId),
	})
	return b
}

func setVertexCountCmd(geometryId dcerr.Id, vertexCount int) []byte {
	b, _ := json.Marshal(map[string]any{
		"cmd":         "setGeometryVertexCount",
		"geometryId":  uint64(geometryId),
		"vertexCount": vertexCount,
	})
	return b
}
