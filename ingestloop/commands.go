package ingestloop

import (
	"encoding/json"

	"github.com/dynacharting/core/internal/dcerr"
)

func setVertexCountCmd(geometryId dcerr.Id, vertexCount int) []byte {
	b, _ := json.Marshal(map[string]any{
		"cmd":         "setGeometryVertexCount",
		"geometryId":  uint64(geometryId),
		"vertexCount": vertexCount,
	})
	return b
}
