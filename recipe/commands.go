package recipe

import (
	"encoding/json"

	"github.com/dynacharting/core/internal/dcerr"
)

func jsonCmd(fields map[string]any) []byte {
	b, _ := json.Marshal(fields)
	return b
}

func createBufferCmd(id dcerr.Id) []byte {
	return jsonCmd(map[string]any{"cmd": "createBuffer", "id": uint64(id), "byteLength": 0})
}

func createGeometryCmd(id, vertexBufferId dcerr.Id, format string, vertexCount int) []byte {
	return jsonCmd(map[string]any{
		"cmd": "createGeometry", "id": uint64(id), "vertexBufferId": uint64(vertexBufferId),
		"format": format, "vertexCount": vertexCount,
	})
}

func createDrawItemCmd(id, layerId dcerr.Id, name string) []byte {
	return jsonCmd(map[string]any{"cmd": "createDrawItem", "id": uint64(id), "layerId": uint64(layerId), "name": name})
}

func bindDrawItemCmd(drawItemId dcerr.Id, pipeline string, geometryId dcerr.Id) []byte {
	return jsonCmd(map[string]any{
		"cmd": "bindDrawItem", "drawItemId": uint64(drawItemId), "pipeline": pipeline, "geometryId": uint64(geometryId),
	})
}

func setDrawItemColorCmd(drawItemId dcerr.Id, r, g, b, a float32) []byte {
	return jsonCmd(map[string]any{"cmd": "setDrawItemColor", "drawItemId": uint64(drawItemId), "r": r, "g": g, "b": b, "a": a})
}

func setDrawItemStyleCmd(drawItemId dcerr.Id, fields map[string]any) []byte {
	fields["cmd"] = "setDrawItemStyle"
	fields["drawItemId"] = uint64(drawItemId)
	return jsonCmd(fields)
}

func createTransformCmd(id dcerr.Id) []byte {
	return jsonCmd(map[string]any{"cmd": "createTransform", "id": uint64(id)})
}

func attachTransformCmd(drawItemId, transformId dcerr.Id) []byte {
	return jsonCmd(map[string]any{"cmd": "attachTransform", "drawItemId": uint64(drawItemId), "transformId": uint64(transformId)})
}

func deleteCmd(id dcerr.Id) []byte {
	return jsonCmd(map[string]any{"cmd": "delete", "id": uint64(id)})
}
