package app

import (
	"encoding/json"

	"portlogistics/server/internal/monitor"
)

func marshalSnapshot(snap monitor.Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}
