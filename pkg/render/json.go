package render

import (
	"encoding/json"

	"github.com/timothyvelberg/ringmenu/pkg/engine"
)

func RenderJSON(rings []engine.RingConfiguration) ([]byte, error) {
	return json.MarshalIndent(rings, "", "  ")
}
