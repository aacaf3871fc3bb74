package export

import (
	json "github.com/goccy/go-json"

	"github.com/Dicklesworthstone/mindmap_viewer/pkg/model"
)

// DefaultJSONName is the file written by the quick export.
const DefaultJSONName = "mindmap.json"

// JSON returns the whole topic registry in the document shape, indented by
// two spaces. Topic keys come out sorted.
func JSON(topics model.Topics) ([]byte, error) {
	if topics == nil {
		topics = model.Topics{}
	}
	return json.MarshalIndent(topics, "", "  ")
}
