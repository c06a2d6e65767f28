package ports

import (
	"context"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
)

// Renderer renders the editor shell page served to the browser
type Renderer interface {
	RenderEditor(ctx context.Context, page entities.EditorPage) ([]byte, error)
}
