package renderer

import "context"

// Renderer turns diagram-source text into a rendered raster image. The
// pipeline treats it strictly as source in, bytes or error out; failures are
// recovered at the orchestration boundary.
type Renderer interface {
	Render(ctx context.Context, source string) ([]byte, error)
}
