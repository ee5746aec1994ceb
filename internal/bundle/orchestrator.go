package bundle

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/omarselim/codeviz/internal/diagrams"
	"github.com/omarselim/codeviz/internal/flowmodel"
	"github.com/omarselim/codeviz/internal/renderer"
)

// timestampLayout gives sortable, second-precision base names.
const timestampLayout = "20060102_150405"

// Orchestrator runs the full pipeline for one request: extract the flow
// model, synthesize both diagrams, persist the sources under a
// project-scoped directory and delegate rasterization to the renderer.
//
// Diagram generation is best-effort decoration on top of the textual
// analysis: nothing here is fatal. I/O and render failures degrade to a
// notice on the manifest and the affected artifact is omitted.
type Orchestrator struct {
	root     string
	renderer renderer.Renderer
	now      func() time.Time
}

// New creates an Orchestrator writing under the given root directory.
func New(root string, r renderer.Renderer) *Orchestrator {
	return &Orchestrator{root: root, renderer: r, now: time.Now}
}

// WithClock overrides the wall clock used for file naming. The clock feeds
// nothing but the base name, so pinning it makes output fully deterministic.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Artifacts synthesizes both diagram sources for a request without touching
// the filesystem or the renderer. Sequence comes first, matching manifest
// order.
func (o *Orchestrator) Artifacts(req Request) []Artifact {
	model := flowmodel.Extract(req.AnalysisText)
	base := baseName(req.ClassName, req.MethodName, o.now())
	return []Artifact{
		{
			Kind:         KindSequence,
			SourceText:   diagrams.Sequence(req.ClassName, req.MethodName, model),
			FileBaseName: base + "-sequence",
		},
		{
			Kind:         KindActivity,
			SourceText:   diagrams.Activity(req.ClassName, req.MethodName, model),
			FileBaseName: base + "-flow",
		},
	}
}

// Generate runs the pipeline and returns the link manifest for the rendered
// artifacts. It never fails: the worst case is an empty manifest whose
// Notice explains what went wrong.
func (o *Orchestrator) Generate(ctx context.Context, req Request) Manifest {
	artifacts := o.Artifacts(req)

	project := safeName(req.Project)
	if project == "" {
		project = "default"
	}
	dir := filepath.Join(o.root, project)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("bundle: creating %s: %v", dir, err)
		return Manifest{Notice: fmt.Sprintf("diagram generation skipped: could not create output directory: %v", err)}
	}

	var manifest Manifest
	var failed []string
	for _, art := range artifacts {
		link, err := o.writeAndRender(ctx, dir, project, art)
		if err != nil {
			log.Printf("bundle: %s artifact: %v", art.Kind, err)
			failed = append(failed, string(art.Kind))
			continue
		}
		manifest.Links = append(manifest.Links, link)
	}
	if len(failed) > 0 {
		manifest.Notice = fmt.Sprintf("diagram generation degraded: %s artifact(s) could not be produced", strings.Join(failed, ", "))
	}
	return manifest
}

// writeAndRender persists one diagram source and its rendered image, and
// returns the manifest link for the image.
func (o *Orchestrator) writeAndRender(ctx context.Context, dir, project string, art Artifact) (Link, error) {
	srcPath := filepath.Join(dir, art.FileBaseName+".puml")
	if err := os.WriteFile(srcPath, []byte(art.SourceText), 0o644); err != nil {
		return Link{}, fmt.Errorf("writing source: %w", err)
	}

	image, err := o.renderer.Render(ctx, art.SourceText)
	if err != nil {
		return Link{}, fmt.Errorf("rendering: %w", err)
	}

	imgPath := filepath.Join(dir, art.FileBaseName+".png")
	if err := os.WriteFile(imgPath, image, 0o644); err != nil {
		return Link{}, fmt.Errorf("writing image: %w", err)
	}

	return Link{
		Label: linkLabel(art.Kind),
		Path:  path.Join(project, art.FileBaseName+".png"),
	}, nil
}

func linkLabel(kind ArtifactKind) string {
	if kind == KindSequence {
		return "Sequence Diagram"
	}
	return "Flow Diagram"
}

// baseName derives the timestamp-qualified file base name. Re-running the
// same request with a fresh timestamp produces new, non-conflicting files.
func baseName(className, methodName string, ts time.Time) string {
	name := safeName(className) + safeName(methodName)
	if name == "" {
		name = "Flow"
	}
	return name + "_" + ts.Format(timestampLayout)
}

// safeName strips everything but letters and digits so class, method and
// project names cannot escape the artifact directory.
func safeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
