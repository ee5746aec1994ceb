package bundle

// ArtifactKind identifies which of the two diagrams an artifact holds.
type ArtifactKind string

const (
	KindActivity ArtifactKind = "activity"
	KindSequence ArtifactKind = "sequence"
)

// Artifact is one generated diagram: its source text and the base file name
// (without extension) it is persisted under.
type Artifact struct {
	Kind         ArtifactKind `json:"kind"`
	SourceText   string       `json:"source_text"`
	FileBaseName string       `json:"file_base_name"`
}

// Link is one entry of the rendered-artifact manifest.
type Link struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Manifest lists the successfully rendered artifacts for one request, in
// order. Failed artifacts are omitted, not retried; when anything degraded,
// Notice carries a human-readable explanation instead of an error.
type Manifest struct {
	Links  []Link `json:"links"`
	Notice string `json:"notice,omitempty"`
}

// Request describes one diagram-generation request.
type Request struct {
	Project      string `json:"project"`
	ClassName    string `json:"class_name"`
	MethodName   string `json:"method_name"`
	AnalysisText string `json:"analysis_text"`
}
