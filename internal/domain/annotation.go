package domain

// AnnotationRecord is one generated comment. LineNumber is 1-based and refers to
// the original file, not the patch.
type AnnotationRecord struct {
	LineNumber int    `json:"line_number"`
	Comment    string `json:"comment"`
	CodeLine   string `json:"code_line"`
}

// FilePreview is the per-file unit of a preview.
type FilePreview struct {
	Filename         string             `json:"filename"`
	OriginalContent  string             `json:"original_content"`
	AnnotatedContent string             `json:"annotated_content"`
	Annotations      []AnnotationRecord `json:"annotations"`
	Modified         bool               `json:"modified"`
	Diff             string             `json:"diff,omitempty"`
}

// SkippedFile records a changed file that could not be processed during preview.
type SkippedFile struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// Preview is the aggregate result of annotating one commit.
type Preview struct {
	SessionID     string                 `json:"session_id"`
	CommitSHA     string                 `json:"commit_sha"`
	CommitMessage string                 `json:"commit_message"`
	Branch        string                 `json:"branch"`
	Files         map[string]FilePreview `json:"files"`
	Skipped       []SkippedFile          `json:"skipped,omitempty"`
}

// StagedFiles returns the annotated content of every modified file.
func (p *Preview) StagedFiles() map[string]string {
	staged := make(map[string]string)
	for name, f := range p.Files {
		if f.Modified {
			staged[name] = f.AnnotatedContent
		}
	}
	return staged
}
