package models

// NotebookPage is a free-form note. Tags are lowercase, restricted to
// letters/digits/spaces/hyphens, and duplicate-free.
type NotebookPage struct {
	Meta
	Title   string   `json:"title"`
	Content string   `json:"content,omitempty"`
	Tags    []string `json:"tags"`
}
