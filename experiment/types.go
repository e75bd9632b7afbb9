package experiment

import "github.com/emichr/RSpace-NTNU-workshop/walk"

// Status classifies the upload outcome of one file.
type Status string

const (
	// StatusUploaded means the file was admitted and stored in the gallery.
	StatusUploaded Status = "uploaded"
	// StatusSkipped means the file's extension is in the skip set; neither the
	// admission gate nor the remote service was consulted.
	StatusSkipped Status = "skipped"
	// StatusOversize means the file exceeded the size limit; the remote service
	// was never contacted.
	StatusOversize Status = "oversize"
	// StatusFailed means the remote upload failed; the error is terminal for
	// this file in the current run (no retries).
	StatusFailed Status = "failed"
)

// Outcome records what happened to one file. Exactly one Outcome exists per
// walked file, in walk order.
type Outcome struct {
	Ref      walk.FileRef `json:"ref"`
	Status   Status       `json:"status"`
	FileID   int64        `json:"file_id,omitempty"`
	GlobalID string       `json:"global_id,omitempty"`
	// Detail carries the transport error message for StatusFailed.
	Detail string `json:"detail,omitempty"`
}

// Fragment is the rendered content of one file, or the reason it could not
// be rendered. Content inlining is independent of upload outcome.
type Fragment struct {
	Ref  walk.FileRef `json:"ref"`
	HTML string       `json:"html,omitempty"`
	// Err is the conversion failure message; when set, HTML is empty and
	// the assembled document shows a placeholder instead.
	Err string `json:"err,omitempty"`
}

// Report summarizes one completed pipeline run.
type Report struct {
	Root             string    `json:"root"`
	DocumentID       int64     `json:"document_id"`
	DocumentGlobalID string    `json:"document_global_id,omitempty"`
	DocumentName     string    `json:"document_name"`
	Outcomes         []Outcome `json:"outcomes"`
}

// Uploaded returns the number of successfully uploaded files.
func (r *Report) Uploaded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusUploaded {
			n++
		}
	}
	return n
}
