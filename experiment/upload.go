package experiment

import (
	"context"
	"fmt"

	"github.com/emichr/RSpace-NTNU-workshop/walk"
)

// Admit reports whether a file passes the size admission gate. The limit is
// decimal megabytes, matching how the service quotes file sizes. Pure: the
// decision uses only the size recorded at walk time.
func Admit(ref walk.FileRef, limitMB float64) bool {
	return float64(ref.Size)*1e-6 <= limitMB
}

// UploadAll uploads each admitted file, yielding exactly one Outcome per
// FileRef in input order. Files whose extension is in the skip set are
// excluded deliberately (no admission check, no network call); oversize
// files are rejected before any network call; a transport failure is caught
// at that file's scope and never aborts the rest of the batch.
func (p *Pipeline) UploadAll(ctx context.Context, refs []walk.FileRef) []Outcome {
	skip := skipSet(p.cfg.SkipSuffixes)

	outcomes := make([]Outcome, 0, len(refs))
	for _, ref := range refs {
		outcomes = append(outcomes, p.uploadOne(ctx, ref, skip))
	}
	return outcomes
}

func (p *Pipeline) uploadOne(ctx context.Context, ref walk.FileRef, skip map[string]struct{}) Outcome {
	ext := lowerExt(ref.Path)
	if _, ok := skip[ext]; ok {
		p.logger.Debug("skipping file", "path", ref.Path, "suffix", ext)
		return Outcome{Ref: ref, Status: StatusSkipped}
	}

	if !Admit(ref, p.cfg.MaxFileSizeMB) {
		p.logger.Info("file over size limit, not uploading",
			"path", ref.Path, "size_mb", float64(ref.Size)*1e-6, "limit_mb", p.cfg.MaxFileSizeMB)
		return Outcome{Ref: ref, Status: StatusOversize}
	}

	caption := fmt.Sprintf("Uploaded from %q at %s",
		ref.Path, p.cfg.Now().Format("2006-01-02 15:04:05"))

	info, err := p.client.UploadFile(ctx, ref.Path, caption)
	if err != nil {
		p.logger.Info("upload failed, recording in summary", "path", ref.Path, "error", err)
		return Outcome{Ref: ref, Status: StatusFailed, Detail: err.Error()}
	}

	p.logger.Info("uploaded file", "path", ref.Path, "id", info.ID, "global_id", info.GlobalID)
	return Outcome{Ref: ref, Status: StatusUploaded, FileID: info.ID, GlobalID: info.GlobalID}
}
