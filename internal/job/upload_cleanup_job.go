package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nexushr/nexushr/internal/filestore"
	"github.com/nexushr/nexushr/internal/service"
)

// UploadCleanupJob removes raw upload files that no longer have a
// document row, which happens after a purge or a crash between the
// file write and the registry insert.
type UploadCleanupJob struct {
	store     filestore.Store
	documents service.DocumentStore
}

func NewUploadCleanupJob(store filestore.Store, documents service.DocumentStore) *UploadCleanupJob {
	return &UploadCleanupJob{store: store, documents: documents}
}

func (j *UploadCleanupJob) Name() string {
	return "upload_cleanup"
}

func (j *UploadCleanupJob) Run(ctx context.Context) error {
	ids, err := j.documents.ListIDs(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}
	files, err := j.store.List(ctx)
	if err != nil {
		return err
	}
	removed := 0
	for _, file := range files {
		if _, ok := known[file.Key]; ok {
			continue
		}
		if err := j.store.Delete(ctx, file.Key); err != nil {
			logutil.GetLogger(ctx).Warn("remove orphan upload failed", zap.String("key", file.Key), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		logutil.GetLogger(ctx).Info("orphan uploads removed", zap.Int("count", removed))
	}
	return nil
}
