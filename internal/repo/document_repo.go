package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/didi/gendry/builder"

	"github.com/nexushr/nexushr/internal/model"
	"github.com/nexushr/nexushr/internal/pkg/dbutil"
	appErr "github.com/nexushr/nexushr/internal/pkg/errors"
)

type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) Create(ctx context.Context, doc *model.UploadedDocument) error {
	data := map[string]interface{}{
		"id":            doc.ID,
		"filename":      doc.Filename,
		"size":          doc.Size,
		"pages":         doc.Pages,
		"chunks":        doc.Chunks,
		"document_type": doc.DocumentType,
		"uploaded_by":   doc.UploadedBy,
		"uploaded_at":   doc.UploadedAt,
	}
	sqlStr, args, err := builder.BuildInsert("hr_documents", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		// Same filename uploaded within one second collides on the
		// timestamp-prefixed id.
		if dbutil.IsConflict(err) {
			return fmt.Errorf("%w: document already exists", appErr.ErrInvalid)
		}
		return err
	}
	return nil
}

func (r *DocumentRepo) List(ctx context.Context) ([]*model.UploadedDocument, error) {
	where := map[string]interface{}{
		"_orderby": "uploaded_at desc",
	}
	sqlStr, args, err := builder.BuildSelect("hr_documents", where,
		[]string{"id", "filename", "size", "pages", "chunks", "document_type", "uploaded_by", "uploaded_at"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*model.UploadedDocument
	for rows.Next() {
		item := &model.UploadedDocument{}
		err := rows.Scan(
			&item.ID,
			&item.Filename,
			&item.Size,
			&item.Pages,
			&item.Chunks,
			&item.DocumentType,
			&item.UploadedBy,
			&item.UploadedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListIDs returns just the stored document ids, used by the cleanup
// job to reconcile the upload directory.
func (r *DocumentRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM hr_documents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *DocumentRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hr_documents`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
