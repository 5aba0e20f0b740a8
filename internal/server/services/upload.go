package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/urbannest/internal/common"
	"github.com/dmitrijs2005/urbannest/internal/logging"
	"github.com/dmitrijs2005/urbannest/internal/server/metrics"
	"github.com/dmitrijs2005/urbannest/internal/server/models"
	"github.com/dmitrijs2005/urbannest/internal/server/objectstore"
	"github.com/dmitrijs2005/urbannest/internal/server/uploads"
)

// uploadConcurrency bounds how many files of one batch are processed at once.
const uploadConcurrency = 3

// Upload is one file of a multipart batch.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadSeekCloser, error)
}

type UploadService struct {
	store objectstore.Store
	log   logging.Logger
}

func NewUploadService(store objectstore.Store, log logging.Logger) *UploadService {
	return &UploadService{store: store, log: log.With("module", "uploads")}
}

// UploadBatch validates and stores each file independently. Batch-level
// problems (no files, too many files) fail the whole batch with a
// *common.ValidationError; per-file problems are reported in the result.
func (s *UploadService) UploadBatch(ctx context.Context, userID string, files []Upload) (*models.UploadBatchResult, error) {
	if len(files) == 0 {
		return nil, &common.ValidationError{Message: "No files provided"}
	}
	if len(files) > uploads.MaxFiles {
		return nil, &common.ValidationError{Message: fmt.Sprintf("Maximum %d files allowed per request", uploads.MaxFiles)}
	}

	results := make([]models.UploadResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, f := range files {
		g.Go(func() error {
			results[i] = s.uploadOne(gctx, userID, f)
			return nil
		})
	}
	_ = g.Wait()

	summary := models.UploadSummary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}

	return &models.UploadBatchResult{Results: results, Summary: summary}, nil
}

func (s *UploadService) uploadOne(ctx context.Context, userID string, f Upload) models.UploadResult {
	url, err := s.storeFile(ctx, userID, f)
	metrics.UploadFiles.WithLabelValues(uploadOutcome(err)).Inc()
	if err != nil {
		if errors.Is(err, uploads.ErrStoreFailed) {
			s.log.Error(ctx, "upload store failed", "file", f.Name, "user_id", userID, "err", err)
		}
		return models.UploadResult{Success: false, Error: uploads.Message(err), FileName: f.Name}
	}
	metrics.UploadBytes.Add(float64(f.Size))
	return models.UploadResult{Success: true, URL: url, FileName: f.Name}
}

func (s *UploadService) storeFile(ctx context.Context, userID string, f Upload) (string, error) {
	if err := uploads.CheckSize(f.Size); err != nil {
		return "", err
	}
	if err := uploads.CheckType(f.ContentType); err != nil {
		return "", err
	}

	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open: %v", uploads.ErrStoreFailed, err)
	}
	defer rc.Close()

	header := make([]byte, uploads.SignatureLen)
	n, err := io.ReadFull(rc, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: read: %v", uploads.ErrStoreFailed, err)
	}
	if err := uploads.CheckSignature(f.ContentType, header[:n]); err != nil {
		return "", err
	}

	if _, err := rc.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("%w: seek: %v", uploads.ErrStoreFailed, err)
	}

	key := uploads.NewKey(userID, f.Name)
	url, err := s.store.Put(ctx, key, rc, f.Size, f.ContentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", uploads.ErrStoreFailed, err)
	}
	return url, nil
}

func uploadOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.UploadStored
	case errors.Is(err, uploads.ErrFileTooLarge):
		return metrics.UploadTooLarge
	case errors.Is(err, uploads.ErrUnsupportedType):
		return metrics.UploadBadType
	case errors.Is(err, uploads.ErrSignatureMismatch):
		return metrics.UploadBadSignature
	default:
		return metrics.UploadStoreFailed
	}
}
