package httpapi

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/urbannest/internal/common"
	"github.com/dmitrijs2005/urbannest/internal/server/auth"
	"github.com/dmitrijs2005/urbannest/internal/server/services"
	"github.com/dmitrijs2005/urbannest/internal/server/uploads"
)

const (
	multipartMemory = 32 << 20
	// maxUploadBody leaves room for every file of a full batch to exceed
	// the per-file limit so that it is reported per file.
	maxUploadBody = 2 * uploads.MaxFiles * uploads.MaxFileSize
	uploadField   = "files"
)

func (h *api) upload(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "Request too large"})
			h.logDone(r, http.StatusRequestEntityTooLarge)
			return
		}
		h.fail(w, r, &common.ValidationError{Message: "No files provided"}, messages{})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[uploadField]
	files := make([]services.Upload, 0, len(headers))
	for _, fh := range headers {
		files = append(files, services.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open:        openPart(fh),
		})
	}

	res, err := h.Uploads.UploadBatch(r.Context(), user.ID, files)
	if err != nil {
		h.fail(w, r, err, messages{})
		return
	}
	h.respond(w, r, http.StatusOK, res)
}

func openPart(fh *multipart.FileHeader) func() (io.ReadSeekCloser, error) {
	return func() (io.ReadSeekCloser, error) {
		return fh.Open()
	}
}
