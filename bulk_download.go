package spendapi

import (
	"net/http"

	"github.com/fedspend/spendapi/domain"
)

type bulkDownloadFilesResponse struct {
	Files    []domain.BulkFile `json:"files"`
	Messages []string          `json:"messages"`
}

// bulkDownloadFiles lists the published bulk download files, optionally under a prefix.
func (api *API) bulkDownloadFiles(r *http.Request) (any, error) {
	if api.Files == nil {
		return bulkDownloadFilesResponse{
			Files:    []domain.BulkFile{},
			Messages: []string{"No bulk download bucket is configured."},
		}, nil
	}
	files := api.Files.FileList(r.Context(), r.URL.Query().Get("prefix"))
	if files == nil {
		files = []domain.BulkFile{}
	}
	return bulkDownloadFilesResponse{Files: files, Messages: []string{}}, nil
}
