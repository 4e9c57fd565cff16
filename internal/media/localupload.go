package media

import (
	"context"
	"fmt"
	"strings"

	"hairworks/internal/domain"
	"hairworks/internal/storage"
)

// LocalUploader publishes rendered views through a filesystem store. It is
// the development-mode substitute for the S3 uploader and serves the views
// under the configured static base URL.
type LocalUploader struct {
	store   *storage.FileStore
	baseURL string
}

// NewLocalUploader wires a filesystem-backed uploader.
func NewLocalUploader(store *storage.FileStore, baseURL string) *LocalUploader {
	return &LocalUploader{store: store, baseURL: strings.TrimRight(baseURL, "/")}
}

// Upload writes the four views under the same deterministic keys the S3
// uploader uses and returns static URLs.
func (u *LocalUploader) Upload(ctx context.Context, jobID, styleSlug string, views *ViewSet) (domain.ViewURLs, error) {
	var urls domain.ViewURLs
	for _, name := range ViewNames {
		key := ViewKey(jobID, styleSlug, name)
		savedKey, err := u.store.Write(ctx, key, views.Get(name))
		if err != nil {
			return domain.ViewURLs{}, fmt.Errorf("store view %s: %w", key, err)
		}
		setViewURL(&urls, name, u.baseURL+"/"+savedKey)
	}
	return urls, nil
}
