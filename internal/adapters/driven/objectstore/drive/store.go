// Package drive archives original documents to a Google Drive folder.
package drive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.ObjectStore = (*Store)(nil)

// DefaultContainer is the Drive folder used when none is configured.
const DefaultContainer = "recall-knowledge-base"

// folderMIMEType identifies Drive folders.
const folderMIMEType = "application/vnd.google-apps.folder"

// Drive allows 10 requests/sec/user; stay under it.
const (
	requestsPerSecond = 8.0
	burstSize         = 10
)

// contentTypes maps supported extensions to their upload MIME types.
var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
	".txt":  "text/plain",
	".md":   "text/markdown",
}

// Store uploads files into a named Drive folder, creating the folder
// on first use.
type Store struct {
	service   *drive.Service
	container string
	limiter   *rate.Limiter

	mu       sync.Mutex
	folderID string
}

// NewStore creates a Drive-backed object store authenticated by the
// given token source. container is the Drive folder name.
func NewStore(ctx context.Context, ts oauth2.TokenSource, container string) (*Store, error) {
	if container == "" {
		container = DefaultContainer
	}

	service, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("%w: create drive service: %v", domain.ErrStorageUnavailable, err)
	}

	return &Store{
		service:   service,
		container: container,
		limiter:   rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
	}, nil
}

// Put uploads the file into the container folder and returns where it
// landed. Repeated uploads of the same name create new revisions of
// separate files; Drive does not enforce name uniqueness and neither
// does the store.
func (s *Store) Put(ctx context.Context, path string) (*driven.StoredObject, error) {
	folderID, err := s.ensureContainer(ctx)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	logger.Debug("Uploading %s to drive folder %s", name, s.container)

	created, err := s.service.Files.Create(&drive.File{
		Name:    name,
		Parents: []string{folderID},
	}).
		Media(f, googleapi.ContentType(contentTypeFor(path))).
		Fields("id, name, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: upload %s: %v", domain.ErrStorageUnavailable, name, err)
	}

	return &driven.StoredObject{
		URL:       created.WebViewLink,
		Container: s.container,
		Name:      created.Name,
	}, nil
}

// ensureContainer finds or creates the container folder and caches its
// ID for the lifetime of the store.
func (s *Store) ensureContainer(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.folderID != "" {
		return s.folderID, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	query := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false",
		escapeQuery(s.container), folderMIMEType)
	list, err := s.service.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%w: find folder %s: %v", domain.ErrStorageUnavailable, s.container, err)
	}

	if len(list.Files) > 0 {
		s.folderID = list.Files[0].Id
		return s.folderID, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	logger.Info("Creating drive folder %s", s.container)
	folder, err := s.service.Files.Create(&drive.File{
		Name:     s.container,
		MimeType: folderMIMEType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: create folder %s: %v", domain.ErrStorageUnavailable, s.container, err)
	}

	s.folderID = folder.Id
	return s.folderID, nil
}

// contentTypeFor returns the MIME type for a file path, defaulting to
// a generic binary type.
func contentTypeFor(path string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// escapeQuery escapes single quotes for Drive query strings.
func escapeQuery(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
