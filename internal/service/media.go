// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nukgsz/schoolsite/internal/imaging"
	"github.com/nukgsz/schoolsite/internal/model"
	"github.com/nukgsz/schoolsite/internal/store"
	"github.com/nukgsz/schoolsite/internal/util"
)

// Upload errors. All of them are client errors.
var (
	ErrUnknownKind       = errors.New("unknown upload type")
	ErrUnsupportedType   = errors.New("file type is not allowed")
	ErrExtensionMismatch = errors.New("file extension does not match its type")
	ErrInvalidFilename   = errors.New("invalid filename")
	ErrFileNotFound      = errors.New("file not found")
)

// ThumbsDir is the sub-directory holding image thumbnails.
const ThumbsDir = "thumbs"

// newsAttachmentDir keeps attachments out of the public documents listing.
const newsAttachmentDir = "documents/news"

// KindSpec describes where one upload kind is stored and what it accepts.
type KindSpec struct {
	Kind      model.UploadKind
	Field     string // multipart form field
	Listing   string // name used in /upload/{listing}
	Dir       string // relative to the public dir
	URLPrefix string
	MimeTypes map[string][]string
}

var kindSpecs = map[model.UploadKind]KindSpec{
	model.UploadImage: {
		Kind:      model.UploadImage,
		Field:     "image",
		Listing:   "pictures",
		Dir:       "uploads/pictures",
		URLPrefix: "/uploads/pictures/",
		MimeTypes: model.ImageMimeTypes,
	},
	model.UploadDocument: {
		Kind:      model.UploadDocument,
		Field:     "document",
		Listing:   "documents",
		Dir:       "documents",
		URLPrefix: "/documents/",
		MimeTypes: model.DocumentMimeTypes,
	},
	model.UploadPresentation: {
		Kind:      model.UploadPresentation,
		Field:     "presentation",
		Listing:   "presentations",
		Dir:       "uploads/presentations",
		URLPrefix: "/uploads/presentations/",
		MimeTypes: model.PresentationMimeTypes,
	},
}

// Spec returns the storage description of kind.
func Spec(kind model.UploadKind) (KindSpec, bool) {
	s, ok := kindSpecs[kind]
	return s, ok
}

// SpecByListing resolves "pictures", "documents" or "presentations".
func SpecByListing(name string) (KindSpec, bool) {
	for _, s := range kindSpecs {
		if s.Listing == name {
			return s, true
		}
	}
	return KindSpec{}, false
}

// UploadResult describes a stored upload.
type UploadResult struct {
	URL          string `json:"url"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
}

// FileInfo is one entry of an upload directory listing.
type FileInfo struct {
	Filename string    `json:"filename"`
	URL      string    `json:"url"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// UploadService stores uploaded files under the public directory.
type UploadService struct {
	queries   *store.Queries
	processor *imaging.Processor
	publicDir string
	now       func() time.Time
}

// NewUploadService creates an UploadService rooted at publicDir.
func NewUploadService(queries *store.Queries, publicDir string) *UploadService {
	return &UploadService{
		queries:   queries,
		processor: imaging.NewProcessor(model.ThumbnailSize),
		publicDir: publicDir,
		now:       time.Now,
	}
}

// Dir returns the storage directory of kind.
func (s *UploadService) Dir(kind model.UploadKind) string {
	spec := kindSpecs[kind]
	return filepath.Join(s.publicDir, filepath.FromSlash(spec.Dir))
}

// Save validates and stores one uploaded file of kind.
func (s *UploadService) Save(ctx context.Context, kind model.UploadKind, file io.Reader, header *multipart.FileHeader, uploadedBy int64) (*UploadResult, error) {
	spec, ok := kindSpecs[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	mimeType, ext, err := checkType(header, spec.MimeTypes)
	if err != nil {
		return nil, err
	}

	filename := newFilename(ext)
	dir := s.Dir(kind)
	size, res, err := s.persist(dir, filename, file, kind == model.UploadImage)
	if err != nil {
		return nil, err
	}
	if res != nil {
		if err := writeFile(filepath.Join(dir, ThumbsDir), imaging.ThumbnailName(filename), res.Thumbnail); err != nil {
			slog.Warn("failed to write thumbnail", "file", filename, "error", err)
		}
	}

	_, err = s.queries.CreateMediaFile(ctx, store.CreateMediaFileParams{
		Filename:     filename,
		OriginalName: filepath.Base(header.Filename),
		FilePath:     path.Join(spec.Dir, filename),
		FileType:     string(kind),
		MimeType:     mimeType,
		FileSize:     size,
		UploadedBy:   sql.NullInt64{Int64: uploadedBy, Valid: uploadedBy > 0},
		CreatedAt:    s.now(),
	})
	if err != nil {
		// The file is already in place and usable without its record.
		slog.Error("failed to record upload", "file", filename, "error", err)
	}

	return &UploadResult{
		URL:          spec.URLPrefix + filename,
		Filename:     filename,
		OriginalName: header.Filename,
		Size:         size,
		MimeType:     mimeType,
	}, nil
}

// List returns the files stored for kind, newest first. A missing
// directory yields an empty list.
func (s *UploadService) List(kind model.UploadKind) ([]FileInfo, error) {
	spec, ok := kindSpecs[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	entries, err := os.ReadDir(s.Dir(kind))
	if errors.Is(err, fs.ErrNotExist) {
		return []FileInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", spec.Dir, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Filename: e.Name(),
			URL:      spec.URLPrefix + e.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].Modified.Equal(files[j].Modified) {
			return files[i].Modified.After(files[j].Modified)
		}
		return files[i].Filename < files[j].Filename
	})
	return files, nil
}

// Delete removes filename from the directory of kind together with its
// thumbnail and media record.
func (s *UploadService) Delete(ctx context.Context, kind model.UploadKind, filename string) error {
	if _, ok := kindSpecs[kind]; !ok {
		return ErrUnknownKind
	}
	dir := s.Dir(kind)
	target, err := util.SafeJoinPath(dir, filename)
	if err != nil {
		return ErrInvalidFilename
	}

	info, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return ErrFileNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", filename, err)
	}
	if err := os.Remove(target); err != nil {
		return fmt.Errorf("failed to delete %s: %w", filename, err)
	}

	if kind == model.UploadImage {
		thumb := filepath.Join(dir, ThumbsDir, imaging.ThumbnailName(filename))
		if err := os.Remove(thumb); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to delete thumbnail", "file", filename, "error", err)
		}
	}
	if _, err := s.queries.DeleteMediaFileByName(ctx, string(kind), filename); err != nil {
		slog.Warn("failed to delete upload record", "file", filename, "error", err)
	}
	return nil
}

// OriginalNames maps stored file names of kind to the names they were
// uploaded with. Lookup failures yield an empty map.
func (s *UploadService) OriginalNames(ctx context.Context, kind model.UploadKind) map[string]string {
	names := make(map[string]string)
	rows, err := s.queries.ListMediaFilesByType(ctx, string(kind))
	if err != nil {
		slog.Warn("failed to load upload records", "type", kind, "error", err)
		return names
	}
	for _, r := range rows {
		if _, ok := names[r.Filename]; !ok {
			names[r.Filename] = r.OriginalName
		}
	}
	return names
}

// SaveNewsAttachment stores a file attached to a news article and records it.
// Images and documents are accepted.
func (s *UploadService) SaveNewsAttachment(ctx context.Context, newsID int64, file io.Reader, header *multipart.FileHeader) (store.NewsAttachment, error) {
	allowed := make(map[string][]string, len(model.ImageMimeTypes)+len(model.DocumentMimeTypes))
	for k, v := range model.ImageMimeTypes {
		allowed[k] = v
	}
	for k, v := range model.DocumentMimeTypes {
		allowed[k] = v
	}

	mimeType, ext, err := checkType(header, allowed)
	if err != nil {
		return store.NewsAttachment{}, err
	}

	filename := fmt.Sprintf("news_%d_%s%s", newsID, uuid.NewString(), ext)
	dir := filepath.Join(s.publicDir, filepath.FromSlash(newsAttachmentDir))
	size, _, err := s.persist(dir, filename, file, imaging.IsImage(mimeType))
	if err != nil {
		return store.NewsAttachment{}, err
	}

	att, err := s.queries.CreateNewsAttachment(ctx, store.CreateNewsAttachmentParams{
		NewsID:       newsID,
		Filename:     filename,
		OriginalName: filepath.Base(header.Filename),
		URL:          "/" + newsAttachmentDir + "/" + filename,
		FilePath:     path.Join(newsAttachmentDir, filename),
		MimeType:     mimeType,
		FileSize:     size,
		CreatedAt:    s.now(),
	})
	if err != nil {
		_ = os.Remove(filepath.Join(dir, filename))
		return store.NewsAttachment{}, fmt.Errorf("failed to record attachment: %w", err)
	}
	return att, nil
}

// RemoveAttachmentFile deletes the stored file of att. A missing file is
// not an error.
func (s *UploadService) RemoveAttachmentFile(att store.NewsAttachment) error {
	target, err := util.SafeJoinPath(filepath.Join(s.publicDir, filepath.FromSlash(newsAttachmentDir)), att.Filename)
	if err != nil {
		return ErrInvalidFilename
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// checkType resolves the upload's MIME type from its part header (or the
// extension when the client sent none) and checks it against allowed.
func checkType(header *multipart.FileHeader, allowed map[string][]string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))

	mimeType := header.Header.Get("Content-Type")
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimeTypeFromExtension(ext, allowed)
	}

	exts, ok := allowed[mimeType]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
	for _, e := range exts {
		if e == ext {
			return mimeType, ext, nil
		}
	}
	return "", "", ErrExtensionMismatch
}

func mimeTypeFromExtension(ext string, allowed map[string][]string) string {
	for mimeType, exts := range allowed {
		for _, e := range exts {
			if e == ext {
				return mimeType
			}
		}
	}
	return "application/octet-stream"
}

// newFilename returns a collision-resistant name: 13 hex chars of a random
// UUID and the upload's unix time.
func newFilename(ext string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s_%d%s", id[:13], time.Now().Unix(), ext)
}

// persist streams src into dir/name and returns the stored size. Pictures are
// sniffed before anything is written, then validated and normalised on
// disk. The file is removed again when any step fails.
func (s *UploadService) persist(dir, name string, src io.Reader, picture bool) (int64, *imaging.Result, error) {
	if picture {
		head := make([]byte, 512)
		n, err := io.ReadFull(src, head)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, nil, fmt.Errorf("failed to read upload: %w", err)
		}
		if imaging.DetectFormat(head[:n]) == "" {
			return 0, nil, imaging.ErrNotImage
		}
		src = io.MultiReader(bytes.NewReader(head[:n]), src)
	}

	target, size, err := copyToFile(dir, name, src)
	if err != nil {
		return 0, nil, err
	}
	if !picture {
		return size, nil, nil
	}

	res, err := s.processor.ProcessFile(target)
	if err != nil {
		_ = os.Remove(target)
		return 0, nil, err
	}
	if res.Data != nil {
		size = int64(len(res.Data))
	}
	return size, res, nil
}

// copyToFile creates dir/name exclusively and copies src into it.
func copyToFile(dir, name string, src io.Reader) (string, int64, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directory: %w", err)
	}
	target, err := util.SafeJoinPath(dir, name)
	if err != nil {
		return "", 0, err
	}
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(target)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}
	return target, n, nil
}

func writeFile(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	target, err := util.SafeJoinPath(dir, name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
