// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/imaging"
	"github.com/nukgsz/schoolsite/internal/middleware"
	"github.com/nukgsz/schoolsite/internal/model"
	"github.com/nukgsz/schoolsite/internal/service"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 32 << 20

const msgFileTooLarge = "File size exceeds maximum allowed size"

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	*service.UploadResult
	Message string `json:"message"`
}

// formFile parses the multipart body, capped at the upload limit, and
// returns the first of fields present. Returns false if the response has
// been written.
func (h *Handler) formFile(w http.ResponseWriter, r *http.Request, fields ...string) (multipart.File, *multipart.FileHeader, bool) {
	limit := h.demo.UploadLimit(h.maxUpload)
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handler.WriteError(w, http.StatusBadRequest, msgFileTooLarge)
			return nil, nil, false
		}
		handler.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return nil, nil, false
	}

	for _, field := range fields {
		file, header, err := r.FormFile(field)
		if err == nil {
			if header.Size > limit {
				_ = file.Close()
				handler.WriteError(w, http.StatusBadRequest, msgFileTooLarge)
				return nil, nil, false
			}
			return file, header, true
		}
	}
	handler.WriteError(w, http.StatusBadRequest, "No file uploaded")
	return nil, nil, false
}

// uploadError maps upload service errors to responses.
func (h *Handler) uploadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUnsupportedType), errors.Is(err, service.ErrUnknownKind):
		handler.WriteError(w, http.StatusBadRequest, "Invalid file type")
	case errors.Is(err, service.ErrExtensionMismatch):
		handler.WriteError(w, http.StatusBadRequest, "File extension does not match file type")
	case errors.Is(err, imaging.ErrNotImage):
		handler.WriteError(w, http.StatusBadRequest, "File is not a valid image")
	case errors.Is(err, service.ErrInvalidFilename):
		handler.WriteError(w, http.StatusBadRequest, "Invalid filename")
	case errors.Is(err, service.ErrFileNotFound):
		handler.WriteError(w, http.StatusNotFound, "File not found")
	default:
		h.serverError(w, r, "Failed to store file", err)
	}
}

// Upload handles POST /api/upload/{kind} for image, document and
// presentation uploads.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	spec, ok := service.Spec(model.UploadKind(chi.URLParam(r, "kind")))
	if !ok {
		notFound(w, "Upload type")
		return
	}

	file, header, ok := h.formFile(w, r, spec.Field, "file")
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	res, err := h.uploads.Save(r.Context(), spec.Kind, file, header, middleware.GetUserID(r))
	if err != nil {
		h.uploadError(w, r, err)
		return
	}

	slog.Info("file uploaded", "kind", spec.Kind, "filename", res.Filename, "size", res.Size,
		"user_id", middleware.GetUserID(r))
	handler.WriteData(w, http.StatusCreated, UploadResponse{
		UploadResult: res,
		Message:      "File uploaded successfully",
	})
}

// ListUploads handles GET /api/upload/{listing} (pictures, documents or
// presentations). Files are read from disk, newest first.
func (h *Handler) ListUploads(w http.ResponseWriter, r *http.Request) {
	spec, ok := service.SpecByListing(chi.URLParam(r, "listing"))
	if !ok {
		notFound(w, "Upload type")
		return
	}

	files, err := h.uploads.List(spec.Kind)
	if err != nil {
		h.serverError(w, r, "Failed to list files", err)
		return
	}
	handler.WriteList(w, files)
}

// DeleteUpload handles DELETE /api/upload/{listing}/{filename}.
func (h *Handler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	spec, ok := service.SpecByListing(chi.URLParam(r, "listing"))
	if !ok {
		notFound(w, "Upload type")
		return
	}

	filename := chi.URLParam(r, "filename")
	if err := h.uploads.Delete(r.Context(), spec.Kind, filename); err != nil {
		h.uploadError(w, r, err)
		return
	}

	slog.Info("file deleted", "kind", spec.Kind, "filename", filename, "user_id", middleware.GetUserID(r))
	handler.WriteData(w, http.StatusOK, map[string]string{"message": "File deleted successfully"})
}
