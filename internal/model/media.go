// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypePDF  = "application/pdf"
	MimeTypeDOC  = "application/msword"
	MimeTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeTypeXLS  = "application/vnd.ms-excel"
	MimeTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeTypePPT  = "application/vnd.ms-powerpoint"
	MimeTypePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// UploadKind identifies one of the upload directories.
type UploadKind string

// Upload kinds.
const (
	UploadImage        UploadKind = "image"
	UploadDocument     UploadKind = "document"
	UploadPresentation UploadKind = "presentation"
)

// UploadKinds lists all upload kinds.
var UploadKinds = []UploadKind{UploadImage, UploadDocument, UploadPresentation}

// ImageMimeTypes maps accepted image MIME types to their file extensions.
var ImageMimeTypes = map[string][]string{
	MimeTypeJPEG: {".jpg", ".jpeg"},
	MimeTypePNG:  {".png"},
	MimeTypeGIF:  {".gif"},
	MimeTypeWebP: {".webp"},
}

// DocumentMimeTypes maps accepted document MIME types to their file extensions.
var DocumentMimeTypes = map[string][]string{
	MimeTypePDF:  {".pdf"},
	MimeTypeDOC:  {".doc"},
	MimeTypeDOCX: {".docx"},
	MimeTypeXLS:  {".xls"},
	MimeTypeXLSX: {".xlsx"},
}

// PresentationMimeTypes maps accepted presentation MIME types to their file extensions.
var PresentationMimeTypes = map[string][]string{
	MimeTypePPT:  {".ppt"},
	MimeTypePPTX: {".pptx"},
}

// ThumbnailSize is the bounding box of generated image thumbnails.
const ThumbnailSize = 400
