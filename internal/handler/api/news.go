// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/nukgsz/schoolsite/internal/handler"
	"github.com/nukgsz/schoolsite/internal/i18n"
	"github.com/nukgsz/schoolsite/internal/middleware"
	"github.com/nukgsz/schoolsite/internal/store"
	"github.com/nukgsz/schoolsite/internal/util"
)

// maxNewsLimit caps ?limit= on the public news list.
const maxNewsLimit = 100

// NewsResponse represents a news article in API responses.
type NewsResponse struct {
	ID                 int64                `json:"id"`
	TitleBg            *string              `json:"title_bg"`
	TitleEn            *string              `json:"title_en"`
	ExcerptBg          *string              `json:"excerpt_bg"`
	ExcerptEn          *string              `json:"excerpt_en"`
	ContentBg          *string              `json:"content_bg"`
	ContentEn          *string              `json:"content_en"`
	FeaturedImageURL   *string              `json:"featured_image_url"`
	FeaturedImageAltBg *string              `json:"featured_image_alt_bg"`
	FeaturedImageAltEn *string              `json:"featured_image_alt_en"`
	IsPublished        bool                 `json:"is_published"`
	IsFeatured         bool                 `json:"is_featured"`
	PublishedDate      time.Time            `json:"published_date"`
	CreatedBy          *int64               `json:"created_by"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
	Attachments        []AttachmentResponse `json:"attachments,omitempty"`
}

// PublicNewsResponse adds the fields localised for the requested language.
type PublicNewsResponse struct {
	NewsResponse
	Title            string `json:"title"`
	Excerpt          string `json:"excerpt"`
	Content          string `json:"content"`
	FeaturedImageAlt string `json:"featured_image_alt"`
}

// AttachmentResponse represents a file attached to a news article.
type AttachmentResponse struct {
	ID           int64     `json:"id"`
	NewsID       int64     `json:"news_id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	URL          string    `json:"url"`
	MimeType     string    `json:"mime_type"`
	FileSize     int64     `json:"file_size"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewsRequest is the body of news create and update requests. Absent
// fields are left unchanged on update.
type NewsRequest struct {
	TitleBg            *string `json:"title_bg" validate:"omitempty,max=255"`
	TitleEn            *string `json:"title_en" validate:"omitempty,max=255"`
	ExcerptBg          *string `json:"excerpt_bg"`
	ExcerptEn          *string `json:"excerpt_en"`
	ContentBg          *string `json:"content_bg"`
	ContentEn          *string `json:"content_en"`
	FeaturedImageURL   *string `json:"featured_image_url" validate:"omitempty,max=2048"`
	FeaturedImageAltBg *string `json:"featured_image_alt_bg" validate:"omitempty,max=255"`
	FeaturedImageAltEn *string `json:"featured_image_alt_en" validate:"omitempty,max=255"`
	IsPublished        *Flag   `json:"is_published"`
	IsFeatured         *Flag   `json:"is_featured"`
	PublishedDate      *string `json:"published_date"`
}

func newsToResponse(n store.News) NewsResponse {
	return NewsResponse{
		ID:                 n.ID,
		TitleBg:            ptr(n.TitleBg),
		TitleEn:            ptr(n.TitleEn),
		ExcerptBg:          ptr(n.ExcerptBg),
		ExcerptEn:          ptr(n.ExcerptEn),
		ContentBg:          ptr(n.ContentBg),
		ContentEn:          ptr(n.ContentEn),
		FeaturedImageURL:   ptr(n.FeaturedImageURL),
		FeaturedImageAltBg: ptr(n.FeaturedImageAltBg),
		FeaturedImageAltEn: ptr(n.FeaturedImageAltEn),
		IsPublished:        n.IsPublished,
		IsFeatured:         n.IsFeatured,
		PublishedDate:      n.PublishedDate,
		CreatedBy:          util.PtrFromNullInt64(n.CreatedBy),
		CreatedAt:          n.CreatedAt,
		UpdatedAt:          n.UpdatedAt,
	}
}

// newsToPublic localises n. The excerpt falls back to the beginning of the
// text content of the article.
func newsToPublic(n store.News, lang i18n.Lang) PublicNewsResponse {
	content := i18n.LocalizeNull(lang, n.ContentBg, n.ContentEn)
	excerpt := i18n.LocalizeNull(lang, n.ExcerptBg, n.ExcerptEn)
	if excerpt == "" && content != "" {
		excerpt = handler.Excerpt(content)
	}
	return PublicNewsResponse{
		NewsResponse:     newsToResponse(n),
		Title:            i18n.LocalizeNull(lang, n.TitleBg, n.TitleEn),
		Excerpt:          excerpt,
		Content:          content,
		FeaturedImageAlt: i18n.LocalizeNull(lang, n.FeaturedImageAltBg, n.FeaturedImageAltEn),
	}
}

func attachmentToResponse(a store.NewsAttachment) AttachmentResponse {
	return AttachmentResponse{
		ID:           a.ID,
		NewsID:       a.NewsID,
		Filename:     a.Filename,
		OriginalName: a.OriginalName,
		URL:          a.URL,
		MimeType:     a.MimeType,
		FileSize:     a.FileSize,
		CreatedAt:    a.CreatedAt,
	}
}

// parsePublishedDate accepts a date, a date-time or RFC 3339 value.
func parsePublishedDate(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ListNews handles GET /api/news. Supports ?featured=1 and ?limit=.
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	limit := int64(handler.QueryInt(r, "limit", 0, maxNewsLimit))
	news, err := h.queries.ListNews(r.Context(), true, handler.QueryBool(r, "featured"), limit)
	if err != nil {
		h.serverError(w, r, "Failed to load news", err)
		return
	}

	lang := middleware.GetLanguage(r)
	resp := make([]PublicNewsResponse, 0, len(news))
	for _, n := range news {
		resp = append(resp, newsToPublic(n, lang))
	}
	handler.WriteList(w, resp)
}

// GetNews handles GET /api/news/{id}. Unpublished articles are not found.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "News article")
		return
	}

	n, err := h.queries.GetPublishedNews(r.Context(), id)
	if err != nil {
		h.notFoundOrError(w, r, "News article", err)
		return
	}

	resp := newsToPublic(n, middleware.GetLanguage(r))
	if resp.Attachments, err = h.attachments(r, n.ID); err != nil {
		h.serverError(w, r, "Failed to load attachments", err)
		return
	}
	handler.WriteData(w, http.StatusOK, resp)
}

// AdminListNews handles GET /api/news/admin.
func (h *Handler) AdminListNews(w http.ResponseWriter, r *http.Request) {
	news, err := h.queries.ListNews(r.Context(), false, false, 0)
	if err != nil {
		h.serverError(w, r, "Failed to load news", err)
		return
	}

	resp := make([]NewsResponse, 0, len(news))
	for _, n := range news {
		resp = append(resp, newsToResponse(n))
	}
	handler.WriteList(w, resp)
}

// AdminGetNews handles GET /api/news/admin/{id}.
func (h *Handler) AdminGetNews(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "News article")
		return
	}

	n, err := h.queries.GetNews(r.Context(), id)
	if err != nil {
		h.notFoundOrError(w, r, "News article", err)
		return
	}

	resp := newsToResponse(n)
	if resp.Attachments, err = h.attachments(r, n.ID); err != nil {
		h.serverError(w, r, "Failed to load attachments", err)
		return
	}
	handler.WriteData(w, http.StatusOK, resp)
}

// CreateNews handles POST /api/news and /api/news/admin.
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var req NewsRequest
	if !handler.DecodeJSONOrError(w, r, &req) || !validate(w, req) {
		return
	}

	now := h.now()
	params := store.CreateNewsParams{
		TitleBg:            nullString(req.TitleBg, sql.NullString{}),
		TitleEn:            nullString(req.TitleEn, sql.NullString{}),
		ExcerptBg:          nullString(req.ExcerptBg, sql.NullString{}),
		ExcerptEn:          nullString(req.ExcerptEn, sql.NullString{}),
		ContentBg:          nullHTML(req.ContentBg, sql.NullString{}),
		ContentEn:          nullHTML(req.ContentEn, sql.NullString{}),
		FeaturedImageURL:   nullString(req.FeaturedImageURL, sql.NullString{}),
		FeaturedImageAltBg: nullString(req.FeaturedImageAltBg, sql.NullString{}),
		FeaturedImageAltEn: nullString(req.FeaturedImageAltEn, sql.NullString{}),
		IsPublished:        flag(req.IsPublished, true),
		IsFeatured:         flag(req.IsFeatured, false),
		PublishedDate:      now,
		CreatedBy:          sql.NullInt64{Int64: middleware.GetUserID(r), Valid: middleware.GetUserID(r) > 0},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	details := requireOneOf(nil, "title", "title_bg or title_en is required", params.TitleBg, params.TitleEn)
	if s := trimmed(req.PublishedDate); s != "" {
		t, ok := parsePublishedDate(s, h.loc)
		if !ok {
			details = addDetail(details, "published_date", "published_date must be a date")
		}
		params.PublishedDate = t
	}
	if details != nil {
		handler.WriteValidationError(w, details)
		return
	}

	n, err := h.queries.CreateNews(r.Context(), params)
	if err != nil {
		h.serverError(w, r, "Failed to create news article", err)
		return
	}

	slog.Info("news article created", "news_id", n.ID, "created_by", middleware.GetUserID(r))
	handler.WriteData(w, http.StatusCreated, newsToResponse(n))
}

// UpdateNews handles PUT /api/news/{id} and /api/news/admin/{id}.
func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "News article")
		return
	}

	var req NewsRequest
	if !handler.DecodeJSONOrError(w, r, &req) || !validate(w, req) {
		return
	}

	ctx := r.Context()
	cur, err := h.queries.GetNews(ctx, id)
	if err != nil {
		h.notFoundOrError(w, r, "News article", err)
		return
	}

	params := store.UpdateNewsParams{
		ID:                 id,
		TitleBg:            nullString(req.TitleBg, cur.TitleBg),
		TitleEn:            nullString(req.TitleEn, cur.TitleEn),
		ExcerptBg:          nullString(req.ExcerptBg, cur.ExcerptBg),
		ExcerptEn:          nullString(req.ExcerptEn, cur.ExcerptEn),
		ContentBg:          nullHTML(req.ContentBg, cur.ContentBg),
		ContentEn:          nullHTML(req.ContentEn, cur.ContentEn),
		FeaturedImageURL:   nullString(req.FeaturedImageURL, cur.FeaturedImageURL),
		FeaturedImageAltBg: nullString(req.FeaturedImageAltBg, cur.FeaturedImageAltBg),
		FeaturedImageAltEn: nullString(req.FeaturedImageAltEn, cur.FeaturedImageAltEn),
		IsPublished:        boolOr(req.IsPublished, cur.IsPublished),
		IsFeatured:         boolOr(req.IsFeatured, cur.IsFeatured),
		PublishedDate:      cur.PublishedDate,
		UpdatedAt:          h.now(),
	}

	details := requireOneOf(nil, "title", "title_bg or title_en is required", params.TitleBg, params.TitleEn)
	if s := trimmed(req.PublishedDate); s != "" {
		t, ok := parsePublishedDate(s, h.loc)
		if !ok {
			details = addDetail(details, "published_date", "published_date must be a date")
		}
		params.PublishedDate = t
	}
	if details != nil {
		handler.WriteValidationError(w, details)
		return
	}

	n, err := h.queries.UpdateNews(ctx, params)
	if err != nil {
		h.serverError(w, r, "Failed to update news article", err)
		return
	}
	handler.WriteData(w, http.StatusOK, newsToResponse(n))
}

// DeleteNews handles DELETE /api/news/{id} and /api/news/admin/{id}. The
// files of its attachments are removed as well.
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "News article")
		return
	}

	ctx := r.Context()
	atts, err := h.queries.ListNewsAttachments(ctx, id)
	if err != nil {
		h.serverError(w, r, "Failed to delete news article", err)
		return
	}

	n, err := store.DeleteNewsWithAttachments(ctx, h.db, id)
	if err == nil && n > 0 {
		for _, a := range atts {
			if ferr := h.uploads.RemoveAttachmentFile(a); ferr != nil {
				slog.Warn("failed to remove attachment file", "path", a.FilePath, "error", ferr)
			}
		}
	}
	h.deleteResult(w, r, "News article", n, err)
}

func (h *Handler) attachments(r *http.Request, newsID int64) ([]AttachmentResponse, error) {
	atts, err := h.queries.ListNewsAttachments(r.Context(), newsID)
	if err != nil {
		return nil, err
	}
	resp := make([]AttachmentResponse, 0, len(atts))
	for _, a := range atts {
		resp = append(resp, attachmentToResponse(a))
	}
	return resp, nil
}

// ListNewsAttachments handles GET /api/news/{id}/attachments.
func (h *Handler) ListNewsAttachments(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "News article")
		return
	}
	if _, err := h.queries.GetNews(r.Context(), id); err != nil {
		h.notFoundOrError(w, r, "News article", err)
		return
	}

	resp, err := h.attachments(r, id)
	if err != nil {
		h.serverError(w, r, "Failed to load attachments", err)
		return
	}
	handler.WriteList(w, resp)
}

// UploadNewsAttachment handles POST /api/news/{id}/attachments (multipart
// field "file").
func (h *Handler) UploadNewsAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.ParseIDParam(r, "id")
	if !ok {
		notFound(w, "News article")
		return
	}
	if _, err := h.queries.GetNews(r.Context(), id); err != nil {
		h.notFoundOrError(w, r, "News article", err)
		return
	}

	file, header, ok := h.formFile(w, r, "file")
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	att, err := h.uploads.SaveNewsAttachment(r.Context(), id, file, header)
	if err != nil {
		h.uploadError(w, r, err)
		return
	}
	handler.WriteData(w, http.StatusCreated, attachmentToResponse(att))
}

// DeleteNewsAttachment handles DELETE /api/news/{id}/attachments/{attachmentId}.
func (h *Handler) DeleteNewsAttachment(w http.ResponseWriter, r *http.Request) {
	newsID, ok := handler.ParseIDParam(r, "id")
	attID, ok2 := handler.ParseIDParam(r, "attachmentId")
	if !ok || !ok2 {
		notFound(w, "Attachment")
		return
	}

	ctx := r.Context()
	att, err := h.queries.GetNewsAttachment(ctx, attID)
	if err == nil && att.NewsID != newsID {
		err = sql.ErrNoRows
	}
	if err != nil {
		h.notFoundOrError(w, r, "Attachment", err)
		return
	}

	n, err := h.queries.DeleteNewsAttachment(ctx, attID)
	if err == nil && n > 0 {
		if ferr := h.uploads.RemoveAttachmentFile(att); ferr != nil {
			slog.Warn("failed to remove attachment file", "path", att.FilePath, "error", ferr)
		}
	}
	h.deleteResult(w, r, "Attachment", n, err)
}
