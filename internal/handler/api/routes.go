// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nukgsz/schoolsite/internal/middleware"
	"github.com/nukgsz/schoolsite/internal/store"
)

// resource is the handler set of one content collection. Every collection
// shares the same route shape; order is nil for collections without manual
// ordering.
type resource struct {
	list, get           http.HandlerFunc
	adminList, adminGet http.HandlerFunc
	create, update      http.HandlerFunc
	remove              http.HandlerFunc
	order               *store.OrderedTable

	// public and editor register extra sub-routes.
	public func(r chi.Router)
	editor func(r chi.Router)
}

func ordered(t store.OrderedTable) *store.OrderedTable { return &t }

// Routes registers every API route on r, which is expected to be mounted
// at /api.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.health.Health)
	r.Get("/health/ready", h.health.Ready)

	h.mount(r, "/news", resource{
		list: h.ListNews, get: h.GetNews,
		adminList: h.AdminListNews, adminGet: h.AdminGetNews,
		create: h.CreateNews, update: h.UpdateNews, remove: h.DeleteNews,
		public: func(r chi.Router) {
			r.Get("/{id}/attachments", h.ListNewsAttachments)
		},
		editor: func(r chi.Router) {
			r.Post("/{id}/attachments", h.UploadNewsAttachment)
			r.Delete("/{id}/attachments/{attachmentId}", h.DeleteNewsAttachment)
		},
	})
	h.mount(r, "/events", resource{
		list: h.ListEvents, get: h.GetEvent,
		adminList: h.AdminListEvents, adminGet: h.AdminGetEvent,
		create: h.CreateEvent, update: h.UpdateEvent, remove: h.DeleteEvent,
	})
	h.mount(r, "/staff", resource{
		list: h.ListStaff, get: h.GetStaff,
		adminList: h.AdminListStaff, adminGet: h.AdminGetStaff,
		create: h.CreateStaff, update: h.UpdateStaff, remove: h.DeleteStaff,
		order: ordered(store.StaffOrder),
		editor: func(r chi.Router) {
			r.Put("/{id}/image", h.SetStaffImage)
			r.Delete("/{id}/image", h.DeleteStaffImage)
		},
	})
	h.mount(r, "/gallery", resource{
		list: h.ListGallery, get: h.GetGalleryImage,
		adminList: h.AdminListGallery, adminGet: h.AdminGetGalleryImage,
		create: h.CreateGalleryImage, update: h.UpdateGalleryImage, remove: h.DeleteGalleryImage,
		order: ordered(store.GalleryOrder),
	})
	h.mountSections(r, "/history", h.sections(store.HistorySections, store.HistoryOrder))
	h.mountSections(r, "/patron", h.sections(store.PatronSections, store.PatronOrder))
	h.mount(r, "/achievements", resource{
		list: h.ListAchievements, get: h.GetAchievement,
		adminList: h.AdminListAchievements, adminGet: h.AdminGetAchievement,
		create: h.CreateAchievement, update: h.UpdateAchievement, remove: h.DeleteAchievement,
		order: ordered(store.AchievementsOrder),
	})
	h.mount(r, "/directors", resource{
		list: h.ListDirectors, get: h.GetDirector,
		adminList: h.AdminListDirectors, adminGet: h.AdminGetDirector,
		create: h.CreateDirector, update: h.UpdateDirector, remove: h.DeleteDirector,
		order: ordered(store.DirectorsOrder),
	})
	h.mount(r, "/pages", resource{
		list: h.ListPages, get: h.GetPage,
		adminList: h.AdminListPages, adminGet: h.AdminGetPage,
		create: h.CreatePage, update: h.UpdatePage, remove: h.DeletePage,
		order: ordered(store.PagesOrder),
	})
	h.mount(r, "/content", resource{
		list: h.ListContent, get: h.GetContent,
		adminList: h.AdminListContent, adminGet: h.AdminGetContent,
		create: h.CreateContent, update: h.SaveContent, remove: h.DeleteContent,
		order: ordered(store.ContentOrder),
	})
	h.mount(r, "/useful-links", resource{
		list: h.ListLinks, get: h.GetLink,
		adminList: h.AdminListLinks, adminGet: h.AdminGetLink,
		create: h.CreateLink, update: h.UpdateLink, remove: h.DeleteLink,
		order: ordered(store.UsefulLinksOrder),
	})

	r.Route("/navigation", func(r chi.Router) {
		r.Get("/header-menu", h.HeaderMenu)
		r.Get("/fallback", h.FallbackMenu)
		r.Route("/menu-items", func(r chi.Router) {
			h.editorOnly(r)
			r.Get("/", h.ListMenuItems)
			r.Post("/", h.CreateMenuItem)
			reorder := h.reorder(store.NavigationOrder)
			r.Put("/reorder", reorder)
			r.Post("/reorder", reorder)
			r.Get("/{id}", h.GetMenuItem)
			r.Put("/{id}", h.UpdateMenuItem)
			r.Patch("/{id}/toggle", h.ToggleMenuItem)
			r.Delete("/{id}", h.DeleteMenuItem)
		})
	})

	r.Route("/upload", func(r chi.Router) {
		r.Use(middleware.Authenticate(h.queries, h.tokens), middleware.NoStore)
		r.Get("/{listing}", h.ListUploads)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireEditor())
			r.Post("/{kind}", h.Upload)
			r.With(h.demo.Block(middleware.RestrictionDeleteContent)).
				Delete("/{listing}/{filename}", h.DeleteUpload)
		})
	})

	r.Route("/auth", func(r chi.Router) {
		r.With(h.logins.Middleware()).Post("/login", h.Login)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(h.queries, h.tokens), middleware.NoStore)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
			r.With(h.demo.Block(middleware.RestrictionChangePassword)).
				Post("/change-password", h.ChangePassword)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(
			middleware.Authenticate(h.queries, h.tokens),
			middleware.RequireAdmin(),
			middleware.NoStore,
			h.demo.BlockWrites(middleware.RestrictionManageUsers),
		)
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})
}

// editorOnly installs the middleware stack of authenticated content
// management routes.
func (h *Handler) editorOnly(r chi.Router) {
	r.Use(
		middleware.Authenticate(h.queries, h.tokens),
		middleware.RequireEditor(),
		middleware.NoStore,
		h.demo.BlockDeletes(middleware.RestrictionDeleteContent),
	)
}

// mount registers the uniform route set of a content collection. Static
// segments such as /admin and /reorder take precedence over /{id}.
func (h *Handler) mount(r chi.Router, pattern string, res resource) {
	r.Route(pattern, func(r chi.Router) {
		r.Get("/", res.list)
		r.Get("/{id}", res.get)
		if res.public != nil {
			res.public(r)
		}

		r.Group(func(r chi.Router) {
			h.editorOnly(r)
			r.Get("/admin", res.adminList)
			r.Get("/admin/{id}", res.adminGet)
			r.Post("/", res.create)
			r.Post("/admin", res.create)
			r.Put("/{id}", res.update)
			r.Put("/admin/{id}", res.update)
			r.Delete("/{id}", res.remove)
			r.Delete("/admin/{id}", res.remove)
			if res.order != nil {
				reorder := h.reorder(*res.order)
				for _, p := range []string{"/reorder", "/admin/reorder"} {
					r.Put(p, reorder)
					r.Post(p, reorder)
				}
			}
			if res.editor != nil {
				res.editor(r)
			}
		})
	})
}

func (h *Handler) mountSections(r chi.Router, pattern string, s *sectionResource) {
	h.mount(r, pattern, resource{
		list: s.list, get: s.get,
		adminList: s.adminList, adminGet: s.adminGet,
		create: s.create, update: s.update, remove: s.remove,
		order: &s.order,
	})
}
