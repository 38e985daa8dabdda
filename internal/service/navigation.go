// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic shared by the HTTP handlers:
// navigation building, upload storage and login auditing.
package service

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/nukgsz/schoolsite/internal/i18n"
	"github.com/nukgsz/schoolsite/internal/model"
	"github.com/nukgsz/schoolsite/internal/store"
)

// Sources of a header menu.
const (
	MenuSourceItems  = "menu_items"
	MenuSourcePages  = "pages"
	MenuSourceHome   = "home"
	MenuSourceStatic = "static"
)

// DocumentsNodeID and DocumentsPath identify the navigation node that lists
// the files of the documents directory.
const (
	DocumentsNodeID = "documents"
	DocumentsPath   = "/documents"
)

// HeaderMenu is the public navigation tree with a note on where it came from.
type HeaderMenu struct {
	Items    []model.NavItem
	Source   string
	Fallback bool
}

// NavigationService builds the public and admin navigation trees.
type NavigationService struct {
	queries *store.Queries
	uploads *UploadService
}

// NewNavigationService creates a NavigationService. uploads may be nil, in
// which case no document entries are added to the menu.
func NewNavigationService(queries *store.Queries, uploads *UploadService) *NavigationService {
	return &NavigationService{queries: queries, uploads: uploads}
}

// HeaderMenu returns the localised header menu. It never fails: database
// errors are logged and the static tree is returned instead.
func (s *NavigationService) HeaderMenu(ctx context.Context, lang i18n.Lang) HeaderMenu {
	items, err := s.queries.ListNavigationMenuItems(ctx)
	if err != nil {
		slog.Warn("navigation query failed, serving static menu", "error", err)
		return HeaderMenu{Items: StaticFallback(lang), Source: MenuSourceStatic, Fallback: true}
	}

	var menu HeaderMenu
	if len(items) > 0 {
		menu = HeaderMenu{Items: BuildTree(items, lang, true), Source: MenuSourceItems}
	} else {
		menu, err = s.pagesMenu(ctx, lang)
		if err != nil {
			slog.Warn("menu pages query failed, serving static menu", "error", err)
			return HeaderMenu{Items: StaticFallback(lang), Source: MenuSourceStatic, Fallback: true}
		}
	}

	s.attachDocuments(ctx, menu.Items)
	return menu
}

// pagesMenu lists the pages flagged for the menu, or a single Home node when
// there are none.
func (s *NavigationService) pagesMenu(ctx context.Context, lang i18n.Lang) (HeaderMenu, error) {
	pages, err := s.queries.ListMenuPages(ctx)
	if err != nil {
		return HeaderMenu{}, err
	}
	if len(pages) == 0 {
		return HeaderMenu{Items: []model.NavItem{homeNode(lang)}, Source: MenuSourceHome}, nil
	}

	nodes := make([]model.NavItem, 0, len(pages))
	for _, p := range pages {
		path := "/" + strings.TrimPrefix(p.Slug, "/")
		nodes = append(nodes, model.NavItem{
			ID:       p.ID,
			Title:    i18n.LocalizeNull(lang, p.TitleBg, p.TitleEn),
			Path:     path,
			Position: int(p.Position),
			IsActive: true,
			Children: []model.NavItem{},
		})
	}
	sortNavItems(nodes)
	return HeaderMenu{Items: nodes, Source: MenuSourcePages}, nil
}

func homeNode(lang i18n.Lang) model.NavItem {
	return model.NavItem{
		ID:       "home",
		Title:    i18n.Localize(lang, "Начало", "Home"),
		Path:     "/",
		IsActive: true,
		Children: []model.NavItem{},
	}
}

// attachDocuments appends the document directory listing under the
// documents node, skipping paths it already has.
func (s *NavigationService) attachDocuments(ctx context.Context, items []model.NavItem) {
	node := findDocumentsNode(items)
	if node == nil || s.uploads == nil {
		return
	}

	files, err := s.uploads.List(model.UploadDocument)
	if err != nil {
		slog.Warn("listing documents for navigation failed", "error", err)
		return
	}
	if len(files) == 0 {
		return
	}
	originals := s.uploads.OriginalNames(ctx, model.UploadDocument)

	seen := make(map[string]bool, len(node.Children))
	for _, c := range node.Children {
		seen[c.Path] = true
	}
	for _, f := range files {
		path := DocumentsPath + "/embed/" + url.PathEscape(f.Filename)
		if seen[path] {
			continue
		}
		seen[path] = true
		node.Children = append(node.Children, model.NavItem{
			ID:       "doc-" + f.Filename,
			Title:    DocumentTitle(f.Filename, originals[f.Filename]),
			Path:     path,
			Position: len(node.Children) + 1,
			IsActive: true,
			Children: []model.NavItem{},
		})
	}
}

func findDocumentsNode(items []model.NavItem) *model.NavItem {
	for i := range items {
		if items[i].ID == DocumentsNodeID || items[i].Path == DocumentsPath {
			return &items[i]
		}
		if found := findDocumentsNode(items[i].Children); found != nil {
			return found
		}
	}
	return nil
}

// BuildTree nests menu items by parent id. With activeOnly, inactive items
// are dropped together with everything below them. Items whose parent does
// not exist become roots. Siblings are ordered by position, then title.
func BuildTree(items []store.NavigationMenuItem, lang i18n.Lang, activeOnly bool) []model.NavItem {
	exists := make(map[string]bool, len(items))
	for _, item := range items {
		exists[item.ID] = true
	}

	itemMap := make(map[string]*model.NavItem)
	parentMap := make(map[string]string) // child ID -> parent ID
	var order []string
	var rootIDs []string

	for _, item := range items {
		if activeOnly && !item.IsActive {
			continue
		}

		ni := model.NavItem{
			ID:       item.ID,
			Title:    i18n.Localize(lang, item.TitleBg, item.TitleEn.String),
			Path:     item.Path,
			Position: int(item.Position),
			IsActive: item.IsActive,
			Children: []model.NavItem{},
		}
		if item.Icon.Valid && item.Icon.String != "" {
			icon := item.Icon.String
			ni.Icon = &icon
		}
		if item.CSSClass.Valid && item.CSSClass.String != "" {
			class := item.CSSClass.String
			ni.CSSClass = &class
		}
		itemMap[item.ID] = &ni
		order = append(order, item.ID)

		parent := item.ParentID.String
		if item.ParentID.Valid && parent != "" && parent != item.ID && exists[parent] {
			parentMap[item.ID] = parent
		} else {
			rootIDs = append(rootIDs, item.ID)
		}
	}

	// An item whose parent was filtered out is unreachable from the roots.
	childrenOf := make(map[string][]string)
	for _, id := range order {
		if parent, ok := parentMap[id]; ok {
			childrenOf[parent] = append(childrenOf[parent], id)
		}
	}

	var copyWithChildren func(id string, visited map[string]bool) model.NavItem
	copyWithChildren = func(id string, visited map[string]bool) model.NavItem {
		visited[id] = true
		ni := *itemMap[id]
		ni.Children = []model.NavItem{}
		for _, childID := range childrenOf[id] {
			if visited[childID] {
				continue
			}
			ni.Children = append(ni.Children, copyWithChildren(childID, visited))
		}
		sortNavItems(ni.Children)
		return ni
	}

	visited := make(map[string]bool)
	result := make([]model.NavItem, 0, len(rootIDs))
	for _, id := range rootIDs {
		result = append(result, copyWithChildren(id, visited))
	}
	sortNavItems(result)
	return result
}

func sortNavItems(items []model.NavItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].Title < items[j].Title
	})
}

// WouldCreateCycle reports whether making parentID the parent of id would
// put id among its own ancestors.
func WouldCreateCycle(items []store.NavigationMenuItem, id, parentID string) bool {
	if parentID == "" {
		return false
	}
	parents := make(map[string]string, len(items))
	for _, item := range items {
		if item.ParentID.Valid {
			parents[item.ID] = item.ParentID.String
		}
	}

	seen := make(map[string]bool)
	for cur := parentID; cur != ""; cur = parents[cur] {
		if cur == id {
			return true
		}
		if seen[cur] {
			// Existing loop that does not pass through id.
			return false
		}
		seen[cur] = true
	}
	return false
}

// StaticFallback returns the canonical navigation tree localised to lang.
func StaticFallback(lang i18n.Lang) []model.NavItem {
	return staticNodes(store.DefaultNavigation, lang)
}

func staticNodes(seeds []store.NavSeed, lang i18n.Lang) []model.NavItem {
	nodes := make([]model.NavItem, 0, len(seeds))
	for _, seed := range seeds {
		nodes = append(nodes, model.NavItem{
			ID:       seed.ID,
			Title:    i18n.Localize(lang, seed.TitleBg, seed.TitleEn),
			Path:     seed.Path,
			Position: int(seed.Position),
			IsActive: true,
			Children: staticNodes(seed.Children, lang),
		})
	}
	return nodes
}
