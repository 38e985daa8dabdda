// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

// NavSeed is one node of the canonical site navigation.
type NavSeed struct {
	ID       string
	TitleBg  string
	TitleEn  string
	Path     string
	Position int64
	Children []NavSeed
}

// DefaultNavigation is the canonical navigation tree. It seeds
// navigation_menu_items and is served as the offline fallback menu.
var DefaultNavigation = []NavSeed{
	{ID: "home", TitleBg: "Начало", TitleEn: "Home", Path: "/", Position: 0},
	{ID: "school", TitleBg: "Училището", TitleEn: "School", Path: "/school", Position: 10, Children: []NavSeed{
		{ID: "school-history", TitleBg: "История", TitleEn: "History", Path: "/school/history", Position: 1},
		{ID: "school-patron", TitleBg: "Патрон", TitleEn: "Patron", Path: "/school/patron", Position: 2},
		{ID: "school-team", TitleBg: "Екип", TitleEn: "Team", Path: "/school/team", Position: 3},
		{ID: "school-council", TitleBg: "Обществен съвет", TitleEn: "Public Council", Path: "/school/council", Position: 4},
		{ID: "school-news", TitleBg: "Новини", TitleEn: "News", Path: "/news", Position: 5},
	}},
	{ID: "documents", TitleBg: "Документи", TitleEn: "Documents", Path: "/documents", Position: 20},
	{ID: "gallery", TitleBg: "Галерия", TitleEn: "Gallery", Path: "/gallery", Position: 25},
	{ID: "projects", TitleBg: "Проекти", TitleEn: "Projects", Path: "/projects", Position: 30},
	{ID: "contacts", TitleBg: "Контакти", TitleEn: "Contacts", Path: "/contacts", Position: 40},
	{ID: "more", TitleBg: "Още", TitleEn: "More", Path: "/more", Position: 50, Children: []NavSeed{
		{ID: "useful-links", TitleBg: "Полезни връзки", TitleEn: "Useful Links", Path: "/useful-links", Position: 1},
		{ID: "info-access", TitleBg: "Достъп до информация", TitleEn: "Access to Information", Path: "/info-access", Position: 2},
	}},
}
