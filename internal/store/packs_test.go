// ABOUTME: Tests for pack catalog store operations.
// ABOUTME: Covers CRUD, token pagination, filters, categories, versions, and source files.

package store

import (
	"fmt"
	"os"
	"testing"
)

func TestPackCRUD(t *testing.T) {
	dbPath := "test_packs_crud.db"
	defer os.Remove(dbPath)

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	p := &Pack{
		Name:             "Weather",
		ShortDescription: "Forecasts",
		Description:      "Weather forecasts for any city",
		Version:          "3",
		MakerName:        "Ada",
		Published:        true,
	}
	if err := s.CreatePack(p); err != nil {
		t.Fatalf("CreatePack() error = %v", err)
	}
	if p.ID == "" {
		t.Fatal("CreatePack() did not assign an id")
	}

	got, err := s.GetPack(p.ID)
	if err != nil {
		t.Fatalf("GetPack() error = %v", err)
	}
	if got.Name != "Weather" || got.MakerName != "Ada" || !got.Published {
		t.Errorf("GetPack() = %+v", got)
	}

	if _, err := s.GetPack("p_missing"); err == nil {
		t.Error("GetPack() on missing id should fail")
	}

	err = s.UpdatePack(p.ID, map[string]any{"name": "Weather Pro", "shortDescription": "Better forecasts"})
	if err != nil {
		t.Fatalf("UpdatePack() error = %v", err)
	}
	got, err = s.GetPack(p.ID)
	if err != nil {
		t.Fatalf("GetPack() after update error = %v", err)
	}
	if got.Name != "Weather Pro" || got.ShortDescription != "Better forecasts" {
		t.Errorf("after update got %+v", got)
	}
	if got.Description != "Weather forecasts for any city" {
		t.Errorf("update touched description: %q", got.Description)
	}

	if err := s.UpdatePack("p_missing", map[string]any{"name": "x"}); err == nil {
		t.Error("UpdatePack() on missing id should fail")
	}
	// Empty field set is a no-op, even for a missing pack
	if err := s.UpdatePack("p_missing", map[string]any{}); err != nil {
		t.Errorf("UpdatePack() with no fields error = %v", err)
	}
}

func TestListPacksPagination(t *testing.T) {
	dbPath := "test_packs_pages.db"
	defer os.Remove(dbPath)

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	for i := 0; i < 7; i++ {
		p := &Pack{Name: fmt.Sprintf("Pack %02d", i), Published: true}
		if err := s.CreatePack(p); err != nil {
			t.Fatalf("CreatePack(%d) error = %v", i, err)
		}
	}

	seen := map[string]bool{}
	token := ""
	pages := 0
	for {
		packs, next, err := s.ListPacks(PackFilter{}, 3, token)
		if err != nil {
			t.Fatalf("ListPacks() error = %v", err)
		}
		pages++
		for _, p := range packs {
			if seen[p.ID] {
				t.Errorf("pack %s returned twice", p.ID)
			}
			seen[p.ID] = true
		}
		if next == "" {
			break
		}
		token = next
		if pages > 10 {
			t.Fatal("pagination did not terminate")
		}
	}

	if pages != 3 {
		t.Errorf("pages = %d, want 3", pages)
	}
	if len(seen) != 7 {
		t.Errorf("distinct packs = %d, want 7", len(seen))
	}
}

func TestListPacksFilters(t *testing.T) {
	dbPath := "test_packs_filters.db"
	defer os.Remove(dbPath)

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	fixtures := []*Pack{
		{Name: "Alpha", Published: true},
		{Name: "Beta", Workspace: true},
		{Name: "Gamma", Published: true, Archived: true},
		{Name: "100% Done", Published: true},
	}
	for _, p := range fixtures {
		if err := s.CreatePack(p); err != nil {
			t.Fatalf("CreatePack(%s) error = %v", p.Name, err)
		}
	}

	packs, _, err := s.ListPacks(PackFilter{IncludePublished: true}, 10, "")
	if err != nil {
		t.Fatalf("ListPacks(published) error = %v", err)
	}
	if len(packs) != 3 {
		t.Errorf("published packs = %d, want 3", len(packs))
	}

	packs, _, err = s.ListPacks(PackFilter{IncludeWorkspace: true}, 10, "")
	if err != nil {
		t.Fatalf("ListPacks(workspace) error = %v", err)
	}
	if len(packs) != 1 || packs[0].Name != "Beta" {
		t.Errorf("workspace packs = %+v", packs)
	}

	packs, _, err = s.ListPacks(PackFilter{IncludePublished: true, ExcludeArchived: true}, 10, "")
	if err != nil {
		t.Fatalf("ListPacks(exclude archived) error = %v", err)
	}
	for _, p := range packs {
		if p.Archived {
			t.Errorf("archived pack %s in excludeArchived listing", p.Name)
		}
	}

	// LIKE wildcards in the search text are matched literally
	packs, _, err = s.ListPacks(PackFilter{Query: "100%"}, 10, "")
	if err != nil {
		t.Fatalf("ListPacks(query) error = %v", err)
	}
	if len(packs) != 1 || packs[0].Name != "100% Done" {
		t.Errorf("query packs = %+v", packs)
	}
}

func TestPackCategories(t *testing.T) {
	dbPath := "test_packs_categories.db"
	defer os.Remove(dbPath)

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	p := &Pack{Name: "Tagged"}
	if err := s.CreatePack(p); err != nil {
		t.Fatalf("CreatePack() error = %v", err)
	}

	for _, c := range []string{"Weather", "Data", "Weather"} {
		if err := s.AddPackCategory(p.ID, c); err != nil {
			t.Fatalf("AddPackCategory(%s) error = %v", c, err)
		}
	}

	categories, err := s.PackCategories(p.ID)
	if err != nil {
		t.Fatalf("PackCategories() error = %v", err)
	}
	if len(categories) != 2 || categories[0] != "Data" || categories[1] != "Weather" {
		t.Errorf("PackCategories() = %v", categories)
	}

	if err := s.RemovePackCategory(p.ID, "Data"); err != nil {
		t.Fatalf("RemovePackCategory() error = %v", err)
	}
	if err := s.RemovePackCategory(p.ID, "Data"); err == nil {
		t.Error("removing an absent category should fail")
	}

	all, err := s.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(all) != 1 || all[0] != "Weather" {
		t.Errorf("ListCategories() = %v", all)
	}
}

func TestPackVersionsAndSourceFiles(t *testing.T) {
	dbPath := "test_packs_versions.db"
	defer os.Remove(dbPath)

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	p := &Pack{Name: "Versioned"}
	if err := s.CreatePack(p); err != nil {
		t.Fatalf("CreatePack() error = %v", err)
	}

	versions := []*PackVersion{
		{PackVersion: "1", ReleaseDate: "2025-01-10", Notes: "initial"},
		{PackVersion: "2", ReleaseDate: "2025-06-02", Notes: "fixes"},
	}
	for _, v := range versions {
		if err := s.AddPackVersion(p.ID, v); err != nil {
			t.Fatalf("AddPackVersion(%s) error = %v", v.PackVersion, err)
		}
	}

	history, err := s.PackVersionHistory(p.ID)
	if err != nil {
		t.Fatalf("PackVersionHistory() error = %v", err)
	}
	if len(history) != 2 || history[0].PackVersion != "2" {
		t.Errorf("PackVersionHistory() = %+v", history)
	}

	if err := s.AddSourceFile(p.ID, &SourceFile{Filename: "pack.ts", Size: 2048}); err != nil {
		t.Fatalf("AddSourceFile() error = %v", err)
	}
	files, err := s.PackSourceFiles(p.ID)
	if err != nil {
		t.Fatalf("PackSourceFiles() error = %v", err)
	}
	if len(files) != 1 || files[0].Filename != "pack.ts" || files[0].Size != 2048 {
		t.Errorf("PackSourceFiles() = %+v", files)
	}
}
