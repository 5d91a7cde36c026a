// ABOUTME: Writes generated seed data into the platform store.
// ABOUTME: Creates packs with categories, version history, source files, and numbers.

package seed

import (
	"fmt"
	"strconv"

	"github.com/2389/packkit/internal/store"
)

// Apply inserts the generated data into the store. Each pack gets a version
// history entry per released version and a small source file listing.
func Apply(s *store.Store, data *GeneratedData) error {
	for _, pd := range data.Packs {
		p := &store.Pack{
			Name:             pd.Name,
			ShortDescription: pd.ShortDescription,
			Description:      pd.Description,
			Version:          pd.Version,
			MakerName:        pd.MakerName,
			Published:        pd.Published,
			Archived:         pd.Archived,
			Workspace:        !pd.Published,
			InstallCount:     pd.InstallCount,
		}
		if err := s.CreatePack(p); err != nil {
			return fmt.Errorf("create pack %q: %w", pd.Name, err)
		}

		for _, category := range pd.Categories {
			if err := s.AddPackCategory(p.ID, category); err != nil {
				return fmt.Errorf("add category %q to pack %q: %w", category, pd.Name, err)
			}
		}

		latest, err := strconv.Atoi(pd.Version)
		if err != nil || latest < 1 {
			latest = 1
		}
		for v := 1; v <= latest; v++ {
			version := &store.PackVersion{
				PackVersion: strconv.Itoa(v),
				ReleaseDate: fmt.Sprintf("2025-%02d-01", (v-1)%12+1),
				Notes:       versionNotes(v, latest),
			}
			if err := s.AddPackVersion(p.ID, version); err != nil {
				return fmt.Errorf("add version %d to pack %q: %w", v, pd.Name, err)
			}
		}

		files := []store.SourceFile{
			{Filename: "pack.ts", Size: int64(1024 + len(pd.Description)*16)},
			{Filename: "helpers.ts", Size: 512},
		}
		for _, f := range files {
			if err := s.AddSourceFile(p.ID, &f); err != nil {
				return fmt.Errorf("add source file to pack %q: %w", pd.Name, err)
			}
		}
	}

	for _, nd := range data.Numbers {
		n := &store.PhoneNumber{
			Number:   nd.Number,
			Label:    nd.Label,
			Verified: nd.Verified,
		}
		if err := s.CreatePhoneNumber(n); err != nil {
			return fmt.Errorf("create number %q: %w", nd.Number, err)
		}
	}

	return nil
}

func versionNotes(v, latest int) string {
	switch {
	case v == 1:
		return "Initial release"
	case v == latest:
		return "Latest release"
	default:
		return "Fixes and improvements"
	}
}
