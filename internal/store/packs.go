// ABOUTME: Pack catalog store operations for the dev platform server.
// ABOUTME: Handles CRUD, filtered token-paginated listing, categories, versions, and source files.

package store

import (
	"database/sql"
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

type Pack struct {
	ID               string
	Name             string
	ShortDescription string
	Description      string
	Version          string
	MakerName        string
	Published        bool
	Archived         bool
	Workspace        bool
	InstallCount     int
}

// PackFilter mirrors the listing query flags of the platform API
type PackFilter struct {
	IncludePublished bool
	IncludeWorkspace bool
	ExcludeArchived  bool
	Query            string
}

// CreatePack inserts a pack, assigning an id when none is given
func (s *Store) CreatePack(p *Pack) error {
	if p.ID == "" {
		p.ID = "p_" + uuid.NewString()[:8]
	}
	_, err := s.db.Exec(`
		INSERT INTO packs (id, name, short_description, description, version, maker_name, published, archived, workspace, install_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.ShortDescription, p.Description, p.Version, p.MakerName, p.Published, p.Archived, p.Workspace, p.InstallCount)
	return err
}

// GetPack fetches one pack by id
func (s *Store) GetPack(id string) (*Pack, error) {
	p := &Pack{}
	err := s.db.QueryRow(`
		SELECT id, name, short_description, description, version, maker_name, published, archived, workspace, install_count
		FROM packs WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.ShortDescription, &p.Description, &p.Version, &p.MakerName, &p.Published, &p.Archived, &p.Workspace, &p.InstallCount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("pack not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPacks returns one page of packs matching the filter plus a token for
// the next page (empty when this is the last page). The token is an opaque
// base64 offset replayed by the client.
func (s *Store) ListPacks(filter PackFilter, pageSize int, pageToken string) ([]Pack, string, error) {
	offset := 0
	if pageToken != "" {
		decoded, err := base64.StdEncoding.DecodeString(pageToken)
		if err == nil {
			offset, _ = strconv.Atoi(string(decoded))
		}
	}

	query := `SELECT id, name, short_description, description, version, maker_name, published, archived, workspace, install_count
	          FROM packs WHERE 1=1`
	args := []any{}

	// Include flags widen the visible set; with neither set everything shows
	if filter.IncludePublished && !filter.IncludeWorkspace {
		query += " AND published = 1"
	}
	if filter.IncludeWorkspace && !filter.IncludePublished {
		query += " AND workspace = 1"
	}
	if filter.ExcludeArchived {
		query += " AND archived = 0"
	}
	if filter.Query != "" {
		query += " AND name LIKE ? ESCAPE '\\'"
		args = append(args, "%"+escapeSQLLike(filter.Query)+"%")
	}

	query += " ORDER BY name ASC, id ASC LIMIT ? OFFSET ?"
	args = append(args, pageSize+1, offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var packs []Pack
	for rows.Next() {
		var p Pack
		if err := rows.Scan(&p.ID, &p.Name, &p.ShortDescription, &p.Description, &p.Version, &p.MakerName,
			&p.Published, &p.Archived, &p.Workspace, &p.InstallCount); err != nil {
			return nil, "", err
		}
		packs = append(packs, p)
	}

	var nextToken string
	if len(packs) > pageSize {
		packs = packs[:pageSize]
		nextToken = base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset + pageSize)))
	}

	return packs, nextToken, nil
}

// UpdatePack patches the scalar fields present in the fields map
func (s *Store) UpdatePack(id string, fields map[string]any) error {
	allowed := map[string]string{
		"name":             "name",
		"shortDescription": "short_description",
		"description":      "description",
	}

	set := ""
	args := []any{}
	for field, column := range allowed {
		if value, ok := fields[field]; ok {
			if set != "" {
				set += ", "
			}
			set += column + " = ?"
			args = append(args, value)
		}
	}
	if set == "" {
		return nil
	}

	args = append(args, id)
	result, err := s.db.Exec("UPDATE packs SET "+set+" WHERE id = ?", args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("pack not found")
	}
	return nil
}

// PackCategories returns a pack's category names in sorted order
func (s *Store) PackCategories(packID string) ([]string, error) {
	rows, err := s.db.Query("SELECT category FROM pack_categories WHERE pack_id = ? ORDER BY category", packID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// AddPackCategory adds one category to a pack; adding an existing category
// is a no-op.
func (s *Store) AddPackCategory(packID, category string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO pack_categories (pack_id, category) VALUES (?, ?)", packID, category)
	return err
}

// RemovePackCategory removes one category from a pack
func (s *Store) RemovePackCategory(packID, category string) error {
	result, err := s.db.Exec("DELETE FROM pack_categories WHERE pack_id = ? AND category = ?", packID, category)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("category not on pack")
	}
	return nil
}

// ListCategories returns every category name in use, sorted
func (s *Store) ListCategories() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT category FROM pack_categories ORDER BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

type PackVersion struct {
	PackVersion string
	ReleaseDate string
	Notes       string
}

// AddPackVersion records one released version of a pack
func (s *Store) AddPackVersion(packID string, v *PackVersion) error {
	_, err := s.db.Exec(`
		INSERT INTO pack_versions (pack_id, pack_version, release_date, notes) VALUES (?, ?, ?, ?)
	`, packID, v.PackVersion, v.ReleaseDate, v.Notes)
	return err
}

// PackVersionHistory returns a pack's versions, newest release first
func (s *Store) PackVersionHistory(packID string) ([]PackVersion, error) {
	rows, err := s.db.Query(`
		SELECT pack_version, release_date, notes FROM pack_versions
		WHERE pack_id = ? ORDER BY release_date DESC, pack_version DESC
	`, packID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []PackVersion
	for rows.Next() {
		var v PackVersion
		if err := rows.Scan(&v.PackVersion, &v.ReleaseDate, &v.Notes); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, nil
}

type SourceFile struct {
	Filename string
	Size     int64
}

// AddSourceFile records one source file of a pack
func (s *Store) AddSourceFile(packID string, f *SourceFile) error {
	_, err := s.db.Exec("INSERT INTO pack_source_files (pack_id, filename, size) VALUES (?, ?, ?)",
		packID, f.Filename, f.Size)
	return err
}

// PackSourceFiles returns a pack's source file listing
func (s *Store) PackSourceFiles(packID string) ([]SourceFile, error) {
	rows, err := s.db.Query("SELECT filename, size FROM pack_source_files WHERE pack_id = ? ORDER BY filename", packID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []SourceFile
	for rows.Next() {
		var f SourceFile
		if err := rows.Scan(&f.Filename, &f.Size); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}
