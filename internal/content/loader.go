package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/Asdafers/healerguide/internal/ability"
)

// idNamespace seeds generated IDs so the same content always gets the same IDs.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("healerguide/content"))

// generateID derives a stable ID for a record that was authored without one.
func generateID(parentID, name string) string {
	return uuid.NewSHA1(idNamespace, []byte(parentID+"/"+strings.ToLower(strings.TrimSpace(name)))).String()
}

// Parse decodes one YAML document. source names the document in errors.
// Unknown keys are rejected so typos do not silently drop data.
func Parse(data []byte, source string) (ability.Pack, error) {
	var doc fileDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return ability.Pack{}, fmt.Errorf("%s: %w: %v", source, ErrInvalidContent, err)
	}
	return resolve(doc, source)
}

// LoadFile reads and parses a single content file.
func LoadFile(path string) (ability.Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ability.Pack{}, err
	}
	return Parse(data, path)
}

// LoadPaths loads every file or directory in paths. Directories contribute
// their *.yaml and *.yml files. Files are parsed concurrently and merged in
// sorted path order.
func LoadPaths(ctx context.Context, paths ...string) (ability.Pack, error) {
	files, err := contentFiles(paths)
	if err != nil {
		return ability.Pack{}, err
	}

	packs := make([]ability.Pack, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := LoadFile(f)
			if err != nil {
				return err
			}
			packs[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ability.Pack{}, err
	}
	return Merge(packs...)
}

// Files lists the content files LoadPaths would read, sorted.
func Files(paths ...string) ([]string, error) {
	return contentFiles(paths)
}

func contentFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
				continue
			}
			files = append(files, filepath.Join(p, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Merge concatenates packs and rejects IDs that appear more than once.
func Merge(packs ...ability.Pack) (ability.Pack, error) {
	var merged ability.Pack
	for _, p := range packs {
		merged.Dungeons = append(merged.Dungeons, p.Dungeons...)
		merged.Encounters = append(merged.Encounters, p.Encounters...)
		merged.Abilities = append(merged.Abilities, p.Abilities...)
	}

	ve := &ValidationError{Source: "merged content"}
	seen := make(map[string]bool)
	check := func(kind, id string) {
		key := kind + ":" + id
		if seen[key] {
			ve.addf("%s id %q defined more than once", kind, id)
		}
		seen[key] = true
	}
	for _, d := range merged.Dungeons {
		check("dungeon", d.ID)
	}
	for _, e := range merged.Encounters {
		check("encounter", e.ID)
	}
	for _, a := range merged.Abilities {
		check("ability", a.ID)
	}
	if err := ve.orNil(); err != nil {
		return ability.Pack{}, err
	}
	return merged, nil
}

// LoadDir loads every content file in dir.
func LoadDir(ctx context.Context, dir string) (ability.Pack, error) {
	return LoadPaths(ctx, dir)
}
