package assets

import (
	"os"
	"path/filepath"
	"strings"
)

// MarkerSuffix is the extension of the sentinel file that names a mod folder
const MarkerSuffix = ".modfile"

// DetectFolderType classifies dir by the first marker file whose name matches a
// known category prefix. Files are visited in lexicographic order so the result
// is stable when several markers are present.
//
// An unreadable directory or a folder without a usable marker yields (Unknown, nil).
func DetectFolderType(dir string) (ModCategory, *string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Unknown, nil
	}

	// os.ReadDir sorts by file name
	for _, entry := range entries {
		if !isRegularFile(dir, entry) {
			continue
		}
		name := strings.ToLower(entry.Name())
		if !strings.HasSuffix(name, MarkerSuffix) {
			continue
		}
		for _, p := range categoryPrefixes {
			if id, ok := ExtractIdentifier(name, p.prefix); ok {
				return p.category, &id
			}
		}
	}

	return Unknown, nil
}

// ExtractIdentifier strips prefix and MarkerSuffix from a lowercased marker name.
// Compound identifiers keep only the part before the first underscore, so
// "cutscene_char123_999.modfile" with prefix "cutscene_char" yields "123".
// A bare "char.modfile" matches with an empty identifier.
func ExtractIdentifier(name, prefix string) (string, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, MarkerSuffix) {
		return "", false
	}
	if len(name) < len(prefix)+len(MarkerSuffix) {
		return "", false
	}
	id := name[len(prefix) : len(name)-len(MarkerSuffix)]
	if before, _, found := strings.Cut(id, "_"); found {
		id = before
	}
	return id, true
}

// isRegularFile reports whether entry is a regular file, following symlinks
func isRegularFile(dir string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}
