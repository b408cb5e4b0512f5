package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteSet commits an artifact set. Each file is serialized to a
// ".{name}.tmp" sibling and renamed into place; the write order is fixed
// with meta last, so a crash at any point leaves the previous set intact.
// On failure every lingering temp file is removed.
func WriteSet(dir string, set *Set) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	writes := []struct {
		name   string
		encode func() ([]byte, error)
	}{
		{FileHashesFile, func() ([]byte, error) { return marshalIndent(set.Ledger) }},
		{SymbolsFile, func() ([]byte, error) { return encodeJSONL(set.Symbols) }},
		{RepoMapFile, func() ([]byte, error) { return marshalIndent(set.RepoMap) }},
		{TestMapFile, func() ([]byte, error) { return marshalIndent(set.TestMap) }},
		{MetaFile, func() ([]byte, error) { return marshalIndent(set.Meta) }},
	}

	for _, w := range writes {
		data, err := w.encode()
		if err != nil {
			CleanTempFiles(dir)
			return fmt.Errorf("serialize %s: %w", w.name, err)
		}
		if err := writeAtomic(dir, w.name, data); err != nil {
			CleanTempFiles(dir)
			return fmt.Errorf("write %s: %w", w.name, err)
		}
	}
	return nil
}

// writeAtomic writes data to dir/.name.tmp and renames it over dir/name.
// The rename is same-directory, which is atomic on POSIX filesystems.
func writeAtomic(dir, name string, data []byte) error {
	tmp := filepath.Join(dir, "."+name+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(dir, name))
}

// CleanTempFiles removes leftover ".*.tmp" files from the artifact
// directory.
func CleanTempFiles(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".tmp") {
			os.Remove(filepath.Join(dir, name))
		}
	}
}

func marshalIndent(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// encodeJSONL renders one JSON object per line, LF-terminated, with a
// trailing newline when non-empty.
func encodeJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
