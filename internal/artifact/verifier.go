package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nramsrud/ark-index/internal/ledger"
	"github.com/Nramsrud/ark-index/internal/repomap"
	"github.com/Nramsrud/ark-index/internal/testmap"
)

// supportedSchemaMajor is the meta schema major the verifier accepts.
const supportedSchemaMajor = "1"

// VerifyResult is the outcome of an offline artifact check. Valid is true
// exactly when Errors is empty; Warnings cover coarse count mismatches that
// do not make the set unusable.
type VerifyResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Verify validates an existing artifact directory without re-indexing:
// presence, parseability, schema major, and cross-file counts.
func Verify(dir string) VerifyResult {
	result := VerifyResult{Errors: []string{}, Warnings: []string{}}

	required := []string{MetaFile, RepoMapFile, SymbolsFile, TestMapFile, FileHashesFile}
	contents := make(map[string][]byte)
	for _, name := range required {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("missing artifact file: %s", name))
			continue
		}
		contents[name] = data
	}

	var meta Meta
	if data, ok := contents[MetaFile]; ok {
		if err := json.Unmarshal(data, &meta); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("unparseable %s: %v", MetaFile, err))
		} else if major := schemaMajor(meta.SchemaVersion); major != supportedSchemaMajor {
			result.Errors = append(result.Errors,
				fmt.Sprintf("unsupported schema major %q in %s (want %s)", major, MetaFile, supportedSchemaMajor))
		}
	}

	if data, ok := contents[RepoMapFile]; ok {
		var rm repomap.RepoMap
		if err := json.Unmarshal(data, &rm); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("unparseable %s: %v", RepoMapFile, err))
		}
	}
	if data, ok := contents[TestMapFile]; ok {
		var tm testmap.TestMap
		if err := json.Unmarshal(data, &tm); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("unparseable %s: %v", TestMapFile, err))
		}
	}

	ledgerCount := -1
	if data, ok := contents[FileHashesFile]; ok {
		var l ledger.Ledger
		if err := json.Unmarshal(data, &l); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("unparseable %s: %v", FileHashesFile, err))
		} else {
			ledgerCount = len(l.Files)
		}
	}

	symbolCount := -1
	if data, ok := contents[SymbolsFile]; ok {
		count, err := countJSONLines(data)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("unparseable %s: %v", SymbolsFile, err))
		} else {
			symbolCount = count
		}
	}

	if len(result.Errors) == 0 {
		if ledgerCount >= 0 && meta.Stats.TotalFiles != ledgerCount {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("meta reports %d files but ledger has %d entries", meta.Stats.TotalFiles, ledgerCount))
		}
		if symbolCount >= 0 && meta.Stats.TotalSymbols != symbolCount {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("meta reports %d symbols but stream has %d records", meta.Stats.TotalSymbols, symbolCount))
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// countJSONLines counts the non-empty lines of a JSONL payload, failing on
// the first line that does not parse.
func countJSONLines(data []byte) (int, error) {
	count := 0
	for i, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var record json.RawMessage
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return 0, fmt.Errorf("line %d: %w", i+1, err)
		}
		count++
	}
	return count, nil
}

func schemaMajor(version string) string {
	if idx := strings.Index(version, "."); idx >= 0 {
		return version[:idx]
	}
	return version
}
