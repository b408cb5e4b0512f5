package repomap

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const maxDescriptionLen = 200

// moduleDescription resolves a module's description: the first real
// paragraph of its README.md, falling back to the description field of its
// package manifest. Returns nil when neither yields text.
func moduleDescription(root, modulePath string) *string {
	dir := filepath.Join(root, filepath.FromSlash(modulePath))
	if modulePath == "." {
		dir = root
	}

	if desc := readmeFirstParagraph(filepath.Join(dir, "README.md")); desc != "" {
		return &desc
	}
	if desc := manifestDescription(dir); desc != "" {
		return &desc
	}
	return nil
}

// readmeFirstParagraph returns the first non-heading, non-badge,
// non-code-fence paragraph of a README, whitespace-collapsed and truncated.
func readmeFirstParagraph(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	var paragraph []string
	inFence := false
	for _, line := range strings.Split(string(data), "\n") {
		t := strings.TrimSpace(line)

		if strings.HasPrefix(t, "```") || strings.HasPrefix(t, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		if t == "" {
			if len(paragraph) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(t, "#") || isBadgeLine(t) || strings.HasPrefix(t, "<") {
			if len(paragraph) > 0 {
				break
			}
			continue
		}
		paragraph = append(paragraph, t)
	}

	text := strings.Join(strings.Fields(strings.Join(paragraph, " ")), " ")
	if len(text) > maxDescriptionLen {
		text = text[:maxDescriptionLen] + "..."
	}
	return text
}

func isBadgeLine(t string) bool {
	return strings.HasPrefix(t, "[![") || strings.HasPrefix(t, "![") ||
		strings.HasPrefix(t, "[!")
}

// manifestDescription pulls the description string out of whichever package
// manifest the module carries.
func manifestDescription(dir string) string {
	if data, err := os.ReadFile(filepath.Join(dir, "package.json")); err == nil {
		var pkg struct {
			Description string `json:"description"`
		}
		if json.Unmarshal(data, &pkg) == nil && pkg.Description != "" {
			return clipDescription(pkg.Description)
		}
	}

	if data, err := os.ReadFile(filepath.Join(dir, "Cargo.toml")); err == nil {
		var cargo struct {
			Package struct {
				Description string `toml:"description"`
			} `toml:"package"`
		}
		if toml.Unmarshal(data, &cargo) == nil && cargo.Package.Description != "" {
			return clipDescription(cargo.Package.Description)
		}
	}

	if data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml")); err == nil {
		var pyproject struct {
			Project struct {
				Description string `toml:"description"`
			} `toml:"project"`
		}
		if toml.Unmarshal(data, &pyproject) == nil && pyproject.Project.Description != "" {
			return clipDescription(pyproject.Project.Description)
		}
	}

	return ""
}

func clipDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxDescriptionLen {
		s = s[:maxDescriptionLen] + "..."
	}
	return s
}
