package repomap

import "sort"

// Build assembles the full repository map from the discovered file list.
// root is used only for README, manifest, and CODEOWNERS reads.
func Build(root string, files []FileInfo) *RepoMap {
	modulePaths := inferModulePaths(files)

	modules := make([]Module, 0, len(modulePaths))
	for _, mp := range modulePaths {
		module := Module{
			Path:             mp,
			Description:      moduleDescription(root, mp),
			Entrypoints:      detectEntrypoints(mp, files),
			KeyFiles:         []string{},
			Responsibilities: []string{},
		}

		if mp == "." {
			module.KeyFiles = rootKeyFiles(files)
		} else {
			subdirs := detectSubdirectories(mp, files, modulePaths)
			for i := range subdirs {
				subdirs[i].KeyFiles = subdirKeyFiles(files, subdirs[i].Path)
			}
			module.SubDirectories = subdirs
			module.KeyFiles = moduleKeyFiles(mp, files, subdirs, modulePaths)
		}

		modules = append(modules, module)
	}

	sort.Slice(modules, func(i, j int) bool { return modules[i].Path < modules[j].Path })

	return &RepoMap{
		SchemaVersion: SchemaVersion,
		Modules:       modules,
		Owners:        parseOwners(root),
		BuildCommands: detectBuildCommands(root),
		Overview:      buildOverview(files),
	}
}
