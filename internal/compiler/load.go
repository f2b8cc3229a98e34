package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/parser"
)

// LoadCUE compiles the models of the .cue files directly inside dir. When
// every file declares the same package the package is built as one
// instance. Otherwise each file is compiled on its own, in name order.
func LoadCUE(dir string) ([]Declaration, error) {
	cueFiles, _, err := ModelFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(cueFiles) == 0 {
		return nil, fmt.Errorf("no CUE files in %s", dir)
	}

	pkg, err := sharedPackage(cueFiles)
	if err != nil {
		return nil, formatCUEError(err)
	}
	if pkg == "" {
		var decls []Declaration
		for _, f := range cueFiles {
			more, err := LoadFile(f)
			if err != nil {
				return nil, err
			}
			decls = append(decls, more...)
		}
		return decls, nil
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir, Package: pkg})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances in %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}
	return CompileModels(cuecontext.New().BuildInstance(inst))
}

// sharedPackage returns the package name all files declare, or "" when one
// of them has no package clause or they disagree.
func sharedPackage(files []string) (string, error) {
	pkg := ""
	for i, f := range files {
		file, err := parser.ParseFile(f, nil, parser.PackageClauseOnly)
		if err != nil {
			return "", err
		}
		name := file.PackageName()
		if name == "" || (i > 0 && name != pkg) {
			return "", nil
		}
		pkg = name
	}
	return pkg, nil
}

// LoadFile reads declarations from one .cue, .yaml or .yml file.
func LoadFile(path string) ([]Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		return CompileModels(cuecontext.New().CompileBytes(data, cue.Filename(path)))
	case ".yaml", ".yml":
		return ParseYAML(data, path)
	default:
		return nil, fmt.Errorf("%s: unsupported model file extension %q", path, ext)
	}
}

// Load reads declarations from a file or a directory. A directory
// contributes its CUE models first (see LoadCUE), then each YAML file in name order.
// Subdirectories are not visited.
func Load(path string) ([]Declaration, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return LoadFile(path)
	}

	cueFiles, yamlFiles, err := ModelFiles(path)
	if err != nil {
		return nil, err
	}
	var decls []Declaration
	if len(cueFiles) > 0 {
		if decls, err = LoadCUE(path); err != nil {
			return nil, err
		}
	}
	for _, f := range yamlFiles {
		more, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		decls = append(decls, more...)
	}
	return decls, nil
}

// ModelFiles lists the .cue and YAML files directly inside dir, sorted.
func ModelFiles(dir string) (cueFiles, yamlFiles []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".cue":
			cueFiles = append(cueFiles, p)
		case ".yaml", ".yml":
			yamlFiles = append(yamlFiles, p)
		}
	}
	sort.Strings(cueFiles)
	sort.Strings(yamlFiles)
	return cueFiles, yamlFiles, nil
}
