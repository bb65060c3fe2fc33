package i18n

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes one language's translation tree. JSON input is accepted as
// well.
func LoadYAML(r io.Reader) (map[string]any, error) {
	var tree map[string]any
	if err := yaml.NewDecoder(r).Decode(&tree); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, errors.Join(ErrInvalidFile, err)
	}
	if tree == nil {
		tree = map[string]any{}
	}
	return tree, nil
}

// LoadFS reads every <lang>.yaml, <lang>.yml and <lang>.json file in dir.
func LoadFS(fsys fs.FS, dir string) (map[string]map[string]any, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.Join(ErrInvalidFile, err)
	}

	out := make(map[string]map[string]any)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := path.Ext(e.Name())
		switch ext {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}

		lang := strings.TrimSuffix(e.Name(), ext)
		if _, dup := out[lang]; dup {
			return nil, fmt.Errorf("%w: %s: language %q defined twice", ErrInvalidFile, e.Name(), lang)
		}

		tree, err := loadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		out[lang] = tree
	}
	return out, nil
}

func loadFile(fsys fs.FS, name string) (map[string]any, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, errors.Join(ErrInvalidFile, err)
	}
	defer f.Close()
	return LoadYAML(f)
}
