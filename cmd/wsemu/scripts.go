package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gosuda/wsemu/parser"
	wsruntime "github.com/gosuda/wsemu/runtime"
)

func loadScripts(root string) (map[string]string, error) {
	files := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !parser.IsWorkshopFile(path) && !wsruntime.IsCSVFile(path) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no workshop files found under %s", root)
	}
	return files, nil
}
