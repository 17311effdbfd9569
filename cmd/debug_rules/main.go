package main

import (
  "flag"
  "fmt"
  "io/fs"
  "os"
  "path/filepath"

  "github.com/kr/pretty"

  "github.com/gosuda/wsemu/ast"
  "github.com/gosuda/wsemu/parser"
)

func load(root string) (map[string]string, error) {
  files := map[string]string{}
  err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
    if err != nil { return err }
    if d.IsDir() { return nil }
    if !parser.IsWorkshopFile(path) { return nil }
    rel, err := filepath.Rel(root, path)
    if err != nil { rel = filepath.Base(path) }
    b, err := os.ReadFile(path)
    if err != nil { return err }
    files[filepath.ToSlash(rel)] = string(b)
    return nil
  })
  return files, err
}

func main() {
  base := flag.String("base", ".", "directory of workshop rule files")
  only := flag.String("rule", "", "print only the rule with this name")
  raw := flag.Bool("raw", false, "dump parsed trees instead of formatted rules")
  flag.Parse()

  files, err := load(*base)
  if err != nil { panic(err) }
  rules, err := parser.ParseProgram(files)
  if err != nil { panic(err) }
  for i, r := range rules {
    if *only != "" && r.Name != *only { continue }
    fmt.Printf("# %d %q event=%s subroutine=%q disabled=%v conditions=%d actions=%d\n",
      i, r.Name, r.Event, r.Subroutine, r.Disabled, len(r.Conditions), len(r.Actions))
    if *raw {
      pretty.Println(r)
      continue
    }
    fmt.Println(ast.FormatRule(r))
  }
}
