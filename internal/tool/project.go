package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/antigravity-labs/controller/internal/config"
	"github.com/antigravity-labs/controller/internal/provider"
	"github.com/mitchellh/mapstructure"
)

// skipEntries are directory names never worth showing to the model.
var skipEntries = map[string]bool{
	".git":         true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"node_modules": true,
	".DS_Store":    true,
	".eggs":        true,
	"vendor":       true,
}

// markerExtensions limits marker scans to source and doc files.
var markerExtensions = []string{".py", ".js", ".ts", ".go", ".rs", ".java", ".md"}

// markers is the fixed comment-marker vocabulary.
var markers = []string{"TODO", "FIXME", "HACK", "XXX"}

// formatSize renders a byte count the way a human reads it.
func formatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%dB", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(size)/(1024*1024))
	}
}

// ProjectStructureTool renders a directory tree.
type ProjectStructureTool struct {
	cfg *config.ToolsConfig
}

// NewProjectStructureTool creates a ProjectStructureTool.
func NewProjectStructureTool(cfg *config.ToolsConfig) *ProjectStructureTool {
	return &ProjectStructureTool{cfg: cfg}
}

func (t *ProjectStructureTool) Name() string { return "get_project_structure" }

func (t *ProjectStructureTool) Description() string {
	return "Display the directory tree structure of a project, showing files and folders."
}

func (t *ProjectStructureTool) Parameters() *provider.Schema {
	return provider.ObjectSchema(map[string]provider.Property{
		"path":      {Type: "string", Description: "Absolute path to the project root directory"},
		"max_depth": {Type: "integer", Description: "Maximum depth to display (default: 3)"},
	}, "path")
}

func (t *ProjectStructureTool) Dangerous() bool { return false }

func (t *ProjectStructureTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req struct {
		Path     string `mapstructure:"path"`
		MaxDepth int    `mapstructure:"max_depth"`
	}
	if err := mapstructure.Decode(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	info, err := os.Stat(req.Path)
	if err != nil || !info.IsDir() {
		return fmt.Sprintf("Error: Not a directory: %s", req.Path), nil
	}

	maxDepth := req.MaxDepth
	if maxDepth <= 0 {
		maxDepth = t.cfg.DefaultTreeDepth
	}

	ignore := NewIgnoreMatcher(req.Path)
	lines := []string{filepath.Base(req.Path) + "/"}
	t.buildTree(req.Path, req.Path, ignore, &lines, "", maxDepth, 0)

	if len(lines) > t.cfg.MaxTreeLines {
		lines = lines[:t.cfg.MaxTreeLines]
		lines = append(lines, "... (truncated)")
	}

	return strings.Join(lines, "\n"), nil
}

func (t *ProjectStructureTool) buildTree(root, dir string, ignore *IgnoreMatcher, lines *[]string, prefix string, maxDepth, depth int) {
	if depth >= maxDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var visible []os.DirEntry
	for _, entry := range entries {
		name := entry.Name()
		if skipEntries[name] || strings.HasPrefix(name, ".") {
			continue
		}
		rel, err := filepath.Rel(root, filepath.Join(dir, name))
		if err == nil && ignore.Ignored(rel, entry.IsDir()) {
			continue
		}
		visible = append(visible, entry)
	}

	for i, entry := range visible {
		fullPath := filepath.Join(dir, entry.Name())
		isLast := i == len(visible)-1
		connector := "|-"
		extension := "| "
		if isLast {
			connector = "+-"
			extension = "  "
		}

		if entry.IsDir() {
			*lines = append(*lines, fmt.Sprintf("%s%s %s/", prefix, connector, entry.Name()))
			t.buildTree(root, fullPath, ignore, lines, prefix+extension, maxDepth, depth+1)
		} else {
			size := int64(0)
			if info, err := entry.Info(); err == nil {
				size = info.Size()
			}
			*lines = append(*lines, fmt.Sprintf("%s%s %s (%s)", prefix, connector, entry.Name(), formatSize(size)))
		}
	}
}

// FileInfoTool reports metadata about a file or directory.
type FileInfoTool struct{}

// NewFileInfoTool creates a FileInfoTool.
func NewFileInfoTool() *FileInfoTool {
	return &FileInfoTool{}
}

func (t *FileInfoTool) Name() string { return "get_file_info" }

func (t *FileInfoTool) Description() string {
	return "Get metadata about a file: size, last modified time, line count, etc."
}

func (t *FileInfoTool) Parameters() *provider.Schema {
	return provider.ObjectSchema(map[string]provider.Property{
		"path": {Type: "string", Description: "Absolute path to the file"},
	}, "path")
}

func (t *FileInfoTool) Dangerous() bool { return false }

func (t *FileInfoTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req struct {
		Path string `mapstructure:"path"`
	}
	if err := mapstructure.Decode(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	stat, err := os.Stat(req.Path)
	if err != nil {
		return fmt.Sprintf("Error: Path does not exist: %s", req.Path), nil
	}

	kind := "file"
	if stat.IsDir() {
		kind = "directory"
	}
	info := []string{
		fmt.Sprintf("Path: %s", req.Path),
		fmt.Sprintf("Type: %s", kind),
		fmt.Sprintf("Size: %s", formatSize(stat.Size())),
		fmt.Sprintf("Modified: %s", stat.ModTime().Format("2006-01-02 15:04:05")),
	}

	if !stat.IsDir() {
		data, err := os.ReadFile(req.Path)
		if err == nil && utf8.Valid(data) {
			ext := filepath.Ext(req.Path)
			if ext == "" {
				ext = "none"
			}
			info = append(info,
				fmt.Sprintf("Lines: %d", countLines(string(data))),
				fmt.Sprintf("Extension: %s", ext),
			)
		} else {
			info = append(info, "Content: binary or unreadable")
		}
	}

	return strings.Join(info, "\n"), nil
}

// FindTodosTool scans project files for comment markers.
type FindTodosTool struct {
	cfg *config.ToolsConfig
}

// NewFindTodosTool creates a FindTodosTool.
func NewFindTodosTool(cfg *config.ToolsConfig) *FindTodosTool {
	return &FindTodosTool{cfg: cfg}
}

func (t *FindTodosTool) Name() string { return "find_todos" }

func (t *FindTodosTool) Description() string {
	return "Search for TODO, FIXME, HACK, and XXX comments in project source files."
}

func (t *FindTodosTool) Parameters() *provider.Schema {
	return provider.ObjectSchema(map[string]provider.Property{
		"path": {Type: "string", Description: "Absolute path to the project directory to search"},
	}, "path")
}

func (t *FindTodosTool) Dangerous() bool { return false }

func (t *FindTodosTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req struct {
		Path string `mapstructure:"path"`
	}
	if err := mapstructure.Decode(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	info, err := os.Stat(req.Path)
	if err != nil || !info.IsDir() {
		return fmt.Sprintf("Error: Not a directory: %s", req.Path), nil
	}

	ignore := NewIgnoreMatcher(req.Path)
	var results []string

	err = walkSorted(req.Path, func(path string, isDir bool) (bool, error) {
		name := filepath.Base(path)
		if skipEntries[name] {
			return false, nil
		}
		rel, relErr := filepath.Rel(req.Path, path)
		if relErr == nil && ignore.Ignored(rel, isDir) {
			return false, nil
		}
		if isDir {
			return true, nil
		}
		if !hasMarkerExtension(name) {
			return true, nil
		}

		data, err := os.ReadFile(path)
		if err != nil || !utf8.Valid(data) {
			return true, nil
		}
		for i, line := range strings.Split(string(data), "\n") {
			upper := strings.ToUpper(line)
			for _, marker := range markers {
				if strings.Contains(upper, marker) {
					results = append(results, fmt.Sprintf("[%s] %s:%d: %s", marker, rel, i+1, strings.TrimSpace(line)))
					break
				}
			}
			if len(results) >= t.cfg.MaxTodoResults {
				results = append(results, "... (results truncated)")
				return false, errStopWalk
			}
		}
		return true, nil
	})
	if err != nil && err != errStopWalk {
		return fmt.Sprintf("Error searching files: %v", err), nil
	}

	if len(results) == 0 {
		return "No TODO/FIXME/HACK/XXX comments found", nil
	}
	return strings.Join(results, "\n"), nil
}

func hasMarkerExtension(name string) bool {
	for _, ext := range markerExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
