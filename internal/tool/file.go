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

// countLines reports the number of lines in content, counting a trailing
// unterminated line but not a trailing newline.
func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

// ReadFileTool reads the contents of a file.
type ReadFileTool struct{}

// NewReadFileTool creates a ReadFileTool.
func NewReadFileTool() *ReadFileTool {
	return &ReadFileTool{}
}

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Description() string {
	return "Read the contents of a file at the given path. Returns the file content as text."
}

func (t *ReadFileTool) Parameters() *provider.Schema {
	return provider.ObjectSchema(map[string]provider.Property{
		"path": {Type: "string", Description: "Absolute path to the file to read"},
	}, "path")
}

func (t *ReadFileTool) Dangerous() bool { return false }

func (t *ReadFileTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req struct {
		Path string `mapstructure:"path"`
	}
	if err := mapstructure.Decode(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	data, err := os.ReadFile(req.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("Error: File not found: %s", req.Path), nil
		}
		return fmt.Sprintf("Error reading file: %v", err), nil
	}
	if !utf8.Valid(data) {
		return fmt.Sprintf("Error: Cannot read binary file: %s", req.Path), nil
	}

	content := string(data)
	return fmt.Sprintf("File: %s (%d lines)\n\n%s", req.Path, countLines(content), content), nil
}

// WriteFileTool writes content to a file, creating parent directories as
// needed. Always overwrites.
type WriteFileTool struct{}

// NewWriteFileTool creates a WriteFileTool.
func NewWriteFileTool() *WriteFileTool {
	return &WriteFileTool{}
}

func (t *WriteFileTool) Name() string { return "write_file" }

func (t *WriteFileTool) Description() string {
	return "Write content to a file. Creates the file and parent directories if they don't exist. " +
		"Overwrites existing content."
}

func (t *WriteFileTool) Parameters() *provider.Schema {
	return provider.ObjectSchema(map[string]provider.Property{
		"path":    {Type: "string", Description: "Absolute path to the file to write"},
		"content": {Type: "string", Description: "Content to write to the file"},
	}, "path", "content")
}

func (t *WriteFileTool) Dangerous() bool { return true }

func (t *WriteFileTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req struct {
		Path    string `mapstructure:"path"`
		Content string `mapstructure:"content"`
	}
	if err := mapstructure.Decode(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	if dir := filepath.Dir(req.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Sprintf("Error writing file: %v", err), nil
		}
	}
	if err := os.WriteFile(req.Path, []byte(req.Content), 0o644); err != nil {
		return fmt.Sprintf("Error writing file: %v", err), nil
	}

	return fmt.Sprintf("Successfully wrote %d bytes to %s", len(req.Content), req.Path), nil
}

// ListDirectoryTool lists files and subdirectories.
type ListDirectoryTool struct {
	cfg *config.ToolsConfig
}

// NewListDirectoryTool creates a ListDirectoryTool.
func NewListDirectoryTool(cfg *config.ToolsConfig) *ListDirectoryTool {
	return &ListDirectoryTool{cfg: cfg}
}

func (t *ListDirectoryTool) Name() string { return "list_directory" }

func (t *ListDirectoryTool) Description() string {
	return "List files and subdirectories in the given directory path."
}

func (t *ListDirectoryTool) Parameters() *provider.Schema {
	return provider.ObjectSchema(map[string]provider.Property{
		"path":      {Type: "string", Description: "Absolute path to the directory to list"},
		"recursive": {Type: "boolean", Description: "If true, list recursively (default: false)"},
	}, "path")
}

func (t *ListDirectoryTool) Dangerous() bool { return false }

func (t *ListDirectoryTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req struct {
		Path      string `mapstructure:"path"`
		Recursive bool   `mapstructure:"recursive"`
	}
	if err := mapstructure.Decode(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	info, err := os.Stat(req.Path)
	if err != nil || !info.IsDir() {
		return fmt.Sprintf("Error: Not a directory: %s", req.Path), nil
	}

	var entries []string
	if req.Recursive {
		t.listRecursive(req.Path, "", 0, &entries)
	} else {
		names, err := os.ReadDir(req.Path)
		if err != nil {
			return fmt.Sprintf("Error listing directory: %v", err), nil
		}
		for _, entry := range names {
			if strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			suffix := ""
			if entry.IsDir() {
				suffix = "/"
			}
			entries = append(entries, "  "+entry.Name()+suffix)
		}
	}

	if len(entries) == 0 {
		return fmt.Sprintf("Directory %s is empty", req.Path), nil
	}
	if len(entries) > t.cfg.MaxListEntries {
		entries = entries[:t.cfg.MaxListEntries]
	}

	return fmt.Sprintf("Contents of %s:\n%s", req.Path, strings.Join(entries, "\n")), nil
}

// listRecursive walks depth-first, hiding dot entries, bounded by the
// configured depth cap.
func (t *ListDirectoryTool) listRecursive(dir, indent string, depth int, entries *[]string) {
	if depth > t.cfg.MaxListDepth {
		return
	}
	names, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range names {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if entry.IsDir() {
			*entries = append(*entries, indent+entry.Name()+"/")
			t.listRecursive(filepath.Join(dir, entry.Name()), indent+"  ", depth+1, entries)
		} else {
			*entries = append(*entries, indent+entry.Name())
		}
	}
}

// SearchInFilesTool searches for a pattern in files within a directory tree.
type SearchInFilesTool struct {
	cfg *config.ToolsConfig
}

// NewSearchInFilesTool creates a SearchInFilesTool.
func NewSearchInFilesTool(cfg *config.ToolsConfig) *SearchInFilesTool {
	return &SearchInFilesTool{cfg: cfg}
}

func (t *SearchInFilesTool) Name() string { return "search_in_files" }

func (t *SearchInFilesTool) Description() string {
	return "Search for a text pattern in files within a directory. " +
		"Returns matching lines with file paths and line numbers."
}

func (t *SearchInFilesTool) Parameters() *provider.Schema {
	return provider.ObjectSchema(map[string]provider.Property{
		"directory":      {Type: "string", Description: "Absolute path to the directory to search in"},
		"pattern":        {Type: "string", Description: "Text pattern to search for"},
		"file_extension": {Type: "string", Description: "Optional file extension filter (e.g., '.py', '.js')"},
	}, "directory", "pattern")
}

func (t *SearchInFilesTool) Dangerous() bool { return false }

func (t *SearchInFilesTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req struct {
		Directory     string `mapstructure:"directory"`
		Pattern       string `mapstructure:"pattern"`
		FileExtension string `mapstructure:"file_extension"`
	}
	if err := mapstructure.Decode(args, &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	info, err := os.Stat(req.Directory)
	if err != nil || !info.IsDir() {
		return fmt.Sprintf("Error: Not a directory: %s", req.Directory), nil
	}

	needle := strings.ToLower(req.Pattern)
	var matches []string

	// Short-circuits the walk once the match cap is reached.
	err = walkSorted(req.Directory, func(path string, isDir bool) (bool, error) {
		name := filepath.Base(path)
		if strings.HasPrefix(name, ".") {
			return !isDir, nil // skip dot entries, descend nowhere
		}
		if isDir {
			return true, nil
		}
		if req.FileExtension != "" && !strings.HasSuffix(name, req.FileExtension) {
			return true, nil
		}

		data, err := os.ReadFile(path)
		if err != nil || !utf8.Valid(data) {
			return true, nil // unreadable or binary, skip silently
		}

		rel, err := filepath.Rel(req.Directory, path)
		if err != nil {
			rel = path
		}
		for i, line := range strings.Split(string(data), "\n") {
			if strings.Contains(strings.ToLower(line), needle) {
				matches = append(matches, fmt.Sprintf("%s:%d: %s", rel, i+1, strings.TrimRight(line, " \t\r")))
				if len(matches) >= t.cfg.MaxSearchResults {
					matches = append(matches, "... (results truncated)")
					return false, errStopWalk
				}
			}
		}
		return true, nil
	})
	if err != nil && err != errStopWalk {
		return fmt.Sprintf("Error searching files: %v", err), nil
	}

	if len(matches) == 0 {
		return fmt.Sprintf("No matches found for '%s' in %s", req.Pattern, req.Directory), nil
	}
	return strings.Join(matches, "\n"), nil
}

// errStopWalk signals an intentional early exit from walkSorted.
var errStopWalk = fmt.Errorf("stop walk")

// walkSorted visits dir depth-first with entries in sorted order. fn returns
// whether to continue descending (for directories) and may return an error
// to abort the walk.
func walkSorted(dir string, fn func(path string, isDir bool) (bool, error)) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil // unreadable subtree, skip
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		descend, err := fn(path, entry.IsDir())
		if err != nil {
			return err
		}
		if entry.IsDir() && descend {
			if err := walkSorted(path, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
