package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/shelf/pkg/oplog"
	"github.com/macropower/shelf/pkg/organize"
	"github.com/macropower/shelf/pkg/plan"
)

// LogResult is the structured output of every tool.
type LogResult struct {
	Entries []oplog.Entry `json:"entries"`
	Applied bool          `json:"applied"`
}

type ListSubfoldersParams struct {
	Path   string `json:"path"`
	Filter string `json:"filter,omitempty"`
}

type MoveFilesParams struct {
	Root         string `json:"root"`
	Keyword      string `json:"keyword"`
	Target       string `json:"target"`
	CreateTarget *bool  `json:"createTarget,omitempty"`
	Recursive    bool   `json:"recursive,omitempty"`
	Apply        bool   `json:"apply,omitempty"`
}

type RenameFilesParams struct {
	Folder  string `json:"folder"`
	Prefix  string `json:"prefix"`
	Pattern string `json:"pattern,omitempty"`
	Apply   bool   `json:"apply,omitempty"`
}

type DeleteEmptyFoldersParams struct {
	Root      string `json:"root"`
	Keyword   string `json:"keyword"`
	Cascade   *bool  `json:"cascade,omitempty"`
	Recursive bool   `json:"recursive,omitempty"`
	Apply     bool   `json:"apply,omitempty"`
}

var (
	applyProp = &jsonschema.Schema{
		Type:        "boolean",
		Description: "Change the filesystem. Defaults to false, which only previews.",
	}
	recursiveProp = &jsonschema.Schema{
		Type:        "boolean",
		Description: "Select keyword folders at any depth instead of only direct children of root.",
	}
	keywordProp = &jsonschema.Schema{
		Type:        "string",
		Description: "Case-sensitive substring that selected folder names must contain.",
	}
)

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_subfolders",
		Description: "List the folders directly inside a path, sorted by name.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "The folder to list.",
				},
				"filter": {
					Type:        "string",
					Description: "Optional fuzzy filter; best matches are listed first.",
				},
			},
			Required: []string{"path"},
		},
	}, WithTracing(s.tracer, s.handleListSubfolders))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "move_files",
		Description: "Move the files directly inside every keyword folder under root into one target folder. Existing files are never overwritten.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"root": {
					Type:        "string",
					Description: "The folder to search for keyword folders.",
				},
				"keyword": keywordProp,
				"target": {
					Type:        "string",
					Description: "The folder that receives the files.",
				},
				"createTarget": {
					Type:        "boolean",
					Description: "Create the target folder if it does not exist. Defaults to the server configuration.",
				},
				"recursive": recursiveProp,
				"apply":     applyProp,
			},
			Required: []string{"root", "keyword", "target"},
		},
	}, WithTracing(s.tracer, s.handleMoveFiles))

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "rename_files",
		Description: "Rename every file directly inside a folder to prefix + number + extension. " +
			"The number comes from the first matching rule: the custom pattern, configured rules, " +
			"then the digits after 'EP', then the first run of digits. Files without a match are skipped.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"folder": {
					Type:        "string",
					Description: "The folder holding the files.",
				},
				"prefix": {
					Type:        "string",
					Description: "Text placed before the extracted number.",
				},
				"pattern": {
					Type:        "string",
					Description: "Optional regular expression tried first; its first capture group becomes the number.",
				},
				"apply": applyProp,
			},
			Required: []string{"folder", "prefix"},
		},
	}, WithTracing(s.tracer, s.handleRenameFiles))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_empty_folders",
		Description: "Delete keyword folders under root that are empty. Folders with content are skipped, never forced.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"root": {
					Type:        "string",
					Description: "The folder to search for keyword folders.",
				},
				"keyword":   keywordProp,
				"recursive": recursiveProp,
				"cascade": {
					Type:        "boolean",
					Description: "Also delete folders that only contain deletable keyword folders. Defaults to the server configuration.",
				},
				"apply": applyProp,
			},
			Required: []string{"root", "keyword"},
		},
	}, WithTracing(s.tracer, s.handleDeleteEmptyFolders))
}

func (s *Server) handleListSubfolders(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[ListSubfoldersParams],
) (*mcp.CallToolResultFor[LogResult], error) {
	in := params.Arguments

	return newResult(s.org.ListSubfolders(ctx, in.Path, in.Filter), false)
}

func (s *Server) handleMoveFiles(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[MoveFilesParams],
) (*mcp.CallToolResultFor[LogResult], error) {
	in := params.Arguments

	opts := organize.MoveOptions{
		Root:         in.Root,
		Keyword:      in.Keyword,
		Target:       in.Target,
		CreateTarget: boolOr(in.CreateTarget, s.defaults.CreateTarget),
		Recursive:    in.Recursive,
	}

	return newResult(s.org.Move(ctx, opts, plan.ModeFor(in.Apply)), in.Apply)
}

func (s *Server) handleRenameFiles(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[RenameFilesParams],
) (*mcp.CallToolResultFor[LogResult], error) {
	in := params.Arguments

	opts := organize.RenameOptions{
		Folder:  in.Folder,
		Prefix:  in.Prefix,
		Pattern: in.Pattern,
		Rules:   s.rules,
	}

	return newResult(s.org.Rename(ctx, opts, plan.ModeFor(in.Apply)), in.Apply)
}

func (s *Server) handleDeleteEmptyFolders(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[DeleteEmptyFoldersParams],
) (*mcp.CallToolResultFor[LogResult], error) {
	in := params.Arguments

	opts := organize.CleanOptions{
		Root:      in.Root,
		Keyword:   in.Keyword,
		Recursive: in.Recursive,
		Cascade:   boolOr(in.Cascade, s.defaults.Cascade),
	}

	return newResult(s.org.Clean(ctx, opts, plan.ModeFor(in.Apply)), in.Apply)
}

// newResult renders l as the text content of a tool result. The result is
// marked as an error when the operation could not run at all.
func newResult(l *oplog.Log, applied bool) (*mcp.CallToolResultFor[LogResult], error) {
	out := LogResult{Entries: l.Entries(), Applied: applied}
	if out.Entries == nil {
		out.Entries = []oplog.Entry{}
	}

	return &mcp.CallToolResultFor[LogResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: l.String()},
		},
		StructuredContent: out,
		IsError:           l.Aborted(),
	}, nil
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}

	return *b
}
