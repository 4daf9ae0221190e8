// Package mcp exposes shelf operations as Model Context Protocol tools.
//
// Every tool previews by default and only changes the filesystem when called
// with apply set to true. Tools return the operation log both as text and as
// structured entries.
package mcp

const (
	name         = "shelf"
	instructions = `MCP Server 'shelf' organizes media folders: it lists subfolders, moves files out of keyword folders, batch renames files from numbers in their names, and deletes empty keyword folders.

REQUIRED workflow:
1. Use 'list_subfolders' to discover folder names before choosing a keyword.
2. Call 'move_files', 'rename_files' or 'delete_empty_folders' WITHOUT apply first and READ the preview lines.
3. Only call again with apply=true after confirming the preview is what the user wants.

Log lines start with a marker: [PREVIEW] planned change, [OK] change made, [FAIL] change failed, [SKIP] item left alone, [INFO] summary, [ERROR] the operation could not run.
`
)
