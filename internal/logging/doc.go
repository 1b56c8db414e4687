// Package logging provides opt-in file-based logging with rotation for
// wbadvisor. With --debug, or whenever the MCP server runs, structured JSON
// logs go to ~/.wbadvisor/logs/.
//
// Without --debug the CLI logs warnings to stderr only.
package logging
