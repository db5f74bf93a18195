// Package registry keeps the live tables served by the HTTP and MCP adapters.
package registry
