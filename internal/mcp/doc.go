// Package mcp exposes the record browser over the Model Context Protocol.
//
// The server loads a record dump at startup, warms the metrics cache in the
// background, and serves load, filter, search, pagination, statistics, and
// export operations as MCP tools on stdio. Tool calls are synchronous;
// filtering reads whatever metrics tier the background scan has reached.
package mcp
