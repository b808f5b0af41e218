// yttranscript — YouTube transcript retrieval.
//
// Fetches or lists transcripts for one or more videos and renders them as
// pretty/compact JSON, plain text, SRT or WebVTT. With the "serve"
// subcommand it runs as an MCP server exposing get_transcript and
// list_transcripts tools instead.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/anatolykoptev/go-kit/env"

	transcript "github.com/anatolykoptev/go-transcript"
	"github.com/anatolykoptev/go-transcript/internal/cli"
	"github.com/anatolykoptev/go-transcript/internal/mcptools"
	"github.com/anatolykoptev/go-transcript/proxies"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		serve()
		return
	}
	os.Exit(cli.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func serve() {
	slog.Info("starting yttranscript",
		slog.String("port", mcpPort),
	)

	var opts []transcript.Option
	username := env.Str("WEBSHARE_PROXY_USERNAME", "")
	password := env.Str("WEBSHARE_PROXY_PASSWORD", "")
	if username != "" && password != "" {
		opts = append(opts, transcript.WithProxyConfig(proxies.NewWebshare(username, password)))
		slog.Info("webshare proxy configured")
	}
	if cookieFile := env.Str("COOKIE_FILE", ""); cookieFile != "" {
		opts = append(opts, transcript.WithCookieFile(cookieFile))
	}

	client, err := transcript.New(opts...)
	if err != nil {
		slog.Error("client init failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := mcptools.Serve(client, version, mcpPort); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}
