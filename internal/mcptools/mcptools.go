// Package mcptools exposes transcript retrieval as MCP tools:
// get_transcript and list_transcripts.
package mcptools

import (
	"context"
	"errors"
	"time"

	mcpserver "github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	transcript "github.com/anatolykoptev/go-transcript"
)

type GetTranscriptInput struct {
	VideoID            string   `json:"video_id" jsonschema:"the YouTube video id"`
	Languages          []string `json:"languages,omitempty" jsonschema:"language codes in order of preference, default [en]"`
	Translate          string   `json:"translate,omitempty" jsonschema:"translate the transcript into this language code"`
	PreserveFormatting bool     `json:"preserve_formatting,omitempty" jsonschema:"keep inline formatting markup like <b> and <i>"`
}

type GetTranscriptOutput struct {
	VideoID      string               `json:"video_id"`
	Language     string               `json:"language"`
	LanguageCode string               `json:"language_code"`
	IsGenerated  bool                 `json:"is_generated"`
	Snippets     []transcript.Snippet `json:"snippets"`
}

type ListTranscriptsInput struct {
	VideoID string `json:"video_id" jsonschema:"the YouTube video id"`
}

type TrackInfo struct {
	Language             string                          `json:"language"`
	LanguageCode         string                          `json:"language_code"`
	IsGenerated          bool                            `json:"is_generated"`
	TranslationLanguages []transcript.TranslationLanguage `json:"translation_languages,omitempty"`
}

type ListTranscriptsOutput struct {
	VideoID     string      `json:"video_id"`
	Transcripts []TrackInfo `json:"transcripts"`
}

// Register adds the transcript tools to the given MCP server.
func Register(server *mcp.Server, client *transcript.Client) {
	registerGetTranscript(server, client)
	registerListTranscripts(server, client)
}

func registerGetTranscript(server *mcp.Server, client *transcript.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_transcript",
		Description: "Fetch the transcript of a YouTube video. Returns timed snippets (text, start, duration) for the first available track matching the requested languages, optionally machine-translated into another language.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input GetTranscriptInput) (*mcp.CallToolResult, GetTranscriptOutput, error) {
		if input.VideoID == "" {
			return nil, GetTranscriptOutput{}, errors.New("video_id is required")
		}
		languages := input.Languages
		if len(languages) == 0 {
			languages = []string{"en"}
		}

		list, err := client.ListTranscripts(ctx, input.VideoID)
		if err != nil {
			return nil, GetTranscriptOutput{}, err
		}
		t, err := list.FindTranscript(languages)
		if err != nil {
			return nil, GetTranscriptOutput{}, err
		}
		if input.Translate != "" {
			if t, err = t.Translate(input.Translate); err != nil {
				return nil, GetTranscriptOutput{}, err
			}
		}
		ft, err := t.Fetch(ctx, input.PreserveFormatting)
		if err != nil {
			return nil, GetTranscriptOutput{}, err
		}
		return nil, GetTranscriptOutput{
			VideoID:      ft.VideoID,
			Language:     ft.Language,
			LanguageCode: ft.LanguageCode,
			IsGenerated:  ft.IsGenerated,
			Snippets:     ft.ToRawData(),
		}, nil
	})
}

func registerListTranscripts(server *mcp.Server, client *transcript.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_transcripts",
		Description: "List the caption tracks available for a YouTube video: manually created and auto-generated tracks with their language codes and translation targets.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ListTranscriptsInput) (*mcp.CallToolResult, ListTranscriptsOutput, error) {
		if input.VideoID == "" {
			return nil, ListTranscriptsOutput{}, errors.New("video_id is required")
		}

		list, err := client.ListTranscripts(ctx, input.VideoID)
		if err != nil {
			return nil, ListTranscriptsOutput{}, err
		}

		out := ListTranscriptsOutput{VideoID: input.VideoID}
		for _, t := range list.Transcripts() {
			out.Transcripts = append(out.Transcripts, TrackInfo{
				Language:             t.Language,
				LanguageCode:         t.LanguageCode,
				IsGenerated:          t.IsGenerated,
				TranslationLanguages: t.TranslationLanguages,
			})
		}
		return nil, out, nil
	})
}

// Serve runs an MCP server exposing the transcript tools on the given port.
func Serve(client *transcript.Client, version, port string) error {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "yttranscript",
		Version: version,
	}, nil)

	Register(server, client)

	return mcpserver.Run(server, mcpserver.Config{
		Name:         "yttranscript",
		Version:      version,
		Port:         port,
		WriteTimeout: 120 * time.Second,
	})
}
