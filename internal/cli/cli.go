// Package cli implements the yttranscript command line: fetch or list
// transcripts for one or more videos and render them in the chosen format.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	transcript "github.com/anatolykoptev/go-transcript"
	"github.com/anatolykoptev/go-transcript/format"
	"github.com/anatolykoptev/go-transcript/proxies"
)

// Options is the parsed flag surface.
type Options struct {
	VideoIDs               []string
	Languages              []string
	ListTranscripts        bool
	ExcludeGenerated       bool
	ExcludeManuallyCreated bool
	Format                 string
	Translate              string
	HTTPProxy              string
	HTTPSProxy             string
	WebshareUsername       string
	WebsharePassword       string
	Cookies                string
}

// Parse reads the flag surface from args (excluding the program name).
func Parse(args []string) (*Options, error) {
	opts := &Options{}
	var languages string

	fs := flag.NewFlagSet("yttranscript", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&languages, "languages", "en", "comma-separated language codes in order of preference")
	fs.BoolVar(&opts.ListTranscripts, "list-transcripts", false, "list available transcripts instead of fetching")
	fs.BoolVar(&opts.ExcludeGenerated, "exclude-generated", false, "only consider manually created transcripts")
	fs.BoolVar(&opts.ExcludeManuallyCreated, "exclude-manually-created", false, "only consider auto-generated transcripts")
	fs.StringVar(&opts.Format, "format", "pretty", "output format: pretty, json, text, srt or webvtt")
	fs.StringVar(&opts.Translate, "translate", "", "translate the transcript into this language code")
	fs.StringVar(&opts.HTTPProxy, "http-proxy", "", "proxy URL for http requests")
	fs.StringVar(&opts.HTTPSProxy, "https-proxy", "", "proxy URL for https requests")
	fs.StringVar(&opts.WebshareUsername, "webshare-proxy-username", "", "Webshare rotating residential proxy username")
	fs.StringVar(&opts.WebsharePassword, "webshare-proxy-password", "", "Webshare rotating residential proxy password")
	fs.StringVar(&opts.Cookies, "cookies", "", "path to a Netscape-format cookie file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.VideoIDs = fs.Args()
	if len(opts.VideoIDs) == 0 {
		return nil, fmt.Errorf("no video ids given")
	}
	for _, code := range strings.Split(languages, ",") {
		if code = strings.TrimSpace(code); code != "" {
			opts.Languages = append(opts.Languages, code)
		}
	}
	if len(opts.Languages) == 0 {
		opts.Languages = []string{"en"}
	}
	return opts, nil
}

// proxyConfig builds the proxy configuration implied by the flags, or nil.
func (o *Options) proxyConfig() proxies.Config {
	if o.WebshareUsername != "" && o.WebsharePassword != "" {
		return proxies.NewWebshare(o.WebshareUsername, o.WebsharePassword)
	}
	if o.HTTPProxy != "" || o.HTTPSProxy != "" {
		return &proxies.GenericConfig{HTTP: o.HTTPProxy, HTTPS: o.HTTPSProxy}
	}
	return nil
}

func (o *Options) clientOptions() []transcript.Option {
	var clientOpts []transcript.Option
	if p := o.proxyConfig(); p != nil {
		clientOpts = append(clientOpts, transcript.WithProxyConfig(p))
	}
	if o.Cookies != "" {
		clientOpts = append(clientOpts, transcript.WithCookieFile(o.Cookies))
	}
	return clientOpts
}

// selectTranscript picks a track from the list honoring the exclude flags
// and the optional translation target.
func (o *Options) selectTranscript(list *transcript.TranscriptList) (*transcript.Transcript, error) {
	var (
		t   *transcript.Transcript
		err error
	)
	switch {
	case o.ExcludeGenerated:
		t, err = list.FindManuallyCreatedTranscript(o.Languages)
	case o.ExcludeManuallyCreated:
		t, err = list.FindGeneratedTranscript(o.Languages)
	default:
		t, err = list.FindTranscript(o.Languages)
	}
	if err != nil {
		return nil, err
	}
	if o.Translate != "" {
		return t.Translate(o.Translate)
	}
	return t, nil
}

// Run executes the CLI and returns the process exit code. Per-video
// failures are collected and printed before the successful output; only
// setup failures (bad flags, unusable cookie file, unknown format) abort
// the whole run.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := Parse(args)
	if err != nil {
		fmt.Fprintln(stderr, "yttranscript:", err)
		return 1
	}

	formatter, err := format.New(opts.Format)
	if err != nil {
		fmt.Fprintln(stderr, "yttranscript:", err)
		return 1
	}

	client, err := transcript.New(opts.clientOptions()...)
	if err != nil {
		fmt.Fprintln(stderr, "yttranscript:", err)
		return 1
	}

	// Both exclude flags leave nothing to fetch.
	if opts.ExcludeGenerated && opts.ExcludeManuallyCreated && !opts.ListTranscripts {
		return 0
	}

	var (
		failures []string
		listings []string
		fetched  []*transcript.FetchedTranscript
	)
	for _, videoID := range opts.VideoIDs {
		list, err := client.ListTranscripts(ctx, videoID)
		if err != nil {
			failures = append(failures, err.Error())
			continue
		}
		if opts.ListTranscripts {
			listings = append(listings, list.String())
			continue
		}
		t, err := opts.selectTranscript(list)
		if err != nil {
			failures = append(failures, err.Error())
			continue
		}
		ft, err := t.Fetch(ctx, false)
		if err != nil {
			failures = append(failures, err.Error())
			continue
		}
		fetched = append(fetched, ft)
	}

	for _, failure := range failures {
		fmt.Fprintln(stderr, failure)
	}
	if opts.ListTranscripts {
		if len(listings) > 0 {
			fmt.Fprintln(stdout, strings.Join(listings, "\n"))
		}
		return 0
	}
	if len(fetched) > 0 {
		out, err := formatter.FormatTranscripts(fetched)
		if err != nil {
			fmt.Fprintln(stderr, "yttranscript:", err)
			return 1
		}
		fmt.Fprintln(stdout, out)
	}
	return 0
}
