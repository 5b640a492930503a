package main

import (
	"context"
	"io"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/echo"
	"github.com/sitechat/sitechat/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Config *sitechat.Config
	DB     *sqlite.DB

	Index         sitechat.IndexService
	Facts         sitechat.FactsService
	Conversations sitechat.ConversationService
	Leads         sitechat.LeadService
	Sitemaps      sitechat.SitemapService
	Retriever     sitechat.Retriever
	Builder       sitechat.IndexBuilder
	Asker         sitechat.Asker
	Server        *echo.Server
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve  ServeCmd  `cmd:"" help:"Run the chat API server"`
	Index  IndexCmd  `cmd:"" help:"Crawl the site and rebuild its index"`
	Ask    AskCmd    `cmd:"" help:"Ask a one-off question against the stored index"`
	Status StatusCmd `cmd:"" help:"Show the stored index and facts for the domain"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" help:"HTTP listen address"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	URL     string `arg:"" optional:"" help:"Crawl root URL (defaults to https://SITECHAT_DOMAIN)"`
	Force   bool   `short:"f" help:"Rebuild even when a non-empty index exists"`
	Preview bool   `short:"p" help:"List sitemap URLs without building the index"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the site"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct{}
