package main

import (
	"fmt"
	"time"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/gemini"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	cfg := deps.Config

	meta, err := deps.Index.FindIndexMeta(deps.Ctx, cfg.Domain)
	if err != nil {
		if sitechat.ErrorCode(err) == sitechat.ENOTFOUND {
			fmt.Fprintf(deps.Stdout, "%s has no index yet. Run 'sitechat index' to build one.\n", cfg.Domain)
			return nil
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Domain:     %s\n", meta.Domain)
	if meta.SiteName != "" {
		fmt.Fprintf(deps.Stdout, "Site name:  %s\n", meta.SiteName)
	}
	fmt.Fprintf(deps.Stdout, "Pages:      %d\n", meta.PageCount)
	fmt.Fprintf(deps.Stdout, "Chunks:     %d\n", meta.ChunkCount)
	fmt.Fprintf(deps.Stdout, "Indexed at: %s\n", meta.IndexedAt.Format(time.RFC3339))

	facts, err := deps.Facts.FindFacts(deps.Ctx, cfg.Domain)
	if err != nil {
		if sitechat.ErrorCode(err) == sitechat.ENOTFOUND {
			return nil
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}

	if summary := gemini.FormatFacts(facts); summary != "" {
		fmt.Fprintf(deps.Stdout, "\nFacts:\n%s\n", summary)
	}
	return nil
}
