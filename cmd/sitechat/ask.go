package main

import (
	"fmt"

	"github.com/sitechat/sitechat"
)

// Run executes the ask command: a one-shot question against the stored
// index, with no conversation persistence.
func (c *AskCmd) Run(deps *Dependencies) error {
	cfg := deps.Config

	if _, err := deps.Index.FindIndexMeta(deps.Ctx, cfg.Domain); err != nil {
		if sitechat.ErrorCode(err) == sitechat.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %s has no index yet. Run 'sitechat index' first.\n", cfg.Domain)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}

	siteName := cfg.SiteName
	if siteName == "" {
		siteName = cfg.Domain
	}

	onTopic, err := deps.Retriever.OnTopic(deps.Ctx, cfg.Domain, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}
	if !onTopic {
		fmt.Fprintf(deps.Stdout, "I can only answer questions about %s. Is there something about the business I can help you with?\n", siteName)
		return nil
	}

	rc, err := deps.Retriever.RetrieveContext(deps.Ctx, cfg.Domain, c.Question, sitechat.RetrieveOptions{
		TopK:     cfg.TopK,
		MaxChars: cfg.MaxContextChars,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}

	facts, err := deps.Facts.FindFacts(deps.Ctx, cfg.Domain)
	if err != nil && sitechat.ErrorCode(err) != sitechat.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}

	answer, err := deps.Asker.Answer(deps.Ctx, sitechat.AnswerRequest{
		SiteName: siteName,
		Facts:    facts,
		Context:  rc.Context,
		Question: c.Question,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)

	if len(rc.Sources) > 0 {
		fmt.Fprintln(deps.Stdout, "\nSources:")
		for _, src := range rc.Sources {
			fmt.Fprintf(deps.Stdout, "  %s\n", src)
		}
	}
	return nil
}
