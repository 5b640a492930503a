package sitechat

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default retrieval parameters.
const (
	DefaultTopK            = 8
	DefaultMaxContextChars = 12000
	DefaultMinTopicScore   = 2
)

// Per-term bonuses for matches in chunk metadata.
const (
	titleBonus = 4
	urlBonus   = 3
)

// RetrievedContext is the assembled grounding for one query.
type RetrievedContext struct {
	Context   string   `json:"context"`
	Sources   []string `json:"sources"`
	BestScore int      `json:"bestScore"`
}

// RetrieveOptions configures retrieval behavior.
type RetrieveOptions struct {
	// TopK is the maximum number of chunks to select.
	// Zero means DefaultTopK.
	TopK int

	// MaxChars bounds the assembled context length in characters.
	// Zero means DefaultMaxContextChars.
	MaxChars int
}

// Retriever selects and assembles grounding context for visitor queries.
type Retriever interface {
	// RetrieveContext scores the domain's stored chunks against the
	// query and assembles the best ones into a bounded context string.
	// A domain with no stored chunks yields an empty context and a
	// best score of zero, not an error.
	RetrieveContext(ctx context.Context, domain, query string, opts RetrieveOptions) (*RetrievedContext, error)

	// OnTopic reports whether the query overlaps the domain's content
	// enough to be answerable from it.
	OnTopic(ctx context.Context, domain, query string) (bool, error)
}

var urlTokenPattern = regexp.MustCompile(`https?://\S+`)

// topicStopwords are dropped by the topic-gate tokenizer only; the
// retrieval tokenizer keeps them.
var topicStopwords = map[string]bool{
	"and": true, "are": true, "but": true, "can": true, "did": true,
	"does": true, "for": true, "from": true, "has": true, "have": true,
	"how": true, "its": true, "our": true, "than": true, "that": true,
	"the": true, "their": true, "them": true, "they": true, "this": true,
	"was": true, "were": true, "what": true, "when": true, "where": true,
	"which": true, "who": true, "why": true, "will": true, "with": true,
	"you": true, "your": true,
}

// TokenizeQuery converts a free-text query into lowercase search terms.
// URLs are removed, non-alphanumeric characters become spaces, and
// tokens of two characters or fewer are dropped. Stopwords are kept so
// exact phrasing still counts toward retrieval scores.
func TokenizeQuery(query string) []string {
	q := urlTokenPattern.ReplaceAllString(strings.ToLower(query), " ")
	q = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, q)

	var terms []string
	for _, tok := range strings.Fields(q) {
		if utf8.RuneCountInString(tok) > 2 {
			terms = append(terms, tok)
		}
	}
	return terms
}

// TokenizeTopic tokenizes like TokenizeQuery and additionally drops
// common English stopwords, so filler words do not count as overlap in
// the on-topic gate.
func TokenizeTopic(query string) []string {
	var terms []string
	for _, tok := range TokenizeQuery(query) {
		if topicStopwords[tok] {
			continue
		}
		terms = append(terms, tok)
	}
	return terms
}

// ScoreChunk returns the lexical relevance of a chunk to the terms.
// Each term contributes its non-overlapping substring occurrence count
// over the chunk's combined title, URL, and content, plus a flat bonus
// when the term appears in the title (+4) or URL (+3). Matching is
// substring containment, not word-boundary matching; "art" matches
// inside "parts". Downstream thresholds are tuned against exactly this
// behavior.
func ScoreChunk(c *Chunk, terms []string) int {
	title := strings.ToLower(c.Title)
	url := strings.ToLower(c.URL)
	haystack := title + " " + url + " " + strings.ToLower(c.Content)

	score := 0
	for _, term := range terms {
		score += strings.Count(haystack, term)
		if strings.Contains(title, term) {
			score += titleBonus
		}
		if strings.Contains(url, term) {
			score += urlBonus
		}
	}
	return score
}

// ScoredChunk pairs a chunk with its relevance score.
type ScoredChunk struct {
	Chunk *Chunk
	Score int
}

// RankChunks scores chunks against the terms and orders them by
// descending score. The sort is stable: ties keep the storage order of
// the input slice.
func RankChunks(chunks []*Chunk, terms []string) []*ScoredChunk {
	ranked := make([]*ScoredChunk, len(chunks))
	for i, c := range chunks {
		ranked[i] = &ScoredChunk{Chunk: c, Score: ScoreChunk(c, terms)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}

// SelectChunks picks up to topK ranked chunks for context assembly. The
// two highest-ranked chunks are always kept so sparse matches still get
// some context; chunks beyond the top two must score above zero.
func SelectChunks(ranked []*ScoredChunk, topK int) []*ScoredChunk {
	if topK <= 0 {
		topK = DefaultTopK
	}

	var selected []*ScoredChunk
	for i, sc := range ranked {
		if len(selected) == topK {
			break
		}
		if i >= 2 && sc.Score <= 0 {
			break
		}
		selected = append(selected, sc)
	}
	return selected
}

// BuildContext renders the selected chunks as labeled blocks separated
// by blank lines:
//
//	--- {title} ({url}) [chunk {chunkId}] ---
//	{content}
//
// Assembly stops before a block would push the total past maxChars. The
// returned sources are the distinct URLs of the included blocks in
// first-use order.
func BuildContext(selected []*ScoredChunk, maxChars int) (string, []string) {
	if maxChars <= 0 {
		maxChars = DefaultMaxContextChars
	}

	var (
		b       strings.Builder
		sources []string
		seen    = make(map[string]bool)
		total   int
	)
	for _, sc := range selected {
		block := fmt.Sprintf("--- %s (%s) [chunk %d] ---\n%s",
			sc.Chunk.Title, sc.Chunk.URL, sc.Chunk.ChunkID, sc.Chunk.Content)
		cost := utf8.RuneCountInString(block)
		if b.Len() > 0 {
			cost += 2
		}
		if total+cost > maxChars {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block)
		total += cost

		if !seen[sc.Chunk.URL] {
			seen[sc.Chunk.URL] = true
			sources = append(sources, sc.Chunk.URL)
		}
	}
	return b.String(), sources
}
