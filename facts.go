package sitechat

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

// SiteFacts holds deterministic facts mined from a site's crawled text.
// Extraction is best-effort; absent facts are empty. One record per
// domain, overwritten on every rebuild.
type SiteFacts struct {
	OwnerName  string   `json:"ownerName,omitempty"`
	OwnerTitle string   `json:"ownerTitle,omitempty"`
	Phones     []string `json:"phones,omitempty"`
	Emails     []string `json:"emails,omitempty"`
	Addresses  []string `json:"addresses,omitempty"`
	Hours      string   `json:"hours,omitempty"`
	Services   []string `json:"services,omitempty"`
}

// FactsService persists extracted site facts keyed by domain.
type FactsService interface {
	// PutFacts upserts the facts for a domain, overwriting any previous
	// record.
	PutFacts(ctx context.Context, domain string, facts *SiteFacts) error

	// FindFacts retrieves the stored facts for a domain.
	// Returns ENOTFOUND if no facts have been stored.
	FindFacts(ctx context.Context, domain string) (*SiteFacts, error)
}

const (
	maxContactMatches = 3
	maxServices       = 12
	maxHoursLen       = 120
)

var (
	phonePattern   = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	emailPattern   = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	addressPattern = regexp.MustCompile(`\b\d{1,5}\s+(?:[A-Z][a-zA-Z]*\s+){1,3}(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Court|Ct|Place|Pl|Way|Parkway|Pkwy|Circle|Cir)\b`)
	hoursPattern   = regexp.MustCompile(`(?i)\b(?:business\s+|office\s+|store\s+|opening\s+|working\s+)?hours\b[^:]{0,30}:`)

	// Owner detection: a two-token title-case name near a role word,
	// in either order, within the same sentence fragment.
	nameRolePattern = regexp.MustCompile(`\b([A-Z][a-z]+)\s+([A-Z][a-z]+)\b[^.!?]{0,60}?\b((?i:owner|operator|founder|ceo))\b`)
	roleNamePattern = regexp.MustCompile(`\b((?i:owner|operator|founder|ceo))\b[^.!?]{0,60}?\b([A-Z][a-z]+)\s+([A-Z][a-z]+)\b`)

	titleTokenBeforePattern = regexp.MustCompile(`(?:^|[^A-Za-z])([A-Z][a-z]+)\s+$`)
	titleTokenAfterPattern  = regexp.MustCompile(`^\s+([A-Z][a-z]+)(?:[^A-Za-z]|$)`)
)

// nameDenylist rejects capitalized word pairs that look like names but
// are navigation or marketing copy. Role words are included so that a
// pair like "New Owner" is rejected while a role word adjacent to a
// real name does not read as a third name token.
var nameDenylist = map[string]bool{
	"about": true, "best": true, "business": true, "call": true,
	"ceo": true, "click": true, "contact": true, "founder": true,
	"free": true, "friendly": true, "great": true, "here": true,
	"home": true, "hours": true, "how": true, "learn": true,
	"meet": true, "more": true, "news": true, "operator": true,
	"our": true, "owner": true, "quality": true, "read": true,
	"service": true, "services": true, "team": true, "the": true,
	"today": true, "top": true, "welcome": true, "what": true,
	"when": true, "where": true, "who": true, "why": true,
	"your": true,
}

// servicePatterns maps canonical service labels to detection patterns.
// Order is significant: matched labels are emitted in table order.
var servicePatterns = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{"Web Design", regexp.MustCompile(`(?i)\bweb(?:site)?\s+design\b`)},
	{"Web Development", regexp.MustCompile(`(?i)\bweb(?:site)?\s+development\b`)},
	{"SEO", regexp.MustCompile(`(?i)\bseo\b|\bsearch\s+engine\s+optimization\b`)},
	{"Google Business Profile", regexp.MustCompile(`(?i)\bgoogle\s+(?:business\s+profile|my\s+business)\b`)},
	{"E-commerce", regexp.MustCompile(`(?i)\be-?commerce\b|\bonline\s+store\b`)},
	{"Content Marketing", regexp.MustCompile(`(?i)\bcontent\s+(?:marketing|creation)\b`)},
	{"Social Media Marketing", regexp.MustCompile(`(?i)\bsocial\s+media\b`)},
	{"PPC Advertising", regexp.MustCompile(`(?i)\bppc\b|\bpay.per.click\b|\bgoogle\s+ads\b`)},
	{"Email Marketing", regexp.MustCompile(`(?i)\bemail\s+marketing\b|\bnewsletters?\b`)},
	{"Branding", regexp.MustCompile(`(?i)\bbranding\b|\bbrand\s+identity\b|\blogo\s+design\b`)},
	{"Hosting & Maintenance", regexp.MustCompile(`(?i)\bhosting\b|\bwebsite\s+maintenance\b`)},
	{"Analytics & Reporting", regexp.MustCompile(`(?i)\banalytics\b|\bmonthly\s+reports?\b`)},
	{"Copywriting", regexp.MustCompile(`(?i)\bcopy\s*writing\b`)},
}

// ExtractFacts mines structured facts from crawled pages. It is a pure
// function over the page set: phones, emails, addresses, hours, and
// services come from the concatenated text of all pages; the owner
// search scores candidates per page so about/team pages outrank blogs.
func ExtractFacts(pages []*Page) *SiteFacts {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p.Title)
		b.WriteString(" ")
		b.WriteString(p.Content)
		b.WriteString(" ")
	}
	text := b.String()

	facts := &SiteFacts{
		Phones:    firstMatches(phonePattern, text, maxContactMatches),
		Emails:    firstMatches(emailPattern, text, maxContactMatches),
		Addresses: firstMatches(addressPattern, text, maxContactMatches),
		Hours:     findHours(text),
		Services:  findServices(text),
	}
	facts.OwnerName, facts.OwnerTitle = findOwner(pages)
	return facts
}

// firstMatches returns the first limit distinct matches of pattern in
// text, in order of occurrence.
func firstMatches(pattern *regexp.Regexp, text string, limit int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range pattern.FindAllString(text, -1) {
		m = strings.TrimSpace(m)
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
		if len(out) == limit {
			break
		}
	}
	return out
}

func findHours(text string) string {
	loc := hoursPattern.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	window := []rune(text[loc[0]:])
	if len(window) > maxHoursLen {
		window = window[:maxHoursLen]
	}
	return strings.TrimSpace(string(window))
}

func findServices(text string) []string {
	var services []string
	for _, sp := range servicePatterns {
		if len(services) == maxServices {
			break
		}
		if sp.pattern.MatchString(text) {
			services = append(services, sp.label)
		}
	}
	return services
}

type ownerCandidate struct {
	name  string
	title string
	score int
	pos   int
}

// findOwner picks the best-scoring owner candidate across all pages.
// Each match scores a fixed +8, +10 when the page URL looks like an
// about/team/contact page, and -5 when it looks like a blog post. Ties
// keep the earliest candidate.
func findOwner(pages []*Page) (name, title string) {
	best := ownerCandidate{score: -1}
	for _, p := range pages {
		for _, cand := range ownerCandidates(p) {
			if cand.score > best.score {
				best = cand
			}
		}
	}
	if best.score < 0 {
		return "", ""
	}
	return best.name, best.title
}

func ownerCandidates(p *Page) []ownerCandidate {
	text := p.Title + " " + p.Content
	bonus := ownerURLScore(p.URL)

	var cands []ownerCandidate
	for _, m := range scanMatches(nameRolePattern, text) {
		first, last := text[m[2]:m[3]], text[m[4]:m[5]]
		if !validOwnerName(text, first, last, m[2], m[5]) {
			continue
		}
		cands = append(cands, ownerCandidate{
			name:  first + " " + last,
			title: strings.ToLower(text[m[6]:m[7]]),
			score: 8 + bonus,
			pos:   m[2],
		})
	}
	for _, m := range scanMatches(roleNamePattern, text) {
		first, last := text[m[4]:m[5]], text[m[6]:m[7]]
		if !validOwnerName(text, first, last, m[4], m[7]) {
			continue
		}
		cands = append(cands, ownerCandidate{
			name:  first + " " + last,
			title: strings.ToLower(text[m[2]:m[3]]),
			score: 8 + bonus,
			pos:   m[0],
		})
	}

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].pos < cands[j].pos })
	return cands
}

// scanMatches finds submatch index sets like FindAllStringSubmatchIndex
// but advances only past the first captured group after each match, so
// candidates overlapping a rejected match are still found. Without this
// a leading capitalized word (a page title glued onto content) would
// swallow the real name into one discarded match.
func scanMatches(re *regexp.Regexp, text string) [][]int {
	var out [][]int
	pos := 0
	for pos < len(text) {
		m := re.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			break
		}
		for i, v := range m {
			if v >= 0 {
				m[i] = v + pos
			}
		}
		out = append(out, m)
		next := m[3]
		if next <= pos {
			next = pos + 1
		}
		pos = next
	}
	return out
}

// validOwnerName rejects pairs that are part of a longer title-case run
// (three-token names, business names) or contain denylisted words.
func validOwnerName(text, first, last string, start, end int) bool {
	if nameDenylist[strings.ToLower(first)] || nameDenylist[strings.ToLower(last)] {
		return false
	}
	if m := titleTokenBeforePattern.FindStringSubmatch(text[:start]); m != nil {
		if !nameDenylist[strings.ToLower(m[1])] {
			return false
		}
	}
	if m := titleTokenAfterPattern.FindStringSubmatch(text[end:]); m != nil {
		if !nameDenylist[strings.ToLower(m[1])] {
			return false
		}
	}
	return true
}

func ownerURLScore(url string) int {
	u := strings.ToLower(url)
	score := 0
	if strings.Contains(u, "about") || strings.Contains(u, "team") || strings.Contains(u, "contact") {
		score += 10
	}
	if strings.Contains(u, "blog") {
		score -= 5
	}
	return score
}
