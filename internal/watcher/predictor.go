package watcher

import (
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPredictions are offered when no site rule applies.
var DefaultPredictions = []string{"Smart assistant", "Content generator", "Productivity booster"}

// SiteInfo describes the recognised site.
type SiteInfo struct {
	Site       string `json:"site"`
	Activity   string `json:"activity"`
	Confidence int    `json:"confidence"`
}

var unknownSite = SiteInfo{Site: "Unknown", Activity: "General Browsing", Confidence: 60}

// page is a PageContext prepared for matching.
type page struct {
	ctx    PageContext
	title  string // lowercase
	raw    string // lowercase URL
	host   string
	target string // host + path, lowercase
	u      *url.URL
}

func newPage(pc PageContext) page {
	p := page{ctx: pc, title: strings.ToLower(pc.Title), raw: strings.ToLower(pc.URL)}
	u, err := url.Parse(strings.TrimSpace(pc.URL))
	if err != nil || u.Host == "" {
		return p
	}
	p.u = u
	p.host = strings.ToLower(u.Hostname())
	p.target = p.host + strings.ToLower(strings.TrimSuffix(u.Path, "/"))
	return p
}

// rule matches when every non-empty condition holds. Within a condition
// any entry may match.
type rule struct {
	paths    []string // doublestar globs over host+path
	urlHas   []string // substrings of the lowercase URL
	titleHas []string // substrings of the lowercase title
	predict  func(page) []string
}

func (r rule) matches(p page) bool {
	if len(r.paths) > 0 && !anyGlob(r.paths, p.target) {
		return false
	}
	if len(r.urlHas) > 0 && !anyContains(p.raw, r.urlHas) {
		return false
	}
	if len(r.titleHas) > 0 && !anyContains(p.title, r.titleHas) {
		return false
	}
	return true
}

type site struct {
	info     SiteInfo
	hosts    []string // doublestar globs over the host
	rules    []rule
	fallback []string
}

func fixed(predictions ...string) func(page) []string {
	return func(page) []string { return predictions }
}

// Predictor maps a page context to a short list of suggested artifacts
// using a fixed site rule table. It is stateless and safe for concurrent
// use.
type Predictor struct {
	sites []site
}

// NewPredictor creates a predictor with the built-in site table.
func NewPredictor() *Predictor {
	return &Predictor{sites: defaultSites()}
}

// Predict returns the suggestions for pc.
func (p *Predictor) Predict(pc PageContext) []string {
	pg := newPage(pc)
	s, ok := p.match(pg)
	if !ok {
		return append([]string(nil), DefaultPredictions...)
	}
	for _, r := range s.rules {
		if r.matches(pg) {
			return r.predict(pg)
		}
	}
	if len(s.fallback) > 0 {
		return append([]string(nil), s.fallback...)
	}
	return append([]string(nil), DefaultPredictions...)
}

// SiteInfo describes the site pc is on.
func (p *Predictor) SiteInfo(pc PageContext) SiteInfo {
	if s, ok := p.match(newPage(pc)); ok {
		return s.info
	}
	return unknownSite
}

func (p *Predictor) match(pg page) (site, bool) {
	if pg.host == "" {
		return site{}, false
	}
	for _, s := range p.sites {
		if anyGlob(s.hosts, pg.host) {
			return s, true
		}
	}
	return site{}, false
}

func defaultSites() []site {
	return []site{
		{
			info:  SiteInfo{Site: "Gmail", Activity: "Email Management", Confidence: 95},
			hosts: []string{"mail.google.com", "gmail.com", "*.gmail.com"},
			rules: []rule{
				{urlHas: []string{"compose"}, predict: fixed("Email templates", "Professional signatures", "Meeting scheduler")},
				{titleHas: []string{"compose"}, predict: fixed("Email templates", "Professional signatures", "Meeting scheduler")},
				{titleHas: []string{"inbox"}, predict: fixed("Email organizer", "Auto-responder", "Priority sorter")},
			},
			fallback: []string{"Email templates", "Meeting agenda", "Calendar invite"},
		},
		{
			info:  SiteInfo{Site: "GitHub", Activity: "Code Development", Confidence: 92},
			hosts: []string{"github.com", "*.github.com"},
			rules: []rule{
				{paths: []string{"*github.com/*/*/issues", "*github.com/*/*/issues/**"}, predict: fixed("Bug report template", "Issue tracker", "Project roadmap")},
				{paths: []string{"*github.com/*/*/pull/**", "*github.com/*/*/pulls"}, predict: fixed("Code review checklist", "PR template", "Merge guidelines")},
				{paths: []string{"*github.com/*/*/{blob,tree}/**"}, predict: fixed("Code documentation", "README generator", "API docs")},
			},
			fallback: []string{"Code templates", "Project structure", "Deployment guide"},
		},
		{
			info:  SiteInfo{Site: "Wikipedia", Activity: "Research & Learning", Confidence: 88},
			hosts: []string{"wikipedia.org", "*.wikipedia.org"},
			rules: []rule{{predict: wikipediaPredictions}},
		},
		{
			info:  SiteInfo{Site: "YouTube", Activity: "Video Learning", Confidence: 85},
			hosts: []string{"youtube.com", "*.youtube.com"},
			rules: []rule{
				{paths: []string{"*youtube.com/watch"}, titleHas: []string{"macbook", " mac "}, predict: fixed("MacBook specs guide", "Price comparison chart", "Review summary")},
				{paths: []string{"*youtube.com/watch"}, titleHas: []string{"iphone"}, predict: fixed("iPhone comparison", "Feature breakdown", "Best deals finder")},
				{paths: []string{"*youtube.com/watch"}, titleHas: []string{"tutorial", "code"}, predict: fixed("Tutorial notes", "Code examples", "Practice exercises")},
				{paths: []string{"*youtube.com/watch"}, predict: fixed("Video notes", "Transcript summary", "Learning checklist")},
				{paths: []string{"*youtube.com/playlist"}, predict: fixed("Course outline", "Progress tracker", "Study schedule")},
			},
			fallback: []string{"Learning notes", "Video summary", "Practice exercises"},
		},
		{
			info:  SiteInfo{Site: "Amazon", Activity: "Shopping Research", Confidence: 82},
			hosts: []string{"amazon.*", "*.amazon.*"},
			rules: []rule{
				{paths: []string{"*amazon.*/**/dp/**", "*amazon.*/gp/product/**"}, predict: fixed("Price tracker", "Product comparison", "Review analyzer")},
			},
			fallback: []string{"Shopping list", "Budget planner", "Deal finder"},
		},
		{
			info:     SiteInfo{Site: "LinkedIn", Activity: "Professional Networking", Confidence: 80},
			hosts:    []string{"linkedin.com", "*.linkedin.com"},
			fallback: []string{"Profile optimizer", "Connection templates", "Job tracker"},
		},
		{
			info:     SiteInfo{Site: "Twitter", Activity: "Social Media", Confidence: 78},
			hosts:    []string{"twitter.com", "*.twitter.com", "x.com", "*.x.com"},
			fallback: []string{"Tweet scheduler", "Thread planner", "Engagement tracker"},
		},
		{
			info:     SiteInfo{Site: "Stack Overflow", Activity: "Problem Solving", Confidence: 80},
			hosts:    []string{"stackoverflow.com", "*.stackoverflow.com"},
			fallback: []string{"Code solution", "Debug helper", "Learning path"},
		},
		{
			info:  SiteInfo{Site: "Google Search", Activity: "Searching", Confidence: 75},
			hosts: []string{"google.*", "www.google.*"},
			rules: []rule{{paths: []string{"*google.*/search"}, predict: searchPredictions}},
		},
	}
}

func wikipediaPredictions(p page) []string {
	topic := "Topic"
	if p.u != nil {
		if rest, ok := strings.CutPrefix(p.u.Path, "/wiki/"); ok && rest != "" {
			topic = strings.ReplaceAll(rest, "_", " ")
		}
	}
	return []string{topic + " study guide", topic + " flashcards", topic + " timeline"}
}

func searchPredictions(p page) []string {
	term := "search"
	if p.u != nil {
		if q := strings.TrimSpace(p.u.Query().Get("q")); q != "" {
			term = q
		}
	}
	if strings.Contains(strings.ToLower(term), "macbook") {
		return []string{"MacBook buying guide", "Specs comparison", "Best deals"}
	}
	return []string{term + " research guide", "Summary notes", "Action plan"}
}

func anyGlob(patterns []string, s string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, s); ok {
			return true
		}
	}
	return false
}

func anyContains(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
