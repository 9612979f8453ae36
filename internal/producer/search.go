package producer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/model"
	"github.com/sells-group/leadqual/internal/network"
	"github.com/sells-group/leadqual/pkg/serper"
)

// signalQuery is one templated search per signal type. Keywords found in the
// result text are recorded as evidence for the confidence bookkeeping.
type signalQuery struct {
	signalType string
	template   string // %s is the company name
	keywords   []string
}

var positiveQueries = []signalQuery{
	{"funding_round", `"%s" funding round raised`, []string{"funding", "raised", "series", "seed", "investment", "round"}},
	{"hiring_activity", `"%s" hiring jobs open positions`, []string{"hiring", "jobs", "positions", "careers", "recruiting"}},
	{"expansion", `"%s" expansion new office market`, []string{"expansion", "office", "market", "launch", "growth"}},
	{"executive_hire", `"%s" appoints new chief executive`, []string{"appoints", "joins", "chief", "executive", "hire"}},
	{"product_launch", `"%s" launches new product`, []string{"launches", "launch", "product", "release", "unveils"}},
}

var negativeQueries = []signalQuery{
	{"layoffs", `"%s" layoffs job cuts`, []string{"layoffs", "cuts", "redundancies", "restructuring", "downsizing"}},
	{"litigation", `"%s" lawsuit legal dispute`, []string{"lawsuit", "sued", "litigation", "court", "dispute"}},
	{"regulatory_investigation", `"%s" regulator investigation probe`, []string{"investigation", "probe", "regulator", "fine", "inquiry"}},
	{"delisting_notice", `"%s" delisting stock exchange notice`, []string{"delisting", "delisted", "exchange", "notice", "compliance"}},
	{"financial_distress", `"%s" losses bankruptcy insolvency`, []string{"losses", "bankruptcy", "insolvency", "debt", "default"}},
}

// sourceSlugs maps result hosts to the source labels the validator's
// credibility lists use.
var sourceSlugs = map[string]string{
	"techcrunch.com": "techcrunch",
	"crunchbase.com": "crunchbase",
	"sec.gov":        "sec_filing",
	"f6s.com":        "f6s",
	"startbase.com":  "startbase",
	"xing.com":       "xing",
	"wellfound.com":  "wellfound",
	"builtin.com":    "builtin",
	"semrush.com":    "semrush",
}

// SearchDetector discovers candidate signals through web search. One query
// per signal type; each organic hit becomes one candidate.
type SearchDetector struct {
	client     serper.Client
	maxResults int
	now        func() time.Time
}

// NewSearchDetector returns a SearchDetector taking up to maxResults organic
// hits per query (default 3).
func NewSearchDetector(client serper.Client, maxResults int) *SearchDetector {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &SearchDetector{client: client, maxResults: maxResults, now: time.Now}
}

// Detect runs the polarity's query set. Individual query failures are logged
// and skipped; the error return is reserved for a fully failed sweep so the
// pipeline can degrade to an empty candidate list.
func (d *SearchDetector) Detect(ctx context.Context, lead model.LeadProfile, polarity model.Polarity) ([]model.CandidateSignal, error) {
	queries := positiveQueries
	if polarity == model.PolarityNegative {
		queries = negativeQueries
	}
	if lead.Company == "" {
		return nil, eris.New("producer: lead has no company name")
	}

	var signals []model.CandidateSignal
	var failures int
	for _, q := range queries {
		resp, err := d.client.Search(ctx, serper.SearchRequest{
			Q:   fmt.Sprintf(q.template, lead.Company),
			Num: d.maxResults,
		})
		if err != nil {
			failures++
			zap.L().Warn("producer: search query failed",
				zap.String("company", lead.Company),
				zap.String("signal_type", q.signalType),
				zap.Error(err),
			)
			continue
		}

		for i, hit := range resp.Organic {
			if i >= d.maxResults {
				break
			}
			signals = append(signals, d.toSignal(q, hit, polarity))
		}
	}

	if failures == len(queries) {
		return nil, eris.Errorf("producer: all %d search queries failed", failures)
	}
	return signals, nil
}

func (d *SearchDetector) toSignal(q signalQuery, hit serper.OrganicResult, polarity model.Polarity) model.CandidateSignal {
	combined := strings.ToLower(hit.Title + " " + hit.Snippet)
	var found []string
	for _, kw := range q.keywords {
		if strings.Contains(combined, kw) {
			found = append(found, kw)
		}
	}

	evidence := map[string]any{
		"title":   hit.Title,
		"snippet": hit.Snippet,
	}
	if len(found) > 0 {
		evidence["detected_keywords"] = found
	}
	if hit.Date != "" {
		evidence["timestamp"] = hit.Date
	}

	return model.CandidateSignal{
		Polarity:    polarity,
		SignalType:  q.signalType,
		Description: hit.Snippet,
		Evidence:    evidence,
		Source:      sourceSlug(hit.Link),
		SourceURL:   hit.Link,
		DetectedAt:  d.now().UTC().Format(time.RFC3339),
	}
}

// sourceSlug maps a result URL to a source label. Known hosts get their
// canonical slug; everything else uses the bare registrable host.
func sourceSlug(link string) string {
	host := network.DomainFromURL(link)
	if host == "" {
		return "web"
	}
	if slug, ok := sourceSlugs[host]; ok {
		return slug
	}
	return host
}
