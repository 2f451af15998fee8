// Package keyword implements the keyword stage: rule-based keyword ranking,
// coarse entity extraction and domain tagging. It runs in parallel with the
// embedding stage to feed hybrid retrieval.
package keyword

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/kailas-cloud/ragpipe/internal/domain"
)

// DefaultMaxKeywords bounds the ranked keyword list.
const DefaultMaxKeywords = 20

const maxEntities = 10

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "is": {}, "are": {}, "was": {}, "were": {}, "been": {},
	"be": {}, "have": {}, "has": {}, "had": {}, "do": {}, "does": {},
	"did": {}, "will": {}, "would": {}, "could": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "it": {}, "its": {}, "their": {}, "them": {},
}

// domainCategories maps each domain tag to its seed terms. Iterated in slice
// order so the tag list is deterministic.
var domainCategories = []struct {
	tag   string
	seeds []string
}{
	{"risk", []string{"risk", "high-risk", "low-risk", "medium-risk", "risky"}},
	{"compliance", []string{"compliance", "regulatory", "sanctions", "pep", "aml", "kyc"}},
	{"jurisdiction", []string{"jurisdiction", "offshore", "country", "region"}},
	{"wealth", []string{"wealth", "source of funds", "assets", "income", "capital"}},
	{"transaction", []string{"transaction", "transfer", "payment", "wire"}},
	{"business", []string{"business", "company", "corporate", "entity", "firm"}},
}

var (
	wordRegex   = regexp.MustCompile(`\b[a-z][a-z0-9_-]*\b`)
	entityRegex = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\b`)
)

var (
	orgSuffixes = []string{"Ltd", "Inc", "Corp"}
	honorifics  = []string{"Mr", "Ms", "Dr"}
)

// Extractor is the rule-based keyword stage implementation.
type Extractor struct {
	maxKeywords int
}

// NewExtractor creates a rule-based extractor. maxKeywords <= 0 uses the default.
func NewExtractor(maxKeywords int) *Extractor {
	if maxKeywords <= 0 {
		maxKeywords = DefaultMaxKeywords
	}
	return &Extractor{maxKeywords: maxKeywords}
}

// Extract implements the keyword stage contract. The rule-based path is pure
// string work and never fails.
func (e *Extractor) Extract(_ context.Context, text string) (domain.KeywordResult, error) {
	keywords := e.rankKeywords(text)
	return domain.KeywordResult{
		Keywords:   keywords,
		Entities:   extractEntities(text),
		DomainTags: categorize(keywords),
	}, nil
}

// rankKeywords tokenizes, drops stop words and short tokens, then ranks by
// frequency descending with first-occurrence order breaking ties.
func (e *Extractor) rankKeywords(text string) []string {
	words := wordRegex.FindAllString(strings.ToLower(text), -1)

	counts := make(map[string]int)
	ordered := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := stopWords[w]; stop || len(w) <= 2 {
			continue
		}
		if counts[w] == 0 {
			ordered = append(ordered, w)
		}
		counts[w]++
	}

	// ordered holds first-occurrence order; the stable sort preserves it
	// among equal frequencies.
	sort.SliceStable(ordered, func(i, j int) bool {
		return counts[ordered[i]] > counts[ordered[j]]
	})

	if len(ordered) > e.maxKeywords {
		ordered = ordered[:e.maxKeywords]
	}
	return ordered
}

// extractEntities matches runs of 2-4 capitalized words and classifies them by
// corporate suffix, then honorific, else unknown. Duplicates collapse on exact
// text; the list caps at maxEntities.
func extractEntities(text string) []domain.Entity {
	matches := entityRegex.FindAllString(text, -1)

	seen := make(map[string]struct{}, len(matches))
	entities := make([]domain.Entity, 0, len(matches))
	for _, m := range matches {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}

		entities = append(entities, domain.Entity{Text: m, Type: classifyEntity(m)})
		if len(entities) == maxEntities {
			break
		}
	}
	return entities
}

func classifyEntity(text string) string {
	for _, suffix := range orgSuffixes {
		if strings.Contains(text, suffix) {
			return domain.EntityOrganization
		}
	}
	for _, h := range honorifics {
		if strings.Contains(text, h) {
			return domain.EntityPerson
		}
	}
	return domain.EntityUnknown
}

// categorize tags the keyword set with each domain category whose seed terms
// intersect it. Category order is fixed for deterministic output.
func categorize(keywords []string) []string {
	kwSet := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		kwSet[strings.ToLower(k)] = struct{}{}
	}

	var tags []string
	for _, cat := range domainCategories {
		for _, seed := range cat.seeds {
			if _, ok := kwSet[seed]; ok {
				tags = append(tags, cat.tag)
				break
			}
		}
	}
	return tags
}
