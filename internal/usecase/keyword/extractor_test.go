package keyword

import (
	"context"
	"testing"

	"github.com/kailas-cloud/ragpipe/internal/domain"
)

func TestExtract_RanksByFrequency(t *testing.T) {
	e := NewExtractor(3)

	res, err := e.Extract(context.Background(), "risk risk compliance risk jurisdiction compliance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"risk", "compliance", "jurisdiction"}
	if len(res.Keywords) != len(want) {
		t.Fatalf("keywords: got %v, want %v", res.Keywords, want)
	}
	for i, kw := range want {
		if res.Keywords[i] != kw {
			t.Errorf("keyword %d: got %q, want %q", i, res.Keywords[i], kw)
		}
	}
}

func TestExtract_TieBreaksByFirstOccurrence(t *testing.T) {
	e := NewExtractor(0)

	res, err := e.Extract(context.Background(), "offshore wealth offshore wealth transaction")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Keywords[0] != "offshore" || res.Keywords[1] != "wealth" {
		t.Errorf("tie break: got %v, want offshore before wealth", res.Keywords)
	}
}

func TestExtract_DropsStopWordsAndShortTokens(t *testing.T) {
	e := NewExtractor(0)

	res, err := e.Extract(context.Background(), "the risk of an ab transaction is high")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, kw := range res.Keywords {
		switch kw {
		case "the", "of", "an", "is", "ab":
			t.Errorf("stop word or short token survived: %q", kw)
		}
	}
}

func TestExtract_Entities(t *testing.T) {
	e := NewExtractor(0)

	res, err := e.Extract(context.Background(),
		"Mr James Anderson opened an account with Quantum Holdings Ltd yesterday")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var person, org bool
	for _, ent := range res.Entities {
		if ent.Type == domain.EntityPerson {
			person = true
		}
		if ent.Type == domain.EntityOrganization {
			org = true
		}
	}
	if !person {
		t.Errorf("no person entity in %v", res.Entities)
	}
	if !org {
		t.Errorf("no organization entity in %v", res.Entities)
	}
}

func TestExtract_DomainTags(t *testing.T) {
	e := NewExtractor(0)

	res, err := e.Extract(context.Background(), "offshore transaction risk and compliance review")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]bool{"risk": false, "compliance": false, "jurisdiction": false, "transaction": false}
	for _, tag := range res.DomainTags {
		if _, ok := want[tag]; ok {
			want[tag] = true
		}
	}
	for tag, seen := range want {
		if !seen {
			t.Errorf("missing domain tag %q in %v", tag, res.DomainTags)
		}
	}
}

func TestExtract_MaxKeywordsCap(t *testing.T) {
	e := NewExtractor(2)

	res, err := e.Extract(context.Background(), "alpha beta gamma delta epsilon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Keywords) != 2 {
		t.Errorf("cap: got %d keywords, want 2", len(res.Keywords))
	}
}
