// Package corpus provides the retrieval universe: a fixed set of compliance
// case documents seeded at startup. In production an ingestion pipeline would
// populate this; the mock corpus keeps the demo self-contained.
package corpus

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/ragpipe/internal/domain"
)

// Provider exposes the document collection with stable ids.
type Provider interface {
	ListDocuments() []domain.Document
}

// Static is an in-memory Provider. Documents are embedded once during
// construction and immutable afterwards, so ListDocuments can hand out the
// shared slice to concurrent queries.
type Static struct {
	docs []domain.Document
}

// embedder is the consumer interface for corpus construction.
type embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// NewStatic embeds the seed documents with emb. Content drives the embedding,
// matching how queries are embedded at search time.
func NewStatic(ctx context.Context, emb embedder, seed []domain.Document) (*Static, error) {
	docs := make([]domain.Document, len(seed))
	for i, d := range seed {
		res, err := emb.Embed(ctx, d.Content)
		if err != nil {
			return nil, fmt.Errorf("embed corpus document %s: %w", d.ID, err)
		}
		d.Embedding = res.Embedding
		if err := d.Validate(); err != nil {
			return nil, err
		}
		docs[i] = d
	}
	return &Static{docs: docs}, nil
}

// ListDocuments returns the shared read-only document slice.
func (s *Static) ListDocuments() []domain.Document { return s.docs }

// Len returns the corpus size.
func (s *Static) Len() int { return len(s.docs) }

// SeedDocuments returns the fixed compliance case corpus, without embeddings.
func SeedDocuments() []domain.Document {
	return []domain.Document{
		{
			ID:       "doc_001",
			Title:    "High Net Worth Individual KYC Case - Technology Sector",
			Content:  "Client is a technology entrepreneur with verified wealth from startup exit. Multiple jurisdictions including UK, Singapore. Clean compliance record.",
			Keywords: []string{"technology", "entrepreneur", "high-net-worth", "uk", "singapore", "clean"},
			Metadata: map[string]string{"case_type": "KYC", "risk_level": "Low", "date": "2024-Q1"},
		},
		{
			ID:       "doc_002",
			Title:    "Monaco Resident Private Equity Investor Review",
			Content:  "Private equity fund manager based in Monaco. High transaction volume due to fund operations. Enhanced due diligence completed satisfactorily.",
			Keywords: []string{"monaco", "private-equity", "fund", "enhanced-due-diligence", "high-volume"},
			Metadata: map[string]string{"case_type": "Annual Review", "risk_level": "Medium", "date": "2024-Q2"},
		},
		{
			ID:       "doc_003",
			Title:    "Offshore Structure Compliance Analysis",
			Content:  "Complex offshore corporate structure with entities in Cayman Islands and BVI. Beneficial ownership fully disclosed. Higher monitoring required.",
			Keywords: []string{"offshore", "cayman", "bvi", "corporate-structure", "beneficial-ownership"},
			Metadata: map[string]string{"case_type": "Enhanced DD", "risk_level": "Medium", "date": "2024-Q2"},
		},
		{
			ID:       "doc_004",
			Title:    "Real Estate Investment Portfolio Assessment",
			Content:  "Real estate investor with diversified portfolio across Europe. Transparent fund flows. Standard risk profile.",
			Keywords: []string{"real-estate", "investment", "europe", "diversified", "transparent"},
			Metadata: map[string]string{"case_type": "KYC", "risk_level": "Low", "date": "2024-Q3"},
		},
		{
			ID:       "doc_005",
			Title:    "Cryptocurrency Trading Platform Founder Review",
			Content:  "Founder of licensed cryptocurrency exchange. Significant crypto holdings. Enhanced monitoring for regulatory changes in digital asset space.",
			Keywords: []string{"cryptocurrency", "exchange", "digital-assets", "founder", "licensed"},
			Metadata: map[string]string{"case_type": "Enhanced DD", "risk_level": "Medium", "date": "2024-Q3"},
		},
		{
			ID:       "doc_006",
			Title:    "PEP Family Member Due Diligence",
			Content:  "Family member of PEP with independent wealth sources. Comprehensive background checks completed. Ongoing monitoring recommended.",
			Keywords: []string{"pep", "family-member", "background-check", "monitoring", "independent-wealth"},
			Metadata: map[string]string{"case_type": "PEP Review", "risk_level": "High", "date": "2024-Q1"},
		},
		{
			ID:       "doc_007",
			Title:    "Pharmaceutical Industry Executive Onboarding",
			Content:  "Senior pharmaceutical executive with stock options and annual bonus income. Clean professional background. Standard procedures.",
			Keywords: []string{"pharmaceutical", "executive", "professional", "stock-options", "clean"},
			Metadata: map[string]string{"case_type": "KYC", "risk_level": "Low", "date": "2024-Q2"},
		},
		{
			ID:       "doc_008",
			Title:    "Art Collector and Dealer Compliance Review",
			Content:  "High-value art transactions. Provenance verification required. Cash-intensive business with appropriate controls.",
			Keywords: []string{"art", "collector", "high-value", "cash", "provenance"},
			Metadata: map[string]string{"case_type": "Annual Review", "risk_level": "Medium", "date": "2024-Q3"},
		},
		{
			ID:       "doc_009",
			Title:    "Family Office Wealth Management Setup",
			Content:  "Establishing family office structure for multigenerational wealth. Complex but transparent structure. Standard elite client profile.",
			Keywords: []string{"family-office", "wealth-management", "multigenerational", "elite", "transparent"},
			Metadata: map[string]string{"case_type": "Onboarding", "risk_level": "Low", "date": "2024-Q1"},
		},
		{
			ID:       "doc_010",
			Title:    "Cross-Border Transaction Pattern Analysis",
			Content:  "Increased cross-border wire transfers to emerging markets. Business purpose verified. Enhanced monitoring activated.",
			Keywords: []string{"cross-border", "wire-transfer", "emerging-markets", "monitoring", "verified"},
			Metadata: map[string]string{"case_type": "Transaction Monitoring", "risk_level": "Medium", "date": "2024-Q3"},
		},
	}
}
