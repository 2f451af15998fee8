package tools

import (
	"context"
	"fmt"
	"strings"
)

// OCRTool simulates text extraction from document images. A real deployment
// would call a managed OCR service; the mock keys canned text off the
// document path so workflows stay deterministic.
type OCRTool struct{}

// NewOCRTool creates the mock OCR scanner.
func NewOCRTool() *OCRTool { return &OCRTool{} }

// Schema implements Tool.
func (t *OCRTool) Schema() Schema {
	return Schema{
		Name:        "ocr_document_scanner",
		Description: "Extracts text from document images or PDFs using OCR technology",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"document_path": map[string]any{
					"type":        "string",
					"description": "Path to the document file (image or PDF)",
				},
				"language": map[string]any{
					"type":        "string",
					"description": "Document language (default: 'en')",
					"default":     "en",
				},
			},
			"required": []string{"document_path"},
		},
	}
}

// Execute implements Tool.
func (t *OCRTool) Execute(_ context.Context, params map[string]any) (map[string]any, error) {
	path, ok := params["document_path"].(string)
	if !ok || path == "" {
		return nil, fmt.Errorf("document_path is required")
	}
	language, _ := params["language"].(string)
	if language == "" {
		language = "en"
	}

	text := mockText(path)

	return map[string]any{
		"document_path":  path,
		"language":       language,
		"extracted_text": text,
		"page_count":     1,
		"confidence":     0.95,
	}, nil
}

func mockText(path string) string {
	p := strings.ToLower(path)
	switch {
	case strings.Contains(p, "passport"):
		return ocrPassport
	case strings.Contains(p, "bank"), strings.Contains(p, "statement"):
		return ocrBankStatement
	case strings.Contains(p, "kyc"), strings.Contains(p, "form"):
		return ocrKYCForm
	default:
		return ocrDefault
	}
}

const ocrPassport = `PASSPORT
Surname: ANDERSON
Given Names: JAMES ROBERT
Nationality: UNITED KINGDOM
Date of Birth: 15 MAR 1985
Place of Birth: LONDON, UK
Passport No: 512789456
Date of Issue: 01 JAN 2020
Date of Expiry: 01 JAN 2030
Authority: UK PASSPORT SERVICE`

const ocrBankStatement = `PRIVATE BANKING STATEMENT
Account Holder: James R. Anderson
Account Number: ****7890
Statement Period: October 2024

SUMMARY:
Opening Balance: £2,450,000.00
Total Credits: £850,000.00
Total Debits: £320,000.00
Closing Balance: £2,980,000.00

TRANSACTIONS:
01 Oct - Wire Transfer (Credit) - £500,000.00 - Tech Startup Investment Exit
05 Oct - Wire Transfer (Debit) - £120,000.00 - Property Purchase Deposit
12 Oct - Dividend (Credit) - £350,000.00 - Portfolio Holdings
20 Oct - Wire Transfer (Debit) - £200,000.00 - Charity Foundation Donation`

const ocrKYCForm = `KNOW YOUR CLIENT (KYC) FORM

Client Information:
Full Name: James Robert Anderson
Date of Birth: 15 March 1985
Nationality: British
Residency: Monaco
Tax ID: UK-NI-AB123456C

Source of Wealth:
- Technology company sale (2020): £15M
- Investment portfolio returns: £5M annually
- Angel investments: 12 startups

Business Activities:
- Private equity investor
- Technology sector advisor
- Board member: 3 tech startups

Expected Transaction Volume:
- £1M - £5M per month
- Purpose: Investments, wealth management

Risk Factors:
- Multiple jurisdictions (UK, Monaco, Switzerland)
- High-value transactions
- Tech sector focus (medium volatility)`

const ocrDefault = `[OCR Extracted Text]

Simulated OCR extraction result.

Document appears to contain:
- Personal identification information
- Financial transaction records
- Business registration details
- Compliance documentation`
