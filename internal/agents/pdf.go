package agents

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/flowbit/flowbit/internal/scoring"
)

// DocumentType categorizes the content of a PDF document.
type DocumentType string

const (
	DocInvoice  DocumentType = "invoice"
	DocContract DocumentType = "contract"
	DocReport   DocumentType = "report"
	DocPolicy   DocumentType = "policy"
)

var documentTypeKeywords = scoring.Table[DocumentType]{
	{Category: DocInvoice, Keywords: []string{"invoice", "bill", "payment", "amount", "total", "due date"}},
	{Category: DocContract, Keywords: []string{"agreement", "contract", "terms", "conditions", "parties"}},
	{Category: DocReport, Keywords: []string{"report", "analysis", "findings", "conclusion", "summary"}},
	{Category: DocPolicy, Keywords: []string{"policy", "procedure", "guideline", "rule", "regulation"}},
}

// complianceKeywords is scanned in order; flags preserve this order.
var complianceKeywords = []string{
	"gdpr", "compliance", "regulation", "policy", "standard",
	"requirement", "mandatory", "obligation", "law", "statute",
}

var pdfMagic = []byte("%PDF")

// PDFAgent extracts text from PDF documents, classifies the document type,
// and scans for compliance terms. Extraction never fails outward: anything
// unreadable as a PDF is treated as plain text.
type PDFAgent struct {
	types  scoring.Table[DocumentType]
	logger *slog.Logger
}

// NewPDFAgent creates a PDFAgent with the default document-type table.
func NewPDFAgent(logger *slog.Logger) *PDFAgent {
	return &PDFAgent{
		types:  documentTypeKeywords,
		logger: logger.With("agent", "pdf"),
	}
}

// Process extracts text, determines the document type, and collects
// compliance flags. Documents with compliance hits route to flag_compliance,
// invoices to create_ticket, everything else to generate_summary.
func (a *PDFAgent) Process(content []byte) Result {
	text, pageCount := a.extractText(content)

	docType := a.types.ArgMax(text)
	flags := checkCompliance(text)

	data := map[string]any{
		"text":             text,
		"document_type":    string(docType),
		"compliance_flags": flags,
	}
	if pageCount > 0 {
		data["page_count"] = pageCount
	}

	return Result{
		Success:    true,
		Message:    "PDF processed successfully",
		Data:       data,
		NextAction: pdfAction(docType, flags),
	}
}

// extractText sniffs the PDF magic header: content without it is already
// text. Parse failures fall back to the raw bytes verbatim.
func (a *PDFAgent) extractText(raw []byte) (string, int) {
	if !bytes.HasPrefix(raw, pdfMagic) {
		return string(raw), 0
	}

	pageCount, err := api.PageCount(bytes.NewReader(raw), nil)
	if err != nil {
		a.logger.Warn("pdf page count failed, using raw content", "error", err)
		return string(raw), 0
	}

	text, err := extractPDFText(raw)
	if err != nil {
		a.logger.Warn("pdf text extraction failed, using raw content", "error", err)
		return string(raw), pageCount
	}

	return text, pageCount
}

// extractPDFText extracts every page's content into a temp directory and
// concatenates the results with newline separators.
func extractPDFText(raw []byte) (string, error) {
	tempDir, err := os.MkdirTemp("", "flowbit-extract-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tempDir)

	if err := api.ExtractContent(bytes.NewReader(raw), tempDir, "document", nil, nil); err != nil {
		return "", err
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return "", err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sortPageFiles(names)

	var pages []string
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(tempDir, name))
		if err != nil {
			return "", err
		}
		pages = append(pages, string(data))
	}

	return strings.Join(pages, "\n"), nil
}

var pageNumberPattern = regexp.MustCompile(`(\d+)\D*$`)

// sortPageFiles orders extracted page files by their trailing page number,
// so page 2 precedes page 10. Names without one keep lexical order.
func sortPageFiles(names []string) {
	sort.Slice(names, func(i, j int) bool {
		a, b := pageNumber(names[i]), pageNumber(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
}

func pageNumber(name string) int {
	m := pageNumberPattern.FindStringSubmatch(name)
	if m == nil {
		return -1
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func checkCompliance(text string) []string {
	lower := strings.ToLower(text)
	flags := []string{}

	for _, kw := range complianceKeywords {
		if strings.Contains(lower, kw) {
			flags = append(flags, kw)
		}
	}

	return flags
}

func pdfAction(docType DocumentType, flags []string) Action {
	switch {
	case len(flags) > 0:
		return ActionFlagCompliance
	case docType == DocInvoice:
		return ActionCreateTicket
	default:
		return ActionGenerateSummary
	}
}
