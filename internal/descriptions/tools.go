package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	CrosstabExtractDescription = `Convert the crosstab tables of a survey-report PDF into a flattened text file.

**When to use:** A PDF holds one crosstab table per page (question, banner, three-row header, data rows) and the tables need to be fed to a language model or a search index.

**Why it's useful:** Merged header cells are carried forward, so every column keeps its full "Category: Sub-category" label, and each page becomes a self-describing block.

**Examples:**
• Convert a tab book: "Extract crosstabs from wave3-tables.pdf"
• Choose the destination: "Extract crosstabs from wave3-tables.pdf into wave3.txt"

**Output:** Writes <name>_for_gpt.txt next to the PDF unless an output path is given, then returns a summary, a preview of the first 2000 characters and the extraction log.

**Best practices:** Run pdf_validate_file first on unknown files; pages without a table are skipped and listed in the log.`

	CrosstabPreviewDescription = `Return the flattened crosstab text of a PDF without writing any file.

**When to use:** Inspect how the tables of a report will be flattened before saving, or read the blocks directly into the conversation.

**Examples:**
• "Show the crosstab blocks of brand-tracker.pdf"
• "Preview question 12 of wave3-tables.pdf"

**Best practices:** Prefer crosstab_extract for large documents; the preview returns the full text.`

	PDFValidateFileDescription = `Verify PDF file integrity and readability before processing.

**When to use:** Before converting any PDF file, especially in automated workflows or when handling uploads.

**Why it's useful:** Identifies corrupted or oversized files early and reports the page count of readable ones.

**Examples:**
• "Check that wave3-tables.pdf is a readable PDF"

**Best practices:** Always run this first in automated workflows.`
)

// Tool names registered by the MCP server
const (
	ToolCrosstabExtract = "crosstab_extract"
	ToolCrosstabPreview = "crosstab_preview"
	ToolPDFValidateFile = "pdf_validate_file"
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ToolCrosstabExtract: CrosstabExtractDescription,
	ToolCrosstabPreview: CrosstabPreviewDescription,
	ToolPDFValidateFile: PDFValidateFileDescription,
}

// GetToolDescription returns the description for a specific tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the registered tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
