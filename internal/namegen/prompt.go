package namegen

import "fmt"

// Content passed to the model is capped; filenames come from the
// opening of a document, not its tail.
const maxPromptContent = 2000

const formatRules = `Rules:
- Use lowercase letters and underscores only (e.g., 'my_file_name')
- If content contains numbering/sequence (like Lecture 3, Chapter 2, etc.), start with that number
- Be descriptive but concise (under 80 characters)
- Capture the main topic or purpose
- Format: {number}_{descriptive_name} if numbering exists, otherwise just {descriptive_name}
- Do NOT include file extension
- Do NOT include date/time`

// textPrompt builds the naming prompt for extracted text content.
func textPrompt(content, contentType string) string {
	if len(content) > maxPromptContent {
		content = content[:maxPromptContent]
	}
	return fmt.Sprintf(`Based on the following %s content, generate a descriptive and concise filename.

%s

Examples:
- Lecture 3 about Programming -> "3_programming_lecture"
- Quarterly Sales Report Q4 -> "q4_quarterly_sales_report"

Content:
%s

Generate only the filename, nothing else.`, contentType, formatRules, content)
}

// imagePrompt builds the naming prompt for an image passed whole.
func imagePrompt() string {
	return fmt.Sprintf(`Describe this image and generate a descriptive filename.

%s

Examples:
- Photo of Golden Gate Bridge at sunset -> "golden_gate_bridge_sunset"
- Screenshot of Lecture 3 slide -> "3_lecture_programming"
- Diagram showing network architecture -> "network_architecture_diagram"

Generate only the filename, nothing else.`, formatRules)
}

const ocrPrompt = "Extract all text from this document. Return only the extracted text."
