package pipeline

import "strings"

type DetectResult struct {
	IsSubmission bool
	Score        float64
	Reason       string
}

var detectKeywords = []string{"usina", "usinas", "gerador", "planilha", "cadastro", "kwp", "solar", "import"}

// DetectPlantSheet scores whether an inbound email is a plant-sheet
// submission at all. Newsletters and plain correspondence are skipped rather
// than imported as garbage rows.
func DetectPlantSheet(subject, text, html string, attachmentNames []string) DetectResult {
	subject = strings.ToLower(subject)
	text = strings.ToLower(text)
	html = strings.ToLower(html)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(subject, kw) {
			score += 0.2
		}
		if strings.Contains(text, kw) || strings.Contains(html, kw) {
			score += 0.1
		}
	}

	for _, name := range attachmentNames {
		ln := strings.ToLower(name)
		if strings.HasSuffix(ln, ".xlsx") || strings.HasSuffix(ln, ".xls") || strings.HasSuffix(ln, ".csv") {
			score += 0.25
			break
		}
	}

	if strings.Contains(html, "<table") {
		score += 0.25
	}
	if score > 1 {
		score = 1
	}

	isSubmission := score >= 0.45
	reason := "rules_negative"
	if isSubmission {
		reason = "rules_positive"
	}

	return DetectResult{IsSubmission: isSubmission, Score: score, Reason: reason}
}
