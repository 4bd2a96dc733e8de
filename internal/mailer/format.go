package mailer

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"trueflow/internal/domain"
)

// Subject builds the notification subject line. Qualification leads the
// subject so hot leads stand out in the inbox.
func Subject(lead *domain.Lead, score int, qualification domain.Qualification) string {
	label := "New Lead"
	if lead.FormType == domain.FormTypeAssessment {
		label = "Assessment Completed"
	}
	return fmt.Sprintf("[%s] %s: %s (%d)", strings.ToUpper(string(qualification)), label, lead.FullName(), score)
}

type emailField struct {
	label string
	value string
}

func leadFields(lead *domain.Lead, score int, qualification domain.Qualification) []emailField {
	fields := []emailField{
		{"Name", lead.FullName()},
		{"Email", lead.Email},
		{"Phone", lead.Phone},
		{"Business", lead.BusinessName},
		{"Business type", lead.BusinessType},
		{"Team size", lead.TeamSize},
		{"Monthly leads", lead.MonthlyLeads},
		{"Plan", lead.PricingPlan},
		{"Current tools", strings.Join(lead.CurrentTools, ", ")},
		{"Main challenge", lead.MainChallenge},
		{"Goals", strings.Join(lead.Goals, ", ")},
		{"Score", fmt.Sprintf("%d (%s)", score, qualification)},
	}

	if lead.FormType == domain.FormTypeAssessment {
		fields = append(fields, emailField{"Assessment score", fmt.Sprintf("%d%%", lead.AssessmentScore)})
		questions := make([]string, 0, len(lead.Answers))
		for question := range lead.Answers {
			questions = append(questions, question)
		}
		sort.Strings(questions)
		for _, question := range questions {
			fields = append(fields, emailField{"Q: " + question, lead.Answers[question]})
		}
	}

	out := fields[:0]
	for _, f := range fields {
		if f.value != "" {
			out = append(out, f)
		}
	}
	return out
}

// TextBody renders the plain-text part.
func TextBody(lead *domain.Lead, score int, qualification domain.Qualification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New %s submission from the website.\n\n", lead.FormType)
	for _, f := range leadFields(lead, score, qualification) {
		fmt.Fprintf(&b, "%s: %s\n", f.label, f.value)
	}
	return b.String()
}

// HTMLBody renders the HTML part. Values are user input and get escaped.
func HTMLBody(lead *domain.Lead, score int, qualification domain.Qualification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>New %s submission</h2>", lead.FormType)
	b.WriteString(`<table cellpadding="4">`)
	for _, f := range leadFields(lead, score, qualification) {
		fmt.Fprintf(&b, "<tr><td><strong>%s</strong></td><td>%s</td></tr>",
			html.EscapeString(f.label), html.EscapeString(f.value))
	}
	b.WriteString("</table>")
	return b.String()
}
