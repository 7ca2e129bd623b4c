package service

import (
	"fmt"
	"html"
	"strings"

	"github.com/strauss-analytics/ticket-intake/internal/domain"
)

// emailContent is a composed message before addressing.
type emailContent struct {
	subject string
	text    string
	html    string
}

func adminNewTicketEmail(ticket domain.Ticket, withHTML bool) emailContent {
	text := fmt.Sprintf(`A new data request ticket has been submitted:

Ticket #: %s
Requester: %s (%s)
Department: %s
Request Type: %s
Urgency: %s
Deadline: %s

Description:
%s

Created: %s
`,
		ticket.TicketID, ticket.RequesterName, ticket.RequesterEmail,
		ticket.Department, ticket.RequestType, ticket.Urgency, orDash(ticket.Deadline),
		ticket.Description, ticket.CreatedAt)

	content := emailContent{
		subject: fmt.Sprintf("New Data Request - Ticket #%s", ticket.TicketID),
		text:    text,
	}
	if withHTML {
		content.html = htmlBody("New data request submitted", ticket, [][2]string{
			{"Requester", fmt.Sprintf("%s (%s)", ticket.RequesterName, ticket.RequesterEmail)},
			{"Created", ticket.CreatedAt},
		})
	}
	return content
}

func requesterConfirmationEmail(ticket domain.Ticket, teamName string, withHTML bool) emailContent {
	text := fmt.Sprintf(`Hi %s,

Your data request ticket has been submitted successfully!

Ticket #: %s
Request Type: %s
Urgency: %s
Deadline: %s

Description:
%s

Thank you,
%s
`,
		ticket.RequesterName, ticket.TicketID, ticket.RequestType,
		ticket.Urgency, orDash(ticket.Deadline), ticket.Description, teamName)

	content := emailContent{
		subject: fmt.Sprintf("Ticket Confirmation - #%s", ticket.TicketID),
		text:    text,
	}
	if withHTML {
		content.html = htmlBody("Your ticket has been submitted", ticket, nil)
	}
	return content
}

func statusUpdateEmail(ticket domain.Ticket, patch domain.TicketPatch, teamName string, withHTML bool) emailContent {
	var changes strings.Builder
	if patch.EstimatedHours != nil {
		fmt.Fprintf(&changes, "Estimated Hours: %g\n", *patch.EstimatedHours)
	}
	if patch.ActualHours != nil {
		fmt.Fprintf(&changes, "Actual Hours: %g\n", *patch.ActualHours)
	}
	if patch.Notes != nil && *patch.Notes != "" {
		fmt.Fprintf(&changes, "Notes: %s\n", *patch.Notes)
	}

	text := fmt.Sprintf(`Hello %s,

Your ticket #%s status has been updated to: %s

Department: %s
Request Type: %s
Urgency: %s
Deadline: %s
%s
Description:
%s

If you have any questions, please reply to this email.

Thank you,
%s
`,
		ticket.RequesterName, ticket.TicketID, ticket.Status,
		ticket.Department, ticket.RequestType, ticket.Urgency, orDash(ticket.Deadline),
		changes.String(), ticket.Description, teamName)

	content := emailContent{
		subject: fmt.Sprintf("Ticket Update - #%s - %s", ticket.TicketID, ticket.Status),
		text:    text,
	}
	if withHTML {
		extra := [][2]string{{"Status", string(ticket.Status)}}
		if patch.EstimatedHours != nil {
			extra = append(extra, [2]string{"Estimated Hours", fmt.Sprintf("%g", *patch.EstimatedHours)})
		}
		if patch.ActualHours != nil {
			extra = append(extra, [2]string{"Actual Hours", fmt.Sprintf("%g", *patch.ActualHours)})
		}
		if patch.Notes != nil && *patch.Notes != "" {
			extra = append(extra, [2]string{"Notes", *patch.Notes})
		}
		content.html = htmlBody(fmt.Sprintf("Ticket #%s updated", ticket.TicketID), ticket, extra)
	}
	return content
}

// htmlBody renders the parallel HTML variant: a heading, the shared ticket
// rows, then any message-specific rows.
func htmlBody(heading string, ticket domain.Ticket, extra [][2]string) string {
	rows := [][2]string{
		{"Ticket #", ticket.TicketID},
		{"Department", ticket.Department},
		{"Request Type", ticket.RequestType},
		{"Urgency", ticket.Urgency},
		{"Deadline", orDash(ticket.Deadline)},
	}
	rows = append(rows, extra...)

	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<h2>%s</h2><table>", html.EscapeString(heading))
	for _, row := range rows {
		fmt.Fprintf(&b, "<tr><td><strong>%s</strong></td><td>%s</td></tr>",
			html.EscapeString(row[0]), html.EscapeString(row[1]))
	}
	b.WriteString("</table>")
	fmt.Fprintf(&b, "<p><strong>Description</strong></p><p>%s</p>", html.EscapeString(ticket.Description))
	b.WriteString("</body></html>")
	return b.String()
}

func orDash(val string) string {
	if val == "" {
		return "-"
	}
	return val
}
