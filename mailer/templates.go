// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mailer

import (
	"fmt"
	"html"
	"time"

	"github.com/dustin/go-humanize"
)

// TeamInvitation builds the email sent to an address that has no account
// yet. now is passed in so the relative deadline is reproducible.
func TeamInvitation(to, teamName, hackathonName, signupURL string, registrationEnd, now time.Time) Message {
	deadline := humanize.RelTime(registrationEnd, now, "ago", "from now")

	body := fmt.Sprintf(`<p>You have been invited to join <strong>%s</strong> for <strong>%s</strong>.</p>
<p>Create an account with this email address to see the invitation: <a href="%s">%s</a></p>
<p>Registration closes %s (%s).</p>`,
		html.EscapeString(teamName),
		html.EscapeString(hackathonName),
		html.EscapeString(signupURL),
		html.EscapeString(signupURL),
		deadline,
		registrationEnd.UTC().Format("Jan 2, 2006 15:04 MST"),
	)

	return Message{
		To:      to,
		Subject: fmt.Sprintf("Invitation to join %s", teamName),
		HTML:    body,
	}
}
