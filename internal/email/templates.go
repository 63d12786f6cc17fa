package email

import (
	"fmt"
	"html"
)

// InviteMessage builds the invite email. claimURL points at the client's
// claim page with the invite code embedded.
func InviteMessage(to, inviterName, serverName, claimURL string) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("You're invited to %s", serverName),
		HTML: fmt.Sprintf(
			`<p>%s invited you to join <strong>%s</strong>.</p>`+
				`<p><a href="%s">Accept the invite</a> to create your account.</p>`+
				`<p>If you weren't expecting this, you can ignore this email.</p>`,
			html.EscapeString(inviterName),
			html.EscapeString(serverName),
			claimURL,
		),
	}
}

// PasswordResetMessage builds the password reset email. resetURL carries the
// single-use token.
func PasswordResetMessage(to, serverName, resetURL string) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Reset your %s password", serverName),
		HTML: fmt.Sprintf(
			`<p>A password reset was requested for your account on <strong>%s</strong>.</p>`+
				`<p><a href="%s">Choose a new password</a>. The link expires in one hour.</p>`+
				`<p>If you didn't request this, you can ignore this email.</p>`,
			html.EscapeString(serverName),
			resetURL,
		),
	}
}
