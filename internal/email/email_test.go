package email

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSender_Send(t *testing.T) {
	sender := NewLogSender(slog.Default())

	err := sender.Send(context.Background(), Message{
		To:      "coach@example.com",
		Subject: "Hello",
		HTML:    "<p>Hi</p>",
	})
	assert.NoError(t, err)
}

func TestInviteMessage(t *testing.T) {
	msg := InviteMessage("new@example.com", "Alex <script>", "MoveLog Server", "https://example.com/claim?code=inv-abc")

	assert.Equal(t, "new@example.com", msg.To)
	assert.Contains(t, msg.Subject, "MoveLog Server")
	assert.Contains(t, msg.HTML, "https://example.com/claim?code=inv-abc")
	// Names are escaped.
	require.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
}

func TestPasswordResetMessage(t *testing.T) {
	msg := PasswordResetMessage("coach@example.com", "MoveLog Server", "https://example.com/reset?token=xyz")

	assert.Equal(t, "coach@example.com", msg.To)
	assert.Contains(t, msg.Subject, "Reset")
	assert.Contains(t, msg.HTML, "https://example.com/reset?token=xyz")
}
