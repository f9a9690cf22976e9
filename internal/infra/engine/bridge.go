// Package engine bridges playback commands to the browser-side player.
//
// The actual playback engine is the YouTube iframe player running in the
// client. The server stays authoritative: commands flow out through the
// notification manager and the client reports engine events back over HTTP.
package engine

import (
	zlog "github.com/rs/zerolog/log"

	"github.com/ysdkhr/tubebox/internal/app/notification"
)

// CommandType identifies the message type used for player commands.
const CommandType = "playerCommand"

// Command is a single instruction for the client-side player.
type Command struct {
	Action  string  `json:"action"`
	URL     string  `json:"url,omitempty"`
	QueueID string  `json:"queueId,omitempty"`
	Value   float64 `json:"value,omitempty"`
}

// Bridge relays playback commands to subscribed clients.
type Bridge struct {
	notifier *notification.Manager
}

// NewBridge creates a command bridge on top of the notification manager.
func NewBridge(notifier *notification.Manager) *Bridge {
	return &Bridge{notifier: notifier}
}

// Load instructs the player to load a video. The queue ID tags subsequent
// engine events so stale ones can be discarded.
func (b *Bridge) Load(url, queueID string) {
	b.publish(Command{Action: "load", URL: url, QueueID: queueID})
}

// Play instructs the player to start or resume playback.
func (b *Bridge) Play() {
	b.publish(Command{Action: "play"})
}

// Pause instructs the player to pause playback.
func (b *Bridge) Pause() {
	b.publish(Command{Action: "pause"})
}

// SeekTo instructs the player to seek to a position in seconds.
func (b *Bridge) SeekTo(seconds float64) {
	b.publish(Command{Action: "seekTo", Value: seconds})
}

// SetVolume instructs the player to apply an effective volume in [0, 1].
func (b *Bridge) SetVolume(volume float64) {
	b.publish(Command{Action: "setVolume", Value: volume})
}

func (b *Bridge) publish(cmd Command) {
	zlog.Debug().Str("action", cmd.Action).Str("queueId", cmd.QueueID).Msg("publishing player command")
	b.notifier.Broadcast(notification.Message{Type: CommandType, Data: cmd})
}
