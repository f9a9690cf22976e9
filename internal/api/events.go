package api

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/ysdkhr/tubebox/internal/app/notification"
	"github.com/ysdkhr/tubebox/internal/app/store"
)

// NoticeData carries a user-facing notice message
type NoticeData struct {
	Message string `json:"message"`
}

// EventsHandler handles the server-sent event stream
type EventsHandler struct {
	store    *store.Store
	notifier *notification.Manager
}

// NewEventsHandler creates a new events handler instance
func NewEventsHandler(st *store.Store, notifier *notification.Manager) *EventsHandler {
	return &EventsHandler{store: st, notifier: notifier}
}

// Stream handles GET /api/events. It subscribes the client to the
// notification manager and relays messages as server-sent events until
// the client disconnects.
func (h *EventsHandler) Stream(c *gin.Context) {
	id, ch := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(id)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// Initial full state so a new client does not wait for the next change.
	c.SSEvent("playerState", toPlayerStateResponse(h.store.Snapshot()))
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(msg.Type, msg)
			return true
		case <-clientGone:
			return false
		}
	})
}

// RunEventPump forwards playback store events to the notification manager.
// It returns when the store's event channel closes.
func RunEventPump(st *store.Store, notifier *notification.Manager) {
	for e := range st.Events() {
		switch e.Type {
		case store.EventNotice:
			notifier.Broadcast(notification.Message{Type: "notice", Data: NoticeData{Message: e.Notice}})
		case store.EventTrackStarted:
			var entry *QueueEntryResponse
			if e.Entry != nil {
				r := toQueueEntryResponse(*e.Entry)
				entry = &r
			}
			notifier.Broadcast(notification.Message{Type: "trackStarted", Data: entry})
		case store.EventPlaybackStopped:
			notifier.Broadcast(notification.Message{Type: "playbackStopped"})
		case store.EventStateChanged:
			notifier.Broadcast(notification.Message{Type: "playerState", Data: toPlayerStateResponse(st.Snapshot())})
		}
	}
}

// SetupEventRoutes registers the event stream route
func SetupEventRoutes(apiGroup *gin.RouterGroup, st *store.Store, notifier *notification.Manager) {
	handler := NewEventsHandler(st, notifier)
	apiGroup.GET("/events", handler.Stream)
}
