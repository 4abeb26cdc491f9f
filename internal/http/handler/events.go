package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"leaveapi/internal/notify"
)

// EventSource is the subscription side of the notification hub.
type EventSource interface {
	Subscribe() *notify.Subscription
	Unsubscribe(sub *notify.Subscription)
}

// Events godoc
// @Summary Server-sent stream of leave request changes
// @Description Emits "demande_updated" and "deleted" events. No replay.
// @Tags events
// @Produce text/event-stream
// @Success 200 {string} string
// @Router /events [get]
func Events(src EventSource, heartbeat time.Duration) fiber.Handler {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		sub := src.Subscribe()
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer src.Unsubscribe(sub)

			ticker := time.NewTicker(heartbeat)
			defer ticker.Stop()

			fmt.Fprint(w, ": connected\n\n")
			if err := w.Flush(); err != nil {
				return
			}
			for {
				select {
				case ev, ok := <-sub.Events():
					if !ok {
						return
					}
					payload, err := json.Marshal(ev)
					if err != nil {
						continue
					}
					fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
				case <-ticker.C:
					fmt.Fprint(w, ": ping\n\n")
				}
				// A failed flush means the client went away.
				if err := w.Flush(); err != nil {
					return
				}
			}
		})
		return nil
	}
}
