/*
Package event provides a pub/sub bus for fanning out tool-dispatch
notifications, publishing and subscribing through a watermill gochannel
topic per EventType.

The server publishes one ToolDispatched event per runtime.Dispatch call,
success or failure, with a ToolDispatchedData payload. The SSE endpoint
subscribes to the process-wide bus and streams to each connected client
only the events whose SessionID matches its session.

	bus := event.NewBus()
	unsubscribe := bus.Subscribe(event.ToolDispatched, func(e event.Event) {
		data := e.Data.(event.ToolDispatchedData)
		log.Info("tool dispatched", "tool", data.Tool, "status", data.Status)
	})
	defer unsubscribe()

Publish marshals the event to JSON and routes it through the gochannel;
each subscriber's callback runs in its own delivery goroutine and should
complete quickly.
*/
package event
