package workers

import (
	"context"

	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/log"
	"github.com/cbodonnell/rocketjam/pkg/messages"
)

// Deliverer pushes an update to every open stream of a user.
type Deliverer interface {
	Deliver(userID types.UserID, update messages.Update) int
}

// ServerMessageWorker is the single consumer of messages produced by the
// game loop and the action worker. It hands each one to the session manager
// so producers never wait on delivery.
type ServerMessageWorker struct {
	deliverer         Deliverer
	serverMessageChan <-chan messages.ClientMessage
}

type NewServerMessageWorkerOptions struct {
	Deliverer         Deliverer
	ServerMessageChan <-chan messages.ClientMessage
}

func NewServerMessageWorker(opts NewServerMessageWorkerOptions) *ServerMessageWorker {
	return &ServerMessageWorker{
		deliverer:         opts.Deliverer,
		serverMessageChan: opts.ServerMessageChan,
	}
}

func (w *ServerMessageWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.serverMessageChan:
			delivered := w.deliverer.Deliver(msg.UserID, msg.Update)
			log.Trace("Delivered %s to %d streams of user %d", msg.Update.Type, delivered, msg.UserID)
		}
	}
}
