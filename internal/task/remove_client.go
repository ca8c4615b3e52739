package task

import (
	"github.com/takanopontaro/footloose2/internal/connarg"
	"github.com/takanopontaro/footloose2/internal/watch"
)

// RemoveClient is the internal task ("remove_client") run once a
// connection's WebSocket closes, to unsubscribe it from every directory it
// was watching.
type RemoveClient struct {
	Watch *watch.Manager
}

func (t *RemoveClient) Run(arg *connarg.Arg) error {
	t.Watch.RemoveSubscriber(arg)
	return nil
}
