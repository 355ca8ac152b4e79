// Package cli implements the interactive command surface of the client
// binary. Commands talk to the local data service and the session; the
// sync engine and the chat coordinator run in the background and are
// poked, never driven, from here.
package cli

import (
	"github.com/voyago/tripsync/internal/client/auth"
	"github.com/voyago/tripsync/internal/client/data"
	"github.com/voyago/tripsync/internal/client/iocli"
	"github.com/voyago/tripsync/internal/client/messaging"
	clientsync "github.com/voyago/tripsync/internal/client/sync"
)

type Cli struct {
	io      iocli.IO
	session *auth.Session
	data    *data.Service
	engine  *clientsync.Engine
	chat    *messaging.Coordinator
}

func New(
	io iocli.IO,
	session *auth.Session,
	dataSvc *data.Service,
	engine *clientsync.Engine,
	chat *messaging.Coordinator,
) *Cli {
	return &Cli{
		io:      io,
		session: session,
		data:    dataSvc,
		engine:  engine,
		chat:    chat,
	}
}
