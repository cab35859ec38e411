package handler

import (
	"github.com/panjf2000/gnet/v2"
)

// HandlerFunc processes the bytes read from conn and returns the action the
// event loop should take next.
type HandlerFunc func(conn gnet.Conn, body []byte) gnet.Action

// Echo writes body back to the peer. A failed write closes the connection.
func Echo(conn gnet.Conn, body []byte) gnet.Action {
	if len(body) == 0 {
		return gnet.None
	}
	if _, err := conn.Write(body); err != nil {
		return gnet.Close
	}
	return gnet.None
}
