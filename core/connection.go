package core

import (
	"net"
	"strconv"

	"golang.org/x/sys/unix"
)

// Connection owns one accepted socket. Ownership moves Accepted -> Queued
// -> InService -> Closed; it transfers through the queue exactly once, so
// at most one worker ever touches a given connection.
type Connection struct {
	FD   int
	Peer string
}

// Close releases the socket. Safe to call on every exit path.
func (c *Connection) Close() {
	if c.FD >= 0 {
		unix.Close(c.FD)
		c.FD = -1
	}
}

// peerString formats the remote address of an accepted socket.
func peerString(sa unix.Sockaddr) string {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return net.IP(a.Addr[:]).String() + ":" + strconv.Itoa(a.Port)
	case *unix.SockaddrInet6:
		return "[" + net.IP(a.Addr[:]).String() + "]:" + strconv.Itoa(a.Port)
	default:
		return "unknown"
	}
}
