package stream

import (
	"bytes"
)

// Engine.IO v4 packet types carrying socket.io packets, as sent by the
// python-socketio backend.
const (
	eioOpen    = '0'
	eioClose   = '1'
	eioPing    = '2'
	eioPong    = '3'
	eioMessage = '4'

	sioConnect      = '0'
	sioDisconnect   = '1'
	sioEvent        = '2'
	sioConnectError = '4'
)

type packetKind int

const (
	packetIgnore packetKind = iota
	packetOpen
	packetPing
	packetClose
	packetConnected
	packetDisconnected
	packetConnectError
	packetEvent
)

// parseEngineIO classifies one websocket text frame. For packetEvent the returned
// body is the JSON array `["name", data]` with namespace and ack id stripped.
func parseEngineIO(frame []byte) (packetKind, []byte) {
	if len(frame) == 0 {
		return packetIgnore, nil
	}
	switch frame[0] {
	case eioOpen:
		return packetOpen, frame[1:]
	case eioPing:
		return packetPing, nil
	case eioClose:
		return packetClose, nil
	case eioPong:
		return packetIgnore, nil
	case eioMessage:
	default:
		return packetIgnore, nil
	}

	if len(frame) < 2 {
		return packetIgnore, nil
	}
	body := frame[2:]
	switch frame[1] {
	case sioConnect:
		return packetConnected, body
	case sioDisconnect:
		return packetDisconnected, body
	case sioConnectError:
		return packetConnectError, body
	case sioEvent:
		i := bytes.IndexByte(body, '[')
		if i < 0 {
			return packetIgnore, nil
		}
		return packetEvent, body[i:]
	default:
		return packetIgnore, nil
	}
}
