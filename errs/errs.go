package errs

import "github.com/pkg/errors"

var (
	// ErrAuthentication is returned when the server rejects the RCON password.
	ErrAuthentication = errors.New("authentication failed")

	// ErrNotConnected is returned when an operation needs a ready connection and there is none.
	ErrNotConnected = errors.New("not connected")

	// ErrDisconnected is returned when the peer closes the connection, including mid-frame.
	ErrDisconnected = errors.New("disconnected")

	ErrMalformedPacket = errors.New("malformed packet")

	// ErrProtocol is returned when the server sends a packet out of the expected sequence, such as a wrong packet
	// type during authentication.
	ErrProtocol = errors.New("protocol error")

	ErrTextDecoding = errors.New("packet body is not valid utf-8")

	// ErrSquadParsing is returned when a command response line matches none of the expected line formats.
	ErrSquadParsing = errors.New("could not parse squad response")
)
