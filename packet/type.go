package packet

// PacketType is the type field of a packet. Some values mean different things depending on direction.
type PacketType int32

const (
	// TypeCommandRes carries command output from the server. It is also the first of the two replies to TypeAuth.
	TypeCommandRes PacketType = 0

	// TypeChat is used by the server for unsolicited chat and broadcast packets.
	TypeChat PacketType = 1

	// TypeCommand carries a command to the server.
	TypeCommand PacketType = 2

	// TypeAuthRes is the server's verdict on a TypeAuth packet. It shares its value with TypeCommand.
	TypeAuthRes PacketType = 2

	TypeAuth PacketType = 3
)

// AuthFailedID is the ID of a TypeAuthRes packet when the password was rejected.
const AuthFailedID = -1
