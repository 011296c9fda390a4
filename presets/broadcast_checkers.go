package presets

import "github.com/refractorgscm/squadrcon/packet"

// ChatBroadcastChecker treats every chat type packet as a broadcast. Squad pushes chat and admin broadcasts this way.
func ChatBroadcastChecker(p *packet.Packet) bool {
	return p.Type == packet.TypeChat
}
