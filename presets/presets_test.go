package presets

import (
	"bytes"
	"encoding/json"
	"github.com/franela/goblin"
	. "github.com/onsi/gomega"
	"github.com/refractorgscm/squadrcon/packet"
	"github.com/rs/zerolog"
	"testing"
)

func Test(t *testing.T) {
	g := goblin.Goblin(t)

	// Special hook for gomega
	RegisterFailHandler(func(m string, _ ...int) { g.Fail(m) })

	g.Describe("ChatBroadcastChecker()", func() {
		g.It("Should accept chat packets", func() {
			Expect(ChatBroadcastChecker(packet.New(5, packet.TypeChat, "[ChatAll] hi"))).To(BeTrue())
		})

		g.It("Should reject command responses", func() {
			Expect(ChatBroadcastChecker(packet.New(5, packet.TypeCommandRes, "hi"))).To(BeFalse())
		})
	})

	g.Describe("ZerologLogger", func() {
		var buf *bytes.Buffer
		var logger *ZerologLogger

		g.BeforeEach(func() {
			buf = &bytes.Buffer{}
			logger = NewZerologLogger(zerolog.New(buf).Level(zerolog.InfoLevel))
		})

		g.It("Should write info messages with the component field", func() {
			logger.Info("Packet ", 5, " received")

			var entry map[string]interface{}
			Expect(json.Unmarshal(buf.Bytes(), &entry)).To(Succeed())
			Expect(entry["level"]).To(Equal("info"))
			Expect(entry["component"]).To(Equal("rcon"))
			Expect(entry["message"]).To(Equal("Packet 5 received"))
		})

		g.It("Should drop debug messages below the configured level", func() {
			logger.Debug("noise")

			Expect(buf.Len()).To(Equal(0))
		})
	})
}
