package squad

import (
	"github.com/franela/goblin"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/refractorgscm/squadrcon/errs"
	"strconv"
	"testing"
)

const playersResponse = `----- Active Players -----
ID: 1 | SteamID: 1111 | Name: Alice | Team ID: 1 | Squad ID: 2
ID: 2 | SteamID: 2222 | Name: Bob | Team ID: 2 | Squad ID: N/A
----- Recently Disconnected Players -----
ID: 3 | SteamID: 3333 | Name: Carl | Team ID: 1 | Squad ID: 1
`

const squadsResponse = `----- Active Squads -----
Team ID: 1 (Team Alpha)
ID: 1 | Name: Alpha Squad | Size: 5 | Locked: True
ID: 2 | Name: Armor | Size: 2 | Locked: False
Team ID: 2 (Team Bravo)
ID: 1 | Name: Bravo Squad | Size: 9 | Locked: False | Creator Name: Bob | Creator Steam ID: 2222
`

func intPtr(i int) *int {
	return &i
}

func TestParse(t *testing.T) {
	g := goblin.Goblin(t)

	// Special hook for gomega
	RegisterFailHandler(func(m string, _ ...int) { g.Fail(m) })

	g.Describe("ParsePlayers()", func() {
		g.It("Should parse active players and stop at the disconnected section", func() {
			players, err := ParsePlayers(playersResponse)

			Expect(err).To(BeNil())
			Expect(players).To(Equal([]Player{
				{ID: 1, SteamID: "1111", Name: "Alice", TeamID: 1, SquadID: intPtr(2)},
				{ID: 2, SteamID: "2222", Name: "Bob", TeamID: 2, SquadID: nil},
			}))
		})

		g.It("Should return no players for a banner only response", func() {
			players, err := ParsePlayers("----- Active Players -----")

			Expect(err).To(BeNil())
			Expect(players).To(BeEmpty())
		})

		g.It("Should accept names containing the field separator", func() {
			players, err := ParsePlayers("banner\nID: 7 | SteamID: 76561198000000000 | Name: a | b | Team ID: 1 | Squad ID: 3 | Is Leader: True\r\n")

			Expect(err).To(BeNil())
			Expect(players).To(HaveLen(1))
			Expect(players[0].Name).To(Equal("a | b"))
			Expect(players[0].SquadID).To(Equal(intPtr(3)))
		})

		g.It("Should default an empty team id to zero", func() {
			players, err := ParsePlayers("banner\nID: 4 | SteamID: 4444 | Name: Dan | Team ID:  | Squad ID: N/A")

			Expect(err).To(BeNil())
			Expect(players[0].TeamID).To(Equal(0))
		})

		g.It("Should fail the whole response on a line that is not a player", func() {
			players, err := ParsePlayers("banner\nID: 1 | SteamID: 1111 | Name: Alice | Team ID: 1 | Squad ID: 2\ngarbage\n")

			Expect(errors.Cause(err)).To(Equal(errs.ErrSquadParsing))
			Expect(players).To(BeNil())
		})

		g.It("Should return the integer parse error for a missing player id", func() {
			_, err := ParsePlayers("banner\nID:  | SteamID: 1111 | Name: Alice | Team ID: 1 | Squad ID: 2")

			var numErr *strconv.NumError
			Expect(errors.As(err, &numErr)).To(BeTrue())
		})

		g.It("Should return the integer parse error for a missing steam id", func() {
			_, err := ParsePlayers("banner\nID: 1 | SteamID:  | Name: Alice | Team ID: 1 | Squad ID: 2")

			var numErr *strconv.NumError
			Expect(errors.As(err, &numErr)).To(BeTrue())
		})
	})

	g.Describe("ParseSquads()", func() {
		g.It("Should assign squads to the preceding team", func() {
			teams, squads, err := ParseSquads(squadsResponse)

			Expect(err).To(BeNil())
			Expect(teams).To(Equal([]Team{
				{ID: 1, Name: "Team Alpha"},
				{ID: 2, Name: "Team Bravo"},
			}))
			Expect(squads).To(Equal([]Squad{
				{ID: 1, Name: "Alpha Squad", Size: 5, TeamID: 1, Locked: true},
				{ID: 2, Name: "Armor", Size: 2, TeamID: 1, Locked: false},
				{ID: 1, Name: "Bravo Squad", Size: 9, TeamID: 2, Locked: false},
			}))
		})

		g.It("Should accept squad sizes above nine", func() {
			_, squads, err := ParseSquads("banner\nTeam ID: 1 (A)\nID: 3 | Name: Big | Size: 12 | Locked: False")

			Expect(err).To(BeNil())
			Expect(squads[0].Size).To(Equal(12))
		})

		g.It("Should fail the whole response on a line matching neither grammar", func() {
			teams, squads, err := ParseSquads("banner\nTeam ID: 1 (A)\nID: 1 | Name: X | Size: 1 | Locked: True\nwhat is this\n")

			Expect(errors.Cause(err)).To(Equal(errs.ErrSquadParsing))
			Expect(teams).To(BeNil())
			Expect(squads).To(BeNil())
		})
	})

	g.Describe("ParseMaps()", func() {
		g.It("Should return every line", func() {
			maps := ParseMaps("Al Basrah AAS v1\r\nNarva RAAS v2\n\nYehorivka TC v1\n")

			Expect(maps).To(Equal([]string{"Al Basrah AAS v1", "Narva RAAS v2", "Yehorivka TC v1"}))
		})
	})

	g.Describe("ParseNextMap()", func() {
		g.It("Should extract the current and next map", func() {
			current, next, err := ParseNextMap("Current map is Narva RAAS v2, Next map is Gorodok AAS v1\n")

			Expect(err).To(BeNil())
			Expect(current).To(Equal("Narva RAAS v2"))
			Expect(next).To(Equal("Gorodok AAS v1"))
		})

		g.It("Should fail on an unexpected response", func() {
			_, _, err := ParseNextMap("Unknown command")

			Expect(errors.Cause(err)).To(Equal(errs.ErrSquadParsing))
		})
	})

	g.Describe("ParseChat()", func() {
		g.It("Should parse a chat message", func() {
			chat, err := ParseChat("[ChatAll] [SteamID:76561198000000000] Some Guy : need a medic : now\n")

			Expect(err).To(BeNil())
			Expect(chat).To(Equal(Chat{
				Channel: "ChatAll",
				SteamID: "76561198000000000",
				Name:    "Some Guy",
				Message: "need a medic : now",
			}))
		})

		g.It("Should fail on other broadcasts", func() {
			_, err := ParseChat("Player Bob was kicked")

			Expect(errors.Cause(err)).To(Equal(errs.ErrSquadParsing))
		})
	})
}
