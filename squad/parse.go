package squad

import (
	"github.com/pkg/errors"
	"github.com/refractorgscm/squadrcon/errs"
	"regexp"
	"strconv"
	"strings"
)

// disconnectedMarker starts the section of ListPlayers listing players who already left.
const disconnectedMarker = "Recently Disconnected Players"

var (
	playerPattern  = regexp.MustCompile(`ID: (\d*) \| SteamID: (\d*) \| Name: (.*) \| Team ID: (\d*) \| Squad ID: (\S*)`)
	squadPattern   = regexp.MustCompile(`ID: (\d*) \| Name: (.*) \| Size: (\d*) \| Locked: (\w*)`)
	teamPattern    = regexp.MustCompile(`Team ID: (\d*) \((.*)\)`)
	nextMapPattern = regexp.MustCompile(`Current map is (.*), Next map is (.*)`)
	chatPattern    = regexp.MustCompile(`(?s)^\[(\w+)\] \[SteamID:(\d+)\] (.+?) : (.*)$`)
)

// splitLines splits a response into lines without their line endings.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}

// atoiOrZero parses an optional numeric field.
func atoiOrZero(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}

	return i
}

// ParsePlayers parses a ListPlayers response. The first line is a banner and everything from the recently
// disconnected section onwards is ignored. A single line that is not a player fails the whole response.
func ParsePlayers(text string) ([]Player, error) {
	players := []Player{}

	for _, line := range splitLines(text)[1:] {
		if strings.Contains(line, disconnectedMarker) {
			break
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		m := playerPattern.FindStringSubmatch(line)
		if m == nil {
			return nil, errors.Wrapf(errs.ErrSquadParsing, "unexpected player line %q", line)
		}

		id, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse player id in line %q", line)
		}

		if _, err := strconv.ParseUint(m[2], 10, 64); err != nil {
			return nil, errors.Wrapf(err, "could not parse steam id in line %q", line)
		}

		player := Player{
			ID:      id,
			SteamID: m[2],
			Name:    m[3],
			TeamID:  atoiOrZero(m[4]),
		}

		if squadID, err := strconv.Atoi(m[5]); err == nil {
			player.SquadID = &squadID
		}

		players = append(players, player)
	}

	return players, nil
}

// ParseSquads parses a ListSquads response. Squads belong to the team whose header line last preceded them.
func ParseSquads(text string) ([]Team, []Squad, error) {
	teams := []Team{}
	squads := []Squad{}

	currentTeam := 0

	for _, line := range splitLines(text)[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := teamPattern.FindStringSubmatch(line); m != nil {
			currentTeam = atoiOrZero(m[1])
			teams = append(teams, Team{
				ID:   currentTeam,
				Name: m[2],
			})

			continue
		}

		m := squadPattern.FindStringSubmatch(line)
		if m == nil {
			return nil, nil, errors.Wrapf(errs.ErrSquadParsing, "unexpected squad line %q", line)
		}

		squads = append(squads, Squad{
			ID:     atoiOrZero(m[1]),
			Name:   m[2],
			Size:   atoiOrZero(m[3]),
			TeamID: currentTeam,
			Locked: m[4] == "True",
		})
	}

	return teams, squads, nil
}

// ParseMaps returns every non-empty line of a ListMaps response as is.
func ParseMaps(text string) []string {
	maps := []string{}

	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		maps = append(maps, line)
	}

	return maps
}

// ParseNextMap extracts the current and next map from a ShowNextMap response.
func ParseNextMap(text string) (string, string, error) {
	m := nextMapPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", "", errors.Wrapf(errs.ErrSquadParsing, "unexpected map response %q", text)
	}

	return m[1], m[2], nil
}

// ParseChat parses the body of a chat packet, e.g. "[ChatAll] [SteamID:76561198000000000] Name : hello".
func ParseChat(body string) (Chat, error) {
	m := chatPattern.FindStringSubmatch(strings.TrimRight(body, "\r\n"))
	if m == nil {
		return Chat{}, errors.Wrapf(errs.ErrSquadParsing, "unexpected chat message %q", body)
	}

	return Chat{
		Channel: m[1],
		SteamID: m[2],
		Name:    m[3],
		Message: m[4],
	}, nil
}
