// Command squad-rcon administers Squad servers over RCON.
//
// The server address and password come from flags or the SQUAD_RCON_HOST and SQUAD_RCON_PASS environment
// variables. Each invocation opens one connection, runs one subcommand and exits.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	rcon "github.com/refractorgscm/squadrcon"
	"github.com/refractorgscm/squadrcon/presets"
	"github.com/refractorgscm/squadrcon/squad"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

const usage = `Usage: squad-rcon [flags] <command> [args]

Commands:
  monitor                         Print incoming chat messages from the server
  players                         List the players on the server
  teams                           List the teams on the server
  squads                          List the squads on the server
  list_maps                       List the maps on the server
  maps                            Show the current and next map
  ban <name> <duration> <reason>  Ban a player (duration: 1d, 1m, 0 for permanent)
  kick <name> <reason>            Kick a player off the server
  set_next_map <map>              Set the next map
  change_map <map>                End the current game and change the map
  broadcast <message>             Broadcast a message to the server
  raw <command>                   Send a raw command to the server

Flags:
`

// commandArgs is the number of positional arguments each subcommand takes.
var commandArgs = map[string]int{
	"monitor":      0,
	"players":      0,
	"teams":        0,
	"squads":       0,
	"list_maps":    0,
	"maps":         0,
	"ban":          3,
	"kick":         2,
	"set_next_map": 1,
	"change_map":   1,
	"broadcast":    1,
	"raw":          1,
}

type options struct {
	host     string
	password string
	timeout  time.Duration
	debug    bool
	json     bool
}

func main() {
	opts, args, err := parseFlags()

	initLogger(opts.debug)

	if err != nil {
		log.Warn().Err(err).Msg("ignoring SQUAD_RCON_TIMEOUT")
	}

	if err := run(opts, args); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

// parseFlags parses the command line. A malformed SQUAD_RCON_TIMEOUT is returned as an error alongside usable
// options with no timeout.
func parseFlags() (*options, []string, error) {
	opts := &options{}

	timeout, envErr := envDuration("SQUAD_RCON_TIMEOUT")

	flag.StringVar(&opts.host, "host", os.Getenv("SQUAD_RCON_HOST"), "RCON server to connect to in the form of ADDR:PORT (env SQUAD_RCON_HOST)")
	flag.StringVar(&opts.host, "h", os.Getenv("SQUAD_RCON_HOST"), "shorthand for -host")
	flag.StringVar(&opts.password, "password", os.Getenv("SQUAD_RCON_PASS"), "RCON password (env SQUAD_RCON_PASS)")
	flag.StringVar(&opts.password, "p", os.Getenv("SQUAD_RCON_PASS"), "shorthand for -password")
	flag.DurationVar(&opts.timeout, "timeout", timeout, "socket read/write deadline, 0 to wait forever (env SQUAD_RCON_TIMEOUT)")
	flag.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&opts.json, "json", false, "Print listings as JSON")

	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}

	flag.Parse()

	return opts, flag.Args(), envErr
}

// envDuration reads a duration such as "5s" from the environment. An unset variable yields zero.
func envDuration(name string) (time.Duration, error) {
	value := os.Getenv(name)
	if value == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s %q", name, value)
	}

	return d, nil
}

func initLogger(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Logger()
}

// config builds the client configuration from the command line.
func config(opts *options) (*rcon.Config, error) {
	if opts.host == "" {
		return nil, errors.New("missing -host (or SQUAD_RCON_HOST)")
	}

	if opts.password == "" {
		return nil, errors.New("missing -password (or SQUAD_RCON_PASS)")
	}

	host, portStr, err := net.SplitHostPort(opts.host)
	if err != nil {
		return nil, errors.Wrap(err, "host must be in the form of ADDR:PORT")
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid port %q", portStr)
	}

	return &rcon.Config{
		Host:         host,
		Port:         uint16(port),
		Password:     opts.password,
		ReadTimeout:  opts.timeout,
		WriteTimeout: opts.timeout,
	}, nil
}

func run(opts *options, args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return errors.New("no command specified")
	}

	command, args := args[0], args[1:]

	want, ok := commandArgs[command]
	if !ok {
		flag.Usage()
		return errors.Errorf("unknown command %q", command)
	}

	if len(args) != want {
		return errors.Errorf("%s takes %d argument(s), got %d", command, want, len(args))
	}

	cfg, err := config(opts)
	if err != nil {
		return err
	}

	logger := presets.NewZerologLogger(log.Logger)

	cfg.DisconnectHandler = func(err error, expected bool) {
		if !expected {
			log.Error().Err(err).Msg("disconnected from server")
		}
	}

	client, err := squad.Dial(cfg, logger)
	if err != nil {
		return errors.Wrapf(err, "could not connect to %s", opts.host)
	}
	defer client.Close()

	log.Debug().Str("host", opts.host).Msg("connected")

	switch command {
	case "monitor":
		// Only one connection attempt is made; the command ends when the server drops the connection.
		return client.Listen(func(chat squad.Chat) {
			fmt.Printf("[%s] %s (%s): %s\n", chat.Channel, chat.Name, chat.SteamID, chat.Message)
		})
	case "players":
		players, err := client.ListPlayers()
		if err != nil {
			return err
		}

		if opts.json {
			return printJSON(players)
		}

		rows := make([][]string, 0, len(players))
		for _, p := range players {
			squadID := "N/A"
			if p.SquadID != nil {
				squadID = strconv.Itoa(*p.SquadID)
			}

			rows = append(rows, []string{strconv.Itoa(p.ID), p.Name, p.SteamID, strconv.Itoa(p.TeamID), squadID})
		}

		printTable([]string{"ID", "Name", "Steam ID", "Team", "Squad"}, rows)
	case "teams":
		teams, _, err := client.ListSquads()
		if err != nil {
			return err
		}

		if opts.json {
			return printJSON(teams)
		}

		rows := make([][]string, 0, len(teams))
		for _, t := range teams {
			rows = append(rows, []string{strconv.Itoa(t.ID), t.Name})
		}

		printTable([]string{"ID", "Name"}, rows)
	case "squads":
		_, squads, err := client.ListSquads()
		if err != nil {
			return err
		}

		if opts.json {
			return printJSON(squads)
		}

		rows := make([][]string, 0, len(squads))
		for _, s := range squads {
			rows = append(rows, []string{
				strconv.Itoa(s.TeamID),
				strconv.Itoa(s.ID),
				s.Name,
				strconv.Itoa(s.Size),
				strconv.FormatBool(s.Locked),
			})
		}

		printTable([]string{"Team", "ID", "Name", "Players", "Locked"}, rows)
	case "list_maps":
		maps, err := client.ListMaps()
		if err != nil {
			return err
		}

		if opts.json {
			return printJSON(maps)
		}

		fmt.Println(strings.Join(maps, "\n"))
	case "maps":
		current, next, err := client.ShowNextMap()
		if err != nil {
			return err
		}

		fmt.Printf("Current map: %s\n", current)
		fmt.Printf("Next map: %s\n", next)
	case "ban":
		return printReply(client.Ban(args[0], args[1], args[2]))
	case "kick":
		return printReply(client.Kick(args[0], args[1]))
	case "set_next_map":
		return printReply(client.SetNextMap(args[0]))
	case "change_map":
		return printReply(client.ChangeMap(args[0]))
	case "broadcast":
		return printReply(client.Broadcast(args[0]))
	case "raw":
		return printReply(client.Raw(args[0]))
	}

	return nil
}

func printReply(reply string, err error) error {
	if err != nil {
		return err
	}

	fmt.Println(reply)

	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func printTable(header []string, rows [][]string) {
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader(header)
	tw.SetBorder(true)
	tw.SetAutoWrapText(false)
	tw.AppendBulk(rows)
	tw.Render()
}
