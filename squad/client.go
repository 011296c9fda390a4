package squad

import (
	"fmt"
	"github.com/pkg/errors"
	rcon "github.com/refractorgscm/squadrcon"
	"github.com/refractorgscm/squadrcon/packet"
	"github.com/refractorgscm/squadrcon/presets"
)

// Client issues Squad admin commands over an RCON connection and parses their responses. Every call re-runs the
// underlying command; nothing is cached.
type Client struct {
	rcon *rcon.Client
	log  rcon.Logger
}

func New(client *rcon.Client, logger rcon.Logger) *Client {
	if logger == nil {
		logger = &rcon.DefaultLogger{}
	}

	return &Client{
		rcon: client,
		log:  logger,
	}
}

// Dial connects and authenticates to a Squad server.
func Dial(config *rcon.Config, logger rcon.Logger) (*Client, error) {
	client, err := rcon.Dial(config, logger)
	if err != nil {
		return nil, err
	}

	return New(client, logger), nil
}

// RCON returns the underlying connection for raw packet access.
func (c *Client) RCON() *rcon.Client {
	return c.rcon
}

func (c *Client) Close() error {
	return c.rcon.Close()
}

// Raw executes command and returns the unparsed response.
func (c *Client) Raw(command string) (string, error) {
	return c.rcon.ExecCommand(command)
}

// RawWithChat executes command and also returns the chat messages that arrived while it ran. Packets that are not
// chat messages, or whose body cannot be parsed, are logged and skipped.
func (c *Client) RawWithChat(command string) (string, []Chat, error) {
	res, other, err := c.rcon.ExecCommandWithSideChannel(command)
	if err != nil {
		return "", nil, err
	}

	return res, c.chatsFrom(other), nil
}

func (c *Client) chatsFrom(packets []*packet.Packet) []Chat {
	chats := []Chat{}

	for _, p := range packets {
		if chat, ok := c.chatFrom(p); ok {
			chats = append(chats, chat)
		}
	}

	return chats
}

func (c *Client) chatFrom(p *packet.Packet) (Chat, bool) {
	if !presets.ChatBroadcastChecker(p) {
		c.log.Debug("Skipping packet ", p.ID, " of type ", p.Type)
		return Chat{}, false
	}

	chat, err := ParseChat(p.Body)
	if err != nil {
		c.log.Debug("Skipping chat packet ", p.ID, ": ", err)
		return Chat{}, false
	}

	return chat, true
}

// Listen blocks, calling handler for every chat message the server sends, until the connection fails or is closed.
func (c *Client) Listen(handler func(Chat)) error {
	c.rcon.SetBroadcastChecker(presets.ChatBroadcastChecker)
	c.rcon.SetBroadcastHandler(func(p *packet.Packet) {
		if chat, ok := c.chatFrom(p); ok {
			handler(chat)
		}
	})

	return c.rcon.Listen()
}

func (c *Client) ListPlayers() ([]Player, error) {
	res, err := c.Raw("ListPlayers")
	if err != nil {
		return nil, errors.Wrap(err, "could not list players")
	}

	return ParsePlayers(res)
}

// ListSquads returns the teams and squads on the server, both in the order the server listed them.
func (c *Client) ListSquads() ([]Team, []Squad, error) {
	res, err := c.Raw("ListSquads")
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not list squads")
	}

	return ParseSquads(res)
}

func (c *Client) ListMaps() ([]string, error) {
	res, err := c.Raw("ListMaps")
	if err != nil {
		return nil, errors.Wrap(err, "could not list maps")
	}

	return ParseMaps(res), nil
}

// ShowNextMap returns the current and the next map.
func (c *Client) ShowNextMap() (string, string, error) {
	res, err := c.Raw("ShowNextMap")
	if err != nil {
		return "", "", errors.Wrap(err, "could not show next map")
	}

	return ParseNextMap(res)
}

// admin runs an administrative command and logs the server's reply.
func (c *Client) admin(command string) (string, error) {
	res, err := c.Raw(command)
	if err != nil {
		return "", errors.Wrapf(err, "could not execute %q", command)
	}

	c.log.Info(res)

	return res, nil
}

func (c *Client) EndMatch() (string, error) {
	return c.admin("AdminEndMatch")
}

// ChangeMap ends the current game immediately and switches to mapName.
func (c *Client) ChangeMap(mapName string) (string, error) {
	return c.admin(fmt.Sprintf("AdminChangeMap %s", mapName))
}

func (c *Client) SetNextMap(mapName string) (string, error) {
	return c.admin(fmt.Sprintf("AdminSetNextMap %s", mapName))
}

// ForceTeamChange moves a player to the other team. name can be the player's name or steam64 id.
func (c *Client) ForceTeamChange(name string) (string, error) {
	return c.admin(fmt.Sprintf("AdminForceTeamChange %s", name))
}

// DemoteCommander removes a player from the commander role. name can be the player's name or steam64 id.
func (c *Client) DemoteCommander(name string) (string, error) {
	return c.admin(fmt.Sprintf("AdminDemoteCommander %s", name))
}

func (c *Client) DisbandSquad(teamID, squadID int) (string, error) {
	return c.admin(fmt.Sprintf("AdminDisbandSquad %d %d", teamID, squadID))
}

// Broadcast sends an admin message to every player.
func (c *Client) Broadcast(message string) (string, error) {
	return c.admin(fmt.Sprintf("AdminBroadcast %s", message))
}

// ChatToAdmin sends a message to the admin chat.
func (c *Client) ChatToAdmin(message string) (string, error) {
	return c.admin(fmt.Sprintf("ChatToAdmin %s", message))
}

// Warn shows reason to a player. name can be the player's name or steam64 id.
func (c *Client) Warn(name, reason string) (string, error) {
	return c.admin(fmt.Sprintf("AdminWarn \"%s\" %s", name, reason))
}

// Kick removes a player from the server. name can be the player's name or steam64 id.
func (c *Client) Kick(name, reason string) (string, error) {
	return c.admin(fmt.Sprintf("AdminKick \"%s\" %s", name, reason))
}

// Ban bans a player for length, which is "1d" for one day, "1m" for one month or "0" for a permanent ban.
func (c *Client) Ban(name, length, reason string) (string, error) {
	return c.admin(fmt.Sprintf("AdminBan \"%s\" \"%s\" %s", name, length, reason))
}
