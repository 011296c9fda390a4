package rcon

import (
	"bufio"
	"github.com/pkg/errors"
	"github.com/refractorgscm/squadrcon/errs"
	"github.com/refractorgscm/squadrcon/packet"
	"math"
	"net"
	"strconv"
	"strings"
	"time"
)

// Client owns a single RCON connection. It issues one command at a time and is not safe for concurrent use.
type Client struct {
	*Config
	conn   net.Conn
	reader *bufio.Reader
	log    Logger
	ids    *idAllocator
	state  State
}

type BroadcastHandler func(p *packet.Packet)
type BroadcastMessageChecker func(p *packet.Packet) bool
type DisconnectHandler func(error, bool)

type Config struct {
	Host     string
	Port     uint16
	Password string

	// ConnTimeout is the timeout for establishing the TCP connection.
	//
	// Default: 2s
	ConnTimeout time.Duration

	// ReadTimeout and WriteTimeout set a deadline on every socket read and write. Zero means operations block until
	// they complete or the connection drops.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// FirstPacketID and MaxPacketID bound the packet ID counter. After MaxPacketID has been used the counter wraps to
	// FirstPacketID. FirstPacketID must be at least 1.
	//
	// Default: 1 and math.MaxInt32
	FirstPacketID int32
	MaxPacketID   int32

	// RestrictedPacketIDs is a slice of int32s which cannot be used as packet IDs. Some games use certain packet IDs to
	// denote a special response or message; list them here so that responses are never confused with them.
	RestrictedPacketIDs []int32

	// CheckpointCommand is sent straight after every command. Its response marks the end of the real command's
	// response. It should be cheap and free of side effects.
	//
	// Default: ListCommands
	CheckpointCommand string

	// BroadcastHandler is a function which will be called by Listen for every packet BroadcastChecker accepts.
	BroadcastHandler BroadcastHandler

	// BroadcastChecker is used by Listen to check if a packet is a broadcast.
	BroadcastChecker BroadcastMessageChecker

	// DisconnectHandler is a function which will be called when the client gets disconnected. The second argument is
	// true if the disconnect was requested through Close.
	DisconnectHandler DisconnectHandler
}

const DefaultTimeout = time.Second * 2
const DefaultCheckpointCommand = "ListCommands"

func NewClient(config *Config, logger Logger) *Client {
	c := &Client{
		Config: config,
		log:    &DefaultLogger{},
		state:  StateDisconnected,
	}

	if logger != nil {
		c.log = logger
	}

	if c.ConnTimeout <= 0 {
		c.ConnTimeout = DefaultTimeout
	}

	if c.FirstPacketID < 1 {
		c.FirstPacketID = 1
	}

	if c.MaxPacketID <= c.FirstPacketID {
		c.MaxPacketID = math.MaxInt32
	}

	if c.CheckpointCommand == "" {
		c.CheckpointCommand = DefaultCheckpointCommand
	}

	if c.BroadcastChecker == nil {
		c.BroadcastChecker = func(p *packet.Packet) bool {
			return false
		}
	}

	c.ids = newIDAllocator(c.FirstPacketID, c.MaxPacketID, c.RestrictedPacketIDs)

	return c
}

// Dial creates a client and connects it. The returned client is ready to execute commands.
func Dial(config *Config, logger Logger) (*Client, error) {
	c := NewClient(config, logger)

	if err := c.Connect(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Client) SetBroadcastHandler(handler BroadcastHandler) {
	c.BroadcastHandler = handler
}

func (c *Client) SetDisconnectHandler(handler DisconnectHandler) {
	c.DisconnectHandler = handler
}

func (c *Client) SetBroadcastChecker(checker BroadcastMessageChecker) {
	c.BroadcastChecker = checker
}

func (c *Client) State() State {
	return c.state
}

func (c *Client) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}

// Connect dials the server and authenticates. On failure the client is closed and cannot be reused.
func (c *Client) Connect() error {
	if c.state != StateDisconnected {
		return errors.Errorf("cannot connect a client in state %s", c.state)
	}

	c.state = StateConnecting

	conn, err := net.DialTimeout("tcp", c.Address(), c.ConnTimeout)
	if err != nil {
		c.state = StateClosed
		return errors.Wrap(err, "tcp dial failure")
	}
	c.log.Debug("Dial successful, connection established.")

	return c.attach(conn)
}

// attach authenticates over an already established connection.
func (c *Client) attach(conn net.Conn) error {
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	c.state = StateAuthenticating

	if err := c.authenticate(); err != nil {
		c.log.Debug("Authentication failed ", err)

		_ = c.conn.Close()
		c.conn = nil
		c.state = StateClosed

		return err
	}

	c.state = StateReady

	return nil
}

func (c *Client) Close() error {
	c.log.Debug("Close called")

	if c.conn == nil {
		return errs.ErrNotConnected
	}

	c.disconnect(nil)

	return nil
}

func (c *Client) disconnect(err error) {
	if c.conn == nil {
		return
	}

	_ = c.conn.Close()
	c.conn = nil
	c.state = StateClosed

	if c.DisconnectHandler != nil {
		c.DisconnectHandler(err, err == nil)
	}
}

// authenticate performs the SERVERDATA_AUTH exchange. The server answers with an empty response value packet
// followed by the auth response, whose ID is -1 if the password was wrong.
func (c *Client) authenticate() error {
	p := packet.New(c.ids.Next(), packet.TypeAuth, c.Password)

	if err := c.sendPacket(p); err != nil {
		return errors.Wrap(err, "could not send auth packet")
	}

	res, err := c.readPacket()
	if err != nil {
		return errors.Wrap(err, "could not get auth response")
	}

	if res.Type != packet.TypeCommandRes {
		return errors.Wrapf(errs.ErrProtocol, "expected response value packet before auth response, got type %d",
			res.Type)
	}

	res, err = c.readPacket()
	if err != nil {
		return errors.Wrap(err, "could not get auth response")
	}

	if res.Type != packet.TypeAuthRes {
		return errors.Wrapf(errs.ErrProtocol, "packet was not of the type auth response, got type %d", res.Type)
	}

	if res.ID == packet.AuthFailedID {
		return errors.Wrap(errs.ErrAuthentication, "authentication failed")
	}

	c.log.Debug("Authenticated successfully")

	return nil
}

// ExecCommand runs command and returns its full response, reassembled from however many packets the server split
// it into.
func (c *Client) ExecCommand(command string) (string, error) {
	body, _, err := c.execCommand(command, false)
	return body, err
}

// ExecCommandWithSideChannel is like ExecCommand but also returns, in arrival order, every packet that arrived
// while waiting and did not belong to the command, such as chat messages.
func (c *Client) ExecCommandWithSideChannel(command string) (string, []*packet.Packet, error) {
	return c.execCommand(command, true)
}

// execCommand sends command followed by CheckpointCommand under consecutive IDs. Responses to the command are
// collected until the checkpoint's response arrives. This relies on the server answering commands on a connection
// in the order they were sent, so no fragment of the real response can follow the checkpoint's response.
//
// A packet whose body is not utf-8 fails the command, but reading continues up to the checkpoint's response so the
// next command starts on a clean stream.
func (c *Client) execCommand(command string, collect bool) (string, []*packet.Packet, error) {
	if c.state != StateReady {
		return "", nil, errs.ErrNotConnected
	}

	c.log.Debug("Executing command: ", command)

	request := packet.New(c.ids.Next(), packet.TypeCommand, command)
	checkpoint := packet.New(c.ids.Next(), packet.TypeCommand, c.CheckpointCommand)

	if err := c.sendPacket(request); err != nil {
		return "", nil, errors.Wrap(err, "could not send command packet")
	}

	if err := c.sendPacket(checkpoint); err != nil {
		return "", nil, errors.Wrap(err, "could not send checkpoint packet")
	}

	var body strings.Builder
	var other []*packet.Packet
	var decodeErr error

	for {
		res, err := c.readPacket()
		if err != nil {
			if errors.Cause(err) == errs.ErrTextDecoding {
				c.log.Debug("Skipping undecodable packet while waiting for command ", request.ID)

				if decodeErr == nil {
					decodeErr = err
				}

				continue
			}

			return "", nil, errors.Wrap(err, "could not get command response")
		}

		switch res.ID {
		case request.ID:
			body.WriteString(res.Body)
		case checkpoint.ID:
			if decodeErr != nil {
				return "", nil, errors.Wrap(decodeErr, "could not get command response")
			}

			return body.String(), other, nil
		default:
			c.log.Debug("Packet ", res.ID, " does not belong to command ", request.ID)

			if collect {
				other = append(other, res)
			}
		}
	}
}

// Listen blocks reading packets, passing those accepted by BroadcastChecker to BroadcastHandler. It only returns
// once reading fails, e.g. because the connection was closed.
func (c *Client) Listen() error {
	if c.state != StateReady {
		return errs.ErrNotConnected
	}

	for {
		p, err := c.readPacket()
		if err != nil {
			return errors.Wrap(err, "could not read packet")
		}

		if c.BroadcastChecker(p) {
			c.log.Debug("Packet ", p.ID, " is a broadcast message")

			if c.BroadcastHandler != nil {
				c.BroadcastHandler(p)
			}

			continue
		}

		c.log.Debug("Packet ", p.ID, " was not a broadcast ", p.Type, " ", p.Body)
	}
}
