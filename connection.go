package rcon

import (
	"github.com/pkg/errors"
	"github.com/refractorgscm/squadrcon/errs"
	"github.com/refractorgscm/squadrcon/packet"
	"net"
	"time"
)

// Send writes a raw packet to the server.
func (c *Client) Send(p *packet.Packet) error {
	if c.state != StateReady {
		return errs.ErrNotConnected
	}

	return c.sendPacket(p)
}

// Receive blocks until the next packet arrives from the server.
func (c *Client) Receive() (*packet.Packet, error) {
	if c.state != StateReady {
		return nil, errs.ErrNotConnected
	}

	return c.readPacket()
}

func (c *Client) sendPacket(p *packet.Packet) error {
	out, err := p.Build()
	if err != nil {
		return errors.Wrap(err, "could not build packet")
	}

	if err := c.write(out); err != nil {
		c.fail(err)
		return errors.Wrap(err, "could not write packet")
	}

	return nil
}

func (c *Client) readPacket() (*packet.Packet, error) {
	if c.conn == nil {
		return nil, errs.ErrNotConnected
	}

	if c.ReadTimeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.ReadTimeout)); err != nil {
			err = connErr(err)
			c.fail(err)
			return nil, errors.Wrap(err, "could not set read deadline")
		}
	}

	res, err := packet.Decode(c.reader)
	if err != nil {
		err = connErr(err)

		// A body that is not utf-8 was still read in full, so the stream is intact.
		if errors.Cause(err) != errs.ErrTextDecoding {
			c.fail(err)
		}

		return nil, err
	}

	c.log.Debug("Packet received ID: ", res.ID, " type: ", res.Type)

	return res, nil
}

func (c *Client) write(data []byte) error {
	if c.conn == nil {
		return errs.ErrNotConnected
	}

	if c.WriteTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.WriteTimeout)); err != nil {
			return connErr(err)
		}
	}

	if _, err := c.conn.Write(data); err != nil {
		return connErr(err)
	}

	return nil
}

// fail drops the connection after an I/O error. During authentication the caller tears the connection down itself.
func (c *Client) fail(err error) {
	if c.state != StateReady {
		return
	}

	c.log.Error("Connection lost. Error: ", err)
	c.disconnect(err)
}

// connErr classifies a failed socket operation. Apart from an expired deadline, any I/O failure leaves the
// connection unusable and is reported as errs.ErrDisconnected.
func connErr(err error) error {
	switch errors.Cause(err) {
	case errs.ErrDisconnected, errs.ErrNotConnected, errs.ErrMalformedPacket, errs.ErrTextDecoding:
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return err
	}

	return errors.Wrap(errs.ErrDisconnected, err.Error())
}
