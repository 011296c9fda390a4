package packet

import (
	"bytes"
	"encoding/binary"
	"github.com/pkg/errors"
	"github.com/refractorgscm/squadrcon/errs"
	"io"
	"unicode/utf8"
)

const int32Bytes = 4
const endPadBytes = 2

// headerBytes is the part of the declared size which is not body: id, type and the two terminator bytes.
const headerBytes = int32Bytes + int32Bytes + endPadBytes

// Packet is a single Source RCON frame. Body excludes the two trailing null bytes.
type Packet struct {
	ID   int32
	Type PacketType
	Body string
}

func New(id int32, pType PacketType, body string) *Packet {
	return &Packet{
		ID:   id,
		Type: pType,
		Body: body,
	}
}

// Size returns the value of the size field written on the wire.
func (p *Packet) Size() int32 {
	return int32(len(p.Body)) + headerBytes
}

func (p *Packet) Build() ([]byte, error) {
	buffer := bytes.NewBuffer(make([]byte, 0, int32Bytes+int(p.Size())))

	order := binary.LittleEndian

	if err := binary.Write(buffer, order, p.Size()); err != nil {
		return nil, errors.Wrap(err, "could not write packet size")
	}

	if err := binary.Write(buffer, order, p.ID); err != nil {
		return nil, errors.Wrap(err, "could not write packet id")
	}

	if err := binary.Write(buffer, order, int32(p.Type)); err != nil {
		return nil, errors.Wrap(err, "could not write packet type")
	}

	buffer.WriteString(p.Body)
	buffer.Write([]byte{'\x00', '\x00'})

	return buffer.Bytes(), nil
}

// Decode reads exactly one packet from reader. Short reads are accumulated until the frame is complete; a stream
// that ends before that yields errs.ErrDisconnected.
func Decode(reader io.Reader) (*Packet, error) {
	header := make([]byte, 3*int32Bytes)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, wrapReadErr(err, "could not read packet header")
	}

	order := binary.LittleEndian

	size := int32(order.Uint32(header[0:4]))
	id := int32(order.Uint32(header[4:8]))
	pType := int32(order.Uint32(header[8:12]))

	if size < headerBytes {
		return nil, errors.Wrapf(errs.ErrMalformedPacket, "declared size %d is below the minimum of %d", size,
			headerBytes)
	}

	// Body plus the two terminator bytes, which are discarded without validation. The buffer grows with the bytes
	// actually received rather than with the declared size.
	var rest bytes.Buffer
	if _, err := io.CopyN(&rest, reader, int64(size-int32Bytes-int32Bytes)); err != nil {
		return nil, wrapReadErr(err, "could not read packet body")
	}

	body := rest.Bytes()[:rest.Len()-endPadBytes]
	if !utf8.Valid(body) {
		return nil, errors.Wrapf(errs.ErrTextDecoding, "packet %d", id)
	}

	return &Packet{
		ID:   id,
		Type: PacketType(pType),
		Body: string(body),
	}, nil
}

func wrapReadErr(err error, msg string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrap(errs.ErrDisconnected, msg)
	}

	return errors.Wrap(err, msg)
}
