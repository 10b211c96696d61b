// Package protocol implements the judge's stdin/stdout frame wire
// format (init once, then frame/command pairs until EOF), matching
// the protocol documented for the original gameManager.cpp's
// readInitData/readFrameData/outputCommands loop.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	server "portlogistics/server"
)

// ProtocolError wraps a malformed or truncated judge stream. Any error
// this package returns is a ProtocolError: the wire format has no
// recoverable failure mode, so the top-level loop treats every read
// error as fatal, per spec.md §7.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol: %s: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// Reader tokenizes the judge's whitespace-delimited stdin stream.
type Reader struct {
	scan *bufio.Scanner
}

// NewReader wraps r with a word-splitting scanner sized for 200-byte
// map rows.
func NewReader(r io.Reader) *Reader {
	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 0, 1024), 1024*1024)
	scan.Split(bufio.ScanWords)
	return &Reader{scan: scan}
}

func (r *Reader) token(op string) (string, error) {
	if !r.scan.Scan() {
		if err := r.scan.Err(); err != nil {
			return "", &ProtocolError{Op: op, Err: err}
		}
		return "", &ProtocolError{Op: op, Err: io.EOF}
	}
	return r.scan.Text(), nil
}

func (r *Reader) int(op string) (int, error) {
	tok, err := r.token(op)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &ProtocolError{Op: op, Err: fmt.Errorf("malformed integer %q: %w", tok, err)}
	}
	return v, nil
}

func (r *Reader) expectOK(op string) error {
	tok, err := r.token(op)
	if err != nil {
		return err
	}
	if tok != "OK" {
		return &ProtocolError{Op: op, Err: fmt.Errorf("expected OK, got %q", tok)}
	}
	return nil
}

// ReadInit consumes the once-only init payload: the 200x200 map, the
// berth table, and ship capacity, terminated by a literal OK.
func (r *Reader) ReadInit() (server.InitInput, error) {
	var init server.InitInput

	for row := 0; row < server.MapRows; row++ {
		line, err := r.token("read map row")
		if err != nil {
			return init, err
		}
		if len(line) != server.MapCols {
			return init, &ProtocolError{Op: "read map row", Err: fmt.Errorf("row %d has length %d, want %d", row, len(line), server.MapCols)}
		}
		init.MapRows[row] = line
	}

	init.Berths = make([]server.InitBerth, 0, server.BerthCount)
	for i := 0; i < server.BerthCount; i++ {
		id, err := r.int("read berth id")
		if err != nil {
			return init, err
		}
		x, err := r.int("read berth x")
		if err != nil {
			return init, err
		}
		y, err := r.int("read berth y")
		if err != nil {
			return init, err
		}
		transport, err := r.int("read berth transport time")
		if err != nil {
			return init, err
		}
		velocity, err := r.int("read berth loading velocity")
		if err != nil {
			return init, err
		}
		init.Berths = append(init.Berths, server.InitBerth{
			ID:              server.BerthID(id),
			TopLeft:         server.Point2d{X: x, Y: y},
			TransportTime:   transport,
			LoadingVelocity: velocity,
		})
	}

	capacity, err := r.int("read ship capacity")
	if err != nil {
		return init, err
	}
	init.Capacity = capacity

	if err := r.expectOK("read init terminator"); err != nil {
		return init, err
	}
	return init, nil
}

// ReadFrame consumes one per-frame payload. robotCount and shipCount
// are the caller's current fleet sizes (the wire format carries no
// explicit counts for these arrays; they're implied by prior lbot/
// lboat purchases the driver already tracked). io.EOF signals the
// judge closed the stream, the clean-shutdown path spec.md §6 names.
func (r *Reader) ReadFrame(robotCount, shipCount int) (server.FrameInput, error) {
	var in server.FrameInput

	frameNumber, err := r.int("read frame number")
	if err != nil {
		return in, err
	}
	money, err := r.int("read current money")
	if err != nil {
		return in, err
	}
	in.FrameNumber = frameNumber
	in.Money = money

	goodsCount, err := r.int("read new goods count")
	if err != nil {
		return in, err
	}
	in.NewGoods = make([]server.NewGoodsEntry, 0, goodsCount)
	for i := 0; i < goodsCount; i++ {
		x, err := r.int("read goods x")
		if err != nil {
			return in, err
		}
		y, err := r.int("read goods y")
		if err != nil {
			return in, err
		}
		value, err := r.int("read goods value")
		if err != nil {
			return in, err
		}
		in.NewGoods = append(in.NewGoods, server.NewGoodsEntry{Pos: server.Point2d{X: x, Y: y}, Value: value})
	}

	in.Robots = make([]server.RobotFrameEntry, 0, robotCount)
	for i := 0; i < robotCount; i++ {
		carrying, err := r.int("read robot carrying")
		if err != nil {
			return in, err
		}
		x, err := r.int("read robot x")
		if err != nil {
			return in, err
		}
		y, err := r.int("read robot y")
		if err != nil {
			return in, err
		}
		state, err := r.int("read robot state")
		if err != nil {
			return in, err
		}
		in.Robots = append(in.Robots, server.RobotFrameEntry{
			Carrying: carrying != 0,
			Pos:      server.Point2d{X: x, Y: y},
			State:    server.WorldState(state),
		})
	}

	in.Ships = make([]server.ShipFrameEntry, 0, shipCount)
	for i := 0; i < shipCount; i++ {
		state, err := r.int("read ship state")
		if err != nil {
			return in, err
		}
		berthID, err := r.int("read ship berth id")
		if err != nil {
			return in, err
		}
		in.Ships = append(in.Ships, server.ShipFrameEntry{
			State:    server.ShipWorldState(state),
			BerthID:  server.BerthID(berthID),
			HasBerth: berthID >= 0,
		})
	}

	if err := r.expectOK("read frame terminator"); err != nil {
		return in, err
	}
	return in, nil
}

// Writer emits commands to stdout in the judge's line format.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w with line buffering, flushed once per frame.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteFrame writes every staged command for the frame followed by
// the literal OK, then flushes.
func (w *Writer) WriteFrame(commands []server.Command) error {
	for _, cmd := range commands {
		if _, err := fmt.Fprintln(w.w, cmd.String()); err != nil {
			return &ProtocolError{Op: "write command", Err: err}
		}
	}
	if _, err := fmt.Fprintln(w.w, "OK"); err != nil {
		return &ProtocolError{Op: "write frame terminator", Err: err}
	}
	if err := w.w.Flush(); err != nil {
		return &ProtocolError{Op: "flush frame", Err: err}
	}
	return nil
}
