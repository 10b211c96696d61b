package protocol

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"testing"

	server "portlogistics/server"
)

func sampleMapRows() []string {
	rows := make([]string, server.MapRows)
	for i := range rows {
		rows[i] = strings.Repeat(".", server.MapCols)
	}
	return rows
}

func sampleInitStream() string {
	var b strings.Builder
	for _, row := range sampleMapRows() {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	for i := 0; i < server.BerthCount; i++ {
		b.WriteString(strconv.Itoa(i))
		b.WriteString(" 1 2 10 1\n")
	}
	b.WriteString("6\nOK\n")
	return b.String()
}

func TestReadInitParsesMapBerthsAndCapacity(t *testing.T) {
	r := NewReader(strings.NewReader(sampleInitStream()))

	init, err := r.ReadInit()
	if err != nil {
		t.Fatalf("ReadInit() = %v, want nil", err)
	}
	if init.MapRows[0] != strings.Repeat(".", server.MapCols) {
		t.Fatalf("MapRows[0] = %q, want a full row of dots", init.MapRows[0])
	}
	if len(init.Berths) != server.BerthCount {
		t.Fatalf("len(Berths) = %d, want %d", len(init.Berths), server.BerthCount)
	}
	for i, berth := range init.Berths {
		if int(berth.ID) != i || berth.TopLeft != (server.Point2d{X: 1, Y: 2}) {
			t.Fatalf("Berths[%d] = %+v, want id %d at (1,2)", i, berth, i)
		}
		if berth.TransportTime != 10 || berth.LoadingVelocity != 1 {
			t.Fatalf("Berths[%d] transport/velocity = %d/%d, want 10/1", i, berth.TransportTime, berth.LoadingVelocity)
		}
	}
	if init.Capacity != 6 {
		t.Fatalf("Capacity = %d, want 6", init.Capacity)
	}
}

func TestReadInitRejectsShortMapRow(t *testing.T) {
	stream := strings.Repeat(".", server.MapCols-1) + "\n"
	r := NewReader(strings.NewReader(stream))

	if _, err := r.ReadInit(); err == nil {
		t.Fatalf("ReadInit() with a short first row = nil error, want a ProtocolError")
	}
}

func TestReadFrameParsesGoodsRobotsShipsAndTerminator(t *testing.T) {
	stream := "7 500\n" +
		"2\n" +
		"3 4 50\n" +
		"9 9 75\n" +
		"1 10 11 1\n" +
		"0 12 13 0\n" +
		"2 0\n" +
		"0 -1\n" +
		"OK\n"
	r := NewReader(strings.NewReader(stream))

	in, err := r.ReadFrame(2, 2)
	if err != nil {
		t.Fatalf("ReadFrame() = %v, want nil", err)
	}
	if in.FrameNumber != 7 || in.Money != 500 {
		t.Fatalf("FrameNumber/Money = %d/%d, want 7/500", in.FrameNumber, in.Money)
	}
	if len(in.NewGoods) != 2 {
		t.Fatalf("len(NewGoods) = %d, want 2", len(in.NewGoods))
	}
	if in.NewGoods[1].Pos != (server.Point2d{X: 9, Y: 9}) || in.NewGoods[1].Value != 75 {
		t.Fatalf("NewGoods[1] = %+v, want (9,9) value 75", in.NewGoods[1])
	}

	if len(in.Robots) != 2 {
		t.Fatalf("len(Robots) = %d, want 2", len(in.Robots))
	}
	if !in.Robots[0].Carrying || in.Robots[0].Pos != (server.Point2d{X: 10, Y: 11}) {
		t.Fatalf("Robots[0] = %+v, want carrying at (10,11)", in.Robots[0])
	}
	if in.Robots[1].Carrying {
		t.Fatalf("Robots[1].Carrying = true, want false")
	}

	if len(in.Ships) != 2 {
		t.Fatalf("len(Ships) = %d, want 2", len(in.Ships))
	}
	if !in.Ships[0].HasBerth || in.Ships[0].BerthID != 0 {
		t.Fatalf("Ships[0] = %+v, want berthed at id 0", in.Ships[0])
	}
	if in.Ships[1].HasBerth {
		t.Fatalf("Ships[1].HasBerth = true for berthId -1, want false")
	}
}

func TestReadFrameWrapsEOFWhenStreamCloses(t *testing.T) {
	r := NewReader(strings.NewReader(""))

	_, err := r.ReadFrame(0, 0)
	if err == nil {
		t.Fatalf("ReadFrame() on an empty stream = nil, want an EOF ProtocolError")
	}
	perr, ok := err.(*ProtocolError)
	if !ok {
		t.Fatalf("ReadFrame() error = %v, want a *ProtocolError", err)
	}
	if perr.Err != io.EOF {
		t.Fatalf("ProtocolError.Err = %v, want io.EOF", perr.Err)
	}
}

func TestWriteFrameEmitsCommandsThenOK(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	err := w.WriteFrame([]server.Command{
		{Kind: server.CmdMove, ID: 1, Dir: server.East},
		{Kind: server.CmdGet, ID: 1},
	})
	if err != nil {
		t.Fatalf("WriteFrame() = %v, want nil", err)
	}

	want := "move 1 0\nget 1\nOK\n"
	if buf.String() != want {
		t.Fatalf("WriteFrame() wrote %q, want %q", buf.String(), want)
	}
}
