package report

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/parquet-go"

	"github.com/jeongseonghan/bersim/internal/channel"
	"github.com/jeongseonghan/bersim/internal/fec"
	"github.com/jeongseonghan/bersim/internal/modem"
	"github.com/jeongseonghan/bersim/internal/sim"
	"github.com/jeongseonghan/bersim/internal/source"
)

var testConfig = sim.Config{
	Source:     source.Random,
	FEC:        fec.Hamming74,
	Modulation: modem.QPSK,
	Channel:    channel.AWGN,
	Error:      sim.BER,
	Units:      sim.Decibels,
	Iterations: 1000,
}

var testResults = []sim.Result{
	{RunID: "r1", HSquare: 0, Linear: 1, Rate: 0.125, BER: 0.125, SER: 0.3, Bits: 1000, WrongBits: 125,
		Blocks: 250, WrongBlocks: 75, SNR: 3.01, Checksum: 0xdeadbeef, Duration: 1500 * time.Microsecond},
	{RunID: "r1", HSquare: 0.5, Linear: 1.122, Rate: 0, BER: 0, SER: 0, Bits: 1000,
		Blocks: 250, SNR: 3.51, Checksum: 0xdeadbeef, Duration: 2 * time.Millisecond},
}

func TestPrinter_Full(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, testConfig, sim.Sweep{Start: 0, End: 0.5, Step: 0.5}, false)
	p.Header()
	for _, r := range testResults {
		if err := p.Point(r); err != nil {
			t.Fatalf("Point: %v", err)
		}
	}
	p.Summary(testResults)

	out := buf.String()
	for _, want := range []string{
		"Source: " + source.Random.String() + "\n",
		"FEC: " + fec.Hamming74.String() + "\n",
		"Iterations: 1000\n",
		"h²=[0.000000, 0.500000] decibels, with 0.500000 step\n",
		"0.000000\t\t0.1250000000000000\n",
		"0.500000\t\t0.0000000000000000\n",
		"125/1000",
		"Error-free from h²=0.500000 decibels\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrinter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, testConfig, sim.DefaultSweep, true)
	p.Header()
	if err := p.Point(testResults[0]); err != nil {
		t.Fatal(err)
	}
	p.Summary(testResults)
	if got := buf.String(); got != "0.000000\t\t0.1250000000000000\n" {
		t.Errorf("quiet output %q", got)
	}
}

func TestParquetWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewParquetWriter(&buf, testConfig, 42)
	for _, r := range testResults {
		if err := w.Write(r); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := parquet.OpenFile(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	meta, ok := f.Lookup("config")
	if !ok || !strings.Contains(meta, `"seed":42`) {
		t.Errorf("config metadata %q, %v", meta, ok)
	}

	r := parquet.NewGenericReader[PointRow](bytes.NewReader(buf.Bytes()))
	defer r.Close()
	rows := make([]PointRow, 4)
	n, err := r.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("Read: %v", err)
	}
	if n != len(testResults) {
		t.Fatalf("read %d rows, expected %d", n, len(testResults))
	}
	for i, res := range testResults {
		if rows[i] != Row(testConfig, res) {
			t.Errorf("row %d = %+v, expected %+v", i, rows[i], Row(testConfig, res))
		}
	}
	if rows[0].FEC != "hamming74" || rows[0].DurationMS != 1.5 || rows[0].Checksum != 0xdeadbeef {
		t.Errorf("unexpected first row %+v", rows[0])
	}
}
