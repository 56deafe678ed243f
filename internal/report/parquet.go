package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/segmentio/parquet-go"

	"github.com/jeongseonghan/bersim/internal/sim"
)

// PointRow is one sweep point in the parquet export.
type PointRow struct {
	RunID       string  `parquet:"run_id"`
	FEC         string  `parquet:"fec"`
	Modulation  string  `parquet:"modulation"`
	Channel     string  `parquet:"channel"`
	Units       string  `parquet:"units"`
	HSquare     float64 `parquet:"hsquare"`
	Linear      float64 `parquet:"hsquare_linear"`
	BER         float64 `parquet:"ber"`
	SER         float64 `parquet:"ser"`
	SNR         float64 `parquet:"snr_db"`
	Bits        int64   `parquet:"bits"`
	WrongBits   int64   `parquet:"wrong_bits"`
	Blocks      int64   `parquet:"blocks"`
	WrongBlocks int64   `parquet:"wrong_blocks"`
	Checksum    int64   `parquet:"source_crc32"`
	DurationMS  float64 `parquet:"duration_ms"`
}

// ParquetWriter appends sweep points to a parquet stream.
type ParquetWriter struct {
	cfg    sim.Config
	writer *parquet.GenericWriter[PointRow]
}

// NewParquetWriter writes the configuration as JSON file metadata.
func NewParquetWriter(w io.Writer, cfg sim.Config, seed uint64) *ParquetWriter {
	meta := struct {
		sim.Config
		Seed uint64 `json:"seed"`
	}{cfg, seed}
	configStr := "{}"
	if b, err := json.Marshal(meta); err == nil {
		configStr = string(b)
	}
	return &ParquetWriter{
		cfg: cfg,
		writer: parquet.NewGenericWriter[PointRow](w,
			parquet.KeyValueMetadata("config", configStr),
		),
	}
}

// Row converts a result to its parquet row.
func Row(cfg sim.Config, r sim.Result) PointRow {
	return PointRow{
		RunID:       r.RunID,
		FEC:         cfg.FEC.Name(),
		Modulation:  cfg.Modulation.Name(),
		Channel:     cfg.Channel.Name(),
		Units:       cfg.Units.Name(),
		HSquare:     r.HSquare,
		Linear:      r.Linear,
		BER:         r.BER,
		SER:         r.SER,
		SNR:         r.SNR,
		Bits:        r.Bits,
		WrongBits:   r.WrongBits,
		Blocks:      r.Blocks,
		WrongBlocks: r.WrongBlocks,
		Checksum:    int64(r.Checksum),
		DurationMS:  float64(r.Duration.Microseconds()) / 1000,
	}
}

// Write appends one point.
func (p *ParquetWriter) Write(r sim.Result) error {
	if _, err := p.writer.Write([]PointRow{Row(p.cfg, r)}); err != nil {
		return fmt.Errorf("write parquet row: %w", err)
	}
	return nil
}

// Close flushes the footer. The underlying writer is not closed.
func (p *ParquetWriter) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}
