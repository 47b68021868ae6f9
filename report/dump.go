package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"memfo/history"
)

// WriteCSV serializes the full history, oldest first: a wall-clock ISO
// timestamp and the run-relative mono time, then one column per field in
// display order. Values are bytes; fields absent from a snapshot are left
// blank.
func WriteCSV(w io.Writer, snaps []history.Snapshot, fields []string) error {
	cw := csv.NewWriter(w)
	header := append([]string{"time", "mono_sec"}, fields...)
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for _, snap := range snaps {
		row[0] = snap.Wall.UTC().Format(time.RFC3339)
		row[1] = strconv.FormatFloat(snap.Mono, 'f', 3, 64)
		for i, f := range fields {
			if v, ok := snap.Values[f]; ok {
				row[2+i] = strconv.FormatInt(v, 10)
			} else {
				row[2+i] = ""
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
