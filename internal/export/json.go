package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/fluidsim/internal/sim"
	"github.com/san-kum/fluidsim/internal/storage"
)

type ExportData struct {
	Run    storage.RunMetadata `json:"run"`
	Frames []sim.FrameStat     `json:"frames"`
}

func WriteJSON(w io.Writer, meta storage.RunMetadata, frames []sim.FrameStat) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Frames: frames})
}

// WriteCSV writes the per-frame statistics with a header row.
func WriteCSV(w io.Writer, frames []sim.FrameStat) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"frame", "mass", "peak", "probe", "max_speed"}); err != nil {
		return err
	}
	for _, st := range frames {
		row := []string{
			strconv.Itoa(st.Frame),
			strconv.FormatFloat(st.Mass, 'f', 6, 64),
			strconv.FormatFloat(st.Peak, 'f', 6, 64),
			strconv.FormatFloat(st.Probe, 'f', 6, 64),
			strconv.FormatFloat(st.MaxSpeed, 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
