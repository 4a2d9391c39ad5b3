package export

import (
	"bytes"
	"encoding/csv"
	"exam_system_backend/internal/repository"
	"time"
)

// CSV writes the header and one line per row.
func CSV(rows []repository.ResultRow, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(Record(r, loc)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
