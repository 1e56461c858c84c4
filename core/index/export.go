package index

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/JuniperPhonetic/core/errors"
	"github.com/FocuswithJustin/JuniperPhonetic/core/phonetic"
)

// maxLineBytes bounds a single exported record line.
const maxLineBytes = 1 << 20

// Export writes every record to w as xz-compressed JSON lines, ordered by
// code then name. It returns the number of records written.
func (ix *Index) Export(ctx context.Context, w io.Writer) (int, error) {
	recs, err := ix.queryAll(ctx, `ORDER BY code, name, id`)
	if err != nil {
		return 0, err
	}

	xw, err := xz.NewWriter(w)
	if err != nil {
		return 0, fmt.Errorf("xz writer: %w", err)
	}
	enc := json.NewEncoder(xw)
	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			xw.Close()
			return i, err
		}
		if err := enc.Encode(rec); err != nil {
			xw.Close()
			return i, errors.NewIO("write", "export", err)
		}
	}
	if err := xw.Close(); err != nil {
		return len(recs), errors.NewIO("close", "export", err)
	}
	return len(recs), nil
}

// Import reads xz-compressed JSON lines produced by Export. Codes are
// recomputed with the index's encoder; records whose fingerprint is already
// present are skipped. It returns the number of records added.
func (ix *Index) Import(ctx context.Context, r io.Reader) (int, error) {
	xr, err := xz.NewReader(r)
	if err != nil {
		return 0, errors.NewIO("decompress", "import", err)
	}

	sc := bufio.NewScanner(xr)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var added, line int
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return added, err
		}
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return added, errors.NewParse("JSON", fmt.Sprintf("line %d", line), err.Error())
		}
		if phonetic.Normalize(rec.Name) == "" {
			return added, &errors.ValidationError{Field: "name", Value: rec.Name, Message: fmt.Sprintf("line %d contains no letters", line)}
		}
		if rec.ID == "" {
			rec.ID = ix.newID()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = ix.now().UTC()
		}
		rec.Code = ix.enc.Encode(rec.Name)
		rec.Fingerprint = Fingerprint(rec.Name)

		_, ok, err := ix.insert(ctx, rec)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	if err := sc.Err(); err != nil {
		return added, errors.NewIO("read", "import", err)
	}
	return added, nil
}
