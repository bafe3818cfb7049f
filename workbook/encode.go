package workbook

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const sheetFilesGlob = "*.jsonl"

// This file persists a workbook in a directory, one JSONL file per sheet, in
// a way that is still human-readable and git-friendly.
//
// The strategy to Save/Open a workbook is as follows:
//   Open: glob the sheet files, derive each sheet name from its filename,
//         and parse one cell per line.
//   Save: write each sheet to a temporary file in row-major cell order (so
//         re-saving an unchanged workbook produces an identical file), then
//         rename it into place, then delete any sheet file on disk that no
//         longer has a sheet in the workbook.

// jcell is the persisted form of one cell.
type jcell struct {
	Cell   string           `json:"cell"`
	Text   *string          `json:"text,omitempty"`
	Number *decimal.Decimal `json:"number,omitempty"`
	Format string           `json:"format,omitempty"`
	Color  string           `json:"color,omitempty"`
}

// Save writes the workbook to dir, creating it if needed.
func (w *Workbook) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create workbook directory %q: %w", dir, err)
	}

	wanted := make(map[string]bool)
	for _, name := range w.Names() {
		filename := name + ".jsonl"
		wanted[filename] = true
		if err := saveSheet(filepath.Join(dir, filename), w.sheets[name]); err != nil {
			return err
		}
	}

	// Remove sheet files that no longer have a sheet.
	stale, err := filepath.Glob(filepath.Join(dir, sheetFilesGlob))
	if err != nil {
		return err
	}
	for _, file := range stale {
		if !wanted[filepath.Base(file)] {
			if err := os.Remove(file); err != nil {
				return fmt.Errorf("cannot remove stale sheet file %q: %w", file, err)
			}
		}
	}
	return nil
}

func saveSheet(file string, s *Sheet) error {
	tmp, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := encodeSheet(tmp, s); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot encode sheet %q: %w", s.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), file)
}

func encodeSheet(w io.Writer, s *Sheet) error {
	// Row-major order for stable output.
	positions := make([]position, 0, len(s.cells))
	for p, c := range s.cells {
		if c.IsEmpty() {
			continue
		}
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].row != positions[j].row {
			return positions[i].row < positions[j].row
		}
		return positions[i].col < positions[j].col
	})

	enc := json.NewEncoder(w)
	for _, p := range positions {
		c := s.cells[p]
		jc := jcell{
			Cell:   FormatRef(p.col, p.row),
			Format: c.format,
		}
		if n, ok := c.Number(); ok {
			jc.Number = &n
		} else if c.text != "" {
			jc.Text = &c.text
		}
		if c.background != 0 {
			jc.Color = fmt.Sprintf("#%06x", uint32(c.background))
		}
		if err := enc.Encode(jc); err != nil {
			return err
		}
	}
	return nil
}

// Open reads a workbook from dir. A missing directory is an fs.ErrNotExist.
func Open(dir string) (*Workbook, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	files, err := filepath.Glob(filepath.Join(dir, sheetFilesGlob))
	if err != nil {
		return nil, err
	}

	w := New()
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".jsonl")
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		err = decodeSheet(file, f, w.Sheet(name))
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return w, nil
}

// decodeSheet parses a single sheet file. filename is for error messages only.
func decodeSheet(filename string, r io.Reader, s *Sheet) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var jc jcell
		if err := json.Unmarshal(line, &jc); err != nil {
			return fmt.Errorf("format error in %q on line %q: %w", filename, string(line), err)
		}
		_, col, row, err := ParseRef(jc.Cell)
		if err != nil {
			return fmt.Errorf("format error in %q: %w", filename, err)
		}

		c := s.Cell(col, row)
		switch {
		case jc.Number != nil:
			c.SetNumber(*jc.Number)
		case jc.Text != nil:
			c.SetText(*jc.Text)
		}
		c.SetFormat(jc.Format)
		if jc.Color != "" {
			var rgb uint32
			if _, err := fmt.Sscanf(jc.Color, "#%06x", &rgb); err != nil {
				return fmt.Errorf("format error in %q: invalid color %q: %w", filename, jc.Color, err)
			}
			c.SetBackground(Color(rgb))
		}
	}
	return scanner.Err()
}
