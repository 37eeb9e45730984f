package runlog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"dividend-screener/internal/types"
)

var ist = time.FixedZone("IST", 19800)

// Entry is one line of the run history
type Entry struct {
	Time                  string   `json:"time"`
	Source                string   `json:"source"`
	Rows                  int      `json:"rows"`
	FailedRows            int      `json:"failed_rows"`
	FailedSymbols         []string `json:"failed_symbols,omitempty"`
	TotalValue            string   `json:"total_value"`
	TotalDividend         string   `json:"total_dividend"`
	TotalAvgDividendYield string   `json:"total_avg_dividend_yield,omitempty"`
	Report                string   `json:"report,omitempty"`
}

// Log appends run summaries to one file per IST day under dir
type Log struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

func New(dir string) *Log {
	return &Log{dir: dir, now: time.Now}
}

// EntryFor summarises a table; source names what triggered the run
func EntryFor(source string, table *types.Table) Entry {
	e := Entry{
		Source:        source,
		Rows:          len(table.Rows),
		TotalValue:    table.Summary.TotalValue.String(),
		TotalDividend: table.Summary.TotalDividend.String(),
	}
	if table.Summary.TotalAvgDividendYield.Valid {
		e.TotalAvgDividendYield = table.Summary.TotalAvgDividendYield.Decimal.StringFixed(4)
	}
	for _, row := range table.Rows {
		if len(row.Errors) > 0 {
			e.FailedRows++
			e.FailedSymbols = append(e.FailedSymbols, row.Request.Symbol)
		}
	}
	return e
}

func (l *Log) dailyFilepath(t time.Time) string {
	return filepath.Join(l.dir, t.In(ist).Format("2006-01-02")+".txt")
}

// Append stamps e with the current IST time and writes it as one JSON line
func (l *Log) Append(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now().In(ist)
	e.Time = now.Format("2006-01-02 15:04:05")

	p := l.dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips daily files last modified more than retentionDays ago.
// A file whose .gz already exists is removed.
func (l *Log) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := l.now().AddDate(0, 0, -retentionDays)

	return filepath.WalkDir(l.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, err := os.Stat(gz); err == nil {
			return os.Remove(p)
		}
		if err := gzipFile(p, gz); err != nil {
			_ = os.Remove(gz)
			return fmt.Errorf("compress %s: %w", p, err)
		}
		return os.Remove(p)
	})
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		out.Close()
		return err
	}
	if err := gw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
