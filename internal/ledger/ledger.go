// internal/ledger/ledger.go
// ResultLedger: tabel hasil evaluasi, satu baris per sumur, urut reserves menurun.

package ledger

import (
	"slices"
	"sync"
	"time"

	"dca-reserves/internal/decline"
	"dca-reserves/internal/util"
)

// Entry satu baris ledger.
type Entry struct {
	WellID        string                  `json:"well_id"`
	WindowStart   time.Time               `json:"window_start"`
	WindowEnd     time.Time               `json:"window_end"`
	ForecastStart time.Time               `json:"forecast_start"`
	Intervention  float64                 `json:"intervention"`
	Estimate      decline.ReserveEstimate `json:"estimate"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// Reserves shortcut untuk kunci sort.
func (e Entry) Reserves() float64 { return e.Estimate.Reserves }

// Ledger aman dipakai dari banyak goroutine; satu mutex menjaga
// seluruh read-modify-write Upsert.
type Ledger struct {
	mu    sync.Mutex
	rows  []Entry
	clock util.Clock
}

// New membuat ledger kosong. clock nil = util.RealClock.
func New(clock util.Clock) *Ledger {
	if clock == nil {
		clock = util.RealClock{}
	}
	return &Ledger{clock: clock}
}

// Upsert mengganti baris dengan WellID yang sama (atau menambah), lalu sort ulang.
func (l *Ledger) Upsert(e Entry) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = l.clock.Now().UTC()
	}
	if i := l.indexLocked(e.WellID); i >= 0 {
		l.rows[i] = e
	} else {
		l.rows = append(l.rows, e)
	}
	sortRows(l.rows)
	return e
}

// Remove menghapus baris sumur; false kalau tidak ada.
func (l *Ledger) Remove(wellID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(wellID)
	if i < 0 {
		return false
	}
	l.rows = slices.Delete(l.rows, i, i+1)
	return true
}

// Get baris untuk satu sumur.
func (l *Ledger) Get(wellID string) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.indexLocked(wellID); i >= 0 {
		return l.rows[i], true
	}
	return Entry{}, false
}

// Rows salinan semua baris (urut reserves menurun).
func (l *Ledger) Rows() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.rows)
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rows)
}

// Replace mengganti seluruh isi (restore dari storage). Duplikat WellID: yang terakhir menang.
func (l *Ledger) Replace(rows []Entry) {
	seen := make(map[string]int, len(rows))
	out := make([]Entry, 0, len(rows))
	for _, e := range rows {
		if i, ok := seen[e.WellID]; ok {
			out[i] = e
			continue
		}
		seen[e.WellID] = len(out)
		out = append(out, e)
	}
	sortRows(out)

	l.mu.Lock()
	l.rows = out
	l.mu.Unlock()
}

func (l *Ledger) indexLocked(wellID string) int {
	return slices.IndexFunc(l.rows, func(e Entry) bool { return e.WellID == wellID })
}

func sortRows(rows []Entry) {
	slices.SortStableFunc(rows, func(a, b Entry) int {
		switch {
		case a.Reserves() > b.Reserves():
			return -1
		case a.Reserves() < b.Reserves():
			return 1
		}
		return 0
	})
}
