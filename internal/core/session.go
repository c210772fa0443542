package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultMaxFileSize bounds a single ingest (25MB).
const DefaultMaxFileSize int64 = 25 * 1024 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Session is the in-memory store for one user's records, cards, and display
// order. Ingest and Search are its only mutators; each runs to completion
// under the session lock, so readers never observe a half-applied event.
type Session struct {
	ID string

	mu        sync.Mutex
	records   []Record
	cards     []string // index-aligned with records
	order     []int    // positions into cards, ascending by score
	parsed    bool
	nextIndex int
	query     string
	lastUsed  time.Time

	maxFileSize int64
	logger      *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithMaxFileSize sets the byte limit enforced by IngestReader.
func WithMaxFileSize(n int64) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// WithLogger sets the logger used for ingest diagnostics.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession returns an empty session with a fresh ID.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		ID:          uuid.NewString(),
		lastUsed:    time.Now(),
		maxFileSize: DefaultMaxFileSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session_id", s.ID)
	return s
}

// IngestReader reads a selected file and ingests it. Read failures and
// oversized files return a *FileAccessError and leave the session untouched.
func (s *Session) IngestReader(ctx context.Context, name string, r io.Reader) (IngestResult, error) {
	if r == nil {
		return IngestResult{}, &FileAccessError{Name: name, Err: ErrNoFile}
	}

	data, err := readLimited(ctx, r, s.maxFileSize)
	if err != nil {
		return IngestResult{}, &FileAccessError{Name: name, Err: err}
	}
	return s.ingest(name, data)
}

// Ingest parses file content and appends its records and cards, followed by
// one sentinel pair. The display order is reset to file order. Malformed rows
// are skipped and reported; invalid UTF-8 fails the whole batch.
func (s *Session) Ingest(data []byte) (IngestResult, error) {
	return s.ingest("", data)
}

func (s *Session) ingest(name string, data []byte) (IngestResult, error) {
	start := time.Now()
	result := IngestResult{
		BatchID:  uuid.NewString(),
		FileName: name,
	}
	logger := s.logger.With("batch_id", result.BatchID)
	if name != "" {
		logger = logger.With("file", name)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if off := invalidUTF8Offset(data); off >= 0 {
		err := &EncodingError{Offset: off}
		logger.Warn("ingest rejected", "error", err)
		return result, err
	}

	staged, failed, err := decodeRows(Normalize(string(data)), logger)
	if err != nil {
		logger.Warn("ingest rejected", "error", err)
		return result, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range staged {
		s.nextIndex++
		r.Index = s.nextIndex
		s.records = append(s.records, r)
		s.cards = append(s.cards, Render(r))
	}
	s.records = append(s.records, Record{})
	s.cards = append(s.cards, "")
	s.order = identityOrder(len(s.cards))
	s.query = ""
	if len(staged) > 0 {
		s.parsed = true
		result.FirstIndex = s.nextIndex - len(staged) + 1
		result.LastIndex = s.nextIndex
	}
	s.lastUsed = time.Now()

	result.Parsed = len(staged)
	result.Skipped = len(failed)
	result.FailedRows = failed
	result.Duration = time.Since(start)

	logger.Info("ingest complete",
		"records", result.Parsed,
		"skipped", result.Skipped,
		"total_cards", len(s.cards),
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// decodeRows maps every data row onto a Record. Rows that fail to decode are
// logged and returned as FailedRows; only a broken header is fatal.
func decodeRows(text string, logger *slog.Logger) ([]Record, []FailedRow, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	idx := MakeHeaderIndex(header)

	var (
		records []Record
		failed  []FailedRow
	)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var rowErr *RowDecodeError
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return nil, nil, fmt.Errorf("read rows: %w", err)
			}
			rowErr = &RowDecodeError{Line: pe.StartLine, Err: pe.Err}
		} else {
			line, _ := r.FieldPos(0)
			rec, err := ParseRow(row, idx)
			if err == nil {
				records = append(records, rec)
				continue
			}
			rowErr = &RowDecodeError{Line: line, Err: err}
		}

		logger.Warn("row skipped", "line", rowErr.Line, "error", rowErr.Err)
		failed = append(failed, FailedRow{
			LineNumber: rowErr.Line,
			Reason:     rowErr.Error(),
			Data:       row,
		})
	}

	return records, failed, nil
}

// Search rescores every card against query and rebuilds the display order
// from a fresh (position, score) snapshot. An empty query scores every card 0
// and therefore keeps file order.
func (s *Session) Search(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scores := ScoreAll(s.cards, query)
	s.order = SortOrder(Snapshot(scores))
	for i := range s.records {
		s.records[i].Score = scores[i]
	}
	s.query = query
	s.lastUsed = time.Now()
}

// Cards returns card texts in display order, highest score first.
func (s *Session) Cards() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayCards()
}

func (s *Session) displayCards() []string {
	out := make([]string, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.cards[s.order[i]])
	}
	return out
}

// Parsed reports whether at least one record has been ingested.
func (s *Session) Parsed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parsed
}

// Order returns a copy of the ascending sort order.
func (s *Session) Order() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.order...)
}

// Records returns a copy of the stored records, sentinels included.
func (s *Session) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...)
}

// RawCards returns a copy of the cards in storage order.
func (s *Session) RawCards() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cards...)
}

// View returns everything a view layer needs in one consistent read.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Cards:   s.displayCards(),
		Parsed:  s.parsed,
		Records: len(s.records),
		Query:   s.query,
	}
}

// LastUsed returns when the session last handled an event.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// invalidUTF8Offset returns the byte offset of the first invalid sequence,
// or -1 if data is valid UTF-8.
func invalidUTF8Offset(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for off := 0; off < len(data); {
		r, size := utf8.DecodeRune(data[off:])
		if r == utf8.RuneError && size == 1 {
			return off
		}
		off += size
	}
	return -1
}

// readLimited reads all of r, failing with ErrFileTooLarge past limit bytes.
func readLimited(ctx context.Context, r io.Reader, limit int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, limit)
	}
	return data, nil
}
