package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csvOf(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

func TestSession_AdaScenario(t *testing.T) {
	s := NewSession()

	res, err := s.Ingest(csvOf(
		"Timestamp,First Name,Last Name",
		"2021-01-01 09:00,Ada,Lovelace",
		"2021-01-02 10:00,,",
	))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Parsed)
	assert.Equal(t, 0, res.Skipped)

	cards := s.RawCards()
	require.Len(t, cards, 3)
	assert.Equal(t, "1.\n• First Name:     Ada\n• Last Name:      Lovelace\n", cards[0])
	assert.Equal(t, "2.\n", cards[1])
	assert.Equal(t, "", cards[2])
	assert.True(t, s.Parsed())

	s.Search("Ada")
	order := s.Order()
	require.Len(t, order, 3)
	assert.Equal(t, 0, order[len(order)-1], "best match is read from the end of the order")
	assert.Equal(t, cards[0], s.Cards()[0])
}

func TestSession_IndicesFollowFileOrder(t *testing.T) {
	lines := []string{"First Name"}
	for i := 0; i < 5; i++ {
		lines = append(lines, fmt.Sprintf("name%d", i))
	}

	s := NewSession()
	_, err := s.Ingest(csvOf(lines...))
	require.NoError(t, err)

	records := s.Records()
	require.Len(t, records, 6)
	for i := 0; i < 5; i++ {
		assert.Equal(t, i+1, records[i].Index)
		assert.Equal(t, fmt.Sprintf("name%d", i), records[i].FirstName)
	}
	assert.True(t, records[5].IsSentinel())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, s.Order())
}

func TestSession_MalformedRowConsumesNoIndex(t *testing.T) {
	s := NewSession()

	res, err := s.Ingest(csvOf(
		"Timestamp,First Name,Last Name",
		"t1,Ada,Lovelace",
		"t2,Bad,Row,extra",
		"t3,Grace,Hopper",
	))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Parsed)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.FailedRows, 1)
	assert.Equal(t, 3, res.FailedRows[0].LineNumber)
	assert.Contains(t, res.FailedRows[0].Reason, "row decode")

	records := s.Records()
	require.Len(t, records, 3)
	assert.Equal(t, 1, records[0].Index)
	assert.Equal(t, 2, records[1].Index)
	assert.Equal(t, "Grace", records[1].FirstName)
	assert.True(t, records[2].IsSentinel())
}

func TestSession_SearchIdempotent(t *testing.T) {
	s := NewSession()
	_, err := s.Ingest(csvOf(
		"First Name,Last Name,GPA",
		"Ada,Lovelace,4.0",
		"Alan,Turing,3.8",
		"Grace,Hopper,3.9",
		"Adele,Goldberg,3.7",
	))
	require.NoError(t, err)

	s.Search("a")
	first := s.Order()
	s.Search("a")
	assert.Equal(t, first, s.Order())
}

func TestSession_EmptyQueryKeepsFileOrder(t *testing.T) {
	s := NewSession()
	_, err := s.Ingest(csvOf("First Name", "Ada", "Alan", "Grace"))
	require.NoError(t, err)

	s.Search("Grace")
	s.Search("")

	assert.Equal(t, []int{0, 1, 2, 3}, s.Order())
	for _, r := range s.Records() {
		assert.Equal(t, int64(0), r.Score)
	}
}

func TestSession_ScoresStoredOnRecords(t *testing.T) {
	s := NewSession()
	_, err := s.Ingest(csvOf("First Name", "Ada", "Grace"))
	require.NoError(t, err)

	s.Search("Grace")
	records := s.Records()
	assert.Equal(t, int64(0), records[0].Score)
	assert.Greater(t, records[1].Score, int64(0))
	assert.Equal(t, int64(0), records[2].Score)
	assert.Equal(t, "Grace", s.View().Query)
}

func TestSession_QualifiedCoursesScenario(t *testing.T) {
	s := NewSession()
	_, err := s.Ingest(csvOf(
		"First Name,Courses Qualified to Grade",
		`Ada,"Math 101,  CS 201 ,CS305"`,
	))
	require.NoError(t, err)

	card := s.RawCards()[0]
	assert.Contains(t, card,
		"• Qualified For:\n"+
			"                 • Math 101\n"+
			"                 • CS 201\n"+
			"                 • CS305\n")
}

func TestSession_NormalizesDegreeNames(t *testing.T) {
	s := NewSession()
	_, err := s.Ingest(csvOf("First Name,Degree Program", "Ada,MS in Computer Science"))
	require.NoError(t, err)

	card := s.RawCards()[0]
	assert.Contains(t, card, "• Degree Program: Masters in Computer Science\n")
}

func TestSession_IngestAppends(t *testing.T) {
	s := NewSession()
	_, err := s.Ingest(csvOf("First Name", "Ada", "Alan"))
	require.NoError(t, err)
	s.Search("Alan")

	res, err := s.Ingest(csvOf("First Name", "Grace"))
	require.NoError(t, err)
	assert.Equal(t, 3, res.FirstIndex)
	assert.Equal(t, 3, res.LastIndex)

	records := s.Records()
	require.Len(t, records, 5)
	assert.Equal(t, []int{1, 2, 0, 3, 0}, []int{
		records[0].Index, records[1].Index, records[2].Index, records[3].Index, records[4].Index,
	})
	assert.Equal(t, "3.\n• First Name:     Grace\n", s.RawCards()[3])
	assert.Equal(t, []int{0, 1, 2, 3, 4}, s.Order())
	assert.Equal(t, "", s.View().Query)
}

func TestSession_EncodingErrorLeavesStateUntouched(t *testing.T) {
	s := NewSession()
	_, err := s.Ingest(csvOf("First Name", "Ada"))
	require.NoError(t, err)
	before := s.RawCards()

	_, err = s.Ingest([]byte("First Name\n\xffbad\n"))
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, 11, encErr.Offset)

	assert.Equal(t, before, s.RawCards())
	assert.Len(t, s.Records(), 2)
}

func TestSession_EmptyFileAddsOnlySentinel(t *testing.T) {
	s := NewSession()
	res, err := s.Ingest(nil)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Parsed)
	assert.False(t, s.Parsed())
	assert.Equal(t, []string{""}, s.RawCards())
}

func TestSession_StripsByteOrderMark(t *testing.T) {
	s := NewSession()
	data := append([]byte{0xEF, 0xBB, 0xBF}, csvOf("First Name", "Ada")...)

	_, err := s.Ingest(data)
	require.NoError(t, err)
	assert.Equal(t, "Ada", s.Records()[0].FirstName)
}

func TestSession_IngestReader(t *testing.T) {
	ctx := context.Background()

	t.Run("reads file", func(t *testing.T) {
		s := NewSession()
		res, err := s.IngestReader(ctx, "responses.csv", bytes.NewReader(csvOf("First Name", "Ada")))
		require.NoError(t, err)
		assert.Equal(t, "responses.csv", res.FileName)
		assert.Equal(t, 1, res.Parsed)
	})

	t.Run("no file", func(t *testing.T) {
		s := NewSession()
		_, err := s.IngestReader(ctx, "", nil)
		var accessErr *FileAccessError
		require.ErrorAs(t, err, &accessErr)
		assert.ErrorIs(t, err, ErrNoFile)
		assert.Empty(t, s.RawCards())
	})

	t.Run("too large", func(t *testing.T) {
		s := NewSession(WithMaxFileSize(8))
		_, err := s.IngestReader(ctx, "big.csv", strings.NewReader("First Name\nAda\n"))
		assert.ErrorIs(t, err, ErrFileTooLarge)
		assert.Empty(t, s.RawCards())
	})

	t.Run("read failure", func(t *testing.T) {
		s := NewSession()
		_, err := s.IngestReader(ctx, "broken.csv", failingReader{})
		var accessErr *FileAccessError
		require.ErrorAs(t, err, &accessErr)
		assert.Equal(t, "broken.csv", accessErr.Name)
		assert.False(t, s.Parsed())
	})

	t.Run("cancelled context", func(t *testing.T) {
		s := NewSession()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := s.IngestReader(cctx, "x.csv", strings.NewReader("First Name\nAda\n"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestSession_View(t *testing.T) {
	s := NewSession()
	_, err := s.Ingest(csvOf("First Name", "Ada", "Grace"))
	require.NoError(t, err)

	s.Search("Grace")
	v := s.View()

	assert.True(t, v.Parsed)
	assert.Equal(t, 3, v.Records)
	require.Len(t, v.Cards, 3)
	assert.Equal(t, "2.\n• First Name:     Grace\n", v.Cards[0])
}

func TestSession_ConcurrentSearchAndIngest(t *testing.T) {
	s := NewSession()
	data := csvOf(
		"Timestamp,First Name,Last Name",
		"2021-01-01 09:00,Ada,Lovelace",
		"2021-01-02 10:00,Grace,Hopper",
	)
	queries := []string{"Ada", "hop", "", "lace", "g h"}

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.Ingest(data)
			assert.NoError(t, err)
		}()
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s.Search(queries[(i+j)%len(queries)])
				v := s.View()
				assert.Equal(t, v.Records, len(v.Cards), "cards and records must stay aligned")
			}
		}(i)
	}
	wg.Wait()

	order, cards, records := s.Order(), s.RawCards(), s.Records()
	assert.Len(t, cards, workers*3)
	assert.Len(t, records, len(cards))
	require.Len(t, order, len(cards))

	seen := make([]bool, len(order))
	for _, pos := range order {
		require.False(t, seen[pos], "position %d appears twice in order", pos)
		seen[pos] = true
	}
	for i, r := range records {
		assert.Equal(t, r.Index == 0, cards[i] == "", "record %d and its card disagree on being a sentinel", i)
	}
}
