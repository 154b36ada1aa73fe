package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
	"github.com/Ductam7415vn/SumUp-sub002/internal/render"
	"github.com/Ductam7415vn/SumUp-sub002/internal/utils"
)

var fixedTime = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func testSummary() *models.Summary {
	return &models.Summary{
		Summary:       "Remote work boosts productivity when teams communicate deliberately.",
		BriefOverview: "Remote teams thrive with structure.",
		BulletPoints:  []string{"Async updates", "Clear ownership"},
		KeyInsights:   models.List("Documentation culture predicts success"),
		ActionItems:   models.List("Schedule a weekly written update"),
		Keywords:      models.List("remote", "async"),
		Metrics: models.Metrics{
			OriginalWordCount:   1200,
			SummaryWordCount:    180,
			ReductionPercentage: 85,
			OriginalReadingTime: 6,
			SummaryReadingTime:  1,
		},
		CreatedAt: fixedTime,
		Persona:   models.PersonaBusiness,
	}
}

func newTestExporter(t *testing.T, opts Options) *Exporter {
	t.Helper()
	if opts.BaseDir == "" {
		opts.BaseDir = t.TempDir()
	}
	return New(render.NewRegistry(render.DefaultStyle()), opts, utils.NewNopLogger())
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

// failingRenderer writes some bytes and then fails, leaving a partial file.
type failingRenderer struct {
	format models.ExportFormat
	panic  bool
}

func (r failingRenderer) Format() models.ExportFormat { return r.format }

func (r failingRenderer) Render(w io.Writer, _ *render.Report) error {
	if _, err := io.WriteString(w, strings.Repeat("partial ", 1024)); err != nil {
		return err
	}
	if r.panic {
		panic("boom")
	}
	return errors.New("disk on fire")
}

// blockingRenderer waits until released.
type blockingRenderer struct {
	started chan struct{}
	release chan struct{}
}

func (r blockingRenderer) Format() models.ExportFormat { return models.FormatText }

func (r blockingRenderer) Render(w io.Writer, _ *render.Report) error {
	close(r.started)
	<-r.release
	_, err := io.WriteString(w, "late")
	return err
}

var namePattern = regexp.MustCompile(`^summary_(\d+)_[0-9a-z]{8}\.[a-z]+$`)

func TestExportEveryFormat(t *testing.T) {
	base := t.TempDir()
	e := newTestExporter(t, Options{BaseDir: base, ValidatePDF: true})

	for _, format := range models.ExportFormats {
		t.Run(string(format), func(t *testing.T) {
			res, err := e.Export(context.Background(), testSummary(), "", format)
			require.NoError(t, err)

			assert.Equal(t, format, res.Format)
			assert.Equal(t, format.MimeType(), res.MimeType)
			assert.Equal(t, filepath.Join(base, string(format.Dir())), filepath.Dir(res.Path))
			assert.True(t, strings.HasSuffix(res.Filename, format.Extension()))
			assert.Regexp(t, namePattern, res.Filename)

			info, err := os.Stat(res.Path)
			require.NoError(t, err)
			assert.Equal(t, info.Size(), res.Size)
			assert.Positive(t, res.Size)
		})
	}
}

func TestExportDirectories(t *testing.T) {
	base := t.TempDir()
	e := newTestExporter(t, Options{BaseDir: base})

	img, err := e.Export(context.Background(), testSummary(), "", models.FormatImage)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "pictures"), filepath.Dir(img.Path))

	md, err := e.Export(context.Background(), testSummary(), "", models.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "documents"), filepath.Dir(md.Path))
	assert.Equal(t, filepath.Join(base, "documents"), e.Dir(models.FormatMarkdown))
}

func TestExportFileNameUsesClock(t *testing.T) {
	e := newTestExporter(t, Options{Clock: func() time.Time { return fixedTime }})

	res, err := e.Export(context.Background(), testSummary(), "", models.FormatJSON)
	require.NoError(t, err)

	m := namePattern.FindStringSubmatch(res.Filename)
	require.NotNil(t, m)
	assert.Equal(t, fmt.Sprint(fixedTime.UnixMilli()), m[1])
	assert.Equal(t, fixedTime, res.CreatedAt)
}

func TestExportNamesAreUniqueUnderRapidCalls(t *testing.T) {
	e := newTestExporter(t, Options{Clock: func() time.Time { return fixedTime }})

	const n = 40
	var (
		mu    sync.Mutex
		paths = map[string]bool{}
		wg    sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.Export(context.Background(), testSummary(), "", models.FormatText)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			paths[res.Path] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, paths, n)
}

func TestExportRetriesOnNameCollision(t *testing.T) {
	suffixes := []string{"aaaaaaaa", "aaaaaaaa", "bbbbbbbb"}
	var mu sync.Mutex
	next := func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		s := suffixes[0]
		suffixes = suffixes[1:]
		return s, nil
	}

	e := newTestExporter(t, Options{Clock: func() time.Time { return fixedTime }, Suffix: next})

	first, err := e.Export(context.Background(), testSummary(), "", models.FormatText)
	require.NoError(t, err)
	second, err := e.Export(context.Background(), testSummary(), "", models.FormatText)
	require.NoError(t, err)

	assert.Contains(t, first.Filename, "aaaaaaaa")
	assert.Contains(t, second.Filename, "bbbbbbbb")

	data, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestExportNameExhausted(t *testing.T) {
	e := newTestExporter(t, Options{
		Clock:  func() time.Time { return fixedTime },
		Suffix: func() (string, error) { return "samesame", nil },
	})

	_, err := e.Export(context.Background(), testSummary(), "", models.FormatText)
	require.NoError(t, err)

	_, err = e.Export(context.Background(), testSummary(), "", models.FormatText)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNameExhausted)

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, OpCreate, exportErr.Op)
}

func TestExportRenderFailureRemovesFile(t *testing.T) {
	for _, panics := range []bool{false, true} {
		t.Run(fmt.Sprintf("panic=%v", panics), func(t *testing.T) {
			base := t.TempDir()
			reg := render.Registry{models.FormatText: failingRenderer{format: models.FormatText, panic: panics}}
			e := New(reg, Options{BaseDir: base}, utils.NewNopLogger())

			res, err := e.Export(context.Background(), testSummary(), "", models.FormatText)
			require.Error(t, err)
			assert.Nil(t, res)

			var exportErr *ExportError
			require.ErrorAs(t, err, &exportErr)
			assert.Equal(t, OpRender, exportErr.Op)
			assert.Equal(t, models.FormatText, exportErr.Format)

			assert.Empty(t, listFiles(t, base))
		})
	}
}

func TestExportRejectsInvalidSummary(t *testing.T) {
	base := t.TempDir()
	e := newTestExporter(t, Options{BaseDir: base})

	blank := testSummary()
	blank.Summary = "   "

	for _, s := range []*models.Summary{nil, blank} {
		_, err := e.Export(context.Background(), s, "", models.FormatPDF)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrInvalidSummary)

		var exportErr *ExportError
		require.ErrorAs(t, err, &exportErr)
		assert.Equal(t, OpValidate, exportErr.Op)
	}
	assert.Empty(t, listFiles(t, base))
}

func TestExportUnsupportedFormat(t *testing.T) {
	e := New(render.Registry{}, Options{BaseDir: t.TempDir()}, utils.NewNopLogger())

	_, err := e.Export(context.Background(), testSummary(), "", models.FormatDOCX)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExportCancelled(t *testing.T) {
	base := t.TempDir()
	r := blockingRenderer{started: make(chan struct{}), release: make(chan struct{})}
	e := New(render.Registry{models.FormatText: r}, Options{BaseDir: base}, utils.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := e.Export(ctx, testSummary(), "", models.FormatText)
		errc <- err
	}()

	<-r.started
	cancel()

	err := <-errc
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	close(r.release)
	assert.Eventually(t, func() bool {
		return len(listFiles(t, base)) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestExportAlreadyCancelled(t *testing.T) {
	base := t.TempDir()
	e := newTestExporter(t, Options{BaseDir: base})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Export(ctx, testSummary(), "", models.FormatText)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, listFiles(t, base))
}

func TestExportDoesNotMutateSummary(t *testing.T) {
	e := newTestExporter(t, Options{})

	s := testSummary()
	before, err := json.Marshal(s)
	require.NoError(t, err)

	for _, format := range models.ExportFormats {
		_, err := e.Export(context.Background(), s, "academic", format)
		require.NoError(t, err)
	}

	after, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestExportJSONFileRoundTrip(t *testing.T) {
	e := newTestExporter(t, Options{})

	res, err := e.Export(context.Background(), testSummary(), "", models.FormatJSON)
	require.NoError(t, err)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)

	var doc struct {
		Summary      string   `json:"summary"`
		BulletPoints []string `json:"bullet_points"`
		Keywords     []string `json:"keywords"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, testSummary().Summary, doc.Summary)
	assert.Equal(t, []string{"Async updates", "Clear ownership"}, doc.BulletPoints)
	assert.Equal(t, []string{"remote", "async"}, doc.Keywords)
}

func TestExportPDFPageCount(t *testing.T) {
	e := newTestExporter(t, Options{ValidatePDF: true})

	res, err := e.Export(context.Background(), testSummary(), "", models.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)

	long := testSummary()
	long.DetailedSummary = strings.Repeat("A long detailed paragraph about distributed teams. ", 600)
	res, err = e.Export(context.Background(), long, "", models.FormatPDF)
	require.NoError(t, err)
	assert.Greater(t, res.Pages, 1)
}

func TestExportAll(t *testing.T) {
	base := t.TempDir()
	e := newTestExporter(t, Options{BaseDir: base})

	formats := []models.ExportFormat{models.FormatMarkdown, models.FormatImage, models.FormatJSON}
	results, err := e.ExportAll(context.Background(), testSummary(), "", formats)
	require.NoError(t, err)
	require.Len(t, results, len(formats))

	for i, res := range results {
		assert.Equal(t, formats[i], res.Format)
		assert.FileExists(t, res.Path)
	}
	assert.Len(t, listFiles(t, base), len(formats))
}

func TestExportAllFailureLeavesNoFiles(t *testing.T) {
	base := t.TempDir()
	reg := render.NewRegistry(render.DefaultStyle())
	reg[models.FormatDOCX] = failingRenderer{format: models.FormatDOCX}
	e := New(reg, Options{BaseDir: base}, utils.NewNopLogger())

	results, err := e.ExportAll(context.Background(), testSummary(), "", models.ExportFormats)
	require.Error(t, err)
	assert.Nil(t, results)

	assert.Eventually(t, func() bool {
		return len(listFiles(t, base)) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
