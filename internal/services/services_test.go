package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabinsight/internal/analytics"
	"tabinsight/internal/config"
	"tabinsight/internal/dataset"
	apperrors "tabinsight/internal/errors"
	"tabinsight/internal/files"
	"tabinsight/internal/ml"
	"tabinsight/internal/privacy"
	"tabinsight/internal/shared/testutil"
	"tabinsight/internal/tabular"
)

type testEnv struct {
	cfg        *config.Config
	store      *files.Store
	datasets   *DatasetService
	analysis   *AnalysisService
	prediction *PredictionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg := config.Default()
	cfg.Storage.Root = t.TempDir()

	reader := tabular.NewReader(dataset.Options{IdentifierKeywords: cfg.Analytics.IdentifierKeywords}, logger)
	store, err := files.NewStore(cfg.Storage, reader, logger)
	require.NoError(t, err)

	analyzer := analytics.NewAnalyzer(cfg.Analytics, logger)
	datasets := NewDatasetService(store, analyzer, privacy.NewMasker(cfg.Analytics, logger), nil, logger)
	datasets.now = func() time.Time { return time.Unix(1700000000, 0) }

	return &testEnv{
		cfg:        cfg,
		store:      store,
		datasets:   datasets,
		analysis:   NewAnalysisService(store, analyzer, nil, logger),
		prediction: NewPredictionService(store, ml.NewTrainer(cfg.Analytics, logger), nil, logger),
	}
}

const peopleCSV = "id,name,score,group\n1,Ann,10,a\n2,Bo,,b\n3,Cy,20,a\n4,Di,30,b\n"

func (e *testEnv) upload(t *testing.T, data string) string {
	t.Helper()
	res, err := e.datasets.Upload(context.Background(), "people.csv", []byte(data))
	require.NoError(t, err)
	return res.Filename
}

func TestDatasetService_Upload(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.datasets.Upload(context.Background(), "people.csv", []byte(peopleCSV))
	require.NoError(t, err)

	assert.Equal(t, "upload_1700000000.csv", res.Filename)
	assert.Equal(t, "people.csv", res.OriginalFilename)
	assert.Len(t, res.Digest, 64)
	assert.Equal(t, []string{"id", "name", "score", "group"}, res.Columns)
	assert.Equal(t, []string{"score"}, res.NumericColumns)
	assert.Contains(t, res.BinaryColumns, "group")
	assert.Equal(t, 4, res.RowCount)
	assert.True(t, env.store.Exists(files.AreaPrimary, res.Filename))

	again, err := env.datasets.Upload(context.Background(), "copy.csv", []byte(peopleCSV))
	require.NoError(t, err)
	assert.Equal(t, res.Digest, again.Digest)
}

func TestDatasetService_UploadRejects(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		check    func(error) bool
	}{
		{"missing name", "", []byte("a\n1\n"), apperrors.IsValidation},
		{"unsupported type", "notes.txt", []byte("a\n1\n"), apperrors.IsValidation},
		{"empty body", "a.csv", nil, apperrors.IsValidation},
		{"legacy workbook", "old.xls", []byte{0xD0, 0xCF, 0x11}, apperrors.IsParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.datasets.Upload(context.Background(), tt.filename, tt.data)
			require.Error(t, err)
			assert.True(t, tt.check(err), "got %v", err)

			entries, err := os.ReadDir(env.cfg.Storage.PrimaryDir())
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestDatasetService_UploadManual(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.datasets.UploadManual(context.Background(), [][]string{
		{"city", "sales"},
		{"Oslo", "3"},
		{"Rome", "4"},
	})
	require.NoError(t, err)
	assert.Equal(t, "manual_1700000000.csv", res.Filename)
	assert.Equal(t, "manual_table.csv", res.OriginalFilename)
	assert.Equal(t, 2, res.RowCount)
	assert.Equal(t, []string{"sales"}, res.NumericColumns)

	_, err = env.datasets.UploadManual(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyGrid)

	_, err = env.datasets.UploadManual(context.Background(), [][]string{{"a"}, {"1", "2"}})
	assert.True(t, apperrors.IsValidation(err))
}

func TestDatasetService_PreviewAndOptions(t *testing.T) {
	env := newTestEnv(t)
	name := env.upload(t, peopleCSV)

	preview, err := env.datasets.Preview(context.Background(), name)
	require.NoError(t, err)
	assert.Len(t, preview.Rows, 4)
	assert.Equal(t, "", preview.Rows[1]["score"])

	options, err := env.datasets.Options(context.Background(), name, "group")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, options)

	_, err = env.datasets.Options(context.Background(), name, "")
	assert.ErrorIs(t, err, ErrColumnRequired)

	_, err = env.datasets.Preview(context.Background(), "")
	assert.ErrorIs(t, err, ErrFilenameRequired)

	_, err = env.datasets.Preview(context.Background(), "ghost.csv")
	assert.True(t, apperrors.IsValidation(err))
}

func TestDatasetService_DerivedCopies(t *testing.T) {
	env := newTestEnv(t)
	name := env.upload(t, peopleCSV)
	ctx := context.Background()

	cleaned, err := env.datasets.Clean(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, "cleaned_upload_1700000000.csv", cleaned.CleanedFilename)
	assert.Equal(t, 1, cleaned.Report.TotalMissing)
	assert.Equal(t, 0, cleaned.OutliersHandled)
	assert.True(t, env.store.Exists(files.AreaDerived, cleaned.CleanedFilename))

	table, err := env.store.Load(cleaned.CleanedFilename)
	require.NoError(t, err)
	score, _ := table.Column("score")
	assert.Equal(t, 0, score.MissingCount())
	assert.Equal(t, 20.0, score.Numbers()[1])

	std, err := env.datasets.Standardize(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, "std_"+name, std.StdFilename)
	assert.True(t, env.store.Exists(files.AreaDerived, std.StdFilename))

	masked, err := env.datasets.Mask(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, "masked_"+name, masked.MaskedFilename)
	assert.Equal(t, []string{"id", "name"}, masked.MaskedColumns)

	table, err = env.store.Load(masked.MaskedFilename)
	require.NoError(t, err)
	names, _ := table.Column("name")
	assert.Equal(t, "A*n", names.String(0))
	assert.Equal(t, "B*", names.String(1))
}

func TestDatasetService_Save(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	in := SaveInput{
		Filename:   "edited.csv",
		Columns:    []string{"city", "sales"},
		Rows:       []map[string]interface{}{{"city": "Oslo", "sales": 3.0}, {"city": "Rome", "sales": nil}},
		IsNewTable: true,
	}

	res, err := env.datasets.Save(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, files.AreaDerived, res.Area)

	table, err := env.store.Load("edited.csv")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Oslo", "3"}, {"Rome", ""}}, table.Records())

	_, err = env.datasets.Save(ctx, in)
	assert.True(t, apperrors.IsConflict(err))

	in.OverwriteConfirmed = true
	_, err = env.datasets.Save(ctx, in)
	assert.NoError(t, err)

	_, err = env.datasets.Save(ctx, SaveInput{Filename: "x.csv"})
	assert.ErrorIs(t, err, ErrColumnsRequired)
}

func TestDatasetService_Cleanup(t *testing.T) {
	env := newTestEnv(t)
	name := env.upload(t, peopleCSV)

	require.NoError(t, env.datasets.Cleanup(context.Background()))
	assert.False(t, env.store.Exists(files.AreaPrimary, name))
	assert.DirExists(t, env.cfg.Storage.DerivedDir())
}

func TestCellString(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{2.5, "2.5"},
		{4.0, "4"},
		{true, "true"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, cellString(tt.in))
		})
	}
}

func TestCleanedName(t *testing.T) {
	assert.Equal(t, "cleaned_upload_1.csv", cleanedName("upload_1.xlsx"))
	assert.Equal(t, "cleaned_a.csv", cleanedName("a.b.csv"))
}

func TestAnalysisService(t *testing.T) {
	env := newTestEnv(t)
	name := env.upload(t, peopleCSV)
	ctx := context.Background()

	stats, err := env.analysis.Descriptive(ctx, name, []string{"score"})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 3, stats[0].Count)

	_, err = env.analysis.Descriptive(ctx, name, []string{"name"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = env.analysis.Advanced(ctx, name, []string{"score"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = env.analysis.TTest(ctx, name, "", []string{"score"})
	assert.ErrorIs(t, err, ErrGroupRequired)

	// group b holds a single score, so the column is skipped
	comparisons, err := env.analysis.TTest(ctx, name, "group", []string{"score"})
	require.NoError(t, err)
	assert.Empty(t, comparisons)

	dists, err := env.analysis.Distribution(ctx, name, []string{"score"})
	require.NoError(t, err)
	assert.Len(t, dists, 1)

	cats, err := env.analysis.Categorical(ctx, name)
	require.NoError(t, err)
	assert.NotNil(t, cats)

	_, err = env.analysis.Radar(ctx, name, "", "")
	assert.ErrorIs(t, err, ErrRadarRequired)

	summary, err := env.analysis.Summary(ctx, name)
	require.NoError(t, err)
	assert.NotEmpty(t, summary)

	_, err = env.analysis.Summary(ctx, "")
	assert.ErrorIs(t, err, ErrFilenameRequired)
}

func TestPredictionService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var b strings.Builder
	b.WriteString("x,y\n")
	for i := 1; i <= 40; i++ {
		fmt.Fprintf(&b, "%d,%d\n", i, 3*i+1)
	}
	name := env.upload(t, b.String())

	res, err := env.prediction.Predict(ctx, name, "y", []string{"x"})
	require.NoError(t, err)
	assert.Greater(t, res.R2, 0.9)
	assert.Equal(t, []string{"x"}, res.Features)

	rec, err := env.prediction.PredictNew(ctx, name, "y", []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, 8, rec.SampleSize)
	assert.LessOrEqual(t, rec.Confidence, 98.75)

	_, err = env.prediction.Predict(ctx, name, "y", nil)
	assert.ErrorIs(t, err, ErrTargetRequired)

	small := env.upload(t, "x,y\n1,2\n2,3\n")
	_, err = env.prediction.PredictNew(ctx, small, "y", []string{"x"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestHealthService(t *testing.T) {
	env := newTestEnv(t)
	hs := NewHealthService("test", env.cfg.Storage, nil)
	ctx := context.Background()

	assert.Equal(t, "ok", hs.HealthCheck(ctx).Status)
	assert.Equal(t, "alive", hs.LivenessCheck(ctx).Status)

	ready := hs.ReadinessCheck(ctx)
	assert.Equal(t, "ready", ready.Status)
	assert.Len(t, ready.Services, 2)

	require.NoError(t, os.RemoveAll(env.cfg.Storage.DerivedDir()))
	notReady := hs.ReadinessCheck(ctx)
	assert.Equal(t, "not_ready", notReady.Status)
	assert.Equal(t, "not_ready", notReady.Services["derived_storage"].Status)
}

func TestTracker_LogsByErrorKind(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	tr := tracker{logger: logger}

	_, done := tr.start(context.Background(), "describe", "a.csv")
	done(4, nil)
	testutil.AssertLogContains(t, logs, slog.LevelInfo, "Operation completed")
	testutil.AssertLogAttr(t, logs, "rows", int64(4))

	_, done = tr.start(context.Background(), "describe", "ghost.csv")
	done(0, apperrors.Validation("file ghost.csv not found"))
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "Operation failed")
	testutil.AssertLogAttr(t, logs, "error_kind", apperrors.KindValidation.String())
	testutil.AssertNoErrors(t, logs)

	_, done = tr.start(context.Background(), "predict", "a.csv")
	done(0, apperrors.Computation(fmt.Errorf("forest diverged")))
	testutil.AssertLogContains(t, logs, slog.LevelError, "Operation failed")
}
