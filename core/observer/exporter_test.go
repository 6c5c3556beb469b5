package observer

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"event-sync/core/events"
	"event-sync/core/storage"
	"event-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testReport() Report {
	return Report{
		Results:   []Result{{Name: events.NameA, Emitted: 2, Local: 2, Remote: 2, Converged: true}},
		Converged: true,
	}
}

func TestExporter_ExportAs(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "reports-bucket").Return(true, nil)

	var uploaded []byte
	client.On("PutObject", mock.Anything, "reports-bucket", "reports/run-1.json", mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Run(func(args mock.Arguments) {
			data, err := io.ReadAll(args.Get(3).(io.Reader))
			require.NoError(t, err)
			uploaded = data
			assert.Equal(t, int64(len(data)), args.Get(4).(int64))
			assert.Equal(t, "application/json", args.Get(5).(minio.PutObjectOptions).ContentType)
		}).
		Return(minio.UploadInfo{}, nil)

	exp := NewExporter(client, storage.Config{Bucket: "reports-bucket"}, zap.NewNop())
	object, err := exp.ExportAs(context.Background(), "run-1", testReport())

	require.NoError(t, err)
	assert.Equal(t, "reports/run-1.json", object)
	assert.Contains(t, string(uploaded), `"converged": true`)
	client.AssertExpectations(t)
}

func TestExporter_CreatesBucket(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "reports-bucket").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "reports-bucket", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "reports-bucket", mock.MatchedBy(func(name string) bool {
		return len(name) > len("reports/.json")
	}), mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	exp := NewExporter(client, storage.Config{Bucket: "reports-bucket"}, zap.NewNop())
	object, err := exp.Export(context.Background(), testReport())

	require.NoError(t, err)
	assert.Regexp(t, `^reports/[0-9a-f-]{36}\.json$`, object)
	client.AssertExpectations(t)
}

func TestExporter_Errors(t *testing.T) {
	t.Run("BucketCheck", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "b").Return(false, errors.New("denied"))

		_, err := NewExporter(client, storage.Config{Bucket: "b"}, zap.NewNop()).ExportAs(context.Background(), "x", testReport())
		assert.ErrorContains(t, err, "check bucket b")
	})

	t.Run("Upload", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "b").Return(true, nil)
		client.On("PutObject", mock.Anything, "b", "reports/x.json", mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("timeout"))

		_, err := NewExporter(client, storage.Config{Bucket: "b"}, zap.NewNop()).ExportAs(context.Background(), "x", testReport())
		assert.ErrorContains(t, err, "upload report reports/x.json")
	})
}

func TestExporter_Runs(t *testing.T) {
	ch := make(chan minio.ObjectInfo, 3)
	ch <- minio.ObjectInfo{Key: "reports/run-1.json"}
	ch <- minio.ObjectInfo{Key: "reports/run-2.json"}
	ch <- minio.ObjectInfo{Key: "reports/notes.txt"}
	close(ch)

	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "b", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	runs, err := NewExporter(client, storage.Config{Bucket: "b"}, zap.NewNop()).Runs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1", "run-2"}, runs)
}

func TestExporter_Load(t *testing.T) {
	data, err := testReport().JSON()
	require.NoError(t, err)

	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "b", "reports/run-1.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader(string(data))), nil)
	client.On("GetObject", mock.Anything, "b", "reports/missing.json", mock.Anything).
		Return(nil, errors.New("NoSuchKey"))

	exp := NewExporter(client, storage.Config{Bucket: "b"}, zap.NewNop())

	report, err := exp.Load(context.Background(), "run-1")
	require.NoError(t, err)
	assert.True(t, report.Converged)
	assert.Equal(t, testReport().Results, report.Results)

	_, err = exp.Load(context.Background(), "missing")
	assert.ErrorContains(t, err, "download report reports/missing.json")
}
