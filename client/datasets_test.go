package client_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veridata/dataquality-go/client"
)

func TestListDatasetsNormalizesBareArray(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/data/datasets", r.URL.Path)
		w.Write([]byte(`[
			{"id":"d1","name":"orders","row_count":120,"column_count":8},
			{"id":"d2","name":"customers","row_count":45,"column_count":12}
		]`))
	})

	c := newTestClient(t, srv.URL, nil)
	page, err := c.ListDatasets(context.Background())
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	require.Equal(t, 2, page.Total)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 2, page.Size)
	require.Equal(t, 1, page.Pages)
	require.Equal(t, "orders", page.Items[0].Name)
	require.Equal(t, int64(45), page.Items[1].RowCount)
}

func TestListDatasetsEmptyBodyYieldsEmptyItems(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	c := newTestClient(t, srv.URL, nil)
	page, err := c.ListDatasets(context.Background())
	require.NoError(t, err)

	// Items is always a usable slice, never nil, and re-encodes as [].
	require.NotNil(t, page.Items)
	require.Empty(t, page.Items)
	require.Zero(t, page.Total)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 1, page.Pages)
}

func TestListNormalizationIsStable(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"d1","name":"orders"}]`))
	})

	c := newTestClient(t, srv.URL, nil)
	first, err := c.ListDatasets(context.Background())
	require.NoError(t, err)
	second, err := c.ListDatasets(context.Background())
	require.NoError(t, err)

	// Same backend payload, structurally identical envelope both times.
	require.Equal(t, first, second)
}

func TestUploadFileBuildsMultipartForm(t *testing.T) {
	const fileContent = "id,amount\n1,10\n2,20\n"

	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/data/upload/file", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "orders", r.FormValue("dataset_name"))
		require.Equal(t, "march import", r.FormValue("description"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "orders.csv", header.Filename)

		uploaded, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, fileContent, string(uploaded))

		w.Write([]byte(`{"id":"d-new","name":"orders","status":"processing"}`))
	})

	c := newTestClient(t, srv.URL, nil)
	ds, err := c.UploadFile(context.Background(), client.UploadInput{
		DatasetName: "orders",
		Description: "march import",
		Filename:    "orders.csv",
		File:        strings.NewReader(fileContent),
	})
	require.NoError(t, err)
	require.Equal(t, "d-new", ds.ID)
	require.Equal(t, "processing", ds.Status)
}

func TestUploadFileRequiresReader(t *testing.T) {
	c := newTestClient(t, "http://localhost:8000", nil)
	_, err := c.UploadFile(context.Background(), client.UploadInput{DatasetName: "orders"})
	require.Error(t, err)
}

func TestDatasetVersionsUseVersionsPrefix(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/datasets/d1/versions", r.URL.Path)
		w.Write([]byte(`[{"id":"v1","dataset_id":"d1","version":1}]`))
	})

	c := newTestClient(t, srv.URL, nil)
	page, err := c.DatasetVersions(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, 1, page.Items[0].Version)
}
