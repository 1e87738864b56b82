package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/pkg/errors"

	ierrors "github.com/veridata/dataquality-go/internal/errors"
)

// Dataset mirrors the server-owned dataset record.
type Dataset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	SourceType  string    `json:"source_type,omitempty"`
	RowCount    int64     `json:"row_count"`
	ColumnCount int       `json:"column_count"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type DatasetInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SourceType  string `json:"source_type,omitempty"`
}

// DatasetProfile is the server-computed profiling summary for a dataset.
type DatasetProfile struct {
	DatasetID   string          `json:"dataset_id"`
	RowCount    int64           `json:"row_count"`
	ColumnCount int             `json:"column_count"`
	Columns     []ColumnProfile `json:"columns"`
	ProfiledAt  time.Time       `json:"profiled_at"`
}

type ColumnProfile struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	NullCount     int64   `json:"null_count"`
	DistinctCount int64   `json:"distinct_count"`
	Min           *string `json:"min,omitempty"`
	Max           *string `json:"max,omitempty"`
	Mean          *string `json:"mean,omitempty"`
}

type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

type DatasetVersion struct {
	ID        string    `json:"id"`
	DatasetID string    `json:"dataset_id"`
	Version   int       `json:"version"`
	RowCount  int64     `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
	Comment   string    `json:"comment,omitempty"`
}

// UploadInput describes a file upload. File is read fully while building the
// multipart body.
type UploadInput struct {
	DatasetName string
	Description string
	Filename    string
	File        io.Reader
}

func (c *Client) ListDatasets(ctx context.Context) (Page[Dataset], error) {
	var datasets []Dataset
	if err := c.json(ctx, http.MethodGet, "/data/datasets", nil, nil, &datasets); err != nil {
		return Page[Dataset]{}, err
	}
	return NewPage(datasets), nil
}

func (c *Client) CreateDataset(ctx context.Context, in DatasetInput) (*Dataset, error) {
	var ds Dataset
	if err := c.json(ctx, http.MethodPost, "/data/datasets", nil, in, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (c *Client) GetDataset(ctx context.Context, id string) (*Dataset, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	var ds Dataset
	if err := c.json(ctx, http.MethodGet, "/data/datasets/"+id, nil, nil, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (c *Client) UpdateDataset(ctx context.Context, id string, in DatasetInput) (*Dataset, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	var ds Dataset
	if err := c.json(ctx, http.MethodPut, "/data/datasets/"+id, nil, in, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (c *Client) DeleteDataset(ctx context.Context, id string) error {
	if id == "" {
		return ierrors.ErrEmptyID
	}
	return c.json(ctx, http.MethodDelete, "/data/datasets/"+id, nil, nil, nil)
}

// UploadFile uploads a file as a new dataset. Multipart fields: "file",
// "dataset_name", and "description" when present. Returns the dataset record
// with the server-assigned identifier.
func (c *Client) UploadFile(ctx context.Context, in UploadInput) (*Dataset, error) {
	if in.File == nil {
		return nil, errors.New("[Client.UploadFile] File is required")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", in.Filename)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.UploadFile] CreateFormFile")
	}
	if _, err := io.Copy(part, in.File); err != nil {
		return nil, errors.Wrap(err, "[Client.UploadFile] copy file")
	}
	if err := mw.WriteField("dataset_name", in.DatasetName); err != nil {
		return nil, errors.Wrap(err, "[Client.UploadFile] write dataset_name")
	}
	if in.Description != "" {
		if err := mw.WriteField("description", in.Description); err != nil {
			return nil, errors.Wrap(err, "[Client.UploadFile] write description")
		}
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(err, "[Client.UploadFile] close multipart writer")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/data/upload/file", nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	raw, err := c.send(req)
	if err != nil {
		return nil, err
	}
	var ds Dataset
	if err := decodeJSON(raw, &ds); err != nil {
		return nil, errors.Wrap(err, "[Client.UploadFile] decode response")
	}
	return &ds, nil
}

func (c *Client) DatasetProfile(ctx context.Context, id string) (*DatasetProfile, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	var profile DatasetProfile
	if err := c.json(ctx, http.MethodGet, "/data/datasets/"+id+"/profile", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) DatasetColumns(ctx context.Context, id string) ([]ColumnInfo, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	var columns []ColumnInfo
	if err := c.json(ctx, http.MethodGet, "/data/datasets/"+id+"/columns", nil, nil, &columns); err != nil {
		return nil, err
	}
	return columns, nil
}

// DatasetVersions lists the stored versions of a dataset. Note the versions
// endpoints live under /datasets, not /data/datasets.
func (c *Client) DatasetVersions(ctx context.Context, id string) (Page[DatasetVersion], error) {
	if id == "" {
		return Page[DatasetVersion]{}, ierrors.ErrEmptyID
	}
	var versions []DatasetVersion
	if err := c.json(ctx, http.MethodGet, "/datasets/"+id+"/versions", nil, nil, &versions); err != nil {
		return Page[DatasetVersion]{}, err
	}
	return NewPage(versions), nil
}

func (c *Client) DatasetVersion(ctx context.Context, id, versionID string) (*DatasetVersion, error) {
	if id == "" || versionID == "" {
		return nil, ierrors.ErrEmptyID
	}
	var version DatasetVersion
	if err := c.json(ctx, http.MethodGet, "/datasets/"+id+"/versions/"+versionID, nil, nil, &version); err != nil {
		return nil, err
	}
	return &version, nil
}
