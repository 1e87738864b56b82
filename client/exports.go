package client

import (
	"context"
	"net/http"
	"time"

	ierrors "github.com/veridata/dataquality-go/internal/errors"
)

// Export is a server-generated downloadable report artifact.
type Export struct {
	ID        string     `json:"id"`
	DatasetID string     `json:"dataset_id,omitempty"`
	Format    string     `json:"format"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	ReadyAt   *time.Time `json:"ready_at,omitempty"`
}

type ExportInput struct {
	DatasetID string `json:"dataset_id,omitempty"`
	Format    string `json:"format"`
	Scope     string `json:"scope,omitempty"`
}

func (c *Client) ListExports(ctx context.Context) (Page[Export], error) {
	var exports []Export
	if err := c.json(ctx, http.MethodGet, "/exports", nil, nil, &exports); err != nil {
		return Page[Export]{}, err
	}
	return NewPage(exports), nil
}

func (c *Client) CreateExport(ctx context.Context, in ExportInput) (*Export, error) {
	var export Export
	if err := c.json(ctx, http.MethodPost, "/exports", nil, in, &export); err != nil {
		return nil, err
	}
	return &export, nil
}

// DownloadExport fetches the binary artifact. The body is returned as-is;
// format interpretation belongs to the caller.
func (c *Client) DownloadExport(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/exports/"+id+"/download", nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/octet-stream")
	return c.send(req)
}
