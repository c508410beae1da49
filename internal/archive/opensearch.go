// Package archive writes deduplicated indicator snapshots and analysis
// reports to OpenSearch for long-term retention and ad-hoc search.
package archive

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"github.com/opensearch-project/opensearch-go/v2/opensearchutil"

	"github.com/threatmesh-systems/threatmesh/internal/config"
	"github.com/threatmesh-systems/threatmesh/internal/models"
)

// Client is an OpenSearch-backed archive.
type Client struct {
	osClient    *opensearch.Client
	indexPrefix string
}

// NewClient creates an archive client and verifies connectivity.
func NewClient(cfg config.OpenSearchConfig) (*Client, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.TLSSkipVerify,
			},
		},
	}

	osCfg := opensearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: httpClient.Transport,
	}

	client, err := opensearch.NewClient(osCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	info, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to ping opensearch: %w", err)
	}
	defer info.Body.Close()

	if info.IsError() {
		return nil, fmt.Errorf("opensearch returned error: %s", info.Status())
	}

	return &Client{osClient: client, indexPrefix: cfg.IndexPrefix}, nil
}

// ArchiveIndicators bulk-indexes the snapshot into a dated indicator
// index. Document IDs are the dedup keys, so re-archiving the same day
// overwrites rather than duplicates.
func (c *Client) ArchiveIndicators(ctx context.Context, indicators []models.Indicator) error {
	if len(indicators) == 0 {
		return nil
	}

	index := fmt.Sprintf("%s-indicators-%s", c.indexPrefix, time.Now().UTC().Format("2006.01.02"))
	indexer, err := opensearchutil.NewBulkIndexer(opensearchutil.BulkIndexerConfig{
		Client: c.osClient,
		Index:  index,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	for _, ind := range indicators {
		doc, err := json.Marshal(ind)
		if err != nil {
			return fmt.Errorf("failed to marshal indicator %s: %w", ind.Value, err)
		}
		err = indexer.Add(ctx, opensearchutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: ind.Key(),
			Body:       bytes.NewReader(doc),
		})
		if err != nil {
			return fmt.Errorf("failed to queue indicator %s: %w", ind.Value, err)
		}
	}

	if err := indexer.Close(ctx); err != nil {
		return fmt.Errorf("failed to flush bulk indexer: %w", err)
	}
	if stats := indexer.Stats(); stats.NumFailed > 0 {
		return fmt.Errorf("bulk indexing failed for %d of %d indicators", stats.NumFailed, len(indicators))
	}
	return nil
}

// ArchiveReport indexes one analysis report document.
func (c *Client) ArchiveReport(ctx context.Context, report *models.AnalysisReport) error {
	doc, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index:      c.indexPrefix + "-reports",
		DocumentID: report.ID,
		Body:       bytes.NewReader(doc),
	}
	resp, err := req.Do(ctx, c.osClient)
	if err != nil {
		return fmt.Errorf("failed to index report: %w", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("opensearch rejected report: %s", resp.Status())
	}
	return nil
}
