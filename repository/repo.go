package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"

	"youtube-snapshot/constant"
)

// SnapshotRepository writes day-partitioned snapshots to the warehouse.
type SnapshotRepository interface {
	// Write replaces the partition: it deletes every row of table whose
	// snapshot_date equals snapshotDate, stamps snapshotDate onto each
	// row, and loads all rows in a single batch job. An empty row set is
	// a valid no-op after the delete. Returns the number of rows loaded.
	//
	// Delete and load are two jobs, not a transaction; a crash between
	// them leaves the partition empty until the next run re-writes it.
	Write(ctx context.Context, table constant.Table, rows []any, snapshotDate civil.Date) (int, error)

	// LatestVideoIDs returns the distinct video IDs of the most recent
	// video_metadata partition.
	LatestVideoIDs(ctx context.Context) ([]string, error)

	Close() error
}

// warehouseClient is the raw job seam underneath the snapshot protocol.
type warehouseClient interface {
	deletePartition(ctx context.Context, table constant.Table, snapshotDate civil.Date) error
	loadBatch(ctx context.Context, table constant.Table, ndjson []byte) error
	distinctLatestVideoIDs(ctx context.Context) ([]string, error)
	close() error
}

type repo struct {
	client warehouseClient
}

func NewRepo(ctx context.Context, projectID, dataset string) (SnapshotRepository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("bigquery client: %w", err)
	}
	return &repo{client: bqClient{client: client, dataset: dataset}}, nil
}

// Rows erases the element type of a record slice for Write.
func Rows[T any](rows []T) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

func (r *repo) Write(ctx context.Context, table constant.Table, rows []any, snapshotDate civil.Date) (int, error) {
	if err := r.client.deletePartition(ctx, table, snapshotDate); err != nil {
		return 0, fmt.Errorf("delete %s partition %s: %w", table, snapshotDate, err)
	}
	zerolog.Ctx(ctx).Info().
		Str("table", table.String()).
		Str("snapshot_date", snapshotDate.String()).
		Msg("deleted existing partition rows")

	if len(rows) == 0 {
		zerolog.Ctx(ctx).Info().Str("table", table.String()).Msg("no rows to insert")
		return 0, nil
	}

	data, err := encodeRows(rows, snapshotDate)
	if err != nil {
		return 0, fmt.Errorf("encode %s rows: %w", table, err)
	}
	if err := r.client.loadBatch(ctx, table, data); err != nil {
		return 0, fmt.Errorf("load %s partition %s: %w", table, snapshotDate, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("table", table.String()).
		Int("rows", len(rows)).
		Msg("inserted rows")
	return len(rows), nil
}

func (r *repo) LatestVideoIDs(ctx context.Context) ([]string, error) {
	return r.client.distinctLatestVideoIDs(ctx)
}

func (r *repo) Close() error {
	return r.client.close()
}

// encodeRows serializes rows as newline-delimited JSON, stamping each
// one with the partition date.
func encodeRows(rows []any, snapshotDate civil.Date) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	for _, row := range rows {
		raw, err := json.Marshal(row)
		if err != nil {
			return nil, err
		}
		stamped := map[string]any{}
		if err := json.Unmarshal(raw, &stamped); err != nil {
			return nil, err
		}
		stamped["snapshot_date"] = snapshotDate.String()
		if err := enc.Encode(stamped); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

type bqClient struct {
	client  *bigquery.Client
	dataset string
}

func (c bqClient) tableRef(table constant.Table) string {
	return fmt.Sprintf("%s.%s.%s", c.client.Project(), c.dataset, table)
}

func (c bqClient) deletePartition(ctx context.Context, table constant.Table, snapshotDate civil.Date) error {
	q := c.client.Query(fmt.Sprintf("DELETE FROM `%s` WHERE snapshot_date = @snapshot_date", c.tableRef(table)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "snapshot_date", Value: snapshotDate},
	}
	job, err := q.Run(ctx)
	if err != nil {
		return err
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return err
	}
	return status.Err()
}

func (c bqClient) loadBatch(ctx context.Context, table constant.Table, ndjson []byte) error {
	source := bigquery.NewReaderSource(bytes.NewReader(ndjson))
	source.SourceFormat = bigquery.JSON

	loader := c.client.Dataset(c.dataset).Table(table.String()).LoaderFrom(source)
	loader.WriteDisposition = bigquery.WriteAppend

	job, err := loader.Run(ctx)
	if err != nil {
		return err
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return err
	}
	return status.Err()
}

func (c bqClient) distinctLatestVideoIDs(ctx context.Context) ([]string, error) {
	ref := c.tableRef(constant.TableVideoMetadata)
	q := c.client.Query(fmt.Sprintf(
		"SELECT DISTINCT video_id FROM `%s` WHERE snapshot_date = (SELECT MAX(snapshot_date) FROM `%s`)",
		ref, ref,
	))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("query latest video ids: %w", err)
	}

	var ids []string
	for {
		var row struct {
			VideoID string `bigquery:"video_id"`
		}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read latest video ids: %w", err)
		}
		ids = append(ids, row.VideoID)
	}
	return ids, nil
}

func (c bqClient) close() error {
	return c.client.Close()
}
