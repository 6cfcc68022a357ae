package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	QueriesTotal       metric.Int64Counter
	QueryDuration      metric.Float64Histogram
	DocumentsIngested  metric.Int64Counter
	IngestionDuration  metric.Float64Histogram
	ChunksIndexed      metric.Int64Counter
	RetrievalRequests  metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("document-chat-platform")

	queriesTotal, err := meter.Int64Counter(
		"chat.queries.total",
		metric.WithDescription("Total chat queries processed"),
	)
	if err != nil {
		return nil, err
	}

	queryDuration, err := meter.Float64Histogram(
		"chat.query.duration",
		metric.WithDescription("Chat query duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	documentsIngested, err := meter.Int64Counter(
		"documents.ingested.total",
		metric.WithDescription("Total documents ingested"),
	)
	if err != nil {
		return nil, err
	}

	ingestionDuration, err := meter.Float64Histogram(
		"documents.ingestion.duration",
		metric.WithDescription("Document ingestion duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	chunksIndexed, err := meter.Int64Counter(
		"index.chunks.total",
		metric.WithDescription("Total chunks written to the vector index"),
	)
	if err != nil {
		return nil, err
	}

	retrievalRequests, err := meter.Int64Counter(
		"retrieval.requests.total",
		metric.WithDescription("Total similarity searches issued"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		QueriesTotal:      queriesTotal,
		QueryDuration:     queryDuration,
		DocumentsIngested: documentsIngested,
		IngestionDuration: ingestionDuration,
		ChunksIndexed:     chunksIndexed,
		RetrievalRequests: retrievalRequests,
	}, nil
}

// RecordQuery records a processed chat query and its outcome path.
func (m *Metrics) RecordQuery(path string, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("query.path", path), // "metadata", "retrieval", "fallback"
	}

	m.QueriesTotal.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.QueryDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordIngestion records a document ingestion attempt.
func (m *Metrics) RecordIngestion(status string, chunks int, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("ingestion.status", status),
	}

	m.DocumentsIngested.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.IngestionDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
	if chunks > 0 {
		m.ChunksIndexed.Add(context.Background(), int64(chunks), metric.WithAttributes(attrs...))
	}
}

// RecordRetrieval records a similarity search.
func (m *Metrics) RecordRetrieval(k int) {
	m.RetrievalRequests.Add(context.Background(), 1, metric.WithAttributes(
		attribute.Int("retrieval.k", k),
	))
}
