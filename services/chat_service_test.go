package services

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-chat-platform/internal/embedding"
	"document-chat-platform/internal/retrieval"
	"document-chat-platform/internal/vectorstore"
	"document-chat-platform/models"
)

type fakeMetadataStore struct {
	documents []models.Document
	listErr   error
}

func (f *fakeMetadataStore) Put(context.Context, models.Document) error { return nil }
func (f *fakeMetadataStore) Get(context.Context, string) (models.Document, error) {
	return models.Document{}, nil
}
func (f *fakeMetadataStore) List(context.Context) ([]models.Document, error) {
	return f.documents, f.listErr
}
func (f *fakeMetadataStore) ListByStatus(context.Context, string) ([]models.Document, error) {
	return nil, nil
}
func (f *fakeMetadataStore) UpdateStatus(context.Context, string, string, string, int) error {
	return nil
}
func (f *fakeMetadataStore) Delete(context.Context, string) (bool, error) { return false, nil }

type fakeHistoryStore struct {
	records   []models.ChatRecord
	appendErr error
	listErr   error
}

func (f *fakeHistoryStore) Append(_ context.Context, record models.ChatRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeHistoryStore) List(context.Context, int) ([]models.ChatRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func newTestChatService(t *testing.T, metadata *fakeMetadataStore, history *fakeHistoryStore) (*ChatService, vectorstore.Index, embedding.Provider) {
	t.Helper()
	provider := embedding.NewLocalProvider(64)
	index := vectorstore.NewMemoryIndex()
	retriever := retrieval.NewRetriever(provider, index, "documents", 4)
	svc := NewChatService(retriever, NewExtractiveComposer(), metadata, history, nil)
	return svc, index, provider
}

func indexChunk(t *testing.T, index vectorstore.Index, provider embedding.Provider, chunk models.Chunk) {
	t.Helper()
	vec, err := provider.EmbedOne(context.Background(), chunk.Text)
	require.NoError(t, err)
	err = index.Insert(context.Background(), "documents", []vectorstore.Entry{{Chunk: chunk, Vector: vec}})
	require.NoError(t, err)
}

func TestProcessQueryFileQuestionSkipsRetrieval(t *testing.T) {
	metadata := &fakeMetadataStore{documents: []models.Document{
		{ID: "d1", Filename: "report.pdf", FileSize: 2 << 20, NumChunks: 12, UploadedAt: time.Now()},
	}}
	history := &fakeHistoryStore{}
	svc, _, _ := newTestChatService(t, metadata, history)

	// Nothing indexed; a metadata answer must still succeed.
	resp := svc.ProcessQuery(context.Background(), "What documents do you have?")

	assert.Contains(t, resp.Answer, "I have access to 1 document(s)")
	assert.Contains(t, resp.Answer, "report.pdf")
	assert.Equal(t, []string{"MongoDB Database"}, resp.Sources)
	require.Len(t, history.records, 1)
}

func TestProcessQueryFileQuestionNoDocuments(t *testing.T) {
	svc, _, _ := newTestChatService(t, &fakeMetadataStore{}, &fakeHistoryStore{})

	resp := svc.ProcessQuery(context.Background(), "list files please")
	assert.Equal(t, "No documents have been uploaded yet.", resp.Answer)
	assert.Equal(t, []string{"MongoDB Database"}, resp.Sources)
}

func TestProcessQueryEmptyIndexApology(t *testing.T) {
	svc, _, _ := newTestChatService(t, &fakeMetadataStore{}, &fakeHistoryStore{})

	resp := svc.ProcessQuery(context.Background(), "what is the warranty period?")
	assert.Equal(t, noContentMessage, resp.Answer)
	assert.Nil(t, resp.Sources)
}

func TestProcessQueryReturnsAnswerWithSources(t *testing.T) {
	history := &fakeHistoryStore{}
	svc, index, provider := newTestChatService(t, &fakeMetadataStore{}, history)

	indexChunk(t, index, provider, models.Chunk{
		DocumentID: "d1", ChunkID: "d1_0", Order: 0,
		Text:   "The warranty period lasts two years from purchase.",
		Source: "manual.pdf (page 3)",
	})
	indexChunk(t, index, provider, models.Chunk{
		DocumentID: "d1", ChunkID: "d1_1", Order: 1,
		Text:   "Warranty claims require the original receipt.",
		Source: "manual.pdf (page 4)",
	})

	resp := svc.ProcessQuery(context.Background(), "how long is the warranty period?")

	assert.Contains(t, resp.Answer, "Based on the uploaded documents:")
	assert.ElementsMatch(t, []string{"manual.pdf (page 3)", "manual.pdf (page 4)"}, resp.Sources)
	require.Len(t, history.records, 1)
	assert.Equal(t, resp.Answer, history.records[0].Answer)
}

type failingProvider struct{}

func (failingProvider) Name() string    { return "failing" }
func (failingProvider) Dimension() int  { return 64 }
func (failingProvider) EmbedOne(context.Context, string) ([]float32, error) {
	return nil, errors.New("provider down")
}
func (failingProvider) EmbedMany(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("provider down")
}

func TestProcessQueryFaultSkipsHistory(t *testing.T) {
	history := &fakeHistoryStore{}
	retriever := retrieval.NewRetriever(failingProvider{}, vectorstore.NewMemoryIndex(), "documents", 4)
	svc := NewChatService(retriever, NewExtractiveComposer(), &fakeMetadataStore{}, history, nil)

	resp := svc.ProcessQuery(context.Background(), "what is the refund policy?")

	assert.Equal(t, apologyMessage, resp.Answer)
	assert.Nil(t, resp.Sources)
	assert.Empty(t, history.records, "fault path must not append chat history")
}

func TestProcessQueryHistoryFailureIsSwallowed(t *testing.T) {
	history := &fakeHistoryStore{appendErr: errors.New("mongo down")}
	svc, _, _ := newTestChatService(t, &fakeMetadataStore{}, history)

	resp := svc.ProcessQuery(context.Background(), "anything at all")
	assert.NotEmpty(t, resp.Answer)
}

func TestGetChatHistoryDegradesToEmpty(t *testing.T) {
	history := &fakeHistoryStore{listErr: errors.New("mongo down")}
	svc, _, _ := newTestChatService(t, &fakeMetadataStore{}, history)

	records := svc.GetChatHistory(context.Background(), 10)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestAttributeSourcesDedup(t *testing.T) {
	chunks := []models.Chunk{
		{Source: "b.pdf (page 2)"},
		{Source: "a.pdf (page 1)"},
		{Source: "b.pdf (page 2)"},
		{Source: ""},
	}
	assert.Equal(t, []string{"a.pdf (page 1)", "b.pdf (page 2)"}, attributeSources(chunks))
	assert.Nil(t, attributeSources(nil))
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	out := truncate("héllo wörld ünïcode", 7)
	assert.Equal(t, "héllo w...", out)
	assert.True(t, utf8.ValidString(out))
}

func TestIsFileQuestion(t *testing.T) {
	assert.True(t, isFileQuestion("What documents do you have?"))
	assert.True(t, isFileQuestion("please SHOW FILES"))
	assert.True(t, isFileQuestion("give me the file details"))
	assert.False(t, isFileQuestion("what is the refund policy?"))
}
