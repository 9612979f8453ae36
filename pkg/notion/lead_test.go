package notion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	pageID    string
	updateReq *notionapi.PageUpdateRequest
	updateErr error
}

func (s *stubClient) UpdatePage(_ context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	s.pageID = pageID
	s.updateReq = req
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &notionapi.Page{}, nil
}

func (s *stubClient) CreatePage(context.Context, *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	return &notionapi.Page{}, nil
}

func TestPublishScore(t *testing.T) {
	t.Parallel()

	stub := &stubClient{}
	err := PublishScore(context.Background(), stub, "page-1", 72, 0.55, "hot", "final: 72/100")
	require.NoError(t, err)

	assert.Equal(t, "page-1", stub.pageID)
	props := stub.updateReq.Properties

	score, ok := props[PropScore].(notionapi.NumberProperty)
	require.True(t, ok)
	assert.InDelta(t, 72, score.Number, 1e-9)

	priority, ok := props[PropPriority].(notionapi.SelectProperty)
	require.True(t, ok)
	assert.Equal(t, "hot", priority.Select.Name)

	confidence, ok := props[PropConfidence].(notionapi.NumberProperty)
	require.True(t, ok)
	assert.InDelta(t, 0.55, confidence.Number, 1e-9)

	reasoning, ok := props[PropReasoning].(notionapi.RichTextProperty)
	require.True(t, ok)
	require.Len(t, reasoning.RichText, 1)
	assert.Equal(t, "final: 72/100", reasoning.RichText[0].Text.Content)
}

func TestPublishScoreTruncatesReasoning(t *testing.T) {
	t.Parallel()

	stub := &stubClient{}
	long := strings.Repeat("x", 5000)
	require.NoError(t, PublishScore(context.Background(), stub, "page-1", 50, 0.3, "warm", long))

	reasoning := stub.updateReq.Properties[PropReasoning].(notionapi.RichTextProperty)
	assert.Len(t, reasoning.RichText[0].Text.Content, 2000)
}

func TestPublishScoreRequiresPageID(t *testing.T) {
	t.Parallel()

	err := PublishScore(context.Background(), &stubClient{}, "", 50, 0.3, "warm", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page id is required")
}

func TestPublishScoreWrapsClientError(t *testing.T) {
	t.Parallel()

	stub := &stubClient{updateErr: errors.New("rate limited")}
	err := PublishScore(context.Background(), stub, "page-1", 50, 0.3, "warm", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish score to page page-1")
}
