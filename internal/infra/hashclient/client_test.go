package hashclient

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paste-content-service/internal/domain"
)

const testBaseURL = "http://hash-service.test"

func newTestClient() *Client {
	return New(ClientConfig{
		BaseURL: testBaseURL,
		Timeout: 2 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 0,
		},
		CB: CBConfig{
			MaxRequests:  1,
			Interval:     time.Minute,
			Timeout:      time.Minute,
			FailureRatio: 0.6,
		},
	}, zap.NewNop())
}

func TestClient_GenerateHash(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.client.GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/generate-hash",
		func(req *http.Request) (*http.Response, error) {
			return httpmock.NewStringResponse(200, "aB3xK9"), nil
		})

	hash, err := client.GenerateHash(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "aB3xK9", hash)
}

func TestClient_PostIDByHash(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.client.GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/aB3xK9",
		httpmock.NewStringResponder(200, "42"))

	postID, err := client.PostIDByHash(context.Background(), "aB3xK9")
	require.NoError(t, err)
	assert.Equal(t, 42, postID)
}

func TestClient_PostIDByHash_MalformedBody(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.client.GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/aB3xK9",
		httpmock.NewStringResponder(200, "not-a-number"))

	_, err := client.PostIDByHash(context.Background(), "aB3xK9")
	assert.Error(t, err)
}

func TestClient_DeleteHash(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.client.GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPut, testBaseURL+"/delete-hash",
		httpmock.NewStringResponder(200, ""))

	err := client.DeleteHash(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestClient_RestoreHashes(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.client.GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPut, testBaseURL+"/restore-all",
		httpmock.NewStringResponder(200, ""))

	err := client.RestoreHashes(context.Background(), []int{1, 2, 3})
	require.NoError(t, err)
}

func TestClient_ServerErrorTripsBreaker(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.client.GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPut, testBaseURL+"/delete-hash",
		httpmock.NewStringResponder(500, "boom"))

	for i := 0; i < 3; i++ {
		err := client.DeleteHash(context.Background(), 42)
		assert.Error(t, err)
	}

	// The breaker is now open and calls fail fast without hitting the server.
	before := httpmock.GetTotalCallCount()
	err := client.DeleteHash(context.Background(), 42)
	assert.Error(t, err)
	assert.Equal(t, before, httpmock.GetTotalCallCount())
}

var _ domain.HashClient = (*Client)(nil)
