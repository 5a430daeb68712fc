package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov87/patchnote/internal/adapter/github"
	"github.com/akarpov87/patchnote/internal/usecase/reaper"
)

func TestCommentStore_FlattensAuthor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]github.IssueComment{
			{ID: 5, Body: "stale summary", User: github.User{Login: "github-actions[bot]", Type: "Bot"}},
		})
	}))
	defer server.Close()

	store := github.NewCommentStore(newTestClient(server.URL))

	comments, err := store.ListIssueComments(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, reaper.Comment{ID: 5, Author: "github-actions[bot]"}, comments[0])
}
