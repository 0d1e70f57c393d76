package integration

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutshell-sh/nutshell/internal/application"
	"github.com/nutshell-sh/nutshell/internal/domain"
)

func TestLinkService_CreateLink_IntegrationFlow(t *testing.T) {
	env := SetupTestEnvironment(t)

	ctx := context.Background()
	service := env.Service

	tests := []struct {
		name        string
		request     application.CreateLinkRequest
		checkResult func(t *testing.T, link *domain.Link, req application.CreateLinkRequest)
	}{
		{
			name: "create link with auto-generated code",
			request: application.CreateLinkRequest{
				URL: "https://example.com",
			},
			checkResult: func(t *testing.T, link *domain.Link, req application.CreateLinkRequest) {
				assert.Equal(t, req.URL, link.URL)
				assert.Len(t, link.Code, 6)
				assert.True(t, link.Active)
			},
		},
		{
			name: "create link with custom code",
			request: application.CreateLinkRequest{
				URL:  "https://google.com",
				Code: "google",
			},
			checkResult: func(t *testing.T, link *domain.Link, req application.CreateLinkRequest) {
				assert.Equal(t, req.URL, link.URL)
				assert.Equal(t, req.Code, link.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := service.CreateLink(ctx, tt.request)
			require.NoError(t, err)

			tt.checkResult(t, link, tt.request)

			// Verify the link can be retrieved
			retrieved, err := service.GetLink(ctx, link.Code)
			require.NoError(t, err)
			assert.Equal(t, tt.request.URL, retrieved.URL)
		})
	}
}

func TestLinkService_ValidationErrors_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)

	ctx := context.Background()
	service := env.Service

	tests := []struct {
		name    string
		request application.CreateLinkRequest
		errMsg  string
	}{
		{
			name: "invalid URL format",
			request: application.CreateLinkRequest{
				URL: "not-a-url",
			},
			errMsg: "URL",
		},
		{
			name: "empty URL",
			request: application.CreateLinkRequest{
				URL: "",
			},
			errMsg: "URL",
		},
		{
			name: "code too short",
			request: application.CreateLinkRequest{
				URL:  "https://example.com",
				Code: "a",
			},
			errMsg: "Code",
		},
		{
			name: "code too long",
			request: application.CreateLinkRequest{
				URL:  "https://example.com",
				Code: strings.Repeat("a", 101),
			},
			errMsg: "Code",
		},
		{
			name: "code with invalid characters",
			request: application.CreateLinkRequest{
				URL:  "https://example.com",
				Code: "my-code",
			},
			errMsg: "Code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateLink(ctx, tt.request)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLinkService_DuplicateCode_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)

	ctx := context.Background()
	service := env.Service

	// Create first link with custom code
	req1 := application.CreateLinkRequest{
		URL:  "https://example1.com",
		Code: "duplicate",
	}
	_, err := service.CreateLink(ctx, req1)
	require.NoError(t, err)

	// Try to create second link with the same code
	req2 := application.CreateLinkRequest{
		URL:  "https://example2.com",
		Code: "duplicate",
	}
	_, err = service.CreateLink(ctx, req2)
	assert.ErrorIs(t, err, domain.ErrCodeExists)
}

func TestLinkService_VisitTracking_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)

	ctx := context.Background()
	service := env.Service

	req := application.CreateLinkRequest{
		URL:  "https://example.com",
		Code: "visittest",
	}
	_, err := service.CreateLink(ctx, req)
	require.NoError(t, err)

	// Initial counters are zero
	link, err := service.GetLink(ctx, "visittest")
	require.NoError(t, err)
	assert.EqualValues(t, 0, link.VisitCount)
	assert.EqualValues(t, 0, link.RawVisitCount)

	// Each served resolution records a raw visit; each redirect a visit
	for i := int64(1); i <= 3; i++ {
		resolved, err := service.ResolveLink(ctx, "visittest")
		require.NoError(t, err)

		require.NoError(t, service.RegisterAttempt(ctx, resolved))
		require.NoError(t, service.RegisterVisit(ctx, resolved))

		link, err = service.GetLink(ctx, "visittest")
		require.NoError(t, err)
		assert.Equal(t, i, link.RawVisitCount)
		assert.Equal(t, i, link.VisitCount)
	}
}

func TestLinkService_NonExistentLink_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)

	ctx := context.Background()
	service := env.Service

	_, err := service.GetLink(ctx, "notfound")
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)

	_, err = service.ResolveLink(ctx, "notfound")
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)

	err = service.DeleteLink(ctx, "notfound")
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestLinkService_InactiveLink_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)

	ctx := context.Background()
	service := env.Service

	inactive := false
	req := application.CreateLinkRequest{
		URL:    "https://example.com",
		Code:   "inactive",
		Active: &inactive,
	}
	_, err := service.CreateLink(ctx, req)
	require.NoError(t, err)

	// Management reads still work; visitor resolution is refused
	_, err = service.GetLink(ctx, "inactive")
	require.NoError(t, err)

	_, err = service.ResolveLink(ctx, "inactive")
	assert.ErrorIs(t, err, domain.ErrLinkInactive)
}

func TestLinkService_CacheBehavior_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)

	ctx := context.Background()
	service := env.Service

	req := application.CreateLinkRequest{
		URL:  "https://example.com/cache-test",
		Code: "cachetest",
	}
	created, err := service.CreateLink(ctx, req)
	require.NoError(t, err)

	// First get caches the link
	link1, err := service.GetLink(ctx, "cachetest")
	require.NoError(t, err)
	assert.Equal(t, created.URL, link1.URL)

	_, cached := env.Cache.Lookup(ctx, "cachetest", true)
	assert.True(t, cached)

	// Update the record directly in the database, bypassing the cache
	_, err = env.DB.Exec("UPDATE links SET visit_count = visit_count + 10 WHERE code = $1", "cachetest")
	require.NoError(t, err)

	// Second get returns the cached version (still 0 visits)
	link2, err := service.GetLink(ctx, "cachetest")
	require.NoError(t, err)
	assert.EqualValues(t, 0, link2.VisitCount)

	// Drop the cache entry; the next get fetches from the database
	_, removed := env.Cache.Delete(ctx, "cachetest")
	assert.True(t, removed)

	link3, err := service.GetLink(ctx, "cachetest")
	require.NoError(t, err)
	assert.EqualValues(t, 10, link3.VisitCount)

	_, cached = env.Cache.Lookup(ctx, "cachetest", true)
	assert.True(t, cached)
}

func TestLinkService_UpdateWriteBack_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)

	ctx := context.Background()
	service := env.Service

	req := application.CreateLinkRequest{
		URL:  "https://example.com/before",
		Code: "writeback",
	}
	_, err := service.CreateLink(ctx, req)
	require.NoError(t, err)

	// Populate the cache, then patch the destination
	_, err = service.GetLink(ctx, "writeback")
	require.NoError(t, err)

	newURL := "https://example.com/after"
	updated, err := service.UpdateLink(ctx, "writeback", application.UpdateLinkRequest{URL: &newURL})
	require.NoError(t, err)
	assert.Equal(t, newURL, updated.URL)

	// The cache holds the patched record, and so does the database
	cachedLink, cached := env.Cache.Lookup(ctx, "writeback", true)
	require.True(t, cached)
	assert.Equal(t, newURL, cachedLink.URL)

	var dbURL string
	require.NoError(t, env.DB.Get(&dbURL, "SELECT url FROM links WHERE code = $1", "writeback"))
	assert.Equal(t, newURL, dbURL)
}

func TestLinkService_ConcurrentCreates_Integration(t *testing.T) {
	env := SetupTestEnvironment(t)

	ctx := context.Background()
	service := env.Service

	const numGoroutines = 10

	errChan := make(chan error, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			_, err := service.CreateLink(ctx, application.CreateLinkRequest{
				URL: "https://example.com/concurrent",
			})
			errChan <- err
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		require.NoError(t, <-errChan)
	}

	links, err := service.ListLinks(ctx)
	require.NoError(t, err)
	assert.Len(t, links, numGoroutines)
}
