package shopify

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"seo-optimizer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustID(t *testing.T, local string) domain.ProductID {
	t.Helper()
	id, err := domain.FromLocalID(local)
	require.NoError(t, err)
	return id
}

func TestProductRepository_ListNewestFirst(t *testing.T) {
	client, fake := newTestClient(t, testAccessToken)
	fake.addProduct("gid://shopify/Product/1", "Old Mug", "ACTIVE", "<p>old</p>", "https://cdn.example.com/old.png")
	fake.addProduct("gid://shopify/Product/2", "New Mug", "DRAFT", "<p>new</p>", "")

	repo := NewProductRepository(client)
	products, err := repo.List(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "New Mug", products[0].Title)
	assert.Equal(t, domain.ProductStatusDraft, products[0].Status)
	assert.Empty(t, products[0].FeaturedImageURL)
	assert.Equal(t, "2", products[0].ID.LocalID())

	assert.Equal(t, "Old Mug", products[1].Title)
	assert.Equal(t, "https://cdn.example.com/old.png", products[1].FeaturedImageURL)
}

func TestProductRepository_ListRespectsLimit(t *testing.T) {
	client, fake := newTestClient(t, testAccessToken)
	for i := 1; i <= 25; i++ {
		fake.addProduct("gid://shopify/Product/"+strconv.Itoa(i), "Mug", "ACTIVE", "", "")
	}

	products, err := NewProductRepository(client).List(context.Background(), 20)
	require.NoError(t, err)
	assert.Len(t, products, 20)
}

func TestProductRepository_ListEmptyCatalog(t *testing.T) {
	client, _ := newTestClient(t, testAccessToken)

	products, err := NewProductRepository(client).List(context.Background(), 20)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestProductRepository_FindByID(t *testing.T) {
	client, fake := newTestClient(t, testAccessToken)
	fake.addProduct("gid://shopify/Product/42", "Blue Mug", "ACTIVE", "<p>Hello <b>world</b></p>", "")

	repo := NewProductRepository(client)

	product, err := repo.FindByID(context.Background(), mustID(t, "42"))
	require.NoError(t, err)
	assert.Equal(t, "Blue Mug", product.Title)
	assert.Equal(t, "<p>Hello <b>world</b></p>", product.DescriptionHTML)

	missing, err := repo.FindByID(context.Background(), mustID(t, "404"))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Nil(t, missing)
}

func TestProductRepository_UpdateAppliesTitleAndDescription(t *testing.T) {
	client, fake := newTestClient(t, testAccessToken)
	fake.addProduct("gid://shopify/Product/42", "Blue Mug", "ACTIVE", "<p>old</p>", "")

	repo := NewProductRepository(client)
	updated, err := repo.Update(context.Background(), mustID(t, "42"), "[SEO] Blue Mug - Premium Quality", "<p>new</p>")
	require.NoError(t, err)
	assert.Equal(t, "[SEO] Blue Mug - Premium Quality", updated.Title)

	reloaded, err := repo.FindByID(context.Background(), mustID(t, "42"))
	require.NoError(t, err)
	assert.Equal(t, "<p>new</p>", reloaded.DescriptionHTML)
}

func TestProductRepository_UpdateTitleTooLongIsValidationError(t *testing.T) {
	client, fake := newTestClient(t, testAccessToken)
	fake.addProduct("gid://shopify/Product/42", "Blue Mug", "ACTIVE", "", "")

	_, err := NewProductRepository(client).Update(context.Background(), mustID(t, "42"), strings.Repeat("x", 256), "")
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %T", err)
	assert.True(t, verr.HasField("title"))

	var terr *domain.TransportError
	assert.False(t, errors.As(err, &terr))
}

func TestProductRepository_UpdateUnknownProduct(t *testing.T) {
	client, _ := newTestClient(t, testAccessToken)

	_, err := NewProductRepository(client).Update(context.Background(), mustID(t, "7"), "Title", "")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestClient_AuthFailureIsTransportError(t *testing.T) {
	client, _ := newTestClient(t, "wrong-token")

	_, err := NewProductRepository(client).List(context.Background(), 20)
	require.Error(t, err)

	var terr *domain.TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusUnauthorized, terr.StatusCode)

	var verr *domain.ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestClient_GraphQLErrorsAreTransportErrors(t *testing.T) {
	client, _ := newTestClient(t, testAccessToken)

	err := client.Do(context.Background(), "bogus", "query { shop { name } }", nil, nil)

	var terr *domain.TransportError
	require.True(t, errors.As(err, &terr))
	assert.Contains(t, terr.Error(), "unknown operation")
}

func TestClient_CancelledContext(t *testing.T) {
	client, fake := newTestClient(t, testAccessToken)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProductRepository(client).List(ctx, 20)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, fake.calls)
}

func TestProductRepository_MalformedUpstreamIDIsTransportError(t *testing.T) {
	client, fake := newTestClient(t, testAccessToken)
	fake.addProduct("gid://shopify/Product/abc", "Broken Mug", "ACTIVE", "", "")
	repo := NewProductRepository(client)

	_, listErr := repo.List(context.Background(), 20)

	var terr *domain.TransportError
	require.True(t, errors.As(listErr, &terr))
	assert.Equal(t, "decode product", terr.Op)
	assert.False(t, errors.Is(listErr, domain.ErrInvalidProductID))
}
