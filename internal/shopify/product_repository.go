package shopify

import (
	"context"
	"fmt"

	"seo-optimizer/internal/domain"
)

const listProductsQuery = `query getProducts($first: Int!) {
  products(first: $first, reverse: true) {
    edges {
      node {
        id
        title
        status
        featuredImage {
          url
        }
      }
    }
  }
}`

const getProductQuery = `query getProduct($id: ID!) {
  product(id: $id) {
    id
    title
    status
    descriptionHtml
    featuredImage {
      url
    }
  }
}`

const updateProductMutation = `mutation updateProduct($input: ProductInput!) {
  productUpdate(input: $input) {
    product {
      id
      title
      status
      descriptionHtml
    }
    userErrors {
      field
      message
    }
  }
}`

// ProductRepository reads and writes products in the Shopify catalog
type ProductRepository interface {
	List(ctx context.Context, limit int) ([]*domain.Product, error)
	FindByID(ctx context.Context, id domain.ProductID) (*domain.Product, error)
	Update(ctx context.Context, id domain.ProductID, title, descriptionHTML string) (*domain.Product, error)
}

type productNode struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Status          string  `json:"status"`
	DescriptionHTML string  `json:"descriptionHtml"`
	FeaturedImage   *struct {
		URL string `json:"url"`
	} `json:"featuredImage"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type productRepository struct {
	client *Client
}

// NewProductRepository creates a catalog-backed ProductRepository
func NewProductRepository(client *Client) ProductRepository {
	return &productRepository{client: client}
}

// List returns up to limit products, newest first
func (r *productRepository) List(ctx context.Context, limit int) ([]*domain.Product, error) {
	var data struct {
		Products struct {
			Edges []struct {
				Node productNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}

	if err := r.client.Do(ctx, "list products", listProductsQuery, map[string]any{"first": limit}, &data); err != nil {
		return nil, err
	}

	products := make([]*domain.Product, 0, len(data.Products.Edges))
	for _, edge := range data.Products.Edges {
		product, err := edge.Node.toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, nil
}

// FindByID returns domain.ErrProductNotFound when the id does not resolve
func (r *productRepository) FindByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	var data struct {
		Product *productNode `json:"product"`
	}

	if err := r.client.Do(ctx, "get product", getProductQuery, map[string]any{"id": id.ExternalID()}, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, domain.ErrProductNotFound
	}

	return data.Product.toDomain()
}

// Update changes only title and descriptionHtml. Field-level rejections come back
// as *domain.ValidationError.
func (r *productRepository) Update(ctx context.Context, id domain.ProductID, title, descriptionHTML string) (*domain.Product, error) {
	var data struct {
		ProductUpdate struct {
			Product    *productNode `json:"product"`
			UserErrors []userError  `json:"userErrors"`
		} `json:"productUpdate"`
	}

	input := map[string]any{
		"id":              id.ExternalID(),
		"title":           title,
		"descriptionHtml": descriptionHTML,
	}
	if err := r.client.Do(ctx, "update product", updateProductMutation, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}

	if errs := data.ProductUpdate.UserErrors; len(errs) > 0 {
		for _, ue := range errs {
			if lastSegment(ue.Field) == "id" {
				return nil, domain.ErrProductNotFound
			}
		}
		verr := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(errs))}
		for _, ue := range errs {
			verr.Fields = append(verr.Fields, domain.FieldError{
				Field:   lastSegment(ue.Field),
				Message: ue.Message,
			})
		}
		return nil, verr
	}

	if data.ProductUpdate.Product == nil {
		return nil, domain.ErrProductNotFound
	}

	return data.ProductUpdate.Product.toDomain()
}

func (n productNode) toDomain() (*domain.Product, error) {
	id, err := domain.ParseExternalID(n.ID)
	if err != nil {
		// Bad upstream data is a catalog failure, not a bad id from the merchant
		return nil, &domain.TransportError{
			Op:  "decode product",
			Err: fmt.Errorf("malformed product id %q", n.ID),
		}
	}

	product := &domain.Product{
		ID:              id,
		Title:           n.Title,
		Status:          domain.ProductStatus(n.Status),
		DescriptionHTML: n.DescriptionHTML,
	}
	if n.FeaturedImage != nil {
		product.FeaturedImageURL = n.FeaturedImage.URL
	}

	return product, nil
}

// lastSegment reduces a GraphQL field path such as ["input", "title"] to "title"
func lastSegment(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return path[len(path)-1]
}
