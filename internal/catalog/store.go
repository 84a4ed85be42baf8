package catalog

import "context"

// Store owns every read and write of product data. Implementations keep
// insertion order for List.
type Store interface {
	Ping(ctx context.Context) error
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, bool, error)
	// Insert stores p under a freshly generated id; p.ID is ignored.
	Insert(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id string, patch Patch) (Product, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

func seedProducts() []Product {
	return []Product{
		{
			ID:          "1",
			Name:        "Laptop",
			Description: "High-performance laptop with 16GB RAM",
			Price:       1200,
			Category:    "electronics",
			InStock:     true,
		},
		{
			ID:          "2",
			Name:        "smartphone",
			Description: "latest model with 128GB storage",
			Price:       800,
			Category:    "electronics",
			InStock:     true,
		},
		{
			ID:          "3",
			Name:        "coffee Maker",
			Description: "programmable coffee maker with timer",
			Price:       50,
			Category:    "kitchen",
			InStock:     false,
		},
	}
}
