package franchise

import "context"

type FranchiseRepository interface {
	GetByID(ctx context.Context, id string) (Franchise, error)
}
