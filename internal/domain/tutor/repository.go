package tutor

import "context"

type TutorRepository interface {
	GetByID(ctx context.Context, id string) (Tutor, error)
}
