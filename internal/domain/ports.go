package domain

import "context"

// LiveList is a live query result: Updates delivers the full result set on
// subscription and again after every change to the tables the query reads.
// Close cancels the subscription; the channel is closed and no further
// emissions occur.
type LiveList[T any] interface {
	Updates() <-chan []T
	Close()
}

// Repository is the storage gateway for one catalog table. Observe and
// Search results are live; GetByCodigo is a point lookup where absence is
// reported through the bool, not as an error. Delete, Inactivate and
// Reactivate are single-column state transitions, never physical removals.
type Repository[T any] interface {
	ObserveAll(ctx context.Context, sort SortOption) (LiveList[T], error)
	ObserveActive(ctx context.Context) (LiveList[T], error)
	GetByCodigo(ctx context.Context, codigo uint) (T, bool, error)
	Insert(ctx context.Context, value T) (uint, error)
	Update(ctx context.Context, value T) error
	Delete(ctx context.Context, codigo uint) error
	Inactivate(ctx context.Context, codigo uint) error
	Reactivate(ctx context.Context, codigo uint) error
	Search(ctx context.Context, name string, sort SortOption) (LiveList[T], error)
}

type CampusRepository = Repository[Campus]

type FacultyRepository = Repository[Faculty]

type DegreeTypeRepository = Repository[DegreeType]

// ProgramRepository differs from the generic shape: listings and search
// return the denormalized ProgramDetail join rows, while writes and point
// lookups operate on the bare Program row.
type ProgramRepository interface {
	ObserveAll(ctx context.Context, sort SortOption) (LiveList[ProgramDetail], error)
	ObserveActive(ctx context.Context) (LiveList[ProgramDetail], error)
	GetByCodigo(ctx context.Context, codigo uint) (Program, bool, error)
	Insert(ctx context.Context, value Program) (uint, error)
	Update(ctx context.Context, value Program) error
	Delete(ctx context.Context, codigo uint) error
	Inactivate(ctx context.Context, codigo uint) error
	Reactivate(ctx context.Context, codigo uint) error
	Search(ctx context.Context, name string, sort SortOption) (LiveList[ProgramDetail], error)
}
