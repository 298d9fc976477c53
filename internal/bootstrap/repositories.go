package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/replantlab/missiond/internal/database/postgres"
	"github.com/replantlab/missiond/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Catalog     repository.Catalog
	Instance    repository.Instance
	Proof       repository.Proof
	Vote        repository.Vote
	Post        repository.Post
	Profile     repository.Profile
	Progression repository.Progression
	Badge       repository.Badge
	Checklist   repository.Checklist
}

// InitializeRepositories creates all repository implementations against the
// shared connection pool.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Catalog:     postgres.NewCatalogRepository(dbPool),
		Instance:    postgres.NewInstanceRepository(dbPool),
		Proof:       postgres.NewProofRepository(dbPool),
		Vote:        postgres.NewVoteRepository(dbPool),
		Post:        postgres.NewPostRepository(dbPool),
		Profile:     postgres.NewProfileRepository(dbPool),
		Progression: postgres.NewProgressionRepository(dbPool),
		Badge:       postgres.NewBadgeRepository(dbPool),
		Checklist:   postgres.NewChecklistRepository(dbPool),
	}
}
