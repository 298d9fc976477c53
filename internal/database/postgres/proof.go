package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/replantlab/missiond/internal/domain"
)

// ProofRepository implements the verification proof repository for PostgreSQL
type ProofRepository struct {
	db *pgxpool.Pool
}

// NewProofRepository creates a new ProofRepository
func NewProofRepository(db *pgxpool.Pool) *ProofRepository {
	return &ProofRepository{db: db}
}

const proofColumns = `
	id, instance_id, verification_type, verified_at, latitude, longitude,
	distance_meters, started_at, ended_at, elapsed_minutes, post_id,
	approve_count, reject_count, completion_rate
`

func scanProof(row pgx.Row) (*domain.ProofRecord, error) {
	var p domain.ProofRecord
	err := row.Scan(
		&p.ID,
		&p.InstanceID,
		&p.Type,
		&p.VerifiedAt,
		&p.Latitude,
		&p.Longitude,
		&p.DistanceMeters,
		&p.StartedAt,
		&p.EndedAt,
		&p.ElapsedMinutes,
		&p.PostID,
		&p.ApproveCount,
		&p.RejectCount,
		&p.CompletionRate,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a proof record. The unique constraint on instance_id makes
// a second proof for the same instance fail with ErrProofAlreadyExists.
func (r *ProofRepository) Create(ctx context.Context, proof *domain.ProofRecord) (int64, error) {
	query := `
		INSERT INTO verification_proofs
			(instance_id, verification_type, verified_at, latitude, longitude,
			 distance_meters, started_at, ended_at, elapsed_minutes, post_id,
			 completion_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		proof.InstanceID,
		proof.Type,
		proof.VerifiedAt,
		proof.Latitude,
		proof.Longitude,
		proof.DistanceMeters,
		proof.StartedAt,
		proof.EndedAt,
		proof.ElapsedMinutes,
		proof.PostID,
		proof.CompletionRate,
	).Scan(&id)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return 0, fmt.Errorf("%w: instance %d", domain.ErrProofAlreadyExists, proof.InstanceID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to create proof: %w", err)
	}

	proof.ID = id
	return id, nil
}

// GetByID retrieves a proof record by ID
func (r *ProofRepository) GetByID(ctx context.Context, id int64) (*domain.ProofRecord, error) {
	query := `SELECT ` + proofColumns + ` FROM verification_proofs WHERE id = $1`

	proof, err := scanProof(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", domain.ErrProofNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proof: %w", err)
	}

	return proof, nil
}

// GetByPostID resolves the votable proof attached to a community post
func (r *ProofRepository) GetByPostID(ctx context.Context, postID int64) (*domain.ProofRecord, error) {
	query := `SELECT ` + proofColumns + ` FROM verification_proofs WHERE post_id = $1`

	proof, err := scanProof(r.db.QueryRow(ctx, query, postID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: post %d", domain.ErrProofNotFound, postID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proof by post: %w", err)
	}

	return proof, nil
}

// Delete removes a proof record and its votes
func (r *ProofRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM verification_proofs WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete proof: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrProofNotFound, id)
	}
	return nil
}

// VoteRepository implements the community vote repository for PostgreSQL
type VoteRepository struct {
	db *pgxpool.Pool
}

// NewVoteRepository creates a new VoteRepository
func NewVoteRepository(db *pgxpool.Pool) *VoteRepository {
	return &VoteRepository{db: db}
}

// RecordVote inserts the vote and bumps the proof counter in one transaction.
// The unique index on (proof_id, voter_id) turns a repeat vote into
// ErrAlreadyVoted. The returned tally reflects this vote.
func (r *VoteRepository) RecordVote(ctx context.Context, proofID int64, voterID string, approve bool) (domain.VoteTally, error) {
	var tally domain.VoteTally

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return tally, fmt.Errorf("failed to begin vote transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `INSERT INTO verification_votes (proof_id, voter_id, approve) VALUES ($1, $2, $3)`
	if _, err := tx.Exec(ctx, insert, proofID, voterID, approve); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return tally, fmt.Errorf("%w: proof %d", domain.ErrAlreadyVoted, proofID)
		}
		return tally, fmt.Errorf("failed to insert vote: %w", err)
	}

	update := `
		UPDATE verification_proofs
		SET approve_count = approve_count + CASE WHEN $2 THEN 1 ELSE 0 END,
		    reject_count  = reject_count  + CASE WHEN $2 THEN 0 ELSE 1 END
		WHERE id = $1
		RETURNING approve_count, reject_count
	`
	err = tx.QueryRow(ctx, update, proofID, approve).Scan(&tally.ApproveCount, &tally.RejectCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return tally, fmt.Errorf("%w: id %d", domain.ErrProofNotFound, proofID)
	}
	if err != nil {
		return tally, fmt.Errorf("failed to update vote tally: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return tally, fmt.Errorf("failed to commit vote: %w", err)
	}

	return tally, nil
}

// Tally returns the current counts for a proof
func (r *VoteRepository) Tally(ctx context.Context, proofID int64) (domain.VoteTally, error) {
	query := `SELECT approve_count, reject_count FROM verification_proofs WHERE id = $1`

	var tally domain.VoteTally
	err := r.db.QueryRow(ctx, query, proofID).Scan(&tally.ApproveCount, &tally.RejectCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return tally, fmt.Errorf("%w: id %d", domain.ErrProofNotFound, proofID)
	}
	if err != nil {
		return tally, fmt.Errorf("failed to get vote tally: %w", err)
	}

	return tally, nil
}
