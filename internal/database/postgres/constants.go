package postgres

// PostgreSQL error codes checked by repositories
const (
	pgUniqueViolation = "23505"
)
